package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Scope selects either the whole deck or a single chapter by index.
type Scope int

// ScopeAll covers every chapter of the deck.
const ScopeAll Scope = -1

func ChapterScope(index int) Scope { return Scope(index) }

func (s Scope) IsAll() bool { return s < 0 }

// Chapter returns the chapter index, or false for ScopeAll.
func (s Scope) Chapter() (int, bool) {
	if s.IsAll() {
		return 0, false
	}
	return int(s), true
}

// ChapterPtr is the form expected by Deck.Refs.
func (s Scope) ChapterPtr() *int {
	if i, ok := s.Chapter(); ok {
		return &i
	}
	return nil
}

func (s Scope) String() string {
	if s.IsAll() {
		return "all"
	}
	return strconv.Itoa(int(s))
}

func (s Scope) MarshalJSON() ([]byte, error) {
	if s.IsAll() {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(int(s))), nil
}

func (s *Scope) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		if v == "all" {
			*s = ScopeAll
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid scope %q", v)
		}
		*s = Scope(n)
	case float64:
		if v < 0 || v != float64(int(v)) {
			return fmt.Errorf("invalid scope %v", v)
		}
		*s = Scope(int(v))
	default:
		return fmt.Errorf("invalid scope %s", string(data))
	}
	return nil
}
