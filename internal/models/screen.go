package models

// Screen is the view model a client renders. Exactly one of the per-screen
// payloads is set, matching Name.
type Screen struct {
	Name     string       `json:"screen"`
	Path     string       `json:"path"`
	Title    string       `json:"title"`
	ShowBack bool         `json:"show_back"`
	BackPath string       `json:"back_path,omitempty"`
	Prefs    DisplayPrefs `json:"prefs"`

	DeckManager *DeckManagerView `json:"deck_manager,omitempty"`
	Home        *HomeView        `json:"home,omitempty"`
	Cards       *CardsView       `json:"cards,omitempty"`
	QuizConfig  *QuizConfigView  `json:"quiz_config,omitempty"`
	Quiz        *QuizView        `json:"quiz,omitempty"`
	QuizResults *QuizResultsView `json:"quiz_results,omitempty"`
}

type DeckManagerView struct {
	Decks []DeckSummary `json:"decks"`
}

type ChapterSummary struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
	Path      string `json:"path"`
	QuizPath  string `json:"quiz_path"`
}

type HomeView struct {
	Deck        string           `json:"deck"`
	Chapters    []ChapterSummary `json:"chapters"`
	TotalCards  int              `json:"total_cards"`
	ViewAllPath string           `json:"view_all_path"`
	QuizAllPath string           `json:"quiz_all_path"`
}

type CardItem struct {
	Front        string `json:"front"`
	Back         string `json:"back"`
	ChapterIndex int    `json:"chapter_index"`
	CardIndex    int    `json:"card_index"`
	URL          string `json:"url"`
}

type CardsView struct {
	Scope          Scope      `json:"scope"`
	ChapterTitle   string     `json:"chapter_title"`
	ChapterCount   int        `json:"chapter_count"`
	Total          int        `json:"total"`
	Cards          []CardItem `json:"cards"`
	HasMore        bool       `json:"has_more"`
	ObserverID     string     `json:"observer_id,omitempty"`
	ScrollPosition int        `json:"scroll_position"`
	ScrollTo       *CardRef   `json:"scroll_to,omitempty"`
	QuizPath       string     `json:"quiz_path"`
}

type QuizConfigView struct {
	Scope       Scope  `json:"scope"`
	ScopeTitle  string `json:"scope_title"`
	Available   int    `json:"available"`
	Count       int    `json:"count"`
	Order       string `json:"order"`
	QuickCounts []int  `json:"quick_counts"`
}

type QuizView struct {
	Number   int      `json:"number"`
	Total    int      `json:"total"`
	Progress float64  `json:"progress_percent"`
	Correct  int      `json:"correct"`
	Answered int      `json:"answered"`
	Card     CardItem `json:"card"`
	Revealed bool     `json:"revealed"`
}

type QuizResultsView struct {
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	Incorrect    int     `json:"incorrect"`
	ScorePercent float64 `json:"score_percent"`
	RetryPath    string  `json:"retry_path"`
	HomePath     string  `json:"home_path"`
}
