package models

// Font size bounds for the two card sides, in px.
const (
	FrontFontDefault = 14
	FrontFontMin     = 8
	FrontFontMax     = 72
	FrontFontStep    = 1

	BackFontDefault = 28
	BackFontMin     = 12
	BackFontMax     = 120
	BackFontStep    = 2
)

type DisplayPrefs struct {
	FrontFontSize int `json:"front_font_size"`
	BackFontSize  int `json:"back_font_size"`
}

func DefaultDisplayPrefs() DisplayPrefs {
	return DisplayPrefs{FrontFontSize: FrontFontDefault, BackFontSize: BackFontDefault}
}

// Normalize clamps both sizes into range and snaps them onto their step
// grid. Zero values fall back to the defaults.
func (p DisplayPrefs) Normalize() DisplayPrefs {
	return DisplayPrefs{
		FrontFontSize: snapFont(p.FrontFontSize, FrontFontDefault, FrontFontMin, FrontFontMax, FrontFontStep),
		BackFontSize:  snapFont(p.BackFontSize, BackFontDefault, BackFontMin, BackFontMax, BackFontStep),
	}
}

func snapFont(v, def, lo, hi, step int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return lo + (v-lo)/step*step
}
