package db

// Entry represents a row in the cpc table
type Entry struct {
	Symbol         string  `json:"symbol"`          // zero-padded, primary key
	SymbolShort    string  `json:"symbol_short"`    // no padding/whitespace
	SymbolExternal *string `json:"symbol_external"` // office slash form, nil for structural nodes
	Kind           string  `json:"kind"`            // r, s, c, u, m, or subgroup depth 1-9
	Parent         string  `json:"parent"`          // zero-padded parent symbol
	ParentShort    *string `json:"parent_short"`
	Level          int     `json:"level"`
	TitleEN        string  `json:"title_en"`
	TitleFull      string  `json:"title_full"`
	NotAllocatable bool    `json:"not_allocatable"`
	AdditionalOnly bool    `json:"additional_only"`
	Status         string  `json:"status"`
}

// LevelCount is one bucket of the level distribution
type LevelCount struct {
	Level int `json:"level"`
	Count int `json:"count"`
}
