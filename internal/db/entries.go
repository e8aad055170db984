package db

const entryColumns = `symbol, symbol_short, symbol_external, kind, parent, parent_short,
	       level, title_en, title_full, not_allocatable, additional_only, status`

// scanEntry scans a row into an Entry. The row must have all 12 columns in standard order.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var e Entry
	err := scanner.Scan(
		&e.Symbol, &e.SymbolShort, &e.SymbolExternal, &e.Kind, &e.Parent, &e.ParentShort,
		&e.Level, &e.TitleEN, &e.TitleFull, &e.NotAllocatable, &e.AdditionalOnly, &e.Status,
	)
	return e, err
}

// AllEntries returns every entry ordered by symbol for deterministic output
func (d *DB) AllEntries() ([]Entry, error) {
	rows, err := d.conn.Query(`
		SELECT ` + entryColumns + `
		FROM cpc ORDER BY symbol
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetEntry returns a single entry by zero-padded symbol
func (d *DB) GetEntry(symbol string) (*Entry, error) {
	row := d.conn.QueryRow(`
		SELECT `+entryColumns+`
		FROM cpc WHERE symbol = ?
	`, symbol)

	e, err := scanEntry(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ChildrenOf returns the direct children of the given symbol, ordered by symbol
func (d *DB) ChildrenOf(symbol string) ([]Entry, error) {
	rows, err := d.conn.Query(`
		SELECT `+entryColumns+`
		FROM cpc WHERE parent = ? ORDER BY symbol
	`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of entries
func (d *DB) Count() (int, error) {
	var n int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM cpc").Scan(&n)
	return n, err
}

// CountTitled returns the number of entries with a non-empty title
func (d *DB) CountTitled() (int, error) {
	var n int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM cpc WHERE title_en != ''").Scan(&n)
	return n, err
}

// LevelDistribution returns entry counts per level, ascending
func (d *DB) LevelDistribution() ([]LevelCount, error) {
	rows, err := d.conn.Query("SELECT level, COUNT(*) FROM cpc GROUP BY level ORDER BY level")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dist []LevelCount
	for rows.Next() {
		var lc LevelCount
		if err := rows.Scan(&lc.Level, &lc.Count); err != nil {
			return nil, err
		}
		dist = append(dist, lc)
	}
	return dist, rows.Err()
}
