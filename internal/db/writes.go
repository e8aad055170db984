package db

import (
	"fmt"

	"go.uber.org/zap"
	"patstat/cpctree/internal/hierarchy"
)

// DefaultBatchSize is the number of rows per insert transaction.
// Chunking bounds transaction size; the final table is identical either way.
const DefaultBatchSize = 10000

const createStaging = `
	CREATE TABLE cpc_staging (
		symbol TEXT PRIMARY KEY,
		symbol_short TEXT NOT NULL,
		symbol_external TEXT,
		kind TEXT NOT NULL,
		parent TEXT NOT NULL,
		parent_short TEXT,
		level INTEGER NOT NULL,
		title_en TEXT NOT NULL DEFAULT '',
		title_full TEXT NOT NULL DEFAULT '',
		not_allocatable INTEGER NOT NULL DEFAULT 0,
		additional_only INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'published'
	)`

const insertEntry = `
	INSERT INTO cpc_staging
	(symbol, symbol_short, symbol_external, kind, parent, parent_short,
	 level, title_en, title_full, not_allocatable, additional_only, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ReplaceHierarchy replaces the cpc table with the given node set. Rows are
// bulk-inserted into a staging table in batches; the staging table is then
// swapped in and indexed inside a single transaction, so a failed load
// leaves any previous cpc table untouched.
func (d *DB) ReplaceHierarchy(nodes []*hierarchy.Node, batchSize int, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if _, err := d.conn.Exec("DROP TABLE IF EXISTS cpc_staging"); err != nil {
		return fmt.Errorf("dropping stale staging table: %w", err)
	}
	if _, err := d.conn.Exec(createStaging); err != nil {
		return fmt.Errorf("creating staging table: %w", err)
	}

	inserted := 0
	for start := 0; start < len(nodes); start += batchSize {
		end := start + batchSize
		if end > len(nodes) {
			end = len(nodes)
		}
		if err := d.insertBatch(nodes[start:end]); err != nil {
			return err
		}
		inserted = end
		log.Info("inserted batch", zap.Int("rows", inserted), zap.Int("total", len(nodes)))
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning swap transaction: %w", err)
	}
	defer tx.Rollback()

	swap := []string{
		"DROP TABLE IF EXISTS cpc",
		"ALTER TABLE cpc_staging RENAME TO cpc",
		"CREATE INDEX idx_cpc_level ON cpc(level)",
		"CREATE INDEX idx_cpc_parent ON cpc(parent)",
		"CREATE INDEX idx_cpc_kind ON cpc(kind)",
		"CREATE INDEX idx_cpc_symbol_short ON cpc(symbol_short)",
		"CREATE INDEX idx_cpc_symbol_external ON cpc(symbol_external)",
	}
	for _, stmt := range swap {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("swapping in new table (%s): %w", stmt, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing swap: %w", err)
	}

	log.Info("hierarchy table replaced", zap.Int("rows", inserted), zap.String("path", d.Path))
	return nil
}

func (d *DB) insertBatch(nodes []*hierarchy.Node) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertEntry)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		var external any
		if n.SymbolExternal != "" {
			external = n.SymbolExternal
		}
		var parentShort any
		if n.ParentShort != "" {
			parentShort = n.ParentShort
		}
		_, err := stmt.Exec(
			n.Symbol, n.SymbolShort, external, string(n.Kind), n.Parent, parentShort,
			n.Level, n.TitleEN, n.TitleFull, boolToInt(n.NotAllocatable),
			boolToInt(n.AdditionalOnly), n.Status,
		)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", n.Symbol, err)
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
