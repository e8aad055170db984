package bq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"patstat/cpctree/internal/config"
	"patstat/cpctree/internal/db"
)

// Exporter loads the hierarchy into a BigQuery reference table. Every load
// replaces the whole table: releases are infrequent and total, so there is
// never an incremental merge.
type Exporter struct {
	target *config.Target
	log    *zap.Logger
}

// New returns an Exporter for the given target.
func New(target *config.Target, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{target: target, log: log}
}

// Schema is the warehouse-side column set.
func Schema() bigquery.Schema {
	return bigquery.Schema{
		{Name: "symbol", Type: bigquery.StringFieldType, Required: true},
		{Name: "symbol_short", Type: bigquery.StringFieldType},
		{Name: "symbol_external", Type: bigquery.StringFieldType},
		{Name: "kind", Type: bigquery.StringFieldType, Required: true},
		{Name: "level", Type: bigquery.IntegerFieldType, Required: true},
		{Name: "parent", Type: bigquery.StringFieldType, Required: true},
		{Name: "parent_short", Type: bigquery.StringFieldType},
		{Name: "title_en", Type: bigquery.StringFieldType},
		{Name: "title_full", Type: bigquery.StringFieldType},
		{Name: "not_allocatable", Type: bigquery.BooleanFieldType},
		{Name: "additional_only", Type: bigquery.BooleanFieldType},
		{Name: "status", Type: bigquery.StringFieldType},
	}
}

// rowsJSON renders entries as newline-delimited JSON matching Schema.
// The root row is excluded: the warehouse table only carries real symbols.
func rowsJSON(entries []db.Entry, rootSymbol string) ([]byte, int, error) {
	var buf bytes.Buffer
	count := 0
	enc := json.NewEncoder(&buf)
	for _, e := range entries {
		if e.Symbol == rootSymbol {
			continue
		}
		if err := enc.Encode(e); err != nil {
			return nil, 0, fmt.Errorf("encoding %s: %w", e.Symbol, err)
		}
		count++
	}
	return buf.Bytes(), count, nil
}

// DryRun reports what a publish would do without creating a client or
// touching the network: the row count and a small sample.
func (e *Exporter) DryRun(w io.Writer, entries []db.Entry, rootSymbol string) error {
	_, count, err := rowsJSON(entries, rootSymbol)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "[DRY RUN] Would load %d rows into %s\n", count, e.target.TableID())
	fmt.Fprintln(w, "\nSample rows:")
	shown := 0
	for _, entry := range entries {
		if entry.Symbol == rootSymbol {
			continue
		}
		title := entry.TitleEN
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(w, "  %s: %s\n", entry.SymbolShort, truncate(title, 60))
		if entry.TitleFull != "" && entry.TitleFull != entry.TitleEN {
			fmt.Fprintf(w, "    title_full: %s\n", truncate(entry.TitleFull, 80))
		}
		shown++
		if shown >= 3 {
			break
		}
	}
	return nil
}

// Publish bulk-loads the entries into the target table, replacing its
// previous contents. The load only commits on full success, so a failed
// job leaves the previous table visible.
func (e *Exporter) Publish(ctx context.Context, entries []db.Entry, rootSymbol string) (int64, error) {
	data, count, err := rowsJSON(entries, rootSymbol)
	if err != nil {
		return 0, err
	}

	opts, err := credentialOptions(e.target)
	if err != nil {
		return 0, err
	}
	client, err := bigquery.NewClient(ctx, e.target.Project, opts...)
	if err != nil {
		return 0, fmt.Errorf("creating BigQuery client: %w", err)
	}
	defer client.Close()

	src := bigquery.NewReaderSource(bytes.NewReader(data))
	src.SourceFormat = bigquery.JSON
	src.Schema = Schema()

	loader := client.Dataset(e.target.Dataset).Table(e.target.Table).LoaderFrom(src)
	loader.WriteDisposition = bigquery.WriteTruncate

	e.log.Info("starting load job",
		zap.String("table", e.target.TableID()),
		zap.Int("rows", count))

	job, err := loader.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting load job for %s: %w", e.target.TableID(), err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("waiting for load job: %w", err)
	}
	if err := status.Err(); err != nil {
		return 0, fmt.Errorf("load job for %s failed: %w", e.target.TableID(), err)
	}

	e.log.Info("load job complete", zap.String("table", e.target.TableID()), zap.Int("rows", count))
	return int64(count), nil
}

// ValidationQueries returns queries an operator can run against the target
// after a publish to spot-check the load.
func (e *Exporter) ValidationQueries() []string {
	id := e.target.TableID()
	return []string{
		fmt.Sprintf("SELECT COUNT(*) AS cnt FROM `%s`", id),
		fmt.Sprintf("SELECT level, COUNT(*) AS cnt FROM `%s` GROUP BY level ORDER BY level", id),
		fmt.Sprintf("SELECT symbol_short, title_en, title_full FROM `%s` WHERE symbol_short LIKE 'Y02E%%' AND level = 8 LIMIT 5", id),
	}
}

// credentialOptions resolves client options from the environment: inline
// service-account JSON or a credentials file path. With neither set the
// client falls back to application-default credentials.
func credentialOptions(target *config.Target) ([]option.ClientOption, error) {
	if target.CredentialsEnv != "" {
		creds := strings.TrimSpace(os.Getenv(target.CredentialsEnv))
		if creds == "" {
			return nil, fmt.Errorf("credentials variable %s is empty", target.CredentialsEnv)
		}
		return optionsFor(creds), nil
	}

	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil, nil
	}
	return optionsFor(creds), nil
}

func optionsFor(creds string) []option.ClientOption {
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	truncated := s[:max]
	for len(truncated) > 0 && truncated[len(truncated)-1]>>6 == 2 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}
