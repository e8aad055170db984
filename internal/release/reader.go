package release

import (
	"archive/zip"
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Release artifact name patterns. The office ships one symbol list and one
// title archive per release, with the release date embedded in the name
// (e.g. CPCSymbolList202601.zip).
const (
	symbolListGlob = "CPCSymbolList*"
	titleListGlob  = "CPCTitleList*.zip"
)

var (
	ErrSymbolListNotFound = errors.New("symbol list not found (CPCSymbolList*.csv or .zip)")
	ErrTitleListNotFound  = errors.New("title list not found (CPCTitleList*.zip)")
)

// SymbolRow is one raw entry from the symbol list, in file order.
// File order is load-bearing: the list is hierarchically sorted and the
// builder resolves subgroup parentage from positional adjacency.
type SymbolRow struct {
	Symbol         string
	Level          int
	NotAllocatable bool
	AdditionalOnly bool
	Status         string
}

// ReadSymbols reads the symbol list from dir, accepting either a plain CSV
// or a single-entry ZIP containing it. Returns rows preserving file order.
func ReadSymbols(dir string, log *zap.Logger) ([]SymbolRow, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if path, ok := findFirst(dir, symbolListGlob+".csv"); ok {
		log.Info("reading symbol list", zap.String("path", path))
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		return parseSymbolCSV(f, path)
	}

	if path, ok := findFirst(dir, symbolListGlob+".zip"); ok {
		log.Info("extracting symbol list", zap.String("path", path))
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer zr.Close()
		for _, member := range zr.File {
			if !strings.HasSuffix(member.Name, ".csv") {
				continue
			}
			rc, err := member.Open()
			if err != nil {
				return nil, fmt.Errorf("opening %s in %s: %w", member.Name, path, err)
			}
			defer rc.Close()
			return parseSymbolCSV(rc, path+":"+member.Name)
		}
		return nil, fmt.Errorf("%s: no CSV member in archive", path)
	}

	return nil, fmt.Errorf("%s: %w", dir, ErrSymbolListNotFound)
}

// parseSymbolCSV parses the symbol table. The header names the columns;
// flag and status columns are optional and default to FALSE / "published".
func parseSymbolCSV(r io.Reader, name string) ([]SymbolRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	symbolIdx, ok := col["SYMBOL"]
	if !ok {
		return nil, fmt.Errorf("%s: missing SYMBOL column", name)
	}
	levelIdx, ok := col["level"]
	if !ok {
		return nil, fmt.Errorf("%s: missing level column", name)
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []SymbolRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		if symbolIdx >= len(record) || levelIdx >= len(record) {
			continue
		}
		level, err := strconv.Atoi(strings.TrimSpace(record[levelIdx]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid level %q: %w", name, line, record[levelIdx], err)
		}
		status := field(record, "status")
		if status == "" {
			status = "published"
		}
		rows = append(rows, SymbolRow{
			Symbol:         strings.TrimSpace(record[symbolIdx]),
			Level:          level,
			NotAllocatable: field(record, "not-allocatable") == "TRUE",
			AdditionalOnly: field(record, "additional-only") == "TRUE",
			Status:         status,
		})
	}
	return rows, nil
}

var braceNote = regexp.MustCompile(`\{[^}]*\}`)

// NormalizeTitle strips {...} editorial notes and collapses whitespace runs
// to single spaces.
func NormalizeTitle(title string) string {
	title = braceNote.ReplaceAllString(title, "")
	return strings.Join(strings.Fields(title), " ")
}

// ReadTitles reads every .txt member of the title archive. Lines are
// tab-delimited with the symbol in the first field and the title in the
// last; lines with fewer than two fields are skipped.
func ReadTitles(dir string, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	path, ok := findFirst(dir, titleListGlob)
	if !ok {
		return nil, fmt.Errorf("%s: %w", dir, ErrTitleListNotFound)
	}
	log.Info("extracting titles", zap.String("path", path))

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	titles := make(map[string]string)
	for _, member := range zr.File {
		if !strings.HasSuffix(member.Name, ".txt") {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in %s: %w", member.Name, path, err)
		}
		scanner := bufio.NewScanner(rc)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r\n")
			if line == "" {
				continue
			}
			// SYMBOL<tab>LEVEL<tab>TITLE or SYMBOL<tab>TITLE
			parts := strings.Split(line, "\t")
			if len(parts) < 2 {
				continue
			}
			symbol := strings.TrimSpace(parts[0])
			title := NormalizeTitle(parts[len(parts)-1])
			titles[symbol] = title
		}
		if err := scanner.Err(); err != nil {
			rc.Close()
			return nil, fmt.Errorf("reading %s in %s: %w", member.Name, path, err)
		}
		rc.Close()
	}

	log.Info("titles loaded", zap.Int("count", len(titles)))
	return titles, nil
}

// findFirst returns the lexically first match for pattern in dir.
func findFirst(dir, pattern string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}
