package db

import (
	"path/filepath"
	"reflect"
	"testing"

	"patstat/cpctree/internal/hierarchy"
	"patstat/cpctree/internal/release"
)

func testTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	rows := []release.SymbolRow{
		{Symbol: "A", Level: 2, Status: "published"},
		{Symbol: "A01", Level: 4, Status: "published"},
		{Symbol: "A01B", Level: 5, Status: "published"},
		{Symbol: "A01B   1/00", Level: 7, Status: "published"},
		{Symbol: "A01B   1/02", Level: 8, AdditionalOnly: true, Status: "published"},
	}
	titles := map[string]string{
		"A":        "HUMAN NECESSITIES",
		"A01B":     "Soil working in agriculture",
		"A01B1/00": "Hand tools",
		"A01B1/02": "Spades; Shovels",
	}
	tree, err := hierarchy.Build(rows, titles, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	tree.ComposeTitles(hierarchy.TitleFloorLevel)
	return tree
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "cpc-test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestReplaceHierarchy_RoundTrip(t *testing.T) {
	tree := testTree(t)
	d := openTestDB(t)

	if err := d.ReplaceHierarchy(tree.Nodes, 0, nil); err != nil {
		t.Fatalf("ReplaceHierarchy failed: %v", err)
	}

	total, err := d.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 6 {
		t.Errorf("expected 6 rows, got %d", total)
	}

	e, err := d.GetEntry("A01B0001020000")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if e.Parent != "A01B0001000000" {
		t.Errorf("parent = %q, want A01B0001000000", e.Parent)
	}
	if e.SymbolExternal == nil || *e.SymbolExternal != "A01B   1/02" {
		t.Errorf("symbol_external = %v, want the office form", e.SymbolExternal)
	}
	if !e.AdditionalOnly || e.NotAllocatable {
		t.Errorf("flags not persisted: %+v", e)
	}
	if e.TitleFull != "Hand tools > Spades; Shovels" {
		t.Errorf("title_full = %q", e.TitleFull)
	}

	section, err := d.GetEntry("A")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if section.SymbolExternal != nil {
		t.Errorf("structural node should have NULL symbol_external, got %v", *section.SymbolExternal)
	}
}

func TestReplaceHierarchy_SmallBatches(t *testing.T) {
	// Chunking is a performance detail: batch size must not change the table.
	tree := testTree(t)
	one := openTestDB(t)
	two := openTestDB(t)

	if err := one.ReplaceHierarchy(tree.Nodes, 2, nil); err != nil {
		t.Fatalf("ReplaceHierarchy (batch=2) failed: %v", err)
	}
	if err := two.ReplaceHierarchy(tree.Nodes, 100, nil); err != nil {
		t.Fatalf("ReplaceHierarchy (batch=100) failed: %v", err)
	}

	a, err := one.AllEntries()
	if err != nil {
		t.Fatalf("AllEntries failed: %v", err)
	}
	b, err := two.AllEntries()
	if err != nil {
		t.Fatalf("AllEntries failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("batch size changed the final table")
	}
}

func TestReplaceHierarchy_Rebuild(t *testing.T) {
	// A second run on the same database replaces the table wholesale.
	tree := testTree(t)
	d := openTestDB(t)

	if err := d.ReplaceHierarchy(tree.Nodes, 0, nil); err != nil {
		t.Fatalf("first ReplaceHierarchy failed: %v", err)
	}
	first, err := d.AllEntries()
	if err != nil {
		t.Fatalf("AllEntries failed: %v", err)
	}

	if err := d.ReplaceHierarchy(tree.Nodes, 0, nil); err != nil {
		t.Fatalf("second ReplaceHierarchy failed: %v", err)
	}
	second, err := d.AllEntries()
	if err != nil {
		t.Fatalf("AllEntries failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("rebuild on unchanged input should be byte-for-byte identical")
	}
}

func TestAllEntries_Ordered(t *testing.T) {
	tree := testTree(t)
	d := openTestDB(t)
	if err := d.ReplaceHierarchy(tree.Nodes, 0, nil); err != nil {
		t.Fatalf("ReplaceHierarchy failed: %v", err)
	}

	entries, err := d.AllEntries()
	if err != nil {
		t.Fatalf("AllEntries failed: %v", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Symbol >= entries[i].Symbol {
			t.Errorf("entries not ordered: %q before %q", entries[i-1].Symbol, entries[i].Symbol)
		}
	}
}

func TestChildrenOf(t *testing.T) {
	tree := testTree(t)
	d := openTestDB(t)
	if err := d.ReplaceHierarchy(tree.Nodes, 0, nil); err != nil {
		t.Fatalf("ReplaceHierarchy failed: %v", err)
	}

	kids, err := d.ChildrenOf(hierarchy.RootSymbol)
	if err != nil {
		t.Fatalf("ChildrenOf failed: %v", err)
	}
	if len(kids) != 1 || kids[0].Symbol != "A" {
		t.Errorf("root children = %+v, want [A]", kids)
	}

	kids, err = d.ChildrenOf("A01B0001000000")
	if err != nil {
		t.Fatalf("ChildrenOf failed: %v", err)
	}
	if len(kids) != 1 || kids[0].Symbol != "A01B0001020000" {
		t.Errorf("main group children = %+v", kids)
	}
}

func TestLevelDistribution(t *testing.T) {
	tree := testTree(t)
	d := openTestDB(t)
	if err := d.ReplaceHierarchy(tree.Nodes, 0, nil); err != nil {
		t.Fatalf("ReplaceHierarchy failed: %v", err)
	}

	dist, err := d.LevelDistribution()
	if err != nil {
		t.Fatalf("LevelDistribution failed: %v", err)
	}
	want := map[int]int{1: 1, 2: 1, 4: 1, 5: 1, 7: 1, 8: 1}
	if len(dist) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(dist))
	}
	for _, lc := range dist {
		if want[lc.Level] != lc.Count {
			t.Errorf("level %d: count %d, want %d", lc.Level, lc.Count, want[lc.Level])
		}
	}
}

func TestCountTitled(t *testing.T) {
	tree := testTree(t)
	d := openTestDB(t)
	if err := d.ReplaceHierarchy(tree.Nodes, 0, nil); err != nil {
		t.Fatalf("ReplaceHierarchy failed: %v", err)
	}

	titled, err := d.CountTitled()
	if err != nil {
		t.Fatalf("CountTitled failed: %v", err)
	}
	// Root + 4 titled symbols; A01 has no title.
	if titled != 5 {
		t.Errorf("expected 5 titled rows, got %d", titled)
	}
}
