package hierarchy

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"patstat/cpctree/internal/release"
)

// RootSymbol is the reserved key of the synthetic root node. Its parent is
// the empty string sentinel; nothing ever looks the root's parent up.
const RootSymbol = "CPC"

// RootTitle is the root node's English title.
const RootTitle = "Cooperative Patent Classification"

// Node is one entry of the finished hierarchy.
type Node struct {
	Symbol         string // zero-padded canonical key, primary key
	SymbolShort    string // compact form, no whitespace
	SymbolExternal string // office slash-delimited form; "" for structural nodes
	Kind           Kind
	Parent         string // zero-padded key of the immediate ancestor; "" for root
	ParentShort    string
	Level          int
	TitleEN        string
	TitleFull      string // composed breadcrumb, set by ComposeTitles
	NotAllocatable bool
	AdditionalOnly bool
	Status         string
}

// Tree is the finished node set with a by-symbol index.
type Tree struct {
	Nodes    []*Node
	bySymbol map[string]*Node
}

// Lookup returns the node with the given zero-padded symbol, or nil.
func (t *Tree) Lookup(symbol string) *Node {
	return t.bySymbol[symbol]
}

// builder carries the single-pass state: the last symbol seen at each
// level, plus the accumulating tree. Created fresh per Build call.
type builder struct {
	lastAtLevel map[int]string // raw office symbol per level
	tree        *Tree
	log         *zap.Logger
}

// Build walks the ordered symbol stream once and produces one node per row
// plus the synthetic root, resolving each row's parent from level-based
// rules. The input must be in hierarchical sort order; subgroup parentage
// has no structural formula and is resolved from positional adjacency.
func Build(rows []release.SymbolRow, titles map[string]string, log *zap.Logger) (*Tree, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{
		lastAtLevel: make(map[int]string),
		tree: &Tree{
			Nodes:    make([]*Node, 0, len(rows)+1),
			bySymbol: make(map[string]*Node, len(rows)+1),
		},
		log: log,
	}

	b.insert(&Node{
		Symbol:      RootSymbol,
		SymbolShort: RootSymbol,
		Kind:        KindRoot,
		Parent:      "",
		Level:       LevelRoot,
		TitleEN:     RootTitle,
		Status:      "published",
	})

	for i, row := range rows {
		if err := b.addRow(i+1, row, titles); err != nil {
			return nil, err
		}
	}

	log.Info("hierarchy built", zap.Int("nodes", len(b.tree.Nodes)))
	return b.tree, nil
}

func (b *builder) addRow(rowNum int, row release.SymbolRow, titles map[string]string) error {
	symbol := strings.TrimSpace(row.Symbol)
	short := ShortSymbol(symbol)
	zp := ZeroPad(symbol)

	kind, err := KindForLevel(row.Level)
	if err != nil {
		return fmt.Errorf("row %d (%s): %w", rowNum, short, err)
	}

	var parentZP, parentShort string
	switch row.Level {
	case LevelSection:
		parentZP, parentShort = RootSymbol, RootSymbol
	case LevelClass:
		parentShort = prefix(short, 1)
		parentZP = parentShort
	case LevelSubclass:
		parentShort = prefix(short, 3)
		parentZP = parentShort
	case LevelMainGroup:
		parentShort = prefix(short, 4)
		parentZP = parentShort
	default:
		// Subgroup: the parent is whatever was last seen one level up.
		// Falls back to the subclass prefix when no such row exists.
		raw, ok := b.lastAtLevel[row.Level-1]
		if !ok {
			raw = prefix(short, 4)
		}
		parentShort = ShortSymbol(raw)
		parentZP = ZeroPad(raw)
	}

	// Ancestors precede descendants in a sorted release; a missing parent
	// means the ordering precondition is broken.
	if b.tree.bySymbol[parentZP] == nil {
		return fmt.Errorf("row %d: symbol %s (level %d) precedes its parent %s: input not in hierarchical order",
			rowNum, short, row.Level, parentZP)
	}
	if b.tree.bySymbol[zp] != nil {
		return fmt.Errorf("row %d: duplicate symbol %s", rowNum, zp)
	}

	b.lastAtLevel[row.Level] = symbol

	title, ok := titles[short]
	if !ok {
		title = titles[symbol]
	}

	external := ""
	if strings.Contains(symbol, "/") {
		external = symbol
	}

	b.insert(&Node{
		Symbol:         zp,
		SymbolShort:    short,
		SymbolExternal: external,
		Kind:           kind,
		Parent:         parentZP,
		ParentShort:    parentShort,
		Level:          row.Level,
		TitleEN:        title,
		NotAllocatable: row.NotAllocatable,
		AdditionalOnly: row.AdditionalOnly,
		Status:         row.Status,
	})
	return nil
}

func (b *builder) insert(n *Node) {
	b.tree.Nodes = append(b.tree.Nodes, n)
	b.tree.bySymbol[n.Symbol] = n
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
