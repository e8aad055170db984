package hierarchy

import "strings"

// TitleFloorLevel is the default floor for breadcrumb composition: the
// ascent stops once it reaches a node shallower than the main-group level.
const TitleFloorLevel = LevelMainGroup

// TitleSeparator joins breadcrumb segments, outer to inner.
const TitleSeparator = " > "

// maxAscent bounds parent walks. The hierarchy is at most a dozen levels
// deep; a longer walk means a cyclic parent pointer from a builder defect.
const maxAscent = 32

// FullTitle composes the breadcrumb title for the node with the given
// zero-padded symbol: non-empty titles from the node up to (but excluding)
// nodes shallower than floor, reversed so the result reads outer > inner.
// A node with no qualifying ancestors falls back to its own title.
func (t *Tree) FullTitle(symbol string, floor int) string {
	var chain []string
	current := symbol
	for steps := 0; steps < maxAscent; steps++ {
		n := t.bySymbol[current]
		if n == nil || n.Level < floor {
			break
		}
		if n.TitleEN != "" {
			chain = append(chain, n.TitleEN)
		}
		current = n.Parent
	}

	if len(chain) == 0 {
		if n := t.bySymbol[symbol]; n != nil {
			return n.TitleEN
		}
		return ""
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return strings.Join(chain, TitleSeparator)
}

// ComposeTitles fills TitleFull for every node using the given floor level.
func (t *Tree) ComposeTitles(floor int) {
	for _, n := range t.Nodes {
		n.TitleFull = t.FullTitle(n.Symbol, floor)
	}
}
