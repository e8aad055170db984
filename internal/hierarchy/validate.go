package hierarchy

import "fmt"

// Validate checks the structural invariants of the finished tree: every
// non-root node has a parent that exists at a strictly shallower level,
// and following parent links from any node reaches the root in a bounded
// number of steps.
func (t *Tree) Validate() error {
	root := t.bySymbol[RootSymbol]
	if root == nil {
		return fmt.Errorf("missing root node %s", RootSymbol)
	}

	for _, n := range t.Nodes {
		if n.Symbol == RootSymbol {
			continue
		}
		parent := t.bySymbol[n.Parent]
		if parent == nil {
			return fmt.Errorf("node %s: parent %s does not exist", n.Symbol, n.Parent)
		}
		if parent.Level >= n.Level {
			return fmt.Errorf("node %s (level %d): parent %s is not shallower (level %d)",
				n.Symbol, n.Level, parent.Symbol, parent.Level)
		}

		current := n
		steps := 0
		for current.Symbol != RootSymbol {
			current = t.bySymbol[current.Parent]
			if current == nil {
				return fmt.Errorf("node %s: parent chain leaves the tree", n.Symbol)
			}
			steps++
			if steps > maxAscent {
				return fmt.Errorf("node %s: parent chain does not terminate (cycle?)", n.Symbol)
			}
		}
	}
	return nil
}
