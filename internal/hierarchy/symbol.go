package hierarchy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind classifies a node by its depth role. The one-character codes match
// the office's own convention: r=root, s=section, c=class, u=subclass,
// m=main group, "1".."9"=subgroup nesting depth.
type Kind string

const (
	KindRoot      Kind = "r"
	KindSection   Kind = "s"
	KindClass     Kind = "c"
	KindSubclass  Kind = "u"
	KindMainGroup Kind = "m"
)

// Hierarchy levels as used by the symbol list. Levels 1, 3 and 6 do not
// occur in release data.
const (
	LevelRoot      = 1
	LevelSection   = 2
	LevelClass     = 4
	LevelSubclass  = 5
	LevelMainGroup = 7
)

// maxSubgroupDepth caps the numeric kind tag for very deep nesting.
const maxSubgroupDepth = 9

// KindForLevel maps a level to its Kind. Levels outside the known brackets
// (2, 4, 5, 7, >7) cannot be classified and fail the build: a misassigned
// kind corrupts the tree for every descendant.
func KindForLevel(level int) (Kind, error) {
	switch level {
	case LevelSection:
		return KindSection, nil
	case LevelClass:
		return KindClass, nil
	case LevelSubclass:
		return KindSubclass, nil
	case LevelMainGroup:
		return KindMainGroup, nil
	}
	if level > LevelMainGroup {
		depth := level - LevelMainGroup
		if depth > maxSubgroupDepth {
			depth = maxSubgroupDepth
		}
		return Kind(strconv.Itoa(depth)), nil
	}
	return "", fmt.Errorf("level %d matches no hierarchy bracket", level)
}

// ShortSymbol strips all whitespace from a symbol.
// "A01B   1/02" -> "A01B1/02".
func ShortSymbol(symbol string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, symbol)
}

// ZeroPad converts any symbol representation to the fixed-width canonical
// key: 4-char subclass + group left-padded to 4 + subgroup right-padded
// to 6. Symbols without a group separator (sections, classes, subclasses)
// are returned in short form unchanged.
// "A01B   1/02" -> "A01B0001020000", "A01B" -> "A01B".
func ZeroPad(symbol string) string {
	short := ShortSymbol(symbol)
	slash := strings.IndexByte(short, '/')
	if slash < 0 {
		return short
	}
	cut := slash
	if cut > 4 {
		cut = 4
	}
	subclass := short[:cut]
	group := short[cut:slash]
	subgroup := short[slash+1:]
	return subclass + leftPadZero(group, 4) + rightPadZero(subgroup, 6)
}

func leftPadZero(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func rightPadZero(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat("0", width-len(s))
}
