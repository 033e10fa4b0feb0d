package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Instance is a fixed-width bit vector encoding one point of the search
// space. Instances are owned by the optimizer and only read here.
type Instance = bitset.BitSet

// FeatureSet holds feature indices in strictly ascending order.
type FeatureSet []int

func (fs FeatureSet) Len() int { return len(fs) }

// Contains reports whether feature i is selected.
func (fs FeatureSet) Contains(i int) bool {
	_, ok := slices.BinarySearch(fs, i)
	return ok
}

func (fs FeatureSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(f))
	}
	b.WriteByte('}')
	return b.String()
}

// CompositeScore pairs a raw score with the complexity of the candidate
// that produced it.
type CompositeScore[S any] struct {
	Score      S
	Complexity int
}

func (c CompositeScore[S]) String() string {
	return fmt.Sprintf("[score=%v, complexity=%d]", c.Score, c.Complexity)
}

// Level is a logging verbosity. Higher values are more verbose.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelFine
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelFine:
		return "fine"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}
