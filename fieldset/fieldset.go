// Package fieldset provides a boolean field layout over bit-vector instances.
package fieldset

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/snow-ghost/featsel/core"
)

var (
	ErrInvalidWidth      = errors.New("fieldset: width must be non-negative")
	ErrIndexOutOfRange   = errors.New("fieldset: field index out of range")
	ErrMalformedInstance = errors.New("fieldset: malformed instance")
)

// Layout is a sequence of boolean fields, one bit each.
type Layout struct {
	width int
}

var _ core.FieldLayout = (*Layout)(nil)

func New(width int) (*Layout, error) {
	if width < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	return &Layout{width: width}, nil
}

func (l *Layout) FieldCount() int { return l.width }

// NewInstance returns an all-false instance of the layout's width.
func (l *Layout) NewInstance() *core.Instance {
	return bitset.New(uint(l.width))
}

// Compatible reports whether inst was built for this layout.
func (l *Layout) Compatible(inst *core.Instance) bool {
	return inst != nil && inst.Len() == uint(l.width)
}

// FromFeatureSet builds the instance whose true bits are exactly fs.
func (l *Layout) FromFeatureSet(fs core.FeatureSet) (*core.Instance, error) {
	inst := l.NewInstance()
	for _, f := range fs {
		if f < 0 || f >= l.width {
			return nil, fmt.Errorf("%w: %d (width %d)", ErrIndexOutOfRange, f, l.width)
		}
		inst.Set(uint(f))
	}
	return inst, nil
}

// Parse reads an instance from a string of '0' and '1' characters, one per
// field, field 0 first. Underscores and spaces are ignored.
func (l *Layout) Parse(s string) (*core.Instance, error) {
	inst := l.NewInstance()
	i := 0
	for _, r := range s {
		switch r {
		case '_', ' ':
			continue
		case '0', '1':
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedInstance, r, s)
		}
		if i >= l.width {
			return nil, fmt.Errorf("%w: %q has more than %d fields", ErrMalformedInstance, s, l.width)
		}
		if r == '1' {
			inst.Set(uint(i))
		}
		i++
	}
	if i != l.width {
		return nil, fmt.Errorf("%w: %q has %d fields, want %d", ErrMalformedInstance, s, i, l.width)
	}
	return inst, nil
}

func (l *Layout) Bits(inst *core.Instance) iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for i := 0; i < l.width; i++ {
			if !yield(inst.Test(uint(i))) {
				return
			}
		}
	}
}

// Stream renders inst as its bit string in field order, e.g. "[1010]".
func (l *Layout) Stream(inst *core.Instance) string {
	var b strings.Builder
	b.Grow(l.width + 2)
	b.WriteByte('[')
	for bit := range l.Bits(inst) {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteByte(']')
	return b.String()
}
