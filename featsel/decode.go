// Package featsel adapts feature-set scorers to instance-oriented
// optimizers.
package featsel

import "github.com/snow-ghost/featsel/core"

// Decode returns the indices of the fields of inst whose bit is set, in
// field order. inst must have been built for layout.
func Decode(layout core.FieldLayout, inst *core.Instance) core.FeatureSet {
	var fs core.FeatureSet
	i := 0
	for bit := range layout.Bits(inst) {
		if bit {
			fs = append(fs, i)
		}
		i++
	}
	return fs
}
