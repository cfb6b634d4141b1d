package field

import (
	"math"
	"testing"

	"github.com/notargets/gridfield/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadialProfiles(t *testing.T) {
	// 11 interior x points so GlobalX steps by 0.1
	m := mesh.NewLocal(11, 2, 2, 1, 1)
	f2 := NewField2DValue(m, 1)
	f3 := NewField3DValue(m, 2)
	inner, outer := m.MXG, m.MXG+m.MXSUB-1
	require.InDelta(t, 0.0, m.GlobalX(inner), 1e-15)
	require.InDelta(t, 1.0, m.GlobalX(outer), 1e-15)

	t.Run("tanh source", func(t *testing.T) {
		s := SourceTanhX(f2, 0.1, 0.3)
		assert.InDelta(t, 0.5*(1-math.Tanh(-3)), s.At(inner, 1), 1e-12)
		assert.InDelta(t, 0.5, s.At(inner+3, 0), 1e-12)
		assert.Less(t, s.At(outer, 0), 1e-3)
	})

	t.Run("gaussian source", func(t *testing.T) {
		s := SourceExpX2(f2, 0.2, 0)
		assert.InDelta(t, 1.0, s.At(inner, 0), 1e-15)
		assert.InDelta(t, math.Exp(-0.25), s.At(inner+1, 0), 1e-12)
	})

	t.Run("sinks scale the field", func(t *testing.T) {
		r := SinkTanhXR(f2, f3, 0.1, 0.2)
		assert.InDelta(t, 2*0.5*(1-math.Tanh((1-0.2)/0.1)), r.At(inner, 0, 0), 1e-12)
		assert.InDelta(t, 2*0.5*(1-math.Tanh(-2)), r.At(outer, 0, 1), 1e-12)
		assert.Equal(t, r.Data(), SinkTanhX(f2, f3, 0.1, 0.2).Data())

		l := SinkTanhXL(f2, f3, 0.1, 0.2)
		assert.InDelta(t, 2*0.5*(1-math.Tanh(-2)), l.At(inner, 1, 1), 1e-12)
	})

	t.Run("edge masks", func(t *testing.T) {
		mask := MaskX(f3)
		assert.InDelta(t, 2.0, mask.At(inner, 0, 0), 1e-12)
		mid := inner + 5
		lx := m.GlobalX(mid)
		assert.InDelta(t, 2*(1-math.Tanh(lx/40)*math.Tanh((1-lx)/40)), mask.At(mid, 0, 0), 1e-12)

		buf := BuffX(f3)
		assert.InDelta(t, 2.0, buf.At(inner, 0, 0), 1e-9)
		assert.InDelta(t, 2.0, buf.At(outer, 1, 1), 1e-9)
		assert.Less(t, buf.At(mid, 0, 0), 1e-9)
	})
}
