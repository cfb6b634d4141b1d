package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpTo(t *testing.T) {
	m := testMesh() // 6 x 7 x 4 local

	linearY := NewField3D(m)
	linearX := NewField3D(m)
	for jx := 0; jx < m.LocalNx(); jx++ {
		for jy := 0; jy < m.LocalNy(); jy++ {
			for jz := 0; jz < m.LocalNz(); jz++ {
				linearY.Set(jx, jy, jz, 2*float64(jy)+1)
				linearX.Set(jx, jy, jz, 3*float64(jx))
			}
		}
	}

	t.Run("centre to ylow", func(t *testing.T) {
		r := InterpTo(linearY, CellYLow)
		assert.Equal(t, CellYLow, r.Location())
		for jy := 2; jy < m.LocalNy()-1; jy++ {
			assert.InDelta(t, 2*(float64(jy)-0.5)+1, r.At(1, jy, 2), 1e-12, "jy=%d", jy)
		}
		// edges without a full stencil are unchanged
		assert.Equal(t, linearY.At(1, 0, 0), r.At(1, 0, 0))
		assert.Equal(t, linearY.At(1, 1, 0), r.At(1, 1, 0))
		assert.Equal(t, linearY.At(1, 6, 0), r.At(1, 6, 0))
	})

	t.Run("ylow to centre", func(t *testing.T) {
		in := linearY.Copy()
		in.SetLocation(CellYLow)
		r := InterpTo(in, CellCentre)
		assert.Equal(t, CellCentre, r.Location())
		for jy := 1; jy < m.LocalNy()-2; jy++ {
			assert.InDelta(t, 2*(float64(jy)+0.5)+1, r.At(3, jy, 0), 1e-12, "jy=%d", jy)
		}
	})

	t.Run("centre to xlow", func(t *testing.T) {
		r := InterpTo(linearX, CellXLow)
		for jx := 2; jx < m.LocalNx()-1; jx++ {
			assert.InDelta(t, 3*(float64(jx)-0.5), r.At(jx, 2, 1), 1e-12)
		}
	})

	t.Run("z is periodic", func(t *testing.T) {
		c := NewField3DValue(m, 4)
		r := InterpTo(c, CellZLow)
		assert.InDelta(t, 4.0, r.Min(), 1e-14)
		assert.InDelta(t, 4.0, r.Max(), 1e-14)
	})

	t.Run("same location copies", func(t *testing.T) {
		r := InterpTo(linearY, CellCentre)
		assert.Equal(t, linearY.Data(), r.Data())
		r.Set(0, 0, 0, -5)
		assert.NotEqual(t, -5.0, linearY.At(0, 0, 0))
	})

	t.Run("low to low goes through centre", func(t *testing.T) {
		in := linearX.Copy()
		in.SetLocation(CellXLow)
		r := InterpTo(in, CellYLow)
		assert.Equal(t, CellYLow, r.Location())
		// x-low to centre shifts x by +1/2; the y shift leaves x data alone
		assert.InDelta(t, 3*(2+0.5), r.At(2, 3, 0), 1e-12)
	})
}
