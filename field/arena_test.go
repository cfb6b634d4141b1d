package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena(t *testing.T) {
	shape := Shape{Rows: 3, Cols: 4}

	t.Run("reuse returns zeroed storage", func(t *testing.T) {
		a := NewArena(4)
		b := a.Acquire(shape)
		require.Len(t, b.Data(), 12)
		b.Data()[5] = 9
		first := &b.Data()[0]
		a.Release(b)
		assert.Equal(t, ArenaStats{Live: 0, Free: 1, Allocated: 1}, a.Stats())

		c := a.Acquire(shape)
		assert.Same(t, first, &c.Data()[0], "storage is recycled")
		assert.Equal(t, 0.0, c.Data()[5])
		assert.Equal(t, ArenaStats{Live: 1, Free: 0, Allocated: 1}, a.Stats())
	})

	t.Run("shapes do not mix", func(t *testing.T) {
		a := NewArena(4)
		a.Release(a.Acquire(shape))
		b := a.Acquire(Shape{Rows: 4, Cols: 3})
		assert.Equal(t, Shape{Rows: 4, Cols: 3}, b.Shape())
		assert.Equal(t, 2, a.Stats().Allocated)
		assert.Equal(t, 1, a.Stats().Free)
	})

	t.Run("free list is capped", func(t *testing.T) {
		a := NewArena(2)
		blocks := make([]*Block, 5)
		for i := range blocks {
			blocks[i] = a.Acquire(shape)
		}
		for _, b := range blocks {
			a.Release(b)
		}
		assert.Equal(t, ArenaStats{Live: 0, Free: 2, Allocated: 5}, a.Stats())
	})

	t.Run("double release is fatal", func(t *testing.T) {
		a := NewArena(2)
		b := a.Acquire(shape)
		a.Release(b)
		requireFatal(t, "double release", func() { a.Release(b) })
	})

	t.Run("use after release is fatal", func(t *testing.T) {
		a := NewArena(2)
		b := a.Acquire(shape)
		a.Release(b)
		requireFatal(t, "released", func() { _ = b.Data() })
	})

	t.Run("foreign block is fatal", func(t *testing.T) {
		a, other := NewArena(2), NewArena(2)
		b := other.Acquire(shape)
		requireFatal(t, "wrong arena", func() { a.Release(b) })
	})

	t.Run("empty shape is fatal", func(t *testing.T) {
		requireFatal(t, "invalid block shape", func() { NewArena(1).Acquire(Shape{}) })
	})
}

func TestFieldPerpUsesArena(t *testing.T) {
	m := testMesh()
	a := NewArena(8)

	p := NewFieldPerpIn(a, m)
	assert.Equal(t, 0, a.Stats().Live)
	p.Set(1, 1, 3)
	assert.Equal(t, 1, a.Stats().Live)

	q := p.Copy()
	assert.Equal(t, 2, a.Stats().Live)
	assert.Equal(t, 3.0, q.At(1, 1))

	p.Release()
	q.Release()
	assert.Equal(t, ArenaStats{Live: 0, Free: 2, Allocated: 2}, a.Stats())

	// released slices reallocate zeroed
	assert.Equal(t, 0.0, p.At(1, 1))
	assert.Equal(t, 2, a.Stats().Allocated)
}

func TestFieldPerpBlockOwnership(t *testing.T) {
	m := testMesh()

	t.Run("binary result owns a block", func(t *testing.T) {
		a := NewArena(8)
		f := NewFieldPerpIn(a, m).SetValue(2)
		g := NewFieldPerpIn(a, m).SetValue(3)

		r := f.Add(g)
		assert.Equal(t, 5.0, r.At(1, 1))
		assert.Equal(t, 3, a.Stats().Live)
		r.Release()
		assert.Equal(t, ArenaStats{Live: 2, Free: 1, Allocated: 3}, a.Stats())

		// The next temporary takes the released block
		r = f.Neg()
		assert.Equal(t, -2.0, r.At(0, 0))
		assert.Equal(t, ArenaStats{Live: 3, Free: 0, Allocated: 3}, a.Stats())
		r.Release()
	})

	t.Run("in-place forms take no blocks", func(t *testing.T) {
		a := NewArena(8)
		f := NewFieldPerpIn(a, m).SetValue(2)
		g := NewFieldPerpIn(a, m).SetValue(3)
		dst := NewFieldPerpIn(a, m)
		for i := 0; i < 10; i++ {
			dst.Assign(f).MulAssign(g).AddScalarAssign(1)
			f.SubInto(dst, g)
		}
		assert.Equal(t, -1.0, dst.At(2, 3))
		assert.Equal(t, ArenaStats{Live: 3, Free: 0, Allocated: 3}, a.Stats())
	})

	t.Run("into may alias", func(t *testing.T) {
		a := NewArena(8)
		f := NewFieldPerpIn(a, m).SetValue(2)
		g := NewFieldPerpIn(a, m).SetValue(3)
		g.SetIndex(1)
		f.SetIndex(4)

		f.MulInto(f, g)
		assert.Equal(t, 6.0, f.At(1, 1))
		f.AddInto(g, g)
		assert.Equal(t, 9.0, g.At(1, 1))
		assert.Equal(t, 4, g.Index())
		assert.Equal(t, 2, a.Stats().Live)
	})
}
