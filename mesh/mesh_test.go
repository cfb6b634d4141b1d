package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() GridConfig {
	return GridConfig{
		NX: 8, NY: 12, NZ: 4,
		MXG: 2, MYG: 2,
		NXPE: 2, NYPE: 3,
		IXSeps:  4,
		ZLength: 2.0,
	}
}

func TestGridConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *GridConfig)
		ok     bool
	}{
		{"valid", func(c *GridConfig) {}, true},
		{"zero nx", func(c *GridConfig) { c.NX = 0 }, false},
		{"negative ghosts", func(c *GridConfig) { c.MYG = -1 }, false},
		{"nx not divisible", func(c *GridConfig) { c.NX = 9 }, false},
		{"ny not divisible", func(c *GridConfig) { c.NY = 10 }, false},
		{"no processors", func(c *GridConfig) { c.NYPE = 0 }, false},
		{"zero zlength", func(c *GridConfig) { c.ZLength = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewLocalSizes(t *testing.T) {
	m, err := New(testConfig(), 0)
	require.NoError(t, err)

	assert.Equal(t, 4, m.MXSUB)
	assert.Equal(t, 4, m.MYSUB)
	assert.Equal(t, 8, m.LocalNx())
	assert.Equal(t, 8, m.LocalNy())
	assert.Equal(t, 4, m.LocalNz())
	assert.InDelta(t, 0.5, m.Dz(), 1e-15)
	assert.NoError(t, m.Validate())
}

func TestNewRejectsBadRank(t *testing.T) {
	_, err := New(testConfig(), 6)
	assert.Error(t, err)
	_, err = New(testConfig(), -1)
	assert.Error(t, err)
}

func TestDecomposition(t *testing.T) {
	cfg := testConfig()

	t.Run("x neighbours", func(t *testing.T) {
		for rank := 0; rank < 6; rank++ {
			m, err := New(cfg, rank)
			require.NoError(t, err)
			assert.Equal(t, rank%2, m.PEXInd)
			assert.Equal(t, rank/2, m.PEYInd)
			if m.PEXInd == 0 {
				assert.True(t, m.Topology.InnerXBoundary(), "rank %d", rank)
				assert.Equal(t, rank+1, m.Topology.OuterX)
			} else {
				assert.Equal(t, rank-1, m.Topology.InnerX)
				assert.True(t, m.Topology.OuterXBoundary(), "rank %d", rank)
			}
		}
	})

	t.Run("interior y processor has no y boundary", func(t *testing.T) {
		m, err := New(cfg, 2) // PEYInd = 1
		require.NoError(t, err)
		tp := m.Topology
		assert.Equal(t, 0, tp.LowerYInner)
		assert.Equal(t, 0, tp.LowerYOuter)
		assert.Equal(t, 4, tp.UpperYInner)
		assert.Equal(t, 4, tp.UpperYOuter)
		for jx := 0; jx < m.LocalNx(); jx++ {
			assert.False(t, tp.LowerYBoundary(jx))
			assert.False(t, tp.UpperYBoundary(jx))
		}
	})

	t.Run("bottom row wraps closed region only", func(t *testing.T) {
		m, err := New(cfg, 0)
		require.NoError(t, err)
		tp := m.Topology
		// Separatrix at global 4 sits beyond this processor's interior
		assert.Equal(t, 6, tp.LowerYSplit)
		assert.Equal(t, 4, tp.LowerYInner)
		assert.Equal(t, NoNeighbor, tp.LowerYOuter)
		assert.False(t, tp.LowerYBoundary(5))
		assert.True(t, tp.LowerYBoundary(6))
		assert.False(t, tp.UpperYBoundary(0))
	})

	t.Run("split is clamped", func(t *testing.T) {
		m, err := New(cfg, 1) // PEXInd = 1, split = 4 - 4 + 2 = 2
		require.NoError(t, err)
		assert.Equal(t, 2, m.Topology.LowerYSplit)

		c := cfg
		c.IXSeps = 100
		m, err = New(c, 0)
		require.NoError(t, err)
		assert.Equal(t, m.LocalNx(), m.Topology.UpperYSplit)

		c.IXSeps = -10
		m, err = New(c, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Topology.UpperYSplit)
	})

	t.Run("top row", func(t *testing.T) {
		m, err := New(cfg, 5) // PEXInd = 1, PEYInd = 2
		require.NoError(t, err)
		tp := m.Topology
		assert.Equal(t, 1, tp.UpperYInner)
		assert.Equal(t, NoNeighbor, tp.UpperYOuter)
		assert.Equal(t, 3, tp.LowerYInner)
		assert.True(t, tp.UpperYBoundary(tp.UpperYSplit))
		assert.False(t, tp.UpperYBoundary(tp.UpperYSplit-1))
	})
}

func TestIsolated(t *testing.T) {
	tp := Isolated()
	assert.True(t, tp.InnerXBoundary())
	assert.True(t, tp.OuterXBoundary())
	for jx := 0; jx < 5; jx++ {
		assert.True(t, tp.LowerYBoundary(jx))
		assert.True(t, tp.UpperYBoundary(jx))
	}
}

func TestGlobalX(t *testing.T) {
	cfg := testConfig()
	m0, err := New(cfg, 0)
	require.NoError(t, err)
	m1, err := New(cfg, 1)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, m0.GlobalX(m0.MXG), 1e-15)
	assert.InDelta(t, 1.0, m1.GlobalX(m1.MXG+m1.MXSUB-1), 1e-15)
	assert.Equal(t, m0.XGlobal(m0.MXG+m0.MXSUB), m1.XGlobal(m1.MXG))
}

func TestNewLocal(t *testing.T) {
	m := NewLocal(3, 4, 5, 1, 2)
	assert.Equal(t, 5, m.LocalNx())
	assert.Equal(t, 8, m.LocalNy())
	assert.Equal(t, 5, m.LocalNz())
	assert.Equal(t, Isolated(), m.Topology)
	assert.NoError(t, m.Validate())
}
