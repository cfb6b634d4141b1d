package mesh

import (
	"fmt"
)

// GridConfig describes the global grid and how it is split across
// processors.
type GridConfig struct {
	NX int `mapstructure:"nx"` // Global interior points in x
	NY int `mapstructure:"ny"` // Global interior points in y
	NZ int `mapstructure:"nz"` // Points in z (periodic, no ghosts)

	MXG int `mapstructure:"mxg"` // Ghost width in x
	MYG int `mapstructure:"myg"` // Ghost width in y

	NXPE int `mapstructure:"nxpe"` // Processors in x
	NYPE int `mapstructure:"nype"` // Processors in y

	// Global interior x index of the separatrix. Columns below it are on
	// closed field lines (periodic in y), columns at or above it end on
	// physical y boundaries.
	IXSeps int `mapstructure:"ixseps"`

	ZLength float64 `mapstructure:"zlength"`
	Checks  bool    `mapstructure:"checks"` // Enable bounds checking
}

// Validate checks the configuration for consistency.
func (c GridConfig) Validate() error {
	if c.NX <= 0 || c.NY <= 0 || c.NZ <= 0 {
		return fmt.Errorf("invalid grid size: NX=%d, NY=%d, NZ=%d", c.NX, c.NY, c.NZ)
	}
	if c.MXG < 0 || c.MYG < 0 {
		return fmt.Errorf("invalid ghost widths: MXG=%d, MYG=%d", c.MXG, c.MYG)
	}
	if c.NXPE <= 0 || c.NYPE <= 0 {
		return fmt.Errorf("invalid processor grid: NXPE=%d, NYPE=%d", c.NXPE, c.NYPE)
	}
	if c.NX%c.NXPE != 0 {
		return fmt.Errorf("NX=%d is not divisible by NXPE=%d", c.NX, c.NXPE)
	}
	if c.NY%c.NYPE != 0 {
		return fmt.Errorf("NY=%d is not divisible by NYPE=%d", c.NY, c.NYPE)
	}
	if c.ZLength <= 0 {
		return fmt.Errorf("invalid z length %g", c.ZLength)
	}
	return nil
}

// Mesh is one processor's view of the grid: local sizes, ghost widths and
// neighbour topology. It is fixed after decomposition and shared read-only
// by every field created on it.
type Mesh struct {
	MXG, MYG     int // Ghost widths
	MXSUB, MYSUB int // Local interior sizes
	NZ           int // Points in z

	// Processor grid
	NXPE, NYPE     int
	PEXInd, PEYInd int // Position of this processor
	Rank           int

	NX      int // Global interior x size
	ZLength float64

	// Bounds checking on every index operation
	Checks bool

	Topology Topology
}

// New decomposes the global grid and returns the mesh owned by rank.
// Ranks are numbered x-fastest: rank = PEYInd*NXPE + PEXInd.
func New(cfg GridConfig, rank int) (*Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nproc := cfg.NXPE * cfg.NYPE
	if rank < 0 || rank >= nproc {
		return nil, fmt.Errorf("rank %d outside processor grid of size %d", rank, nproc)
	}

	m := &Mesh{
		MXG:     cfg.MXG,
		MYG:     cfg.MYG,
		MXSUB:   cfg.NX / cfg.NXPE,
		MYSUB:   cfg.NY / cfg.NYPE,
		NZ:      cfg.NZ,
		NXPE:    cfg.NXPE,
		NYPE:    cfg.NYPE,
		PEXInd:  rank % cfg.NXPE,
		PEYInd:  rank / cfg.NXPE,
		Rank:    rank,
		NX:      cfg.NX,
		ZLength: cfg.ZLength,
		Checks:  cfg.Checks,
	}
	m.Topology = m.decompose(cfg.IXSeps)
	return m, nil
}

// NewLocal returns a single-processor mesh with every edge a physical
// boundary.
func NewLocal(mxsub, mysub, nz, mxg, myg int) *Mesh {
	return &Mesh{
		MXG:      mxg,
		MYG:      myg,
		MXSUB:    mxsub,
		MYSUB:    mysub,
		NZ:       nz,
		NXPE:     1,
		NYPE:     1,
		NX:       mxsub,
		ZLength:  1.0,
		Topology: Isolated(),
	}
}

func (m *Mesh) decompose(ixseps int) (t Topology) {
	rank := m.Rank

	t.InnerX, t.OuterX = NoNeighbor, NoNeighbor
	if m.PEXInd > 0 {
		t.InnerX = rank - 1
	}
	if m.PEXInd < m.NXPE-1 {
		t.OuterX = rank + 1
	}

	// Convert the separatrix to a local index, clamped to the local array
	split := ixseps - m.PEXInd*m.MXSUB + m.MXG
	if split < 0 {
		split = 0
	}
	if split > m.LocalNx() {
		split = m.LocalNx()
	}
	t.LowerYSplit = split
	t.UpperYSplit = split

	if m.PEYInd > 0 {
		t.LowerYInner = rank - m.NXPE
		t.LowerYOuter = rank - m.NXPE
	} else {
		// Closed field lines wrap to the last processor in the column
		t.LowerYInner = rank + (m.NYPE-1)*m.NXPE
		t.LowerYOuter = NoNeighbor
	}

	if m.PEYInd < m.NYPE-1 {
		t.UpperYInner = rank + m.NXPE
		t.UpperYOuter = rank + m.NXPE
	} else {
		t.UpperYInner = rank - (m.NYPE-1)*m.NXPE
		t.UpperYOuter = NoNeighbor
	}
	return
}

// LocalNx is the local x size including ghost cells.
func (m *Mesh) LocalNx() int { return m.MXSUB + 2*m.MXG }

// LocalNy is the local y size including ghost cells.
func (m *Mesh) LocalNy() int { return m.MYSUB + 2*m.MYG }

// LocalNz is the local z size.
func (m *Mesh) LocalNz() int { return m.NZ }

// Dz is the grid spacing in z.
func (m *Mesh) Dz() float64 { return m.ZLength / float64(m.NZ) }

// XGlobal converts a local x index to a global interior index.
func (m *Mesh) XGlobal(jx int) int {
	return jx - m.MXG + m.PEXInd*m.MXSUB
}

// GlobalX returns the normalised radial position of local index jx, 0 on
// the first interior point of the global grid and 1 on the last.
func (m *Mesh) GlobalX(jx int) float64 {
	if m.NX <= 1 {
		return 0
	}
	return float64(m.XGlobal(jx)) / float64(m.NX-1)
}

// Validate checks local sizes.
func (m *Mesh) Validate() error {
	if m.MXSUB <= 0 || m.MYSUB <= 0 || m.NZ <= 0 {
		return fmt.Errorf("invalid local size: MXSUB=%d, MYSUB=%d, NZ=%d", m.MXSUB, m.MYSUB, m.NZ)
	}
	if m.MXG < 0 || m.MYG < 0 {
		return fmt.Errorf("invalid ghost widths: MXG=%d, MYG=%d", m.MXG, m.MYG)
	}
	return nil
}

// String summarises the local decomposition.
func (m *Mesh) String() string {
	return fmt.Sprintf("rank %d (%d,%d): local %dx%dx%d (interior %dx%d, ghosts %d,%d)",
		m.Rank, m.PEXInd, m.PEYInd, m.LocalNx(), m.LocalNy(), m.LocalNz(),
		m.MXSUB, m.MYSUB, m.MXG, m.MYG)
}
