package field

import (
	"github.com/notargets/gridfield/utils"
)

// DefaultMaxFree is the free-list cap of the package arena.
const DefaultMaxFree = 64

// Shape is the size of an arena block.
type Shape struct {
	Rows, Cols int
}

func (s Shape) Size() int { return s.Rows * s.Cols }

// Block is a piece of arena storage. Holding a Block is exclusive ownership
// of its data until it is released.
type Block struct {
	shape    Shape
	data     []float64
	arena    *Arena
	released bool
}

func (b *Block) Shape() Shape { return b.shape }

// Data returns the block storage. Using a released block is fatal.
func (b *Block) Data() []float64 {
	if b.released {
		utils.Fatalf("arena: use of released %dx%d block", b.shape.Rows, b.shape.Cols)
	}
	return b.data
}

// ArenaStats counts blocks handed out, blocks on the free lists and
// blocks ever allocated.
type ArenaStats struct {
	Live, Free, Allocated int
}

// Arena recycles fixed-shape storage blocks. It is not safe for concurrent
// use; each process owns its own.
type Arena struct {
	maxFree int
	free    map[Shape][][]float64
	stats   ArenaStats
}

// NewArena returns an arena that keeps at most maxFree released blocks.
func NewArena(maxFree int) *Arena {
	if maxFree < 0 {
		maxFree = 0
	}
	return &Arena{
		maxFree: maxFree,
		free:    make(map[Shape][][]float64),
	}
}

var defaultArena = NewArena(DefaultMaxFree)

// DefaultArena returns the arena backing NewFieldPerp.
func DefaultArena() *Arena { return defaultArena }

// Acquire hands out a zeroed block of the given shape, reusing released
// storage when available.
func (a *Arena) Acquire(s Shape) *Block {
	if s.Rows <= 0 || s.Cols <= 0 {
		utils.Fatalf("arena: invalid block shape %dx%d", s.Rows, s.Cols)
	}
	var data []float64
	if list := a.free[s]; len(list) > 0 {
		data = list[len(list)-1]
		a.free[s] = list[:len(list)-1]
		a.stats.Free--
		for i := range data {
			data[i] = 0
		}
	} else {
		data = make([]float64, s.Size())
		a.stats.Allocated++
	}
	a.stats.Live++
	return &Block{shape: s, data: data, arena: a}
}

// Release returns the block storage to the arena and invalidates the block.
// Storage beyond the free-list cap is dropped.
func (a *Arena) Release(b *Block) {
	if b == nil {
		utils.Fatalf("arena: release of nil block")
	}
	if b.arena != a {
		utils.Fatalf("arena: block released to the wrong arena")
	}
	if b.released {
		utils.Fatalf("arena: double release of %dx%d block", b.shape.Rows, b.shape.Cols)
	}
	if a.stats.Free < a.maxFree {
		a.free[b.shape] = append(a.free[b.shape], b.data)
		a.stats.Free++
	}
	a.stats.Live--
	b.released = true
	b.data = nil
}

func (a *Arena) Stats() ArenaStats { return a.stats }
