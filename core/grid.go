package core

import "fmt"

// Field is one double-buffered scalar quantity on the grid. Cur and Prev are
// exchanged by swapping slice headers, never by copying cell contents.
type Field struct {
	Cur  []float32
	Prev []float32
}

// Swap exchanges the current and previous buffer roles in O(1).
func (f *Field) Swap() {
	f.Cur, f.Prev = f.Prev, f.Cur
}

// Grid owns every per-cell buffer of an N×N fluid simulation: the density
// field, both velocity components and one scratch buffer shared by the
// iterative solvers. Cells are stored row-major, index (x,y) = x + y*N.
// Indices 0 and N-1 on each axis form the boundary ring; stencil kernels only
// ever write the interior 1..N-2.
type Grid struct {
	size int

	Density Field
	VelX    Field
	VelY    Field

	scratch []float32
}

// NewGrid allocates all buffers for a size×size grid, zero-initialized.
// The resolution is fixed for the lifetime of the grid.
func NewGrid(size int) (*Grid, error) {
	if size < 3 {
		return nil, fmt.Errorf("grid size %d too small: need at least one interior cell", size)
	}
	cells := size * size
	return &Grid{
		size:    size,
		Density: Field{Cur: make([]float32, cells), Prev: make([]float32, cells)},
		VelX:    Field{Cur: make([]float32, cells), Prev: make([]float32, cells)},
		VelY:    Field{Cur: make([]float32, cells), Prev: make([]float32, cells)},
		scratch: make([]float32, cells),
	}, nil
}

// Size returns the grid edge length N.
func (g *Grid) Size() int { return g.size }

// Scratch returns the shared relaxation scratch buffer.
func (g *Grid) Scratch() []float32 { return g.scratch }

// SwapScratch exchanges the scratch buffer with the slice pointed to by cur.
// The relaxation loop swaps after every sweep, so the newest iterate is always
// the one left in the field's current role no matter how many iterations ran.
func (g *Grid) SwapScratch(cur *[]float32) {
	g.scratch, *cur = *cur, g.scratch
}

// AddDensity deposits amount into cell (x,y). The deposit is scaled by dt*N so
// the visible effect is independent of grid resolution.
func (g *Grid) AddDensity(x, y int, amount, dt float32) error {
	if err := g.checkCell(x, y); err != nil {
		return err
	}
	g.Density.Cur[x+y*g.size] += amount * dt * float32(g.size)
	return nil
}

// AddVelocity adds a momentum impulse (dx, dy) to cell (x,y), scaled by dt*N.
func (g *Grid) AddVelocity(x, y int, dx, dy, dt float32) error {
	if err := g.checkCell(x, y); err != nil {
		return err
	}
	i := x + y*g.size
	scale := dt * float32(g.size)
	g.VelX.Cur[i] += dx * scale
	g.VelY.Cur[i] += dy * scale
	return nil
}

func (g *Grid) checkCell(x, y int) error {
	if x < 0 || x >= g.size || y < 0 || y >= g.size {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid", x, y, g.size, g.size)
	}
	return nil
}

// DensityView returns the current density buffer for a display layer to read.
// The slice aliases grid memory and is invalidated by the next solver step.
func (g *Grid) DensityView() []float32 {
	return g.Density.Cur
}
