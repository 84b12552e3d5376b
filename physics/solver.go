// Package physics implements the stable-fluids solver: diffusion by Jacobi
// relaxation, pressure projection (Hodge decomposition) and semi-Lagrangian
// advection, each stage parallelized over interior rows by a fixed worker
// pool and followed by boundary enforcement.
package physics

import (
	"fluidsim/core"
	"fluidsim/kernels"
)

// Solver sequences the physical operators over a grid. Each stencil pass is
// fanned out across the pool by contiguous row range and fully joined before
// the next pass starts; the orchestration level itself is single-threaded.
type Solver struct {
	grid  *core.Grid
	pool  *Pool
	timer *StageTimer
}

// NewSolver binds a solver to the grid it advances and the pool that runs its
// stencil passes.
func NewSolver(grid *core.Grid, pool *Pool) *Solver {
	return &Solver{grid: grid, pool: pool}
}

// SetTimer installs a diagnostic stage timer. A nil timer disables timing.
func (s *Solver) SetTimer(t *StageTimer) {
	s.timer = t
}

// Step advances the simulation by one frame:
//
//  1. diffuse both velocity components (rate = viscosity)
//  2. project the velocity field to remove divergence
//  3. self-advect velocity along its pre-advection state
//  4. project again
//  5. diffuse density (rate = diffusionRate)
//  6. advect density along the final velocity field
//  7. fade density by (1 - dt*fadeRate*N)
//
// All five parameters are supplied per call; the solver keeps no defaults.
// iterations is the sole accuracy knob for diffusion and the pressure solve.
func (s *Solver) Step(dt float32, iterations int, diffusionRate, viscosity, fadeRate float64) {
	g := s.grid

	s.timer.Begin()
	g.VelX.Swap()
	s.diffuse(core.DirHorizontal, iterations, &g.VelX, dt, viscosity)
	g.VelY.Swap()
	s.diffuse(core.DirVertical, iterations, &g.VelY, dt, viscosity)
	s.timer.End("diffuse")

	s.timer.Begin()
	s.project(iterations)
	s.timer.End("project")

	s.timer.Begin()
	// Self advection: both components are transported by the velocity field
	// as it was before this pass, which now lives in the Prev buffers.
	g.VelX.Swap()
	g.VelY.Swap()
	s.advect(core.DirHorizontal, g.VelX.Cur, g.VelX.Prev, g.VelX.Prev, g.VelY.Prev, dt)
	s.advect(core.DirVertical, g.VelY.Cur, g.VelY.Prev, g.VelX.Prev, g.VelY.Prev, dt)
	s.timer.End("advect")

	s.timer.Begin()
	s.project(iterations)
	s.timer.End("project")

	s.timer.Begin()
	g.Density.Swap()
	s.diffuse(core.DirNone, iterations, &g.Density, dt, diffusionRate)
	s.timer.End("diffuse")

	s.timer.Begin()
	g.Density.Swap()
	s.advect(core.DirNone, g.Density.Cur, g.Density.Prev, g.VelX.Cur, g.VelY.Cur, dt)
	s.timer.End("advect")

	s.fade(dt, fadeRate)
	s.timer.FrameDone()
}

// interiorRows fans fn out over the interior rows 1..N-2 and waits for the
// barrier. The row indices passed to fn are absolute.
func (s *Solver) interiorRows(fn func(startRow, endRow int)) {
	s.pool.ParallelFor(s.grid.Size()-2, func(start, end int) {
		fn(start+1, end+1)
	})
}

// diffuse spreads a field at the given rate over the timestep by delegating
// to the relaxation solver with k = rate*dt*N². With zero iterations the
// solve degenerates to an identity: the previous values are carried over
// unchanged instead of leaving the stale current buffer in place.
func (s *Solver) diffuse(dir core.Direction, iterations int, f *core.Field, dt float32, rate float64) {
	if iterations < 1 {
		copy(f.Cur, f.Prev)
		return
	}
	size := s.grid.Size()
	k := float32(rate * float64(dt) * float64(size) * float64(size))
	s.linearSolve(dir, iterations, &f.Cur, f.Prev, k, 1+4*k)
}

// linearSolve runs a fixed number of Jacobi relaxation iterations of
//
//	cell' = (prev + k*(up+down+left+right)) / scaling
//
// Each sweep writes into the grid's scratch buffer, which is then exchanged
// with the solve target, and the boundary rule is re-applied. Exchanging
// after every sweep keeps the newest iterate in *arr regardless of whether
// the iteration count is even or odd.
func (s *Solver) linearSolve(dir core.Direction, iterations int, arr *[]float32, prev []float32, k, scaling float32) {
	size := s.grid.Size()
	invC := 1 / scaling
	for it := 0; it < iterations; it++ {
		cur := *arr
		dst := s.grid.Scratch()
		s.interiorRows(func(start, end int) {
			for y := start; y < end; y++ {
				kernels.LinSolveRow(dst, cur, prev, size, y, k, invC)
			}
		})
		s.grid.SwapScratch(arr)
		core.SetBounds(dir, size, *arr)
	}
}

// project removes divergence from the velocity field (Hodge decomposition):
// compute the divergence, solve the discrete Poisson equation for pressure,
// then subtract the pressure gradient. Pressure and divergence are aliased
// onto the velocity Prev buffers, whose contents are dead at both call sites.
func (s *Solver) project(iterations int) {
	g := s.grid
	size := g.Size()
	velX, velY := g.VelX.Cur, g.VelY.Cur
	div := g.VelY.Prev

	s.interiorRows(func(start, end int) {
		for y := start; y < end; y++ {
			kernels.DivergenceRow(div, g.VelX.Prev, velX, velY, size, y)
		}
	})
	core.SetBounds(core.DirNone, size, div)
	core.SetBounds(core.DirNone, size, g.VelX.Prev)

	s.linearSolve(core.DirNone, iterations, &g.VelX.Prev, div, 1, 4)

	// The relaxation loop exchanges the pressure buffer with scratch, so
	// re-read it after the solve.
	p := g.VelX.Prev
	s.interiorRows(func(start, end int) {
		for y := start; y < end; y++ {
			kernels.SubtractGradientRow(velX, velY, p, size, y)
		}
	})
	core.SetBounds(core.DirHorizontal, size, velX)
	core.SetBounds(core.DirVertical, size, velY)
}

// advect transports dst's field along (velX, velY), sampling src at the
// backtraced positions, then applies the boundary rule for dir.
func (s *Solver) advect(dir core.Direction, dst, src, velX, velY []float32, dt float32) {
	size := s.grid.Size()
	scale := dt * float32(size)
	s.interiorRows(func(start, end int) {
		for y := start; y < end; y++ {
			kernels.AdvectRow(dst, src, velX, velY, size, y, scale)
		}
	})
	core.SetBounds(dir, size, dst)
}

// fade scales every interior density cell by (1 - dt*fadeRate*N) so long runs
// do not fill the volume.
func (s *Solver) fade(dt float32, fadeRate float64) {
	size := s.grid.Size()
	factor := float32(1 - float64(dt)*fadeRate*float64(size))
	arr := s.grid.Density.Cur
	for y := 1; y < size-1; y++ {
		kernels.FadeRow(arr, size, y, factor)
	}
}
