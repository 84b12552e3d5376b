// Package kernels provides the per-row stencil operations of the fluid
// solver: Jacobi relaxation, divergence, pressure-gradient subtraction,
// semi-Lagrangian advection and density fade.
//
// Every kernel comes in two variants. The blocked variant processes LaneWidth
// cells per lane group with an explicitly unrolled body and falls back to a
// scalar loop for the row remainder; the Scalar variant is the plain
// reference loop. Both perform the same floating-point operations in the same
// order per cell, so their results are bit-identical. The tests assert this
// rather than assuming a particular lane width.
//
// All kernels operate on flattened row-major N×N float32 grids, touch only
// the interior cells 1..N-2 of their row, and allocate nothing.
package kernels

// LaneWidth is the number of cells a blocked kernel processes per lane group.
// It is a tuning constant, not a behavioral requirement.
const LaneWidth = 4

// LinSolveRow performs one Jacobi relaxation sweep over row y:
//
//	dst = (prev + k*(up + down + left + right)) * invC
//
// reading the four neighbors from cur. dst must not alias cur or prev.
func LinSolveRow(dst, cur, prev []float32, size, y int, k, invC float32) {
	row := y * size
	x := 1
	for ; x+LaneWidth <= size-1; x += LaneWidth {
		i0 := row + x
		i1 := i0 + 1
		i2 := i0 + 2
		i3 := i0 + 3
		dst[i0] = (prev[i0] + k*(cur[i0-size]+cur[i0+size]+cur[i0-1]+cur[i0+1])) * invC
		dst[i1] = (prev[i1] + k*(cur[i1-size]+cur[i1+size]+cur[i1-1]+cur[i1+1])) * invC
		dst[i2] = (prev[i2] + k*(cur[i2-size]+cur[i2+size]+cur[i2-1]+cur[i2+1])) * invC
		dst[i3] = (prev[i3] + k*(cur[i3-size]+cur[i3+size]+cur[i3-1]+cur[i3+1])) * invC
	}
	for ; x < size-1; x++ {
		i := row + x
		dst[i] = (prev[i] + k*(cur[i-size]+cur[i+size]+cur[i-1]+cur[i+1])) * invC
	}
}

// LinSolveRowScalar is the reference implementation of LinSolveRow.
func LinSolveRowScalar(dst, cur, prev []float32, size, y int, k, invC float32) {
	row := y * size
	for x := 1; x < size-1; x++ {
		i := row + x
		dst[i] = (prev[i] + k*(cur[i-size]+cur[i+size]+cur[i-1]+cur[i+1])) * invC
	}
}

// DivergenceRow computes the discrete divergence of the velocity field over
// row y into div and zero-initializes the pressure field at the same cells:
//
//	div = -0.5 * ((velX[left]-velX[right]) + (velY[up]-velY[down])) / N
func DivergenceRow(div, p, velX, velY []float32, size, y int) {
	inv := 1 / float32(size)
	row := y * size
	x := 1
	for ; x+LaneWidth <= size-1; x += LaneWidth {
		i0 := row + x
		i1 := i0 + 1
		i2 := i0 + 2
		i3 := i0 + 3
		div[i0] = -0.5 * (velX[i0-1] - velX[i0+1] + velY[i0-size] - velY[i0+size]) * inv
		div[i1] = -0.5 * (velX[i1-1] - velX[i1+1] + velY[i1-size] - velY[i1+size]) * inv
		div[i2] = -0.5 * (velX[i2-1] - velX[i2+1] + velY[i2-size] - velY[i2+size]) * inv
		div[i3] = -0.5 * (velX[i3-1] - velX[i3+1] + velY[i3-size] - velY[i3+size]) * inv
		p[i0] = 0
		p[i1] = 0
		p[i2] = 0
		p[i3] = 0
	}
	for ; x < size-1; x++ {
		i := row + x
		div[i] = -0.5 * (velX[i-1] - velX[i+1] + velY[i-size] - velY[i+size]) * inv
		p[i] = 0
	}
}

// DivergenceRowScalar is the reference implementation of DivergenceRow.
func DivergenceRowScalar(div, p, velX, velY []float32, size, y int) {
	inv := 1 / float32(size)
	row := y * size
	for x := 1; x < size-1; x++ {
		i := row + x
		div[i] = -0.5 * (velX[i-1] - velX[i+1] + velY[i-size] - velY[i+size]) * inv
		p[i] = 0
	}
}

// SubtractGradientRow removes the pressure gradient from both velocity
// components over row y, leaving the approximately divergence-free part:
//
//	velX -= 0.5 * N * (p[left] - p[right])
//	velY -= 0.5 * N * (p[up]   - p[down])
func SubtractGradientRow(velX, velY, p []float32, size, y int) {
	n := float32(size)
	row := y * size
	x := 1
	for ; x+LaneWidth <= size-1; x += LaneWidth {
		i0 := row + x
		i1 := i0 + 1
		i2 := i0 + 2
		i3 := i0 + 3
		velX[i0] -= 0.5 * (p[i0-1] - p[i0+1]) * n
		velX[i1] -= 0.5 * (p[i1-1] - p[i1+1]) * n
		velX[i2] -= 0.5 * (p[i2-1] - p[i2+1]) * n
		velX[i3] -= 0.5 * (p[i3-1] - p[i3+1]) * n
		velY[i0] -= 0.5 * (p[i0-size] - p[i0+size]) * n
		velY[i1] -= 0.5 * (p[i1-size] - p[i1+size]) * n
		velY[i2] -= 0.5 * (p[i2-size] - p[i2+size]) * n
		velY[i3] -= 0.5 * (p[i3-size] - p[i3+size]) * n
	}
	for ; x < size-1; x++ {
		i := row + x
		velX[i] -= 0.5 * (p[i-1] - p[i+1]) * n
		velY[i] -= 0.5 * (p[i-size] - p[i+size]) * n
	}
}

// SubtractGradientRowScalar is the reference implementation of
// SubtractGradientRow.
func SubtractGradientRowScalar(velX, velY, p []float32, size, y int) {
	n := float32(size)
	row := y * size
	for x := 1; x < size-1; x++ {
		i := row + x
		velX[i] -= 0.5 * (p[i-1] - p[i+1]) * n
		velY[i] -= 0.5 * (p[i-size] - p[i+size]) * n
	}
}

// advectCell backtraces cell (x,y) along the transport field, clamps the
// source position so the 4-cell interpolation stencil stays inside the valid
// region, and bilinearly blends the four surrounding cells of src.
func advectCell(dst, src, velX, velY []float32, size, row, x int, fy, scale, maxClamp float32) {
	i := row + x
	px := float32(x) - velX[i]*scale
	py := fy - velY[i]*scale

	if px < 0.5 {
		px = 0.5
	} else if px > maxClamp {
		px = maxClamp
	}
	if py < 0.5 {
		py = 0.5
	} else if py > maxClamp {
		py = maxClamp
	}

	// Truncation moves the source index up and to the left; the fractional
	// parts weight the four surrounding cells.
	x0 := int(px)
	y0 := int(py)
	fx := px - float32(x0)
	fyd := py - float32(y0)
	rx := 1 - fx
	ry := 1 - fyd

	base := x0 + y0*size
	dst[i] = rx*(ry*src[base]+fyd*src[base+size]) +
		fx*(ry*src[base+1]+fyd*src[base+size+1])
}

// AdvectRow performs the semi-Lagrangian backtrace for row y. scale is dt*N;
// source positions are clamped into [0.5, N-1.5]. dst must not alias src.
func AdvectRow(dst, src, velX, velY []float32, size, y int, scale float32) {
	maxClamp := float32(size) - 1.5
	fy := float32(y)
	row := y * size
	x := 1
	for ; x+LaneWidth <= size-1; x += LaneWidth {
		advectCell(dst, src, velX, velY, size, row, x, fy, scale, maxClamp)
		advectCell(dst, src, velX, velY, size, row, x+1, fy, scale, maxClamp)
		advectCell(dst, src, velX, velY, size, row, x+2, fy, scale, maxClamp)
		advectCell(dst, src, velX, velY, size, row, x+3, fy, scale, maxClamp)
	}
	for ; x < size-1; x++ {
		advectCell(dst, src, velX, velY, size, row, x, fy, scale, maxClamp)
	}
}

// AdvectRowScalar is the reference implementation of AdvectRow.
func AdvectRowScalar(dst, src, velX, velY []float32, size, y int, scale float32) {
	maxClamp := float32(size) - 1.5
	fy := float32(y)
	row := y * size
	for x := 1; x < size-1; x++ {
		advectCell(dst, src, velX, velY, size, row, x, fy, scale, maxClamp)
	}
}

// FadeRow scales the interior cells of row y by factor. The solver uses it to
// bleed off density so the volume never saturates.
func FadeRow(arr []float32, size, y int, factor float32) {
	row := y * size
	x := 1
	for ; x+LaneWidth <= size-1; x += LaneWidth {
		i := row + x
		arr[i] *= factor
		arr[i+1] *= factor
		arr[i+2] *= factor
		arr[i+3] *= factor
	}
	for ; x < size-1; x++ {
		arr[row+x] *= factor
	}
}

// FadeRowScalar is the reference implementation of FadeRow.
func FadeRowScalar(arr []float32, size, y int, factor float32) {
	row := y * size
	for x := 1; x < size-1; x++ {
		arr[row+x] *= factor
	}
}
