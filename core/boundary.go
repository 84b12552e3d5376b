package core

// Direction selects which edges of the grid reflect a field. Velocity
// components reflect on the walls perpendicular to them (no-slip); density,
// pressure and divergence use DirNone and copy through on every edge.
type Direction int

const (
	DirNone Direction = iota
	DirHorizontal
	DirVertical
)

// SetBounds rewrites the boundary ring of arr from its first interior
// neighbors. A reflected edge negates the neighbor, an open edge copies it.
// The four corners are filled in after the edges as the average of their two
// adjacent, already-updated edge cells; that ordering is required.
func SetBounds(dir Direction, size int, arr []float32) {
	n := size
	for i := 1; i < n-1; i++ {
		left := arr[1+i*n]
		right := arr[n-2+i*n]
		if dir == DirHorizontal {
			left, right = -left, -right
		}
		arr[i*n] = left
		arr[n-1+i*n] = right

		top := arr[i+n]
		bottom := arr[i+(n-2)*n]
		if dir == DirVertical {
			top, bottom = -top, -bottom
		}
		arr[i] = top
		arr[i+(n-1)*n] = bottom
	}

	arr[0] = 0.5 * (arr[1] + arr[n])
	arr[n-1] = 0.5 * (arr[n-2] + arr[n-1+n])
	arr[(n-1)*n] = 0.5 * (arr[(n-2)*n] + arr[1+(n-1)*n])
	arr[n-1+(n-1)*n] = 0.5 * (arr[n-2+(n-1)*n] + arr[n-1+(n-2)*n])
}
