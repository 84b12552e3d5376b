package core

import (
	"math/rand"
	"testing"
)

func randomField(rng *rand.Rand, n int) []float32 {
	arr := make([]float32, n*n)
	for i := range arr {
		arr[i] = rng.Float32()*10 - 5
	}
	return arr
}

func TestSetBoundsReflective(t *testing.T) {
	const n = 12
	rng := rand.New(rand.NewSource(11))

	arr := randomField(rng, n)
	SetBounds(DirHorizontal, n, arr)
	for i := 1; i < n-1; i++ {
		if arr[i*n] != -arr[1+i*n] {
			t.Errorf("row %d: left edge %v, want negated neighbor %v", i, arr[i*n], arr[1+i*n])
		}
		if arr[n-1+i*n] != -arr[n-2+i*n] {
			t.Errorf("row %d: right edge not reflected", i)
		}
		// Top/bottom pass through for the horizontal rule.
		if arr[i] != arr[i+n] || arr[i+(n-1)*n] != arr[i+(n-2)*n] {
			t.Errorf("column %d: top/bottom edge not copied", i)
		}
	}

	arr = randomField(rng, n)
	SetBounds(DirVertical, n, arr)
	for i := 1; i < n-1; i++ {
		if arr[i] != -arr[i+n] {
			t.Errorf("column %d: top edge not reflected", i)
		}
		if arr[i+(n-1)*n] != -arr[i+(n-2)*n] {
			t.Errorf("column %d: bottom edge not reflected", i)
		}
		if arr[i*n] != arr[1+i*n] || arr[n-1+i*n] != arr[n-2+i*n] {
			t.Errorf("row %d: left/right edge not copied", i)
		}
	}
}

func TestSetBoundsPassThrough(t *testing.T) {
	const n = 9
	rng := rand.New(rand.NewSource(12))
	arr := randomField(rng, n)
	SetBounds(DirNone, n, arr)
	for i := 1; i < n-1; i++ {
		if arr[i*n] != arr[1+i*n] || arr[n-1+i*n] != arr[n-2+i*n] {
			t.Errorf("row %d: left/right edge not copied", i)
		}
		if arr[i] != arr[i+n] || arr[i+(n-1)*n] != arr[i+(n-2)*n] {
			t.Errorf("column %d: top/bottom edge not copied", i)
		}
	}
}

func TestSetBoundsCornersAverageUpdatedEdges(t *testing.T) {
	const n = 7
	for _, dir := range []Direction{DirNone, DirHorizontal, DirVertical} {
		rng := rand.New(rand.NewSource(13))
		arr := randomField(rng, n)
		SetBounds(dir, n, arr)

		corners := []struct {
			name    string
			c, a, b int
		}{
			{"top-left", 0, 1, n},
			{"top-right", n - 1, n - 2, n - 1 + n},
			{"bottom-left", (n - 1) * n, (n - 2) * n, 1 + (n-1)*n},
			{"bottom-right", n - 1 + (n-1)*n, n - 2 + (n-1)*n, n - 1 + (n-2)*n},
		}
		for _, c := range corners {
			want := 0.5 * (arr[c.a] + arr[c.b])
			if arr[c.c] != want {
				t.Errorf("dir %d %s corner = %v, want average of adjacent edges %v",
					dir, c.name, arr[c.c], want)
			}
		}
	}
}

func TestSetBoundsLeavesInteriorAlone(t *testing.T) {
	const n = 10
	rng := rand.New(rand.NewSource(14))
	arr := randomField(rng, n)
	before := make([]float32, len(arr))
	copy(before, arr)

	SetBounds(DirHorizontal, n, arr)
	for y := 1; y < n-1; y++ {
		for x := 1; x < n-1; x++ {
			if arr[x+y*n] != before[x+y*n] {
				t.Fatalf("interior cell (%d,%d) modified", x, y)
			}
		}
	}
}
