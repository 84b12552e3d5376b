package core

import "testing"

func TestNewGridAllocatesZeroed(t *testing.T) {
	g, err := NewGrid(8)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Size() != 8 {
		t.Fatalf("Size() = %d, want 8", g.Size())
	}
	buffers := [][]float32{
		g.Density.Cur, g.Density.Prev,
		g.VelX.Cur, g.VelX.Prev,
		g.VelY.Cur, g.VelY.Prev,
		g.Scratch(),
	}
	for bi, buf := range buffers {
		if len(buf) != 64 {
			t.Fatalf("buffer %d has %d cells, want 64", bi, len(buf))
		}
		for i, v := range buf {
			if v != 0 {
				t.Fatalf("buffer %d cell %d not zero-initialized: %v", bi, i, v)
			}
		}
	}
}

func TestNewGridRejectsTinySizes(t *testing.T) {
	for _, size := range []int{-1, 0, 1, 2} {
		if _, err := NewGrid(size); err == nil {
			t.Errorf("NewGrid(%d) succeeded, want error", size)
		}
	}
}

func TestFieldSwapExchangesIdentities(t *testing.T) {
	g, err := NewGrid(4)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	g.Density.Cur[5] = 1
	g.Density.Prev[5] = 2

	cur, prev := &g.Density.Cur[0], &g.Density.Prev[0]
	g.Density.Swap()

	// Identities exchanged, contents untouched.
	if &g.Density.Cur[0] != prev || &g.Density.Prev[0] != cur {
		t.Fatal("Swap did not exchange buffer identities")
	}
	if g.Density.Cur[5] != 2 || g.Density.Prev[5] != 1 {
		t.Fatal("Swap altered buffer contents")
	}
}

func TestSwapScratchKeepsNewestInTarget(t *testing.T) {
	g, err := NewGrid(4)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	g.Scratch()[3] = 7
	g.SwapScratch(&g.Density.Cur)

	if g.Density.Cur[3] != 7 {
		t.Fatal("scratch contents did not land in the target buffer")
	}
	if g.Scratch()[3] != 0 {
		t.Fatal("old target buffer did not become the new scratch")
	}
}

func TestAddDensityScalesByResolution(t *testing.T) {
	g, err := NewGrid(10)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if err := g.AddDensity(5, 5, 100, 1); err != nil {
		t.Fatalf("AddDensity: %v", err)
	}
	if got := g.Density.Cur[5+5*10]; got != 1000 {
		t.Errorf("deposit = %v, want amount*dt*N = 1000", got)
	}
	// Deposits accumulate.
	if err := g.AddDensity(5, 5, 1, 0.5); err != nil {
		t.Fatalf("AddDensity: %v", err)
	}
	if got := g.Density.Cur[5+5*10]; got != 1005 {
		t.Errorf("accumulated deposit = %v, want 1005", got)
	}
}

func TestAddVelocityScalesByResolution(t *testing.T) {
	g, err := NewGrid(10)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if err := g.AddVelocity(2, 3, 1, -2, 0.5); err != nil {
		t.Fatalf("AddVelocity: %v", err)
	}
	i := 2 + 3*10
	if g.VelX.Cur[i] != 5 || g.VelY.Cur[i] != -10 {
		t.Errorf("impulse = (%v,%v), want (5,-10)", g.VelX.Cur[i], g.VelY.Cur[i])
	}
}

func TestPerturbationRejectsOutOfRange(t *testing.T) {
	g, err := NewGrid(10)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	bad := [][2]int{{-1, 5}, {5, -1}, {10, 5}, {5, 10}, {-3, 12}}
	for _, c := range bad {
		if err := g.AddDensity(c[0], c[1], 1, 1); err == nil {
			t.Errorf("AddDensity(%d,%d) succeeded, want error", c[0], c[1])
		}
		if err := g.AddVelocity(c[0], c[1], 1, 1, 1); err == nil {
			t.Errorf("AddVelocity(%d,%d) succeeded, want error", c[0], c[1])
		}
	}
}

func TestDensityViewAliasesCurrent(t *testing.T) {
	g, err := NewGrid(6)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	view := g.DensityView()
	g.Density.Cur[7] = 3
	if view[7] != 3 {
		t.Fatal("DensityView does not alias the current density buffer")
	}
}
