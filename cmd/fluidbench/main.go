// Command fluidbench runs the solver headless for a fixed number of frames
// and reports throughput, for comparing grid sizes and worker counts.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"fluidsim/core"
	"fluidsim/physics"
)

func main() {
	var (
		size       = flag.Int("size", 256, "Grid resolution")
		workers    = flag.Int("workers", 6, "Worker pool size")
		iterations = flag.Int("iterations", 20, "Relaxation iterations per solve")
		frames     = flag.Int("frames", 600, "Frames to simulate")
		dt         = flag.Float64("dt", 1.0/60.0, "Timestep per frame")
		timings    = flag.Bool("timings", true, "Report per-stage timings")
	)
	flag.Parse()

	grid, err := core.NewGrid(*size)
	if err != nil {
		log.Fatalf("Failed to allocate grid: %v", err)
	}
	pool, err := physics.NewPool(*workers)
	if err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}
	defer pool.Close()

	solver := physics.NewSolver(grid, pool)
	if *timings {
		solver.SetTimer(physics.NewStageTimer(nil))
	}

	fmt.Printf("Benchmark: %dx%d grid, %d workers, %d iterations, %d frames\n",
		*size, *size, *workers, *iterations, *frames)

	// A fresh deposit every frame keeps the advection and fade stages from
	// degenerating to all-zero passes.
	cx, cy := *size/2, *size/2
	step := float32(*dt)

	start := time.Now()
	for frame := 0; frame < *frames; frame++ {
		if err := grid.AddDensity(cx, cy, 100, step); err != nil {
			log.Fatalf("deposit failed: %v", err)
		}
		if err := grid.AddVelocity(cx, cy, 2, -3, step); err != nil {
			log.Fatalf("impulse failed: %v", err)
		}
		solver.Step(step, *iterations, 0.0001, 0.0001, 0.05)
	}
	elapsed := time.Since(start)

	perFrame := elapsed / time.Duration(*frames)
	fmt.Printf("Total: %v  per frame: %v  (%.1f frames/sec)\n",
		elapsed.Round(time.Millisecond), perFrame.Round(time.Microsecond),
		float64(*frames)/elapsed.Seconds())
}
