package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"fluidsim/config"
	"fluidsim/core"
	"fluidsim/physics"
)

func main() {
	runtime.LockOSThread()

	var (
		configPath = flag.String("config", "settings.json", "Settings file path")
		size       = flag.Int("size", 0, "Grid resolution (overrides settings)")
		workers    = flag.Int("workers", 0, "Worker pool size (overrides settings)")
		serve      = flag.Bool("server", false, "Stream frames to browsers over websocket instead of opening a window")
		timings    = flag.Bool("timings", false, "Report per-stage solver timings roughly once per second")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *size > 0 {
		settings.Simulation.GridSize = *size
	}
	if *workers > 0 {
		settings.Simulation.Workers = *workers
	}

	fmt.Println("=== Stable Fluids Simulator ===")
	fmt.Printf("Grid: %dx%d\n", settings.Simulation.GridSize, settings.Simulation.GridSize)
	fmt.Printf("Workers: %d\n", settings.Simulation.Workers)
	fmt.Printf("Solver iterations: %d\n", settings.Solver.Iterations)

	grid, err := core.NewGrid(settings.Simulation.GridSize)
	if err != nil {
		log.Fatalf("Failed to allocate grid: %v", err)
	}
	pool, err := physics.NewPool(settings.Simulation.Workers)
	if err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}
	defer pool.Close()

	solver := physics.NewSolver(grid, pool)
	if *timings {
		solver.SetTimer(physics.NewStageTimer(nil))
	}

	if *serve {
		runServer(settings, grid, solver)
		return
	}
	runViewer(settings, grid, solver)
}
