// Package config loads application settings from a JSON file, falling back
// to built-in defaults when no file exists.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	Simulation SimulationSettings `json:"simulation"`
	Solver     SolverSettings     `json:"solver"`
	Server     ServerSettings     `json:"server"`
	Window     WindowSettings     `json:"window"`
}

type SimulationSettings struct {
	GridSize int `json:"gridSize"`
	Workers  int `json:"workers"`
}

type SolverSettings struct {
	Iterations    int     `json:"iterations"`
	Timestep      float64 `json:"timestep"`
	DiffusionRate float64 `json:"diffusionRate"`
	Viscosity     float64 `json:"viscosity"`
	FadeRate      float64 `json:"fadeRate"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

type WindowSettings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Default returns the settings used when no file overrides them. The worker
// count of 6 matches the CPU the solver was tuned on.
func Default() Settings {
	return Settings{
		Simulation: SimulationSettings{
			GridSize: 256,
			Workers:  6,
		},
		Solver: SolverSettings{
			Iterations:    20,
			Timestep:      1.0 / 60.0,
			DiffusionRate: 0.0001,
			Viscosity:     0.0001,
			FadeRate:      0.05,
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 33,
		},
		Window: WindowSettings{
			Width:  768,
			Height: 768,
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file is not
// an error: the defaults are returned as-is.
func Load(path string) (Settings, error) {
	settings := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&settings); err != nil {
		return settings, fmt.Errorf("parsing %s: %w", path, err)
	}
	return settings, nil
}
