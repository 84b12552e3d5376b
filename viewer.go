package main

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"fluidsim/config"
	"fluidsim/core"
	"fluidsim/physics"
)

// runViewer opens a native window, steps the solver at display rate and maps
// mouse drags onto density and velocity perturbations.
func runViewer(settings config.Settings, grid *core.Grid, solver *physics.Solver) {
	size := grid.Size()

	rl.InitWindow(int32(settings.Window.Width), int32(settings.Window.Height), "fluidsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	img := rl.GenImageColor(size, size, color.RGBA{A: 255})
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, size*size)
	scaleX := float32(settings.Window.Width) / float32(size)
	scaleY := float32(settings.Window.Height) / float32(size)

	var lastMouse rl.Vector2
	dragging := false

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		if dt <= 0 {
			dt = float32(settings.Solver.Timestep)
		}

		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			mouse := rl.GetMousePosition()
			cx := int(mouse.X / scaleX)
			cy := int(mouse.Y / scaleY)
			var dx, dy float32
			if dragging {
				dx = (mouse.X - lastMouse.X) / scaleX
				dy = (mouse.Y - lastMouse.Y) / scaleY
			}
			// Off-window coordinates are rejected by the grid; nothing to do.
			if err := grid.AddDensity(cx, cy, 60, dt); err == nil {
				_ = grid.AddVelocity(cx, cy, dx*4, dy*4, dt)
			}
			lastMouse = mouse
			dragging = true
		} else {
			dragging = false
		}

		solver.Step(dt, settings.Solver.Iterations,
			settings.Solver.DiffusionRate, settings.Solver.Viscosity, settings.Solver.FadeRate)

		for i, d := range grid.DensityView() {
			if d < 0 {
				d = 0
			} else if d > 255 {
				d = 255
			}
			c := uint8(d)
			pixels[i] = color.RGBA{R: c, G: c, B: c, A: 255}
		}
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		rl.DrawTextureEx(texture, rl.NewVector2(0, 0), 0, scaleX, rl.White)
		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
}
