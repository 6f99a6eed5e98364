package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.stepOnce = true
	}

	// Ticks per frame with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && v.ticksPerFrame > 1 {
		v.ticksPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.ticksPerFrame < v.params.MaxSpeed {
		v.ticksPerFrame++
	}

	if rl.IsKeyPressed(rl.KeyR) {
		v.restart()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.params.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyG) {
		v.grid.ShowGridLines = !v.grid.ShowGridLines
	}

	v.handleCameraInput()

	mouse := rl.GetMousePosition()
	if !v.params.Contains(mouse.X, mouse.Y) {
		v.inspector.HandleInput(mouse.X, mouse.Y, v.cam)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h

	v.cam.Resize(w, h)
	v.inspector.Resize(int32(w), int32(h))
	v.perf.SetPosition(int32(w)-270, int32(h)-160)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pan speed in screen pixels per frame
	const panSpeed = 8

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	// Drag with the middle button
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}

	// Wheel zooms toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		v.cam.ZoomAt(m.X, m.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}
