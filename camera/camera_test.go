package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFitsGrid(t *testing.T) {
	cam := New(800, 600, 100, 100, 8)

	// Grid is 800x800 world units; height limits the fit.
	if !near(cam.Zoom, 0.75) || !near(cam.MinZoom, 0.75) {
		t.Errorf("zoom = %f, min = %f; want 0.75", cam.Zoom, cam.MinZoom)
	}
	if cam.X != 400 || cam.Y != 400 {
		t.Errorf("expected camera at (400, 400), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 100, 100, 16)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)

	tests := []struct {
		name   string
		sx, sy float32
		x, y   uint32
		ok     bool
	}{
		{"top-left", 0, 0, 0, 0, true},
		{"centre", 55, 45, 5, 4, true},
		{"bottom-right", 99.9, 99.9, 9, 9, true},
		{"left of grid", -1, 50, 0, 0, false},
		{"below grid", 50, 100, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.CellAt(tt.sx, tt.sy)
			if ok != tt.ok || (ok && (x != tt.x || y != tt.y)) {
				t.Errorf("CellAt(%v,%v) = %d,%d,%v; want %d,%d,%v", tt.sx, tt.sy, x, y, ok, tt.x, tt.y, tt.ok)
			}
		})
	}
}

func TestCellRect(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)
	cam.SetZoom(2)
	cam.X, cam.Y = 25, 25

	sx, sy, size := cam.CellRect(2, 2)
	if !near(sx, 40) || !near(sy, 40) || !near(size, 20) {
		t.Errorf("CellRect = %f,%f,%f; want 40,40,20", sx, sy, size)
	}
}

func TestPanStaysOnGrid(t *testing.T) {
	cam := New(100, 100, 20, 20, 10)
	cam.SetZoom(2)

	cam.Pan(-10000, -10000)
	if !near(cam.X, 25) || !near(cam.Y, 25) {
		t.Errorf("pan past origin left camera at (%f,%f), want (25,25)", cam.X, cam.Y)
	}

	cam.Pan(10000, 10000)
	if !near(cam.X, 175) || !near(cam.Y, 175) {
		t.Errorf("pan past end left camera at (%f,%f), want (175,175)", cam.X, cam.Y)
	}
}

func TestSmallGridStaysCentred(t *testing.T) {
	cam := New(800, 400, 10, 10, 10)
	cam.SetZoom(cam.MinZoom)

	cam.Pan(300, 0)
	if !near(cam.X, 50) {
		t.Errorf("grid narrower than view should stay centred, X = %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 100, 100, 10)

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != 8.0 {
		t.Errorf("expected zoom clamped to 8.0, got %f", cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(400, 400, 100, 100, 10)
	cam.SetZoom(1)
	cam.X, cam.Y = 500, 500

	wx, wy := cam.ScreenToWorld(300, 250)
	cam.ZoomAt(300, 250, 2)
	gx, gy := cam.ScreenToWorld(300, 250)
	if !near(wx, gx) || !near(wy, gy) {
		t.Errorf("point moved from (%f,%f) to (%f,%f)", wx, wy, gx, gy)
	}
}

func TestVisibleCells(t *testing.T) {
	cam := New(100, 100, 50, 50, 10)
	cam.SetZoom(1)
	cam.X, cam.Y = 250, 250

	x0, y0, x1, y1 := cam.VisibleCells()
	if x0 != 20 || y0 != 20 || x1 != 30 || y1 != 30 {
		t.Errorf("visible cells = %d,%d..%d,%d; want 20,20..30,30", x0, y0, x1, y1)
	}

	cam.Reset()
	x0, y0, x1, y1 = cam.VisibleCells()
	if x0 != 0 || y0 != 0 || x1 != 49 || y1 != 49 {
		t.Errorf("fitted visible cells = %d,%d..%d,%d", x0, y0, x1, y1)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(200, 200, 100, 100, 10)
	cam.SetZoom(1)
	cam.X, cam.Y = 500, 500

	if !cam.IsVisible(500, 500, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(900, 900, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(380, 500, 30) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResize(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)
	cam.Resize(200, 100)
	if !near(cam.MinZoom, 1) {
		t.Errorf("MinZoom after resize = %f, want 1", cam.MinZoom)
	}
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f", cam.Zoom, cam.MinZoom)
	}
}
