package main

import "math"

// Camera maps world metres (+Y up) to screen pixels (+Y down) centred on a
// followed point.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	zoom    float64

	// smoothing factor (0..1). higher -> faster follow. e.g. 0.15
	smooth float64
}

// NewCamera creates a camera with the given logical screen size and zoom in
// pixels per metre.
func NewCamera(screenW, screenH int, zoom float64) *Camera {
	return &Camera{screenW: screenW, screenH: screenH, zoom: zoom, smooth: 0.15}
}

// SetZoom updates the camera zoom.
func (c *Camera) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	c.zoom = z
}

func (c *Camera) Zoom() float64 {
	return c.zoom
}

// Jump moves the camera without smoothing, e.g. when entering the arena.
func (c *Camera) Jump(x, y float64) {
	c.PosX, c.PosY = x, y
}

// Update moves the camera toward the target world coordinate. Call from the
// fixed-rate Update loop to get consistent smoothing.
func (c *Camera) Update(targetX, targetY float64) {
	if c.smooth <= 0 {
		c.PosX = targetX
		c.PosY = targetY
		return
	}
	c.PosX += (targetX - c.PosX) * c.smooth
	c.PosY += (targetY - c.PosY) * c.smooth

	// snap position to 1/zoom grid to align to integer screen pixels
	c.PosX = math.Round(c.PosX*c.zoom) / c.zoom
	c.PosY = math.Round(c.PosY*c.zoom) / c.zoom
}

// ToScreen converts a world point to screen pixels.
func (c *Camera) ToScreen(x, y float64) (float32, float32) {
	sx := (x-c.PosX)*c.zoom + float64(c.screenW)/2
	sy := float64(c.screenH)/2 - (y-c.PosY)*c.zoom
	return float32(sx), float32(sy)
}

// ToWorld converts screen pixels to a world point.
func (c *Camera) ToWorld(sx, sy int) (float64, float64) {
	x := (float64(sx)-float64(c.screenW)/2)/c.zoom + c.PosX
	y := (float64(c.screenH)/2-float64(sy))/c.zoom + c.PosY
	return x, y
}
