package imageio

import (
	"image"
	"image/color"
)

// DrawDot fills a circle of the given radius centered at (cx, cy). Pixels
// outside the image bounds are skipped.
func DrawDot(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			setClipped(img, cx+dx, cy+dy, c)
		}
	}
}

// DrawLine draws a line segment from (x0, y0) to (x1, y1) using Bresenham's
// algorithm, widened to the given thickness.
func DrawLine(img *image.RGBA, x0, y0, x1, y1, thickness int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if thickness <= 1 {
			setClipped(img, x0, y0, c)
		} else {
			DrawDot(img, x0, y0, thickness/2, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect outlines an axis-aligned rectangle.
func DrawRect(img *image.RGBA, x0, y0, x1, y1, thickness int, c color.Color) {
	DrawLine(img, x0, y0, x1, y0, thickness, c)
	DrawLine(img, x1, y0, x1, y1, thickness, c)
	DrawLine(img, x1, y1, x0, y1, thickness, c)
	DrawLine(img, x0, y1, x0, y0, thickness, c)
}

func setClipped(img *image.RGBA, x, y int, c color.Color) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
