package term

// Braille cells pack 2x4 sub-pixels per character, offset from U+2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// canvas is a braille sub-pixel grid: (w*2) x (h*4) addressable dots over
// w x h character cells.
type canvas struct {
	w, h int
	grid [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.w || row >= c.h {
		return
	}
	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// line draws with Bresenham's algorithm in sub-pixel coordinates.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) row(i int) string {
	return string(c.grid[i])
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
