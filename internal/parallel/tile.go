// Package parallel provides the data-parallel scheduler of the software
// pipeline: a work-stealing pool and a tile grid over the color target.
//
// The color target is divided into 64x64 pixel tiles. Tiles are disjoint,
// so one job per tile can write its pixels without synchronization.
package parallel

import "image"

// Tile size constants.
const (
	// TileWidth is the width of a tile in pixels.
	TileWidth = 64

	// TileHeight is the height of a tile in pixels.
	TileHeight = 64
)

// Tile is one rectangular region of the color target.
// Edge tiles are smaller when the target is not a multiple of the tile size.
type Tile struct {
	// X and Y are the tile column and row.
	X, Y int

	// Rect is the tile's pixel region in target coordinates.
	Rect image.Rectangle
}

// TileGrid divides a target into tiles stored in row-major order.
//
// Thread safety: a TileGrid is immutable after construction.
type TileGrid struct {
	tiles  []Tile
	tilesX int
	tilesY int
	width  int
	height int
}

// NewTileGrid creates the grid covering a width x height target.
// Non-positive dimensions yield an empty grid.
func NewTileGrid(width, height int) *TileGrid {
	if width <= 0 || height <= 0 {
		return &TileGrid{}
	}

	g := &TileGrid{
		tilesX: (width + TileWidth - 1) / TileWidth,
		tilesY: (height + TileHeight - 1) / TileHeight,
		width:  width,
		height: height,
	}
	g.tiles = make([]Tile, 0, g.tilesX*g.tilesY)
	for ty := range g.tilesY {
		for tx := range g.tilesX {
			r := image.Rect(tx*TileWidth, ty*TileHeight, (tx+1)*TileWidth, (ty+1)*TileHeight)
			g.tiles = append(g.tiles, Tile{
				X:    tx,
				Y:    ty,
				Rect: r.Intersect(image.Rect(0, 0, width, height)),
			})
		}
	}
	return g
}

// TileAt returns the tile at tile coordinates (tx, ty), or false when the
// coordinates are outside the grid.
func (g *TileGrid) TileAt(tx, ty int) (Tile, bool) {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return Tile{}, false
	}
	return g.tiles[ty*g.tilesX+tx], true
}

// TilesInRect returns the tiles overlapping r, in row-major order.
func (g *TileGrid) TilesInRect(r image.Rectangle) []Tile {
	r = r.Intersect(image.Rect(0, 0, g.width, g.height))
	if r.Empty() {
		return nil
	}
	tx0, ty0 := r.Min.X/TileWidth, r.Min.Y/TileHeight
	tx1, ty1 := (r.Max.X-1)/TileWidth, (r.Max.Y-1)/TileHeight

	out := make([]Tile, 0, (tx1-tx0+1)*(ty1-ty0+1))
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			out = append(out, g.tiles[ty*g.tilesX+tx])
		}
	}
	return out
}

// Tiles returns all tiles. The slice must not be modified.
func (g *TileGrid) Tiles() []Tile {
	return g.tiles
}

// TileCount returns the total number of tiles.
func (g *TileGrid) TileCount() int {
	return len(g.tiles)
}

// TilesX returns the number of tile columns.
func (g *TileGrid) TilesX() int {
	return g.tilesX
}

// TilesY returns the number of tile rows.
func (g *TileGrid) TilesY() int {
	return g.tilesY
}
