// Package tiles renders the placeholder basemap served behind the
// sketch layer. Tiles are a neutral graticule grid so the page works
// without any external tile provider; encoded tiles are cached per
// coordinate.
package tiles

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/chai2010/webp"
	lru "github.com/hashicorp/golang-lru/v2"
	xdraw "golang.org/x/image/draw"
)

// TileSize is the pixel size of served tiles.
const TileSize = 256

// Tiles are rendered oversampled and downscaled for smoother lines.
const supersample = 2

var (
	background = color.RGBA{R: 236, G: 240, B: 242, A: 255}
	gridMinor  = color.RGBA{R: 216, G: 222, B: 226, A: 255}
	gridMajor  = color.RGBA{R: 190, G: 199, B: 205, A: 255}
)

// Generator renders and caches basemap tiles.
type Generator struct {
	cache *lru.Cache[string, []byte]
}

// NewGenerator returns a generator with an LRU cache of cacheSize
// encoded tiles.
func NewGenerator(cacheSize int) (*Generator, error) {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("tile cache: %w", err)
	}

	return &Generator{cache: cache}, nil
}

// Tile returns the encoded WebP tile at z/x/y and whether it came from
// the cache. Coordinates outside the 2^z grid are an error.
func (g *Generator) Tile(z, x, y int) ([]byte, bool, error) {
	if z < 0 || z > 24 {
		return nil, false, fmt.Errorf("zoom %d out of range", z)
	}
	grid := 1 << z
	if x < 0 || x >= grid || y < 0 || y >= grid {
		return nil, false, fmt.Errorf("tile %d/%d/%d out of range", z, x, y)
	}

	key := fmt.Sprintf("%d/%d/%d", z, x, y)
	if data, ok := g.cache.Get(key); ok {
		return data, true, nil
	}

	data, err := render()
	if err != nil {
		return nil, false, err
	}
	g.cache.Add(key, data)

	return data, false, nil
}

// render draws the graticule grid for one tile. Every tile is the same
// image: lines at tile borders are darker, interior lines lighter, so
// the border lines join into a coarse grid across the map.
func render() ([]byte, error) {
	size := TileSize * supersample
	src := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(src, src.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	const cells = 8
	step := size / cells
	for i := 0; i <= cells; i++ {
		c := gridMinor
		if i == 0 || i == cells {
			c = gridMajor
		}
		pos := i * step
		if pos >= size {
			pos = size - supersample
		}
		draw.Draw(src, image.Rect(pos, 0, pos+supersample, size),
			image.NewUniform(c), image.Point{}, draw.Src)
		draw.Draw(src, image.Rect(0, pos, size, pos+supersample),
			image.NewUniform(c), image.Point{}, draw.Src)
	}

	dst := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return buf.Bytes(), nil
}
