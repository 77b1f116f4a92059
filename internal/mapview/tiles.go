package mapview

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"polio-eradicator/internal/logger"
)

const userAgent = "polio-eradicator/1.0 (desktop map viewer)"

// TileLayer describes where base map tiles come from. URLTemplate may use
// {s}, {z}, {x} and {y}.
type TileLayer struct {
	URLTemplate string
	Subdomains  []string
	NoWrap      bool
}

// URL fills in the template for one tile. Subdomains rotate with x+y.
func (t TileLayer) URL(z, x, y int) string {
	sub := ""
	if len(t.Subdomains) > 0 {
		i := (x + y) % len(t.Subdomains)
		if i < 0 {
			i = -i
		}
		sub = t.Subdomains[i]
	}
	return strings.NewReplacer(
		"{s}", sub,
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(t.URLTemplate)
}

type tileKey struct{ z, x, y int }

// TileFetcher downloads tiles over HTTP and keeps them in memory.
type TileFetcher struct {
	layer  TileLayer
	client *http.Client
	log    logger.Logger

	mu    sync.Mutex
	cache map[tileKey]image.Image
}

func NewTileFetcher(layer TileLayer, client *http.Client, log logger.Logger) *TileFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &TileFetcher{
		layer:  layer,
		client: client,
		log:    log,
		cache:  make(map[tileKey]image.Image),
	}
}

// Tile returns one decoded tile, from cache when possible.
func (f *TileFetcher) Tile(ctx context.Context, z, x, y int) (image.Image, error) {
	key := tileKey{z, x, y}
	f.mu.Lock()
	img, ok := f.cache[key]
	f.mu.Unlock()
	if ok {
		return img, nil
	}

	url := f.layer.URL(z, x, y)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tile %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tile %s: status %d", url, resp.StatusCode)
	}
	img, _, err = image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode tile %s: %w", url, err)
	}

	f.mu.Lock()
	f.cache[key] = img
	f.mu.Unlock()
	return img, nil
}

// World stitches every tile at zoom into one image. Tiles that fail are
// left blank and reported in the returned error; the image is still usable.
func (f *TileFetcher) World(ctx context.Context, zoom int) (image.Image, error) {
	zoom = clampZoom(zoom)
	n := 1 << zoom
	world := image.NewRGBA(image.Rect(0, 0, n*TileSize, n*TileSize))

	var errs []error
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if err := ctx.Err(); err != nil {
				return world, err
			}
			tile, err := f.Tile(ctx, zoom, x, y)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			dst := image.Rect(x*TileSize, y*TileSize, (x+1)*TileSize, (y+1)*TileSize)
			xdraw.Draw(world, dst, tile, tile.Bounds().Min, xdraw.Src)
		}
	}

	f.log.Debug("Base map assembled", map[string]interface{}{
		"zoom":   zoom,
		"tiles":  n * n,
		"failed": len(errs),
	})
	return world, errors.Join(errs...)
}
