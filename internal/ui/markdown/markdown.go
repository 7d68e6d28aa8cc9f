// Package markdown provides styled markdown rendering for item
// descriptions, memoized because glamour renders are expensive enough
// to notice while scrolling.
package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"

	"giftwell/internal/cachemanager"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// renderTTL is how long rendered descriptions stay cached.
const renderTTL = 10 * time.Minute

// Renderer wraps glamour with giftwell-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
	cached   *cachemanager.ReadThroughCache[string, string, string]
}

// New creates a markdown renderer with the given width and style.
// style should be "dark" or "light". Defaults to "dark" if empty.
// An explicit style avoids WithAutoStyle's terminal OSC queries, whose
// responses leak into the bubbletea input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	r := &Renderer{renderer: tr, width: width, style: style}
	cache := cachemanager.NewInMemoryCacheManager[string, string](
		"markdown", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	r.cached = cachemanager.NewReadThroughCache[string, string, string](
		cache,
		func(ctx context.Context, body string) (string, error) {
			return r.renderer.Render(body)
		},
		false,
	)
	return r, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
// Results are cached per body, width, and style.
func (r *Renderer) Render(body string) (string, error) {
	return r.cached.Get(context.Background(), r.cacheKey(body), body, renderTTL)
}

func (r *Renderer) cacheKey(body string) string {
	sum := sha256.Sum256([]byte(body))
	return fmt.Sprintf("%s:%d:%x", r.style, r.width, sum[:8])
}
