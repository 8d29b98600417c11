package format

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style + wrap width. A fixed style avoids the terminal queries
	// WithAutoStyle would issue.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// Markdown renders md for the terminal, wrapped at width. Without color it
// uses glamour's notty style. On renderer failure md is returned as is.
func Markdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	style := styles.DarkStyle
	if Plain() {
		style = styles.NoTTYStyle
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}
