// Package templates holds the templ components of the web UI.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// html accumulates output and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped for element content or a quoted attribute.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// printf writes markup from a trusted format. String arguments are escaped;
// other arguments are formatted as is.
func (h *html) printf(format string, args ...any) {
	for i, a := range args {
		if s, ok := a.(string); ok {
			args[i] = templ.EscapeString(s)
		}
	}
	h.raw(fmt.Sprintf(format, args...))
}

// render writes c inline.
func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// component builds a templ.Component from a function writing through html.
func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}
