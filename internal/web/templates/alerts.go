package templates

import (
	"context"

	"github.com/a-h/templ"
)

// Alert levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="alert alert-error" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(` `)
			h.text(action)
		}
		if code != "" {
			h.raw(` <small>(Code: `)
			h.text(code)
			h.raw(`)</small>`)
		}
		h.raw(`</div>`)
	})
}

// Notice renders a one-line message. Unknown levels render as info.
func Notice(level, message string) templ.Component {
	switch level {
	case LevelInfo, LevelWarn, LevelError:
	default:
		level = LevelInfo
	}
	return component(func(_ context.Context, h *html) {
		if message == "" {
			return
		}
		h.printf(`<div class="alert alert-%s" role="status">`, level)
		h.text(message)
		h.raw(`</div>`)
	})
}
