package templates

import (
	"context"

	"github.com/a-h/templ"
)

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f5f6f8;color:#1f2328}
header{background:#24292f;color:#fff;padding:.75rem 1.5rem}
header h1{font-size:1.1rem;margin:0}
header small{color:#9da7b3}
main{display:grid;grid-template-columns:minmax(0,3fr) minmax(0,2fr);gap:1rem;padding:1rem 1.5rem}
section{background:#fff;border:1px solid #d0d7de;border-radius:6px;padding:1rem}
h2{font-size:1rem;margin:0 0 .75rem}
table{border-collapse:collapse;width:100%;font-size:.85rem}
th,td{border-bottom:1px solid #eaeef2;padding:.3rem .4rem;text-align:left;white-space:nowrap}
th a{color:inherit;text-decoration:none}
tr.selected{background:#fff8c5}
.fields{display:grid;grid-template-columns:repeat(4,1fr);gap:.5rem;margin-bottom:.75rem}
.fields label{display:flex;flex-direction:column;font-size:.75rem;gap:.2rem}
.actions{display:flex;gap:.5rem;flex-wrap:wrap;margin:.5rem 0}
button,.button{padding:.35rem .8rem;border:1px solid #d0d7de;border-radius:6px;background:#f6f8fa;cursor:pointer;font-size:.85rem;color:inherit;text-decoration:none}
.alert{padding:.6rem .8rem;border-radius:6px;margin-bottom:.75rem;font-size:.85rem}
.alert-info{background:#ddf4ff;border:1px solid #54aeff}
.alert-warn{background:#fff8c5;border:1px solid #d4a72c}
.alert-error{background:#ffebe9;border:1px solid #ff8182}
.scroll{max-height:60vh;overflow:auto}
.bars{display:flex;align-items:flex-end;gap:1rem;height:240px;border-bottom:1px solid #8c959f;padding:0 .5rem}
.bar{display:flex;flex-direction:column-reverse;width:3rem;height:100%}
.bar-label{text-align:center;font-size:.75rem;width:3rem}
.legend{display:flex;gap:1rem;font-size:.75rem;margin-top:.5rem;flex-wrap:wrap}
.swatch{display:inline-block;width:.75rem;height:.75rem;margin-right:.25rem;vertical-align:middle}
.pie{width:240px;height:240px;border-radius:50%;margin:0 auto}
`

// Layout wraps body in the page chrome.
func Layout(title, subtitle string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body><header><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		if subtitle != "" {
			h.raw(`<small>`)
			h.text(subtitle)
			h.raw(`</small>`)
		}
		h.raw(`</header>`)
		h.render(ctx, body)
		h.raw(`</body></html>`)
	})
}
