package render

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// Loading is the placeholder shown while a route's data is in flight.
func Loading() View {
	return View{
		Title:  "Loading",
		Status: http.StatusOK,
		Body: fragment(func(b *builder) {
			b.raw(`<p class="loading-message">Loading content...</p>`)
		}),
	}
}

// Unavailable is shown when the backend could not be reached after retries.
// The hosted backend sleeps when idle, so the message invites a retry.
func Unavailable() View {
	return View{
		Title:  "Server Unavailable",
		Status: http.StatusServiceUnavailable,
		Body: fragment(func(b *builder) {
			b.raw(`<div class="error-message" role="alert">`,
				`<h3>Server unavailable</h3>`,
				`<p>The tracker server may be waking up. Please try again in a moment.</p>`,
				`</div>`)
		}),
	}
}

// NotFound is the 404 view for paths outside the three routes.
func NotFound() View {
	return View{
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Body: fragment(func(b *builder) {
			b.emptyState("404 Not Found", "The requested page does not exist.")
		}),
	}
}

// LayoutOptions configures the page shell.
type LayoutOptions struct {
	// SiteName is shown in the header and the document title.
	SiteName string
	// ClientScript enables the browser client bundle.
	ClientScript bool
	// BackendURL is published to the browser client as a meta tag.
	BackendURL string
}

// Page shell constants.
const (
	// BackendURLMeta is the meta tag name carrying LayoutOptions.BackendURL.
	BackendURLMeta = "tracker-backend-url"
	// DefaultSiteName is used when LayoutOptions.SiteName is empty.
	DefaultSiteName = "Word Tracker"
)

// Layout wraps a view in the full page shell: header with search box,
// the content region the router swaps and the client bootstrap.
func Layout(v View, opts LayoutOptions) templ.Component {
	name := opts.SiteName
	if name == "" {
		name = DefaultSiteName
	}
	title := name
	if v.Title != "" {
		title = v.Title + " | " + name
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b builder
		b.raw(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`)
		b.text(title)
		b.raw(`</title>`)
		if opts.BackendURL != "" {
			b.raw(`
    <meta name="`, BackendURLMeta, `" content="`)
			b.text(opts.BackendURL)
			b.raw(`"/>`)
		}
		b.raw(`
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <header class="site-header">
      <a href="/" data-route class="site-name">`)
		b.text(name)
		b.raw(`</a>
      <div class="search">
        <input id="search-input" type="search" placeholder="Search players" autocomplete="off"/>
        <div id="search-results" class="search-results" hidden></div>
      </div>
    </header>
    <main id="content" class="content">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if v.Body != nil {
			if err := v.Body.Render(ctx, w); err != nil {
				return err
			}
		}

		b.Reset()
		b.raw(`</main>`)
		if opts.ClientScript {
			b.raw(`
    <script src="/static/wasm_exec.js"></script>
    <script>
      const go = new Go();
      WebAssembly.instantiateStreaming(fetch("/static/main.wasm"), go.importObject)
        .then((res) => go.run(res.instance))
        .catch(() => {});
    </script>`)
		}
		b.raw(`
  </body>
</html>
`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
