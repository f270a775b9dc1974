//go:build js && wasm

package dom

import (
	"context"
	"syscall/js"

	"github.com/okian/wordtracker/internal/app"
	"github.com/okian/wordtracker/internal/app/router"
	"github.com/okian/wordtracker/internal/domain/route"
	"github.com/okian/wordtracker/pkg/logger"
)

// Wire installs the page-level listeners that feed the session: link
// interception, back/forward, search input and outside clicks. Callbacks
// hand work to goroutines so the browser event loop never blocks on a
// fetch. The returned disposer removes every listener.
func Wire(ctx context.Context, p *Page, s *app.Session, log logger.Logger) router.Disposer {
	var disposers []router.Disposer
	add := func(d router.Disposer) { disposers = append(disposers, d) }

	add(Listen(p.doc, "click", func(e js.Value) {
		target := e.Get("target")
		inSearch := p.input.Call("contains", target).Bool() || p.results.Call("contains", target).Bool()
		if !inSearch {
			s.Search().ClickOutside()
		}

		link := target.Call("closest", "a[data-route]")
		if link.IsNull() || modified(e) {
			return
		}
		href := link.Call("getAttribute", "href").String()
		if href == "" || href[0] != '/' {
			return
		}
		e.Call("preventDefault")

		if link.Get("classList").Call("contains", "search-result-item").Bool() {
			name := route.Resolve(href).Param
			go func() {
				if err := s.Search().Select(ctx, name); err != nil {
					log.Debug(ctx, "search select", logger.Error(err))
				}
			}()
			return
		}
		go func() {
			if err := s.Navigate(ctx, href); err != nil {
				log.Debug(ctx, "navigate", logger.String("href", href), logger.Error(err))
			}
		}()
	}))

	add(Listen(p.win, "popstate", func(js.Value) {
		url := p.Location()
		go func() {
			if err := s.Router().PopState(ctx, url); err != nil {
				log.Debug(ctx, "popstate", logger.String("url", url), logger.Error(err))
			}
		}()
	}))

	add(Listen(p.input, "input", func(js.Value) {
		text := p.input.Get("value").String()
		go s.Search().Input(ctx, text)
	}))

	add(Listen(p.input, "keydown", func(e js.Value) {
		if e.Get("key").String() == "Escape" {
			go s.Search().Escape()
		}
	}))

	return func() {
		for _, d := range disposers {
			d()
		}
	}
}

// modified reports whether the click should open a new tab or window.
func modified(e js.Value) bool {
	for _, k := range []string{"metaKey", "ctrlKey", "shiftKey", "altKey"} {
		if e.Get(k).Bool() {
			return true
		}
	}
	return e.Get("button").Int() != 0
}
