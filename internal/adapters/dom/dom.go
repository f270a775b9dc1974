//go:build js && wasm

package dom

import (
	"context"
	"errors"
	"strconv"
	"syscall/js"

	"github.com/okian/wordtracker/internal/app/router"
	"github.com/okian/wordtracker/internal/app/search"
	"github.com/okian/wordtracker/internal/render"
)

// Element ids of the page shell.
const (
	ContentID       = "content"
	SearchInputID   = "search-input"
	SearchResultsID = "search-results"
)

// ErrMissingElement is returned when the page shell lacks a required node.
var ErrMissingElement = errors.New("dom: required element not found")

// Page wraps the document. It implements router.Viewport and
// router.History; Panel exposes the search dropdown.
type Page struct {
	win     js.Value
	doc     js.Value
	content js.Value
	input   js.Value
	results js.Value
	site    string
}

// NewPage looks up the shell elements rendered by render.Layout.
func NewPage(siteName string) (*Page, error) {
	win := js.Global()
	doc := win.Get("document")
	p := &Page{
		win:     win,
		doc:     doc,
		content: doc.Call("getElementById", ContentID),
		input:   doc.Call("getElementById", SearchInputID),
		results: doc.Call("getElementById", SearchResultsID),
		site:    siteName,
	}
	for _, el := range []js.Value{p.content, p.input, p.results} {
		if el.IsNull() || el.IsUndefined() {
			return nil, ErrMissingElement
		}
	}
	return p, nil
}

// Show replaces the content region and the document title.
func (p *Page) Show(ctx context.Context, v render.View) error {
	markup, err := render.ToString(ctx, v.Body)
	if err != nil {
		return err
	}
	p.content.Set("innerHTML", markup)
	title := p.site
	if v.Title != "" {
		title = v.Title + " | " + p.site
	}
	p.doc.Set("title", title)
	return nil
}

// Bind installs a view behaviour on the content region.
func (p *Page) Bind(b render.Behavior) router.Disposer {
	switch b {
	case render.WordListToggle:
		return Listen(p.content, "click", p.toggleWords)
	default:
		return nil
	}
}

// toggleWords expands or collapses the word list of the clicked button.
func (p *Page) toggleWords(e js.Value) {
	btn := e.Get("target").Call("closest", ".word-list-toggle")
	if btn.IsNull() {
		return
	}
	name := btn.Call("getAttribute", "data-player-words").String()
	list := p.doc.Call("getElementById", render.WordListID(name))
	if list.IsNull() {
		return
	}
	count, _ := strconv.Atoi(btn.Call("getAttribute", "data-word-count").String())
	show := list.Get("hidden").Bool()
	list.Set("hidden", !show)
	btn.Set("textContent", render.WordToggleLabel(show, count))
	btn.Call("setAttribute", "aria-expanded", strconv.FormatBool(show))
}

// ScrollY returns the vertical scroll offset of the window.
func (p *Page) ScrollY() float64 {
	return p.win.Get("scrollY").Float()
}

// ScrollTo scrolls the window vertically.
func (p *Page) ScrollTo(y float64) {
	p.win.Call("scrollTo", 0, y)
}

// Push adds a history entry without reloading.
func (p *Page) Push(url string) {
	p.win.Get("history").Call("pushState", js.Null(), "", url)
}

// Location returns the current path and query.
func (p *Page) Location() string {
	loc := p.win.Get("location")
	return loc.Get("pathname").String() + loc.Get("search").String()
}

// Meta returns the content of <meta name=name>, or "".
func (p *Page) Meta(name string) string {
	el := p.doc.Call("querySelector", `meta[name="`+name+`"]`)
	if el.IsNull() {
		return ""
	}
	return el.Call("getAttribute", "content").String()
}

// searchPanel adapts Page to search.Panel; its Show targets the dropdown.
type searchPanel struct{ p *Page }

// Panel returns the search dropdown as a search.Panel.
func (p *Page) Panel() search.Panel {
	return searchPanel{p}
}

func (s searchPanel) Show(ctx context.Context, v render.View) error {
	markup, err := render.ToString(ctx, v.Body)
	if err != nil {
		return err
	}
	s.p.results.Set("innerHTML", markup)
	s.p.results.Set("hidden", false)
	return nil
}

func (s searchPanel) Hide() {
	s.p.results.Set("innerHTML", "")
	s.p.results.Set("hidden", true)
}

func (s searchPanel) ClearInput() {
	s.p.input.Set("value", "")
}

// Listen adds an event listener and returns its disposer, which removes
// the listener and releases the callback.
func Listen(target js.Value, event string, fn func(e js.Value)) router.Disposer {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", event, cb)
	return func() {
		target.Call("removeEventListener", event, cb)
		cb.Release()
	}
}
