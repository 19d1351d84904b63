// Package browser wraps chromedp behind the small Page/Element surface
// the pipeline needs. Everything above this package talks to interfaces,
// so the scroll controller and the extractor run against fakes in tests.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// KeyEnter is the key string Press expects for submitting a form field.
const KeyEnter = kb.Enter

// Page is the automation capability over one browsing context. Calls that
// can block carry their own timeout; QueryAll never waits and returns the
// elements currently materialized in the DOM.
type Page interface {
	Navigate(url string, timeout time.Duration) error
	WaitVisible(sel string, timeout time.Duration) error
	Fill(sel, text string) error
	Press(sel, key string) error
	QueryAll(sel string) ([]Element, error)
	Close() error
}

// Element is one live DOM node. Text and Attr resolve a descendant by
// selector and return "" when it is absent; that is the common case
// (cards without a rating block), not an error.
type Element interface {
	Text(sel string) (string, error)
	Attr(sel, name string) (string, error)
	ScrollIntoView() error
}

type Options struct {
	UserAgent   string
	Headless    bool
	CallTimeout time.Duration // per element read / input action
}

// Session implements Page over one headless Chrome instance. One session
// per pipeline run; Close tears down the browser and the allocator.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
	callTimeout time.Duration
}

func NewSession(opts Options) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         ctx,
		cancel:      cancel,
		cancelAlloc: cancelAlloc,
		callTimeout: opts.CallTimeout,
	}

	// Starts the browser; fails fast if Chrome is not available.
	if err := chromedp.Run(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	return s, nil
}

func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *Session) Navigate(url string, timeout time.Duration) error {
	return s.run(timeout, chromedp.Navigate(url))
}

func (s *Session) WaitVisible(sel string, timeout time.Duration) error {
	return s.run(timeout, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func (s *Session) Fill(sel, text string) error {
	return s.run(s.callTimeout, chromedp.SendKeys(sel, text, chromedp.ByQuery))
}

func (s *Session) Press(sel, key string) error {
	return s.run(s.callTimeout, chromedp.SendKeys(sel, key, chromedp.ByQuery))
}

func (s *Session) QueryAll(sel string) ([]Element, error) {
	var nodes []*cdp.Node
	err := s.run(s.callTimeout,
		chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	els := make([]Element, len(nodes))
	for i, n := range nodes {
		els[i] = &element{s: s, node: n}
	}
	return els, nil
}

func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
	return nil
}

type element struct {
	s    *Session
	node *cdp.Node
}

// callOn runs a zero-argument JS function with the node as `this` and
// unmarshals the by-value result. Unlike chromedp.Text this does not wait
// for the descendant to appear, so a missing sub-element costs one round
// trip, not a timeout.
func (e *element) callOn(decl string, out any) error {
	ctx, cancel := context.WithTimeout(e.s.ctx, e.s.callTimeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("resolving node: %w", err)
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)

		res, exp, err := runtime.CallFunctionOn(decl).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exp != nil {
			return exp
		}
		if res == nil || res.Value == nil {
			return nil
		}
		return json.Unmarshal([]byte(res.Value), out)
	}))
}

func (e *element) Text(sel string) (string, error) {
	var decl string
	if sel == "" {
		decl = `function() { return this.innerText || ""; }`
	} else {
		decl = fmt.Sprintf(
			`function() { const el = this.querySelector(%s); return el ? (el.innerText || "") : ""; }`,
			strconv.Quote(sel))
	}
	var out string
	if err := e.callOn(decl, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (e *element) Attr(sel, name string) (string, error) {
	decl := fmt.Sprintf(
		`function() { const el = this.querySelector(%s); return el ? (el.getAttribute(%s) || "") : ""; }`,
		strconv.Quote(sel), strconv.Quote(name))
	var out string
	if err := e.callOn(decl, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (e *element) ScrollIntoView() error {
	ctx, cancel := context.WithTimeout(e.s.ctx, e.s.callTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return dom.ScrollIntoViewIfNeeded().WithNodeID(e.node.NodeID).Do(ctx)
	}))
}
