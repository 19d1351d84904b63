// Package yandex drives the Yandex Market search feed: submit a query,
// let the infinite scroll converge, then extract product cards into
// typed records.
package yandex

import (
	"fmt"
	"strings"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/browser"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/config"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/logger"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/scroll"
)

const component = "yandex"

type Scraper struct {
	page browser.Page
	cfg  *config.Config
}

func NewScraper(page browser.Page, cfg *config.Config) *Scraper {
	return &Scraper{page: page, cfg: cfg}
}

// Search opens the storefront, submits the query and waits for the first
// result card. An error here means the run has nothing to extract; the
// caller reports zero results instead of failing the process.
func (s *Scraper) Search(query string) error {
	sel := s.cfg.Selectors

	logger.Infof(component, "navigating to %s", s.cfg.SearchURL)
	if err := s.page.Navigate(s.cfg.SearchURL, s.cfg.NavTimeout); err != nil {
		return fmt.Errorf("search page did not load: %w", err)
	}
	if err := s.page.WaitVisible(sel.SearchInput, s.cfg.SearchTimeout); err != nil {
		return fmt.Errorf("search input not found, layout may have changed: %w", err)
	}

	if err := s.page.Fill(sel.SearchInput, query); err != nil {
		return fmt.Errorf("filling search input: %w", err)
	}
	if err := s.page.Press(sel.SearchInput, browser.KeyEnter); err != nil {
		return fmt.Errorf("submitting search: %w", err)
	}

	if err := s.page.WaitVisible(sel.Card, s.cfg.CardsTimeout); err != nil {
		return fmt.Errorf("no result cards appeared, layout may have changed: %w", err)
	}
	return nil
}

// Pager exposes the result feed to the scroll controller.
func (s *Scraper) Pager() scroll.Pager {
	return &pager{s: s}
}

type pager struct {
	s *Scraper
}

func (p *pager) Count() (int, error) {
	cards, err := p.s.page.QueryAll(p.s.cfg.Selectors.Card)
	if err != nil {
		return 0, err
	}
	return len(cards), nil
}

// LoadMore scrolls the last materialized card into view, which is what
// triggers the feed to fetch the next page.
func (p *pager) LoadMore() error {
	cards, err := p.s.page.QueryAll(p.s.cfg.Selectors.Card)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return nil
	}
	return cards[len(cards)-1].ScrollIntoView()
}

// resolveURL canonicalizes a card link: absolute hrefs pass through,
// page-relative ones get the base origin prefixed. An empty href stays
// empty so the card fails the name/url invariant and is discarded.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(base, "/") + href
}
