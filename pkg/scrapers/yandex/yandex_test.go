package yandex

import (
	"errors"
	"testing"
	"time"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/browser"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/config"
)

type fakeCard struct {
	texts map[string]string // selector -> inner text
	attrs map[string]string // selector -> href
	err   error             // returned by every read when set
}

func (c *fakeCard) Text(sel string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.texts[sel], nil
}

func (c *fakeCard) Attr(sel, name string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.attrs[sel], nil
}

func (c *fakeCard) ScrollIntoView() error { return c.err }

type fakePage struct {
	cards      []browser.Element
	waitErr    map[string]error
	queryErr   error
	navigated  []string
	filled     map[string]string
	pressed    []string
	queryCalls int
}

func (p *fakePage) Navigate(url string, timeout time.Duration) error {
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) WaitVisible(sel string, timeout time.Duration) error {
	if p.waitErr != nil {
		return p.waitErr[sel]
	}
	return nil
}

func (p *fakePage) Fill(sel, text string) error {
	if p.filled == nil {
		p.filled = map[string]string{}
	}
	p.filled[sel] = text
	return nil
}

func (p *fakePage) Press(sel, key string) error {
	p.pressed = append(p.pressed, key)
	return nil
}

func (p *fakePage) QueryAll(sel string) ([]browser.Element, error) {
	p.queryCalls++
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.cards, nil
}

func (p *fakePage) Close() error { return nil }

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.BaseURL = "https://market.example/"
	cfg.SearchURL = "https://market.example/"
	return cfg
}

func goodCard(cfg *config.Config, name, href string) *fakeCard {
	return &fakeCard{
		texts: map[string]string{
			cfg.Selectors.Title:         name,
			cfg.Selectors.Price:         "1 768 ₽",
			cfg.Selectors.RatingReviews: "4,8 · Оценок: (2.7K)",
		},
		attrs: map[string]string{cfg.Selectors.Link: href},
	}
}

func TestExtractBuildsRecords(t *testing.T) {
	cfg := testConfig()
	page := &fakePage{cards: []browser.Element{
		goodCard(cfg, "Кроссовки  мужские\nNike", "/product--nike/123"),
		goodCard(cfg, "Ботинки", "https://other.example/p/9"),
	}}
	s := NewScraper(page, cfg)

	products, errs := s.Extract(10)

	if errs != 0 {
		t.Fatalf("errors = %d, want 0", errs)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	p := products[0]
	if p.Name != "Кроссовки мужские Nike" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Price != 1768 {
		t.Errorf("price = %v, want 1768", p.Price)
	}
	if p.URL != "https://market.example/product--nike/123" {
		t.Errorf("url = %q", p.URL)
	}
	if p.Rating == nil || *p.Rating != 4.8 {
		t.Errorf("rating = %v, want 4.8", p.Rating)
	}
	if p.ReviewsCount == nil || *p.ReviewsCount != 2700 {
		t.Errorf("reviews = %v, want 2700", p.ReviewsCount)
	}
	if p.ScrapedAt == "" {
		t.Error("scraped_at must be stamped")
	}

	// Absolute hrefs pass through untouched.
	if products[1].URL != "https://other.example/p/9" {
		t.Errorf("url = %q", products[1].URL)
	}
}

func TestExtractUsesTitleFallback(t *testing.T) {
	cfg := testConfig()
	card := goodCard(cfg, "", "/p/1")
	card.texts[cfg.Selectors.TitleFallback] = " Запасной  заголовок "
	page := &fakePage{cards: []browser.Element{card}}

	products, errs := NewScraper(page, cfg).Extract(10)

	if errs != 0 || len(products) != 1 {
		t.Fatalf("got %d products, %d errors", len(products), errs)
	}
	if products[0].Name != "Запасной заголовок" {
		t.Errorf("name = %q", products[0].Name)
	}
}

func TestExtractDiscardsIncompleteCardWithoutCountingError(t *testing.T) {
	cfg := testConfig()
	empty := &fakeCard{texts: map[string]string{}, attrs: map[string]string{}}
	page := &fakePage{cards: []browser.Element{
		empty,
		goodCard(cfg, "Целая карточка", "/p/2"),
	}}

	products, errs := NewScraper(page, cfg).Extract(10)

	if errs != 0 {
		t.Errorf("errors = %d, want 0: incomplete cards are expected, not failures", errs)
	}
	if len(products) != 1 || products[0].Name != "Целая карточка" {
		t.Fatalf("products = %+v", products)
	}
}

func TestExtractIsolatesBrokenCard(t *testing.T) {
	cfg := testConfig()
	page := &fakePage{cards: []browser.Element{
		goodCard(cfg, "Первая", "/p/1"),
		&fakeCard{err: errors.New("node detached")},
		goodCard(cfg, "Третья", "/p/3"),
	}}

	products, errs := NewScraper(page, cfg).Extract(10)

	if errs != 1 {
		t.Errorf("errors = %d, want 1", errs)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2: a broken card must not abort the batch", len(products))
	}
	if products[0].Name != "Первая" || products[1].Name != "Третья" {
		t.Errorf("order not preserved: %+v", products)
	}
}

func TestExtractAppliesLimit(t *testing.T) {
	cfg := testConfig()
	var cards []browser.Element
	for i := 0; i < 5; i++ {
		cards = append(cards, goodCard(cfg, "Товар", "/p/x"))
	}
	page := &fakePage{cards: cards}

	products, _ := NewScraper(page, cfg).Extract(3)

	if len(products) != 3 {
		t.Errorf("got %d products, want limit 3", len(products))
	}
}

func TestSearchReportsMissingCards(t *testing.T) {
	cfg := testConfig()
	page := &fakePage{waitErr: map[string]error{
		cfg.Selectors.Card: errors.New("timeout"),
	}}
	s := NewScraper(page, cfg)

	if err := s.Search("кроссовки"); err == nil {
		t.Fatal("want error when no cards appear")
	}
	if got := page.filled[cfg.Selectors.SearchInput]; got != "кроссовки" {
		t.Errorf("search input filled with %q", got)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://market.example/", "/p/1", "https://market.example/p/1"},
		{"https://market.example", "/p/1", "https://market.example/p/1"},
		{"https://market.example/", "https://cdn.example/p", "https://cdn.example/p"},
		{"https://market.example/", "", ""},
	}
	for _, tt := range tests {
		if got := resolveURL(tt.base, tt.href); got != tt.want {
			t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
