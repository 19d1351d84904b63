package yandex

import (
	"errors"
	"fmt"
	"time"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/browser"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/logger"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/models"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/parse"
)

// Extract walks the first limit cards in DOM order and builds records out
// of them. One broken card never aborts the batch: capability errors are
// counted and logged, incomplete cards (no name or url) are silently
// dropped. Returns the records plus the error count, which exists for
// observability only.
func (s *Scraper) Extract(limit int) ([]models.Product, int) {
	cards, err := s.page.QueryAll(s.cfg.Selectors.Card)
	if err != nil {
		logger.Errorf(component, "could not list cards: %v", err)
		return nil, 0
	}
	logger.Infof(component, "%d cards in DOM", len(cards))

	if limit < len(cards) {
		cards = cards[:limit]
	}

	var products []models.Product
	errCount := 0

	for i, card := range cards {
		p, err := s.extractCard(card)
		if err != nil {
			if errors.Is(err, models.ErrIncompleteCard) {
				logger.Debugf(component, "card #%d skipped: %v", i+1, err)
				continue
			}
			errCount++
			logger.Warnf(component, "card #%d failed: %v", i+1, err)
			continue
		}
		products = append(products, *p)
	}

	logger.Infof(component, "extraction done: ok=%d, errors=%d", len(products), errCount)
	return products, errCount
}

func (s *Scraper) extractCard(card browser.Element) (*models.Product, error) {
	sel := s.cfg.Selectors

	// Stamped per card: a slow extraction legitimately spans timestamps.
	scrapedAt := models.Timestamp(time.Now())

	href, err := card.Attr(sel.Link, "href")
	if err != nil {
		return nil, fmt.Errorf("reading link: %w", err)
	}
	url := resolveURL(s.cfg.BaseURL, href)

	name, err := card.Text(sel.Title)
	if err != nil {
		return nil, fmt.Errorf("reading title: %w", err)
	}
	name = parse.CleanText(name)
	if name == "" {
		fallback, err := card.Text(sel.TitleFallback)
		if err != nil {
			return nil, fmt.Errorf("reading title fallback: %w", err)
		}
		name = parse.CleanText(fallback)
	}

	priceRaw, err := card.Text(sel.Price)
	if err != nil {
		return nil, fmt.Errorf("reading price: %w", err)
	}
	price := parse.Price(priceRaw)

	// Rating and review count share one text block but are parsed
	// independently; either may be absent.
	ratingRaw, err := card.Text(sel.RatingReviews)
	if err != nil {
		return nil, fmt.Errorf("reading rating block: %w", err)
	}
	var rating *float64
	if v, ok := parse.Rating(ratingRaw); ok {
		rating = &v
	} else if ratingRaw != "" {
		logger.DebugDedup(component, "card without parseable rating")
	}
	var reviews *int
	if n, ok := parse.ReviewCount(ratingRaw); ok {
		reviews = &n
	}

	p := &models.Product{
		Name:         name,
		Price:        price,
		URL:          url,
		Rating:       rating,
		ReviewsCount: reviews,
		ScrapedAt:    scrapedAt,
	}
	if p.Incomplete() {
		return nil, fmt.Errorf("%w (name=%q, url=%q)", models.ErrIncompleteCard, name, url)
	}
	return p, nil
}
