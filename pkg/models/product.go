package models

import (
	"errors"
	"time"
)

// TimeFormat is the fixed scraped_at layout: DD-MM-YYYY hh:mm:ss, 24-hour.
const TimeFormat = "02-01-2006 15:04:05"

var ErrIncompleteCard = errors.New("card missing name or url")

// Product is one listing pulled off the storefront feed. Rating and
// ReviewsCount are pointers because the source page often omits them and
// the store keeps them as NULL.
type Product struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	URL          string   `json:"url"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewsCount *int     `json:"reviews_count,omitempty"`
	ScrapedAt    string   `json:"scraped_at"`
}

// Timestamp renders t in the scraped_at layout. Stamped per card, not per
// batch, so a long extraction may span several timestamps.
func Timestamp(t time.Time) string {
	return t.Format(TimeFormat)
}

// Incomplete reports whether the record fails the name/url invariant and
// must be discarded rather than stored.
func (p *Product) Incomplete() bool {
	return p.Name == "" || p.URL == ""
}
