// Package config carries every tunable the pipeline needs as one explicit
// value. Components receive it at construction time; there is no
// package-level mutable configuration anywhere in the module.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Selectors pin the DOM structure of the storefront. When the site ships a
// layout change, this is the only block that needs touching.
type Selectors struct {
	SearchInput   string
	Card          string
	Link          string
	Title         string
	TitleFallback string
	Price         string
	RatingReviews string
}

// Scroll bounds the lazy-load convergence loop.
type Scroll struct {
	Target      int
	MaxAttempts int
	Pause       time.Duration
}

type Config struct {
	BaseURL   string
	SearchURL string
	UserAgent string
	Headless  bool

	Query string
	Limit int

	DBPath string

	NavTimeout    time.Duration // full page navigation
	SearchTimeout time.Duration // search input becoming visible
	CardsTimeout  time.Duration // first result card appearing
	CallTimeout   time.Duration // any single element read

	Selectors Selectors
	Scroll    Scroll
}

// Load builds the config from the environment, reading .env first if one
// is present. Every value has a working default for the live storefront.
func Load() *Config {
	_ = godotenv.Load()

	limit := getInt("SCRAPE_LIMIT", 1000)

	return &Config{
		BaseURL:   getEnv("BASE_URL", "https://market.yandex.ru/"),
		SearchURL: getEnv("SEARCH_URL", "https://market.yandex.ru/"),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		Headless:  getBool("HEADLESS", true),

		Query: getEnv("SEARCH_QUERY", "кроссовки мужские"),
		Limit: limit,

		DBPath: getEnv("DB_PATH", "products.db"),

		NavTimeout:    getDuration("NAV_TIMEOUT", 60*time.Second),
		SearchTimeout: getDuration("SEARCH_TIMEOUT", 10*time.Second),
		CardsTimeout:  getDuration("CARDS_TIMEOUT", 20*time.Second),
		CallTimeout:   getDuration("CALL_TIMEOUT", 5*time.Second),

		Selectors: Selectors{
			SearchInput:   "#header-search",
			Card:          `div[data-zone-name="productSnippet"]`,
			Link:          `a[data-auto="snippet-link"]`,
			Title:         `p[data-auto="snippet-title"]`,
			TitleFallback: `[data-zone-name="title"]`,
			Price:         `span[data-auto="snippet-price-current"]`,
			RatingReviews: `[data-zone-name="rating"] [data-auto="reviews"]`,
		},
		Scroll: Scroll{
			Target:      limit,
			MaxAttempts: getInt("SCROLL_MAX_ATTEMPTS", 80),
			Pause:       getDuration("SCROLL_PAUSE", time.Second),
		},
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
