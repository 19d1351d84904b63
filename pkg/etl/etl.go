// Package etl sequences one full run: preflight, browser session, search,
// scroll convergence, extraction, ingestion. The run is a single failure
// boundary: whatever goes wrong, Run completes, reports zero effect and
// logs why.
package etl

import (
	"time"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/browser"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/config"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/logger"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/preflight"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/scrapers/yandex"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/scroll"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/store"
)

const component = "etl"

type Result struct {
	Extracted int
	Inserted  int
	Errors    int // per-card extraction failures, observability only
	Duration  time.Duration
}

type Pipeline struct {
	cfg *config.Config

	// Injection points for tests; defaults drive the real stack.
	newPage   func() (browser.Page, error)
	openStore func(path string) (*store.Store, error)
	preflight func(baseURL, userAgent string) error
}

func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		newPage: func() (browser.Page, error) {
			return browser.NewSession(browser.Options{
				UserAgent:   cfg.UserAgent,
				Headless:    cfg.Headless,
				CallTimeout: cfg.CallTimeout,
			})
		},
		openStore: store.Open,
		preflight: preflight.Check,
	}
}

// Run executes the pipeline and always returns, wall-clock duration
// filled in, even when a stage fails or panics.
func (p *Pipeline) Run() Result {
	start := time.Now()
	logger.Infof(component, "run started: query=%q limit=%d", p.cfg.Query, p.cfg.Limit)

	var res Result
	func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf(component, "run aborted by panic: %v", r)
			}
		}()
		p.run(&res)
	}()

	res.Duration = time.Since(start)
	logger.Infof(component, "run finished in %.1fs: extracted=%d inserted=%d card_errors=%d",
		res.Duration.Seconds(), res.Extracted, res.Inserted, res.Errors)
	return res
}

func (p *Pipeline) run(res *Result) {
	if err := p.preflight(p.cfg.BaseURL, p.cfg.UserAgent); err != nil {
		logger.Errorf(component, "preflight failed, skipping run: %v", err)
		return
	}

	page, err := p.newPage()
	if err != nil {
		logger.Errorf(component, "could not open browser session: %v", err)
		return
	}
	defer page.Close()

	scraper := yandex.NewScraper(page, p.cfg)
	if err := scraper.Search(p.cfg.Query); err != nil {
		logger.Errorf(component, "search failed: %v", err)
		return
	}

	sres := scroll.Converge(scroll.Config{
		Target:      p.cfg.Scroll.Target,
		MaxAttempts: p.cfg.Scroll.MaxAttempts,
		Pause:       p.cfg.Scroll.Pause,
	}, scraper.Pager())
	logger.Infof(component, "scrolling stopped: %s (%d cards after %d attempts)",
		sres.Reason, sres.Count, sres.Attempts)

	products, cardErrs := scraper.Extract(p.cfg.Limit)
	res.Extracted = len(products)
	res.Errors = cardErrs

	st, err := p.openStore(p.cfg.DBPath)
	if err != nil {
		logger.Errorf(component, "could not open store: %v", err)
		return
	}
	defer func() {
		st.Close()
		logger.Infof(component, "store connection closed")
	}()

	inserted, err := st.InsertBatch(products)
	if err != nil {
		logger.Errorf(component, "ingestion failed: %v", err)
		return
	}
	res.Inserted = inserted
}
