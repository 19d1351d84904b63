// Package scroll decides how long to keep feeding an infinite-scroll list
// before extraction is worth attempting. The convergence logic is a pure
// transition over (last count, stall counter); the side effects live
// behind the Pager capability, so the loop is testable without a browser.
package scroll

import (
	"time"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/logger"
)

const component = "scroll"

// stallLimit is how many consecutive unchanged counts mean the feed has
// plateaued.
const stallLimit = 3

// Pager is the poll-and-act capability over the live page: count the
// cards currently in the DOM and trigger one more round of lazy loading.
type Pager interface {
	Count() (int, error)
	LoadMore() error
}

type Config struct {
	Target      int
	MaxAttempts int
	Pause       time.Duration
}

type Reason int

const (
	TargetReached Reason = iota
	NoCards
	Plateaued
	AttemptsExhausted
)

func (r Reason) String() string {
	switch r {
	case TargetReached:
		return "target reached"
	case NoCards:
		return "no cards in DOM"
	case Plateaued:
		return "card count plateaued"
	case AttemptsExhausted:
		return "max attempts exhausted"
	}
	return "unknown"
}

type Result struct {
	Count    int
	Attempts int
	Reason   Reason
}

type state struct {
	last  int
	stall int
}

type decision int

const (
	keepGoing decision = iota
	stopTarget
	stopEmpty
	stopPlateau
)

// next is the pure transition: given a fresh count it advances the state
// and says whether the loop should stop.
func (s state) next(count, target int) (state, decision) {
	if count >= target {
		return s, stopTarget
	}
	if count == 0 {
		return s, stopEmpty
	}
	if count == s.last {
		s.stall++
		if s.stall >= stallLimit {
			return s, stopPlateau
		}
		return s, keepGoing
	}
	s.stall = 0
	s.last = count
	return s, keepGoing
}

// Converge drives the feed until the target count is reached, the feed
// plateaus, the DOM turns out to be empty, or attempts run out. It never
// returns an error: whatever the page holds when it returns is what the
// extractor gets. A failed count read is treated as an unchanged reading.
func Converge(cfg Config, p Pager) Result {
	var st state

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		count, err := p.Count()
		if err != nil {
			logger.Warnf(component, "attempt %d: count failed, assuming unchanged: %v", attempt, err)
			count = st.last
		}
		logger.Infof(component, "attempt %d: %d cards in DOM", attempt, count)

		var d decision
		st, d = st.next(count, cfg.Target)
		switch d {
		case stopTarget:
			logger.Infof(component, "reached target card count: %d", cfg.Target)
			return Result{Count: count, Attempts: attempt + 1, Reason: TargetReached}
		case stopEmpty:
			logger.Warnf(component, "no cards found on page, layout may have changed")
			return Result{Count: 0, Attempts: attempt + 1, Reason: NoCards}
		case stopPlateau:
			logger.Infof(component, "cards stopped loading, accepting %d", count)
			return Result{Count: count, Attempts: attempt + 1, Reason: Plateaued}
		}

		if err := p.LoadMore(); err != nil {
			logger.Warnf(component, "attempt %d: load-more failed: %v", attempt, err)
		}
		time.Sleep(cfg.Pause)
	}

	logger.Infof(component, "scroll budget exhausted, accepting %d cards", st.last)
	return Result{Count: st.last, Attempts: cfg.MaxAttempts, Reason: AttemptsExhausted}
}
