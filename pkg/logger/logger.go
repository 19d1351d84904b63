// Package logger writes leveled, component-tagged lines to stdout:
//
//	2026/08/31 14:02:11 [INFO] scroll: attempt 3: 40 cards in DOM
//
// The threshold is set once at startup (LOG_LEVEL env via main).
package logger

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu       sync.RWMutex
	minLevel = LevelInfo
)

// SetLevel accepts DEBUG, INFO, WARN or ERROR (any case). Unknown values
// fall back to INFO.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		minLevel = LevelDebug
	case "WARN", "WARNING":
		minLevel = LevelWarn
	case "ERROR":
		minLevel = LevelError
	default:
		minLevel = LevelInfo
	}
}

func enabled(level int) bool {
	mu.RLock()
	defer mu.RUnlock()
	return level >= minLevel
}

func output(level int, tag, component, format string, args ...any) {
	if !enabled(level) {
		return
	}
	log.Printf("[%s] %s: %s", tag, component, fmt.Sprintf(format, args...))
}

func Debugf(component, format string, args ...any) {
	output(LevelDebug, "DEBUG", component, format, args...)
}

func Infof(component, format string, args ...any) {
	output(LevelInfo, "INFO", component, format, args...)
}

func Warnf(component, format string, args ...any) {
	output(LevelWarn, "WARN", component, format, args...)
}

func Errorf(component, format string, args ...any) {
	output(LevelError, "ERROR", component, format, args...)
}

// DebugDedup is Debugf for messages that repeat identically across many
// cards; bursts collapse into one line with a repeat count.
func DebugDedup(component, format string, args ...any) {
	if !enabled(LevelDebug) {
		return
	}
	Dedup("[DEBUG] "+component+": "+format, args...)
}

var dedup = &deduplicator{
	flushDelay: 2 * time.Second,
}

// deduplicator coalesces bursts of identical messages into one line with a
// repeat count. Used for per-card noise (skipped cards, parse misses).
type deduplicator struct {
	mu         sync.Mutex
	lastMsg    string
	count      int
	flushDelay time.Duration
	timer      *time.Timer
}

func (d *deduplicator) flush() {
	if d.count == 0 {
		return
	}
	if d.count == 1 {
		log.Print(d.lastMsg)
	} else {
		log.Printf("%s (%d)", d.lastMsg, d.count)
	}
	d.count = 0
	d.lastMsg = ""
}

func Dedup(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	dedup.mu.Lock()
	defer dedup.mu.Unlock()

	if msg == dedup.lastMsg {
		dedup.count++
		if dedup.timer != nil {
			dedup.timer.Stop()
		}
		dedup.timer = time.AfterFunc(dedup.flushDelay, func() {
			dedup.mu.Lock()
			defer dedup.mu.Unlock()
			dedup.flush()
		})
		return
	}

	dedup.flush()
	dedup.lastMsg = msg
	dedup.count = 1
	dedup.timer = time.AfterFunc(dedup.flushDelay, func() {
		dedup.mu.Lock()
		defer dedup.mu.Unlock()
		dedup.flush()
	})
}
