// Package loader enumerates the items of an infinite-scroll listing page.
//
// The loader repeatedly scrolls the page to the bottom, waits for injected
// content to settle and measures the document height. Once the height has not
// changed for a configured number of consecutive rounds (or the attempt bound
// is hit) the listing is considered fully loaded. Records are produced by a
// caller-supplied extraction function and deduplicated by a caller-chosen key.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidConfig is returned by Enumerate when Config fails validation.
var ErrInvalidConfig = errors.New("invalid loader config")

// Page is the capability the loader borrows for one enumeration.
// Implementations must not be shared between concurrent enumerations.
type Page interface {
	ScrollToBottom(ctx context.Context) error
	MeasureHeight(ctx context.Context) (int, error)
}

// Record maps a field name to an extracted value.
type Record map[string]string

// ExtractFunc returns the records currently present on the page.
type ExtractFunc func(ctx context.Context) ([]Record, error)

// Mode selects when extraction happens.
type Mode int

const (
	// ModeBatch extracts once after scrolling has stopped.
	ModeBatch Mode = iota
	// ModeStreaming extracts after every scroll step and merges the results.
	ModeStreaming
)

func (m Mode) String() string {
	switch m {
	case ModeBatch:
		return "batch"
	case ModeStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a config string into a Mode. The empty string is batch.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "batch":
		return ModeBatch, nil
	case "streaming":
		return ModeStreaming, nil
	default:
		return ModeBatch, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

// State is the position of an enumeration in its scroll loop.
type State int

const (
	StateScrolling State = iota
	StateSettling
	StateConverged
	StateExhausted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateScrolling:
		return "scrolling"
	case StateSettling:
		return "settling"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config controls one enumeration.
type Config struct {
	SettleDelay     time.Duration
	MaxStableRounds int
	MaxAttempts     int
	DedupKey        func(Record) string
	Mode            Mode
}

// Validate checks that the loop is guaranteed to terminate.
func (c Config) Validate() error {
	if c.SettleDelay <= 0 {
		return fmt.Errorf("%w: settle delay must be positive, got %s", ErrInvalidConfig, c.SettleDelay)
	}
	if c.MaxStableRounds < 1 {
		return fmt.Errorf("%w: max stable rounds must be at least 1, got %d", ErrInvalidConfig, c.MaxStableRounds)
	}
	if c.MaxAttempts < c.MaxStableRounds {
		return fmt.Errorf("%w: max attempts (%d) must be >= max stable rounds (%d)", ErrInvalidConfig, c.MaxAttempts, c.MaxStableRounds)
	}
	if c.DedupKey == nil {
		return fmt.Errorf("%w: dedup key is required", ErrInvalidConfig)
	}
	if c.Mode != ModeBatch && c.Mode != ModeStreaming {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(c.Mode))
	}
	return nil
}

// KeyField returns a dedup key function reading a single record field.
func KeyField(field string) func(Record) string {
	return func(r Record) string { return r[field] }
}

// ResultSet is the ordered, deduplicated output of one enumeration.
type ResultSet struct {
	Records  []Record
	Attempts int
	State    State

	seen map[string]struct{}
	key  func(Record) string
}

func newResultSet(key func(Record) string) *ResultSet {
	return &ResultSet{
		Records: []Record{},
		seen:    make(map[string]struct{}),
		key:     key,
	}
}

// Len returns the number of unique records.
func (rs *ResultSet) Len() int {
	return len(rs.Records)
}

// merge appends records whose key has not been seen yet and reports how many
// were added. Records with an empty key are dropped.
func (rs *ResultSet) merge(records []Record) int {
	added := 0
	for _, r := range records {
		k := rs.key(r)
		if k == "" {
			continue
		}
		if _, ok := rs.seen[k]; ok {
			continue
		}
		rs.seen[k] = struct{}{}
		rs.Records = append(rs.Records, r)
		added++
	}
	return added
}

// Dedup returns records with duplicates removed by key, keeping the first
// occurrence and the original order. Records with an empty key are dropped.
func Dedup(records []Record, key func(Record) string) []Record {
	rs := newResultSet(key)
	rs.merge(records)
	return rs.Records
}

// scrollState is the transient per-call loop state.
type scrollState struct {
	previousHeight int
	stableCount    int
	attempt        int
}

// observe records a height measurement and reports whether the page is stable
// for maxStable consecutive rounds.
func (s *scrollState) observe(height, maxStable int) bool {
	if height == s.previousHeight {
		s.stableCount++
	} else {
		s.stableCount = 0
	}
	s.previousHeight = height
	return s.stableCount >= maxStable
}

// Enumerate scrolls page until its height converges or cfg.MaxAttempts is
// reached and returns the deduplicated records produced by extract.
//
// Errors from page or extract are returned as is (wrapped), without retry.
// When ctx ends, Enumerate returns ctx.Err() with the records merged so far
// in streaming mode and an empty set in batch mode.
func Enumerate(ctx context.Context, page Page, extract ExtractFunc, cfg Config) (*ResultSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rs := newResultSet(cfg.DedupKey)
	st := &scrollState{}
	rs.State = StateScrolling

	for st.attempt < cfg.MaxAttempts {
		if err := ctx.Err(); err != nil {
			rs.State = StateCancelled
			return rs, err
		}
		st.attempt++
		rs.Attempts = st.attempt

		if err := page.ScrollToBottom(ctx); err != nil {
			return rs, fmt.Errorf("scroll attempt %d: %w", st.attempt, err)
		}

		rs.State = StateSettling
		if !settle(ctx, cfg.SettleDelay) {
			rs.State = StateCancelled
			return rs, ctx.Err()
		}

		height, err := page.MeasureHeight(ctx)
		if err != nil {
			return rs, fmt.Errorf("measure height attempt %d: %w", st.attempt, err)
		}
		converged := st.observe(height, cfg.MaxStableRounds)

		if cfg.Mode == ModeStreaming {
			records, err := extract(ctx)
			if err != nil {
				return rs, fmt.Errorf("extract attempt %d: %w", st.attempt, err)
			}
			if added := rs.merge(records); added > 0 {
				slog.Debug("loader: merged new records", "attempt", st.attempt, "added", added, "total", rs.Len())
			}
		}

		slog.Debug("loader: scroll step", "attempt", st.attempt, "height", height, "stable", st.stableCount)

		if converged {
			rs.State = StateConverged
			break
		}
		rs.State = StateScrolling
	}

	if rs.State != StateConverged {
		rs.State = StateExhausted
		slog.Debug("loader: attempt bound reached before convergence", "attempts", rs.Attempts)
	}

	if cfg.Mode == ModeBatch {
		records, err := extract(ctx)
		if err != nil {
			return rs, fmt.Errorf("extract: %w", err)
		}
		rs.merge(records)
	}

	return rs, nil
}

// settle waits for d. It returns false if ctx ended first.
func settle(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
