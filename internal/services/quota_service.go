// Daily generation quota.
//
// QuotaService tracks how many trip generations the user has spent today.
// The counter is persisted as a small JSON blob so it survives restarts and
// rolls over to zero when the calendar date changes. The service trades
// strictness for availability on purpose: if the persisted state cannot be
// read the quota fails open (full allowance), and if an increment cannot be
// written the failure is logged and swallowed so it never blocks a
// generation the user already paid for.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

// MaxGenerationsPerDay is the default daily generation allowance.
const MaxGenerationsPerDay = 10

// quotaStateKey is the fixed KV key the counter is persisted under.
const quotaStateKey = "rate_limit"

// QuotaService enforces the per-day generation allowance.
//
// Increment re-reads the persisted state under the lock immediately before
// writing, so two near-simultaneous increments cannot interleave their
// read-modify-write cycles.
type QuotaService struct {
	kv  KVStore
	max int
	now func() time.Time

	mu    sync.Mutex
	count int
	date  string
}

// NewQuotaService constructs a QuotaService backed by kv with the default
// daily allowance and wall clock. max values below 1 fall back to the
// default.
func NewQuotaService(kv KVStore, max int) *QuotaService {
	if max < 1 {
		max = MaxGenerationsPerDay
	}
	return &QuotaService{kv: kv, max: max, now: time.Now}
}

// dayKey renders t as the persisted calendar-day key ("YYYY-M-D", no zero
// padding, matching the stored wire format).
func dayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// Load reads the persisted counter and primes the in-memory view. When no
// state exists, or the stored date is not today, the counter resets to zero
// and the reset is persisted. Read failures fail open: the full allowance
// becomes available and the error is only logged.
func (s *QuotaService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := dayKey(s.now())
	s.date = today

	raw, found, err := s.kv.Get(ctx, quotaStateKey)
	if err != nil {
		log.Warn().Err(err).Msg("quota: load failed, failing open")
		s.count = 0
		return
	}

	if found {
		var st domain.RateLimitState
		if jerr := json.Unmarshal(raw, &st); jerr == nil && st.Date == today {
			s.count = st.Count
			return
		}
	}

	// Absent or rolled over: start the day at zero and persist the reset.
	s.count = 0
	s.persist(ctx, domain.RateLimitState{Count: 0, Date: today})
}

// Increment records one spent generation. It re-reads the authoritative
// persisted state first; if the stored date is no longer today the spend
// counts as the first of the new day. Persistence failures are logged and
// swallowed, leaving the in-memory counter unchanged.
func (s *QuotaService) Increment(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := dayKey(s.now())

	next := 1
	raw, found, err := s.kv.Get(ctx, quotaStateKey)
	if err != nil {
		log.Warn().Err(err).Msg("quota: increment read failed")
		return
	}
	if found {
		var st domain.RateLimitState
		if jerr := json.Unmarshal(raw, &st); jerr == nil && st.Date == today {
			next = st.Count + 1
		}
	}

	if !s.persist(ctx, domain.RateLimitState{Count: next, Date: today}) {
		return
	}
	s.count = next
	s.date = today
}

// persist writes st, logging and swallowing any error. Reports success.
func (s *QuotaService) persist(ctx context.Context, st domain.RateLimitState) bool {
	raw, err := json.Marshal(st)
	if err == nil {
		err = s.kv.Put(ctx, quotaStateKey, raw)
	}
	if err != nil {
		log.Warn().Err(err).Int("count", st.Count).Msg("quota: persist failed")
		return false
	}
	return true
}

// GenerationsLeft returns how many generations remain today, never negative.
// A day rollover since the last Load or Increment restores the full
// allowance.
func (s *QuotaService) GenerationsLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.date != dayKey(s.now()) {
		return s.max
	}
	if left := s.max - s.count; left > 0 {
		return left
	}
	return 0
}

// CanGenerate reports whether at least one generation remains today. This is
// a gate, not an error path.
func (s *QuotaService) CanGenerate() bool { return s.GenerationsLeft() > 0 }

// MaxPerDay returns the configured daily allowance.
func (s *QuotaService) MaxPerDay() int { return s.max }
