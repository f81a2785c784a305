package facts

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
)

const (
	// DefaultRate is the sustained request rate towards the model.
	DefaultRate = rate.Limit(0.5)

	// DefaultBurst allows a few quick questions before throttling.
	DefaultBurst = 3

	// DefaultCacheTTL is how long a successful fact is reused.
	DefaultCacheTTL = 10 * time.Minute
)

// Result is the outcome of one fact request. Text is always displayable.
type Result struct {
	Text     string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

type cacheEntry struct {
	text    string
	expires time.Time
}

// Service fronts a Generator with a per-body cache and a rate limiter. It
// is safe for concurrent use.
type Service struct {
	gen     Generator
	limiter *rate.Limiter
	ttl     time.Duration
	log     *logging.Logger
	metrics *metrics.Collector
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRate sets the request rate and burst. A zero limit disables
// throttling.
func WithRate(limit rate.Limit, burst int) ServiceOption {
	return func(s *Service) {
		if limit <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithCacheTTL sets how long facts are cached; zero disables caching.
func WithCacheTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) ServiceOption {
	return func(s *Service) {
		s.log = l
	}
}

// WithMetrics records request outcomes in m.
func WithMetrics(m *metrics.Collector) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService wraps gen.
func NewService(gen Generator, opts ...ServiceOption) *Service {
	s := &Service{
		gen:     gen,
		limiter: rate.NewLimiter(DefaultRate, DefaultBurst),
		ttl:     DefaultCacheTTL,
		log:     logging.Discard(),
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fact implements Source.
func (s *Service) Fact(ctx context.Context, name string) string {
	return s.Ask(ctx, name).Text
}

// Ask returns a fact about name, from cache when fresh.
func (s *Service) Ask(ctx context.Context, name string) Result {
	start := s.now()

	if text, ok := s.cached(name, start); ok {
		s.metrics.RecordFact(string(OutcomeCached))
		return Result{Text: text, Outcome: OutcomeCached}
	}

	var (
		text string
		err  error
	)
	if s.limiter != nil && !s.limiter.AllowN(start, 1) {
		err = ErrRateLimited
	} else {
		text, err = s.gen.Generate(ctx, name)
	}
	res := Result{Text: text, Outcome: OutcomeOK, Err: err, Duration: s.now().Sub(start)}

	if err != nil {
		res.Outcome, res.Text = fallback(name, err)
		if res.Outcome == OutcomeError {
			s.log.Warn("fact for %s failed after %v: %v", name, res.Duration, err)
		} else {
			s.log.Debug("fact for %s: %s", name, res.Outcome)
		}
	} else {
		s.store(name, text, start)
		s.log.Debug("fact for %s in %v", name, res.Duration)
	}

	s.metrics.RecordFact(string(res.Outcome))
	return res
}

func (s *Service) cached(name string, now time.Time) (string, bool) {
	if s.ttl <= 0 {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[name]
	if !ok {
		return "", false
	}
	if !now.Before(e.expires) {
		delete(s.cache, name)
		return "", false
	}
	return e.text, true
}

func (s *Service) store(name, text string, now time.Time) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[name] = cacheEntry{text: text, expires: now.Add(s.ttl)}
}
