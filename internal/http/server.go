// Package http serves the dashboard JSON API: billing ledger, lead book,
// phone number inventory, call history and assistant configuration. All
// list endpoints read through per-view LRU caches in front of the
// platform backend.
package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"brandmize/internal/backend"
	"brandmize/internal/cache"
	"brandmize/internal/core"
	"brandmize/internal/metrics"
	"brandmize/internal/middleware/ratelimit"
	"brandmize/internal/middleware/security"
	"brandmize/internal/middleware/trace"
	"brandmize/internal/services"
)

// upstreamTimeout bounds any single fan-out to the platform API so a slow
// upstream cannot hang a dashboard view.
const upstreamTimeout = 15 * time.Second

// LeadImporter stages an uploaded CSV and queues it for sync.
type LeadImporter interface {
	ImportCSV(ctx context.Context, r io.Reader) (services.ImportResult, error)
}

type Server struct {
	http.Server

	backend  backend.Backend
	importer LeadImporter
	metrics  *metrics.Metrics

	limiter  *ratelimit.Limiter
	detector *security.Detector

	ledgerCache  *cache.LRUCache[core.LedgerResult]
	leadsCache   *cache.LRUCache[[]core.Lead]
	numbersCache *cache.LRUCache[[]core.PhoneNumber]
	callsCache   *cache.LRUCache[[]core.CallRecord]
	cacheManager *cache.Manager

	// genMu guards gen, the latest started fetch generation per cache key.
	// A fetch stores its result only while its generation is still the
	// newest, so a slow stale refresh can never overwrite fresher data
	// written after an invalidation.
	genMu sync.Mutex
	gen   map[string]uint64

	shutdownOnce sync.Once
}

// NewServer wires routes, caches and middleware, returning a ready-to-run
// http.Server. The importer may be nil; the import endpoint then responds
// 503 (the worker tier owns staging and may be disabled in some deploys).
func NewServer(addr string, b backend.Backend, importer LeadImporter, m *metrics.Metrics, cacheTTL time.Duration) *Server {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		backend:  b,
		importer: importer,
		metrics:  m,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: security.NewDetector(),

		ledgerCache:  cache.NewLRUCache[core.LedgerResult](100, cacheTTL),
		leadsCache:   cache.NewLRUCache[[]core.Lead](10, cacheTTL),
		numbersCache: cache.NewLRUCache[[]core.PhoneNumber](10, cacheTTL),
		callsCache:   cache.NewLRUCache[[]core.CallRecord](10, cacheTTL),
		cacheManager: cache.NewManager(),

		gen: make(map[string]uint64),
	}

	s.cacheManager.Register(s.ledgerCache)
	s.cacheManager.Register(s.leadsCache)
	s.cacheManager.Register(s.numbersCache)
	s.cacheManager.Register(s.callsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.rateLimited)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", m.Handler())

	mux.HandleFunc("GET /api/billing/ledger", s.handleLedger)
	mux.HandleFunc("GET /api/billing/ledger.csv", s.handleLedgerCSV)

	mux.HandleFunc("GET /api/leads", s.handleListLeads)
	mux.Handle("POST /api/leads/import", limited(http.HandlerFunc(s.handleImportLeads)))
	mux.Handle("POST /api/leads/{id}/call", limited(http.HandlerFunc(s.handleLeadCall)))

	mux.HandleFunc("GET /api/numbers", s.handleListNumbers)
	mux.HandleFunc("GET /api/numbers/search", s.handleSearchNumbers)
	mux.Handle("POST /api/numbers/purchase", limited(http.HandlerFunc(s.handlePurchaseNumber)))

	mux.HandleFunc("GET /api/calls", s.handleListCalls)
	mux.HandleFunc("GET /api/calls/summary", s.handleCallSummary)

	mux.HandleFunc("GET /api/assistant", s.handleGetAssistant)
	mux.Handle("PUT /api/assistant", limited(http.HandlerFunc(s.handleUpdateAssistant)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	s.Handler = headers.Middleware(tracer.Middleware(s.withMetrics(s.withDetection(mux))))

	return s
}

// withMetrics records request counts and latency per route pattern.
// r.Pattern keeps the label cardinality bounded even for wildcard routes.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		s.metrics.RequestsTotal.WithLabelValues(pattern, strconv.Itoa(rw.status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}

// withDetection flags requests matching known probe patterns. They are
// logged, not blocked: the API is meant to be scripted against.
func (s *Server) withDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request pattern",
				"request_id", trace.GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "Rate limit exceeded",
		"client_ip", s.detector.ExtractClientIP(r), "method", r.Method, "url", r.URL.Path)
	w.Header().Set("Retry-After", "60")
	s.writeError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests, retry later")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the HTTP listener, the cache janitor and the rate
// limiter. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if _, err := s.backend.GetAssistant(ctx); err != nil {
		slog.WarnContext(r.Context(), "Readiness probe failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("backend unreachable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// beginFetch registers a new fetch generation for key and returns it.
func (s *Server) beginFetch(key string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.gen[key]++
	return s.gen[key]
}

// fetchCurrent reports whether gen is still the newest fetch for key.
func (s *Server) fetchCurrent(key string, gen uint64) bool {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen[key] == gen
}

// bumpGeneration retires every in-flight fetch for key.
func (s *Server) bumpGeneration(key string) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.gen[key]++
}

// cachedFetch reads through c, fetching on a miss with the generation
// guard applied. Errors are never cached.
func cachedFetch[T any](ctx context.Context, s *Server, c *cache.LRUCache[T], name, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		s.metrics.CacheHits.WithLabelValues(name, "hit").Inc()
		return v, nil
	}
	s.metrics.CacheHits.WithLabelValues(name, "miss").Inc()

	genKey := name + ":" + key
	gen := s.beginFetch(genKey)

	cctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()
	v, err := fetch(cctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if s.fetchCurrent(genKey, gen) {
		c.Set(key, v)
	}
	return v, nil
}

func (s *Server) fetchLedger(ctx context.Context, window core.LedgerWindow) (core.LedgerResult, error) {
	return cachedFetch(ctx, s, s.ledgerCache, "ledger", windowKey(window), func(ctx context.Context) (core.LedgerResult, error) {
		var (
			payments []core.PaymentEvent
			spends   []core.SpendEvent
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			payments, err = s.backend.ListPayments(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			spends, err = s.backend.ListSpends(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return core.LedgerResult{}, err
		}
		return core.BuildLedger(payments, spends, window), nil
	})
}

func (s *Server) fetchLeads(ctx context.Context) ([]core.Lead, error) {
	return cachedFetch(ctx, s, s.leadsCache, "leads", "all", s.backend.ListLeads)
}

func (s *Server) fetchNumbers(ctx context.Context) ([]core.PhoneNumber, error) {
	return cachedFetch(ctx, s, s.numbersCache, "numbers", "all", s.backend.ListNumbers)
}

func (s *Server) fetchCalls(ctx context.Context) ([]core.CallRecord, error) {
	return cachedFetch(ctx, s, s.callsCache, "calls", "all", s.backend.ListCalls)
}

func (s *Server) invalidateLeads() {
	s.bumpGeneration("leads:all")
	s.leadsCache.Delete("all")
}

func (s *Server) invalidateNumbers() {
	s.bumpGeneration("numbers:all")
	s.numbersCache.Delete("all")
}

func (s *Server) invalidateCalls() {
	s.bumpGeneration("calls:all")
	s.callsCache.Delete("all")
}

func windowKey(w core.LedgerWindow) string {
	from, to := "", ""
	if w.From != nil {
		from = w.From.Format("2006-01-02")
	}
	if w.To != nil {
		to = w.To.Format("2006-01-02")
	}
	return from + ".." + to
}
