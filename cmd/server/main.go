// Package main provides the scanner HTTP service:
// - GET /analyze?mint=...  runs a full security analysis
// - GET /history?mint=...  returns recent scan records
// - /health, /status, /metrics for operations
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"x1-token-scanner/internal/burn"
	"x1-token-scanner/internal/discovery"
	"x1-token-scanner/internal/domain"
	"x1-token-scanner/internal/holders"
	"x1-token-scanner/internal/market"
	"x1-token-scanner/internal/observability"
	"x1-token-scanner/internal/scan"
	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/storage"
	chstore "x1-token-scanner/internal/storage/clickhouse"
	"x1-token-scanner/internal/storage/memory"
	"x1-token-scanner/internal/storage/migrations"
	pgstore "x1-token-scanner/internal/storage/postgres"
	"x1-token-scanner/internal/watch"
)

// tokenAnalyzer runs a full security analysis of one mint.
type tokenAnalyzer interface {
	Analyze(ctx context.Context, mint string) (*domain.SecurityReport, error)
}

// poolWatcher keeps the LP status cache honest by invalidating it on
// pool account changes.
type poolWatcher interface {
	Watch(ctx context.Context, mint, poolAddress string) error
}

// Server holds all components of the scanner service.
type Server struct {
	analyzer tokenAnalyzer
	history  storage.ScanHistoryStore
	watcher  poolWatcher
	logger   *log.Logger

	// watchCtx scopes pool watches to the server lifetime. A watch
	// started under a request context would die with the request.
	watchCtx context.Context

	mu        sync.Mutex
	started   time.Time
	scans     int
	scanFails int
	lastScan  time.Time
}

// serverStores holds the storage backends the service runs on.
type serverStores struct {
	lpStatus storage.LPStatusStore
	facts    storage.SupplyFactStore
	history  storage.ScanHistoryStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("X1_RPC_ENDPOINT"), "X1 RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("X1_WS_ENDPOINT"), "X1 WebSocket endpoint (optional, enables pool watch)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	listenAddr := flag.String("listen", ":8080", "HTTP listen address")
	cacheTTL := flag.Duration("cache-ttl", burn.DefaultCacheTTL, "LP status cache TTL")
	concurrency := flag.Int("concurrency", burn.DefaultConcurrency, "Parallel pool analyses per scan")
	tokenListPath := flag.String("token-list", "", "Path to token list JSON for name/symbol gap-fill")
	verbose := flag.Bool("verbose", false, "Verbose logging")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	rpc := solana.NewHTTPClient(*rpcEndpoint)

	finder := discovery.NewFinder(discovery.FinderOptions{
		RPC:     rpc,
		Verbose: *verbose,
	})
	burnAnalyzer := burn.NewAnalyzer(burn.AnalyzerOptions{
		RPC:         rpc,
		Finder:      finder,
		Cache:       stores.lpStatus,
		Facts:       stores.facts,
		CacheTTL:    *cacheTTL,
		Concurrency: *concurrency,
		Verbose:     *verbose,
	})

	var list scan.TokenList
	if *tokenListPath != "" {
		list = scan.LoadTokenList(*tokenListPath)
		logger.Printf("Loaded %d token list entries from %s", len(list), *tokenListPath)
	}

	analyzer := scan.New(scan.Options{
		RPC:       rpc,
		Burn:      burnAnalyzer,
		Holders:   holders.NewAnalyzer(rpc),
		Market:    market.NewResolver(rpc),
		History:   stores.history,
		TokenList: list,
		Verbose:   *verbose,
	})

	server := &Server{
		analyzer: analyzer,
		history:  stores.history,
		logger:   logger,
		started:  time.Now(),
		watchCtx: ctx,
	}

	// Pool watch is optional: without a WS endpoint the cache relies on
	// TTL expiry alone.
	if *wsEndpoint != "" {
		ws, err := solana.NewWSClient(ctx, *wsEndpoint, nil)
		if err != nil {
			logger.Fatalf("Failed to connect WebSocket: %v", err)
		}
		defer ws.Close()

		watcher := watch.NewWatcher(ws, stores.lpStatus)
		watcher.SetVerbose(*verbose)
		defer watcher.Close()
		server.watcher = watcher
		logger.Printf("Pool watch enabled via %s", *wsEndpoint)
	}

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the storage backends and applies migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*serverStores, func(), error) {
	if useMemory {
		stores := &serverStores{
			lpStatus: memory.NewLPStatusStore(),
			facts:    memory.NewSupplyFactStore(),
			history:  memory.NewScanHistoryStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	conn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		conn.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &serverStores{
		lpStatus: pgstore.NewLPStatusStore(pool),
		facts:    pgstore.NewSupplyFactStore(pool),
		history:  chstore.NewScanHistoryStore(conn),
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/history", s.handleHistory)

	return mux
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// handleAnalyze runs a full analysis of the mint given in ?mint=.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	mint := r.URL.Query().Get("mint")
	if mint == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mint query parameter is required"})
		return
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(r.Context(), mint)
	if err != nil {
		s.recordScan(false)
		status, kind := classifyError(err)
		observability.RecordScanError(kind)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.recordScan(true)
	observability.RecordScan(string(report.RiskLevel), time.Since(start).Seconds())
	observability.RecordPoolsDiscovered(len(report.LPStatus.Pools))

	// Keep the cache honest: invalidate on main pool state changes.
	// The watch outlives this request, so it runs under the server
	// context rather than r.Context().
	if s.watcher != nil {
		if pool := report.LPStatus.MainPool(); pool != nil {
			if err := s.watcher.Watch(s.watchCtx, mint, pool.PoolAddress); err != nil {
				s.logger.Printf("watch pool for %s: %v", mint, err)
			}
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// handleHistory returns the most recent scan records for a mint.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	mint := r.URL.Query().Get("mint")
	if mint == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mint query parameter is required"})
		return
	}

	records, err := s.history.GetByMint(r.Context(), mint, 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	Scans       int       `json:"scans"`
	FailedScans int       `json:"failed_scans"`
	LastScan    time.Time `json:"last_scan,omitempty"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		Scans:       s.scans,
		FailedScans: s.scanFails,
		LastScan:    s.lastScan,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// recordScan updates the in-process scan counters.
func (s *Server) recordScan(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.scans++
		s.lastScan = time.Now()
	} else {
		s.scanFails++
	}
}

// classifyError maps an analysis error to an HTTP status and metrics kind.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, scan.ErrInvalidAddress):
		return http.StatusBadRequest, "invalid_address"
	case errors.Is(err, scan.ErrNotAToken):
		return http.StatusNotFound, "not_a_token"
	case errors.Is(err, scan.ErrTokenInfoUnavailable):
		return http.StatusBadGateway, "token_info_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
