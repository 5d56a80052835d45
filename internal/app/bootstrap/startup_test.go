package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/gamecatalog/internal/app/features/home"
	"github.com/dalemusser/gamecatalog/internal/app/system/indexes"
	"github.com/dalemusser/gamecatalog/internal/app/system/ratelimit"
	"github.com/dalemusser/gamecatalog/internal/app/system/telemetry"
	"github.com/dalemusser/gamecatalog/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "videogames",
		MongoMaxPoolSize:   100,
		MongoMinPoolSize:   5,
		CORSAllowedOrigins: []string{"*"},
		RateLimitEnabled:   true,
		RateLimitRPS:       20,
		RateLimitBurst:     40,
		RateLimitIdle:      3 * time.Minute,
		MaxPageSize:        100,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"empty database", func(c *AppConfig) { c.MongoDatabase = " " }, true},
		{"min pool above max", func(c *AppConfig) { c.MongoMinPoolSize = 200 }, true},
		{"zero page size", func(c *AppConfig) { c.MaxPageSize = 0 }, true},
		{"zero rps", func(c *AppConfig) { c.RateLimitRPS = 0 }, true},
		{"zero burst", func(c *AppConfig) { c.RateLimitBurst = 0 }, true},
		{"limits ignored when disabled", func(c *AppConfig) {
			c.RateLimitEnabled = false
			c.RateLimitRPS = 0
			c.RateLimitBurst = 0
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if tt.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	for i := 0; i < 2; i++ {
		if err := EnsureSchema(ctx, &config.CoreConfig{}, validAppConfig(), deps, testLogger()); err != nil {
			t.Fatalf("EnsureSchema run %d failed: %v", i+1, err)
		}
	}

	cur, err := db.Collection("games").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var idx []bson.M
	if err := cur.All(ctx, &idx); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}
	have := map[string]bool{}
	for _, ix := range idx {
		name, _ := ix["name"].(string)
		have[name] = true
	}
	for _, name := range indexes.GameIndexNames {
		if !have[name] {
			t.Errorf("missing index %q", name)
		}
	}
}

func TestStartupShutdown_RateLimiterLifecycle(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validAppConfig()
	if err := Startup(ctx, &config.CoreConfig{}, cfg, DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	if background.limiter == nil || background.stop == nil {
		t.Fatal("expected Startup to start the rate limiter")
	}

	if err := Shutdown(ctx, &config.CoreConfig{}, cfg, DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if background.limiter != nil || background.stop != nil {
		t.Error("expected Shutdown to stop the rate limiter")
	}

	cfg.RateLimitEnabled = false
	if err := Startup(ctx, &config.CoreConfig{}, cfg, DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	if background.limiter != nil {
		t.Error("limiter should not start when disabled")
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	h, err := BuildHandler(&config.CoreConfig{}, validAppConfig(), deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}
	return h
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildHandler_Routes(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != home.Banner {
		t.Errorf("GET /: got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(telemetry.RequestIDHeader) == "" {
		t.Error("expected a request id on the response")
	}

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health: got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/games: got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"games":[]`) {
		t.Errorf("expected an empty games list, got %s", rec.Body.String())
	}

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("expected http_requests_total in the exposition")
	}
}

func TestBuildHandler_CORS(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := serve(h, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin: got %q, want *", got)
	}
}

func TestBuildHandler_RateLimit(t *testing.T) {
	background.limiter = ratelimit.New(ratelimit.Config{RPS: 0.001, Burst: 2})
	defer func() { background.limiter = nil }()

	h := newTestHandler(t)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		codes = append(codes, serve(h, req).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want 429", codes[2])
	}
}
