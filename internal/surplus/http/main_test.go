package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/metrics"
	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store/drivers/sqlite"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/aussiebroadwan/surplus360/pkg/cryptox"
	"github.com/aussiebroadwan/surplus360/pkg/httpx"
	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "surplus-http-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var relaxedLimit = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}

type testEnv struct {
	router   *Router
	store    *sqlite.Store
	codec    *jwtx.Codec
	registry *prometheus.Registry
}

type envOption func(r *Router)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(bytes.Repeat([]byte("k"), 64), jwtx.WithIssuer("surplus360-test"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(codec, "test", st, logger, m, reg)
	r.AuthService = &service.AuthService{Store: st, Codec: codec, Metrics: m}
	r.AccountService = &service.AccountService{Store: st}
	r.NotificationService = &service.NotificationService{Store: st, Metrics: m}
	r.ListingService = &service.ListingService{Store: st}
	r.StrictLimit = relaxedLimit
	r.ModerateLimit = relaxedLimit
	r.PublicLimit = relaxedLimit
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	return &testEnv{router: r, store: st, codec: codec, registry: reg}
}

func (e *testEnv) seedUser(t *testing.T, login, password string, activated bool, roles ...string) domain.User {
	t.Helper()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	u, err := e.store.Users().CreateUser(context.Background(), domain.User{
		Login:        login,
		Email:        login + "@example.com",
		PasswordHash: hash,
		LangKey:      domain.DefaultLangKey,
		Activated:    activated,
		Authorities:  roles,
	})
	require.NoError(t, err)
	return u
}

// do sends a JSON request through the full router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// login authenticates and returns the session token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/authenticate", "", authsdk.AuthenticateRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out authsdk.AuthenticateResponse
	decode(t, rec, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) authsdk.ErrorResponse {
	t.Helper()
	var out authsdk.ErrorResponse
	decode(t, rec, &out)
	return out
}
