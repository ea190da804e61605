package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/metrics"
	"go-ecommerce-api/models"
)

type fakeAuth map[string]*models.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if user, ok := f[token]; ok {
		return user, nil
	}
	return nil, apperrors.Unauthorized("Unauthorized", apperrors.UnauthorizedAccess).WithCause(errors.New("unknown token"))
}

var users = fakeAuth{
	"user-token":  {ID: 1, Role: models.RoleUser},
	"admin-token": {ID: 2, Role: models.RoleAdmin},
}

func whoami(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]uint{"id": user.ID})
}

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(users)(http.HandlerFunc(whoami))

	tests := []struct {
		name          string
		authorization string
		status        int
	}{
		{"bearer", "Bearer user-token", http.StatusOK},
		{"bare token", "admin-token", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic user-token", http.StatusUnauthorized},
		{"unknown", "Bearer forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.authorization)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.EqualValues(t, apperrors.UnauthorizedAccess, body["errorCode"])
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	h := AuthMiddleware(users)(AdminMiddleware(http.HandlerFunc(whoami)))

	assert.Equal(t, http.StatusOK, serve(h, "Bearer admin-token").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer user-token").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(AdminMiddleware(http.HandlerFunc(whoami)), "").Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/pot", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inside, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inside))
	require.NoError(t, json.Unmarshal(lines[1], &access))
	assert.Equal(t, "req-1", inside["request_id"])
	assert.Equal(t, "/pot", access["path"])
	assert.EqualValues(t, http.StatusTeapot, access["status"])
	assert.EqualValues(t, len("short and stout"), access["bytes"])
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	h := RequestLogger(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := serve(h, "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestInstrument_NilMetrics(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Instrument(nil))
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInstrument(t *testing.T) {
	m := metrics.New()
	router := mux.NewRouter()
	router.Use(Instrument(m))
	router.HandleFunc("/orders/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/orders/1", "/orders/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/orders/{id:[0-9]+}", "404")))
}
