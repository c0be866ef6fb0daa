package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockTrack/internal/service/ratelimit"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type staticVerifier map[string]string

func (v staticVerifier) Verify(token string) (string, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func serve(mw echo.MiddlewareFunc, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/p", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	}, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(staticVerifier{"good": "u1"})

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, `{"error":"Access denied"}`},
		{"invalid", "Bearer nope", http.StatusUnauthorized, `{"error":"Invalid token"}`},
		{"bearer", "Bearer good", http.StatusOK, "u1"},
		{"bare token", "good", http.StatusOK, "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := serve(mw, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.body, rec.Body.String())
			} else {
				assert.JSONEq(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestRequireAuthQueryToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/p?token=good", nil)

	rec := serve(RequireAuth(staticVerifier{"good": "u1"}), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(RequireAuth(staticVerifier{"good": "u1"}, AllowQueryToken("token")), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	mw := RateLimit(ratelimit.New(60, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(mw, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(mw, req).Code)
}
