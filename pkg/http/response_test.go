package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"StockTrack/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAppErrorResponseKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{errs.Validationf("Ticker is required"), http.StatusBadRequest, `{"error":"Ticker is required"}`},
		{errs.Conflictf("Stock already in watchlist"), http.StatusBadRequest, `{"error":"Stock already in watchlist"}`},
		{errs.NotFoundf("No stocks found"), http.StatusNotFound, `{"error":"No stocks found"}`},
		{errs.Unauthorizedf("Invalid credentials"), http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{errs.Wrap(errs.Upstream, "Prediction failed", errors.New("dial")), http.StatusInternalServerError, `{"error":"Prediction failed"}`},
		{errors.New("secret db detail"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}
	for _, tc := range cases {
		c, rec := newContext(http.MethodGet, "/", "")
		require.NoError(t, AppErrorResponse(c, tc.err))
		assert.Equal(t, tc.status, rec.Code)
		assert.JSONEq(t, tc.body, rec.Body.String())
	}
}

func TestAppErrorResponseDetails(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	err := errs.New(errs.Upstream, "Prediction could not be saved").WithDetails(map[string]string{"ticker": "AAPL"})
	require.NoError(t, AppErrorResponse(c, err))
	assert.JSONEq(t, `{"error":"Prediction could not be saved","details":{"ticker":"AAPL"}}`, rec.Body.String())
}

type tickerRequest struct {
	Ticker string `json:"ticker" validate:"required,max=12"`
	Model  string `json:"model" validate:"omitempty,oneof=rf xgb" default:"rf"`
}

type searchRequest struct {
	Query string `query:"query" validate:"required"`
}

func TestReadAndValidateRequest(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", `{"ticker":"AAPL"}`)
	req := &tickerRequest{}
	require.NoError(t, ReadAndValidateRequest(c, req))
	assert.Equal(t, "AAPL", req.Ticker)
	assert.Equal(t, "rf", req.Model)

	c, _ = newContext(http.MethodPost, "/", `{}`)
	err := ReadAndValidateRequest(c, &tickerRequest{})
	require.True(t, errs.Is(err, errs.Validation))
	assert.Equal(t, "ticker is required", mustMessage(t, err))

	c, _ = newContext(http.MethodPost, "/", `{"ticker":"AAPL","model":"lstm"}`)
	err = ReadAndValidateRequest(c, &tickerRequest{})
	assert.Equal(t, "model must be one of: rf, xgb", mustMessage(t, err))

	c, _ = newContext(http.MethodPost, "/", `{"ticker":`)
	err = ReadAndValidateRequest(c, &tickerRequest{})
	require.True(t, errs.Is(err, errs.Validation))
}

func TestReadAndValidateQuery(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/search?query=apple", "")
	req := &searchRequest{}
	require.NoError(t, ReadAndValidateRequest(c, req))
	assert.Equal(t, "apple", req.Query)

	c, _ = newContext(http.MethodGet, "/search", "")
	err := ReadAndValidateRequest(c, &searchRequest{})
	assert.Equal(t, "query is required", mustMessage(t, err))
}

func mustMessage(t *testing.T, err error) string {
	t.Helper()
	e, ok := errs.As(err)
	require.True(t, ok)
	return e.Message
}
