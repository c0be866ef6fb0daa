package prediction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockTrack/internal/domain/repository"
	xhttp "StockTrack/pkg/http"
)

// HTTPServiceBase centralizes JSON POSTs to the ML service.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	metrics repository.Metrics
}

func NewHTTPServiceBase(baseURL string, client *xhttp.Client, m repository.Metrics) *HTTPServiceBase {
	return &HTTPServiceBase{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		metrics: m,
	}
}

// PostJSON posts payload to path under baseURL and decodes the response into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("prediction http client not initialized")
	}
	start := time.Now()
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	b.metrics.ObserveUpstream(serviceName, strings.TrimPrefix(path, "/"), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}
