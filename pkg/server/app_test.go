package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"StockTrack/pkg/config"
	xhttp "StockTrack/pkg/http"
	applogger "StockTrack/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRunServesUntilCancelled(t *testing.T) {
	port := freePort(t)
	cfg := &config.Config{Environment: "test"}
	cfg.Server.Port = port

	srv := xhttp.NewServer(nil, applogger.Nop(),
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(port),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
	app := New(cfg, applogger.Nop(), srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	url := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port)) + "/healthz"
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReturnsListenerError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	cfg := &config.Config{}
	srv := xhttp.NewServer(nil, applogger.Nop(), xhttp.WithHost("127.0.0.1"), xhttp.WithPort(port))

	err = New(cfg, applogger.Nop(), srv).Run(context.Background())
	assert.Error(t, err)
}
