package httpx

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func TestLoggingTransport_Success(t *testing.T) {
	log, logs := observed()
	c := &http.Client{Timeout: 2 * time.Second, Transport: &LoggingTransport{
		Name: "gemini",
		Log:  log,
		Base: rtFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("{}")), Header: make(http.Header), Request: r}, nil
		}),
	}}
	resp, err := c.Get("http://example.com/v1beta/models/x:generateContent?key=secret")
	require.NoError(t, err)
	_ = resp.Body.Close()

	entries := logs.FilterMessage("upstream.request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "gemini", fields["upstream"])
	require.Equal(t, "/v1beta/models/x:generateContent", fields["path"])
	require.EqualValues(t, 200, fields["status"])
	for _, v := range fields {
		if s, ok := v.(string); ok {
			require.NotContains(t, s, "secret")
		}
	}
}

func TestLoggingTransport_ErrorStatusIsWarn(t *testing.T) {
	log, logs := observed()
	c := &http.Client{Transport: &LoggingTransport{
		Log: log,
		Base: rtFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 429, Body: io.NopCloser(strings.NewReader("quota")), Header: make(http.Header), Request: r}, nil
		}),
	}}
	resp, err := c.Get("http://example.com/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestLoggingTransport_TransportError(t *testing.T) {
	log, logs := observed()
	c := &http.Client{Transport: &LoggingTransport{
		Log: log,
		Base: rtFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}}
	_, err := c.Get("http://example.com/")
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("upstream.request_failed").Len())
}
