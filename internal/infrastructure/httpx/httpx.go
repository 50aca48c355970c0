package httpx

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LoggingTransport logs one line per outbound request. URLs are logged
// without their query string so keys passed as parameters never reach logs.
type LoggingTransport struct {
	Base http.RoundTripper
	Log  *zap.Logger
	Name string
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	log := t.Log
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	fields := []zap.Field{
		zap.String("upstream", t.Name),
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		log.Warn("upstream.request_failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	fields = append(fields, zap.Int("status", resp.StatusCode))
	if resp.StatusCode >= 400 {
		log.Warn("upstream.request", fields...)
	} else {
		log.Info("upstream.request", fields...)
	}
	return resp, nil
}

// NewClient returns an http.Client whose transport logs through log.
func NewClient(name string, timeout time.Duration, log *zap.Logger) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &LoggingTransport{Base: http.DefaultTransport, Log: log, Name: name},
	}
}
