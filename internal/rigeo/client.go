// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rigeo talks to the RIGeo document repository (a DSpace instance):
// bounded free-text searches that yield detail-page candidates, and detail
// page parsing into classified download links.
package rigeo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sheetfinder/internal/httputil"
	"github.com/pdiddy/sheetfinder/internal/metrics"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// ErrRemoteUnavailable wraps every transport or status failure returned by
// the repository.
var ErrRemoteUnavailable = errors.New("remote repository unavailable")

// Client queries the repository. The zero value is not usable; build one
// with NewClient or fill every field.
type Client struct {
	HTTP   *http.Client
	Config types.RemoteConfig
	Logger *zap.Logger
}

// NewClient returns a client with defaults applied to cfg. A nil logger
// discards log output.
func NewClient(cfg types.RemoteConfig, logger *zap.Logger) *Client {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:   &http.Client{},
		Config: cfg,
		Logger: logger,
	}
}

func (c *Client) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// fetch performs one GET and records it under op.
func (c *Client) fetch(ctx context.Context, op, rawURL string) (*httputil.Page, error) {
	start := time.Now()
	page, err := httputil.Get(ctx, c.httpClient(), rawURL, c.Config.HTTPConfig)
	metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		fields := []zap.Field{zap.String("op", op), zap.String("url", rawURL), zap.Error(err)}
		var se *httputil.StatusError
		if errors.As(err, &se) {
			fields = append(fields, zap.Int("status", se.Code))
		}
		if ctx.Err() == nil {
			c.log().Warn("repository request failed", fields...)
		}
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	metrics.RemoteRequestsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return page, nil
}

// stripURL drops the query string and fragment of u in place.
func stripURL(u *url.URL) *url.URL {
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u
}
