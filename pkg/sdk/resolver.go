package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Resolver finds the first reachable server among ordered candidates.
// Probes run one at a time so list order decides, not latency.
type Resolver struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	HealthPath string
	Logger     zerolog.Logger
}

func (r *Resolver) Resolve(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoServerReachable
	}

	var lastErr error
	for _, base := range candidates {
		err := r.probe(ctx, base)
		if err == nil {
			r.Logger.Debug().Str("base_url", base).Msg("server reachable")
			return base, nil
		}
		lastErr = err
		r.Logger.Warn().Err(err).Str("base_url", base).Msg("health probe failed")
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("resolve cancelled: %w", err)
		}
	}
	return "", fmt.Errorf("%w: %w", ErrNoServerReachable, lastErr)
}

func (r *Resolver) probe(ctx context.Context, base string) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	healthPath := r.HealthPath
	if healthPath == "" {
		healthPath = DefaultHealthPath
	}
	hc := r.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+healthPath, nil)
	if err != nil {
		return &NetworkError{BaseURL: base, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return &NetworkError{BaseURL: base, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode}
	}
	return nil
}
