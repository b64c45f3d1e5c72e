package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 16 << 20

// ErrResponseTooLarge is returned when a body exceeds the read cap
var ErrResponseTooLarge = errors.New("response too large")

// StatusError reports a non-2xx answer from a source
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// reader performs the single GET each source needs
type reader struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

func newReader(cfg ClientConfig) reader {
	return reader{httpClient: cfg.httpClient(), userAgent: cfg.UserAgent, maxBytes: maxBodyBytes}
}

// get fetches rawURL with query appended and returns the body of a 2xx answer
func (r reader) get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	target := rawURL
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid source URL: %w", err)
		}
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > r.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrResponseTooLarge, target, r.maxBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}
