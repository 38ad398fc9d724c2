package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/retry"
)

type baseClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	retrier *retry.Retrier
}

func newBaseClient(baseURL, apiKey string, retrier *retry.Retrier) baseClient {
	return baseClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		retrier: retrier,
	}
}

// statusError is a non-2xx answer from the remote store.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("mem0: status %d: %s", e.Code, e.Body)
}

// doJSON sends body as JSON and decodes the response into out (when not
// nil). Transport errors and 5xx answers are retried; 4xx are not.
func (b *baseClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		payload = data
	}

	return b.retrier.Do(ctx, func() error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Authorization", "Token "+b.apiKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", core.AppUserAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := b.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(ctx.Err())
			}
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			serr := &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return serr
			}
			return retry.Permanent(mapStatus(serr))
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return retry.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
}

func mapStatus(err *statusError) error {
	switch err.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", core.ErrNotFound, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	default:
		return err
	}
}
