// Package provider implements the news API clients and the fallback
// aggregator for newsdesk.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okravets/newsdesk/model"
)

// Provider is a single news source in the fallback chain. A provider
// without credentials (or, for RSS, without configured feeds) reports
// Enabled() == false and is skipped by the aggregator.
type Provider interface {
	Name() string
	Enabled() bool
	Fetch(ctx context.Context, query, category string) (*model.Result, error)
}

func defaultClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// doRequest executes req and returns the response body. A non-2xx
// status is an error: the aggregator treats it as a failed provider
// and moves on to the next one.
func doRequest(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream returned HTTP %d", resp.StatusCode)
	}

	return body, nil
}
