package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Client asks a remote schema endpoint about columns. It serves as the
// inspector of a query engine whose database is not reachable directly.
type Client struct {
	BaseURI    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for baseURI. retries is the number of retries of
// a failed request, 0 disables retrying.
func NewClient(baseURI string, retries int, log zerolog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout: 10 * time.Second,
	}

	return &Client{
		BaseURI:    baseURI,
		HTTPClient: retryClient.StandardClient(),
		log:        log,
	}
}

func (c *Client) HasColumn(ctx context.Context, table, column string) (bool, error) {
	info, err := c.column(ctx, table, column)
	if err != nil {
		return false, err
	}
	return info.Exists, nil
}

func (c *Client) ColumnCast(ctx context.Context, table, column string) (string, error) {
	info, err := c.column(ctx, table, column)
	if err != nil {
		return "", err
	}
	return info.Cast, nil
}

// DescribeColumn answers existence and cast with a single request.
func (c *Client) DescribeColumn(ctx context.Context, table, column string) (bool, string, error) {
	info, err := c.column(ctx, table, column)
	if err != nil {
		return false, "", err
	}
	return info.Exists, info.Cast, nil
}

func (c *Client) column(ctx context.Context, table, column string) (ColumnInfo, error) {
	uri, err := url.JoinPath(c.BaseURI, "schema", table, column)
	if err != nil {
		return ColumnInfo{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return ColumnInfo{}, err
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ColumnInfo{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("url", req.URL.String()).
		Str("status", resp.Status).
		Msg("Schema request")

	if resp.StatusCode == http.StatusNotFound {
		return ColumnInfo{Table: table, Column: column}, nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ColumnInfo{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ColumnInfo{}, fmt.Errorf("server returned error status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var info ColumnInfo
	if err := json.Unmarshal(bodyBytes, &info); err != nil {
		return ColumnInfo{}, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return info, nil
}
