package sheets

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"leadtimes/internal/config"
)

// Client is the read-only spreadsheet fetch collaborator. Authentication is
// a Google service account; callers only see FetchTab.
type Client struct {
	svc     *sheetsapi.Service
	limiter *rateLimiter
	timeout time.Duration
}

func NewClient(ctx context.Context, cfg config.Config) (*Client, error) {
	if err := cfg.Require("GOOGLE_SERVICE_ACCOUNT_FILE", cfg.ServiceAccountFile); err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, blob, sheetsapi.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:     svc,
		limiter: newRateLimiter(cfg.SheetsRateLimitRPS),
		timeout: time.Duration(cfg.SheetsTimeoutMs) * time.Millisecond,
	}, nil
}

// FetchTab returns the raw text rows of one tab, in row order, each row a
// slice of cell values in column order.
func (c *Client) FetchTab(ctx context.Context, sheetID, tabName, cellRange string) ([][]string, error) {
	rng := tabName
	if strings.TrimSpace(cellRange) != "" {
		rng = tabName + "!" + cellRange
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.waitTurn()

		resp, err := c.svc.Spreadsheets.Values.Get(sheetID, rng).Context(ctx).Do()
		if err != nil {
			if isRetryable(err) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("sheets api: %w", err)
		}
		return toStringRows(resp.Values), nil
	}

	return nil, fmt.Errorf("sheets api: %w", lastErr)
}

func isRetryable(err error) bool {
	apiErr, ok := err.(*googleapi.Error)
	if !ok {
		return false
	}
	switch apiErr.Code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func toStringRows(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, cellString(v))
		}
		out = append(out, cells)
	}
	return out
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// rateLimiter spaces calls so repeated publish runs stay inside the Sheets
// API per-minute quota.
type rateLimiter struct {
	mu       sync.Mutex
	nextSlot time.Time
	interval time.Duration
}

func newRateLimiter(requestsPerSecond int) *rateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &rateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

func (r *rateLimiter) waitTurn() {
	r.mu.Lock()
	now := time.Now()
	slot := now
	if r.nextSlot.After(now) {
		slot = r.nextSlot
	}
	r.nextSlot = slot.Add(r.interval)
	r.mu.Unlock()

	if sleep := time.Until(slot); sleep > 0 {
		time.Sleep(sleep)
	}
}
