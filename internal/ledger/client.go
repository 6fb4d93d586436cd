package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"talentpay/internal/models"
	"talentpay/internal/providers"
	"talentpay/internal/structures"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 4 << 20
)

// ClientInterface reads the grocery ledger of a customer for an inclusive
// date range (YYYY-MM-DD).
type ClientInterface interface {
	Total(ctx context.Context, customer, from, to string) (float64, error)
	Detail(ctx context.Context, customer, from, to string) ([]models.GroceryItem, error)
	// Fetch never fails: errors are logged and yield an empty result.
	Fetch(ctx context.Context, customer, from, to string) models.LedgerResult
	// FetchTotal is Fetch without the detail call.
	FetchTotal(ctx context.Context, customer, from, to string) float64
	IsEnabled() bool
}

type Client struct {
	baseUrl        string
	apiKey         string
	totalFunction  string
	detailFunction string
	http           *retryablehttp.Client
	logger         providers.Logger
	metrics        providers.MetricsProviderInterface
}

func NewLedgerClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ClientInterface {
	if !conf.Ledger.Enabled {
		logger.Infof(providers.TypeLedger, "Grocery ledger disabled")
		return &noopClient{}
	}

	timeout := conf.Ledger.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = &leveledLogger{logger: logger}
	retryClient.RetryMax = max(conf.Ledger.RetryMax, 0)
	retryClient.HTTPClient.Timeout = timeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseUrl:        strings.TrimRight(conf.Ledger.Url, "/"),
		apiKey:         conf.Ledger.ApiKey,
		totalFunction:  conf.Ledger.TotalFunction,
		detailFunction: conf.Ledger.DetailFunction,
		http:           retryClient,
		logger:         logger,
		metrics:        metrics,
	}
}

func (c *Client) IsEnabled() bool {
	return true
}

func (c *Client) Total(ctx context.Context, customer, from, to string) (float64, error) {
	body, err := c.call(ctx, c.totalFunction, customer, from, to)
	if err != nil {
		return 0, err
	}
	result := gjson.ParseBytes(body)
	if result.Type == gjson.Null {
		return 0, nil
	}
	total := result.Float()
	if total < 0 {
		total = 0
	}
	return total, nil
}

func (c *Client) Detail(ctx context.Context, customer, from, to string) ([]models.GroceryItem, error) {
	body, err := c.call(ctx, c.detailFunction, customer, from, to)
	if err != nil {
		return nil, err
	}
	result := gjson.ParseBytes(body)
	if result.Type == gjson.Null {
		return []models.GroceryItem{}, nil
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("ledger %s: expected an array, got %s", c.detailFunction, result.Type)
	}

	items := make([]models.GroceryItem, 0, len(result.Array()))
	result.ForEach(func(_, row gjson.Result) bool {
		items = append(items, models.GroceryItem{
			Date:     parseItemDate(row.Get("item_date").Str),
			Seller:   row.Get("seller_name").Str,
			Product:  row.Get("product_name").Str,
			Quantity: row.Get("qty").Float(),
			Price:    row.Get("price").Float(),
			Subtotal: row.Get("subtotal").Float(),
		})
		return true
	})
	return items, nil
}

func (c *Client) Fetch(ctx context.Context, customer, from, to string) models.LedgerResult {
	res := models.LedgerResult{Items: []models.GroceryItem{}}

	total, ok := c.fetchTotal(ctx, customer, from, to)
	if !ok {
		return res
	}

	items, err := c.Detail(ctx, customer, from, to)
	if err != nil {
		c.logger.Errorf(providers.TypeLedger, "Ledger detail for %q (%s..%s) failed: %s", customer, from, to, err)
		c.metrics.IncLedgerFailures("detail")
		return res
	}
	res.Total = total
	res.Items = items
	return res
}

func (c *Client) FetchTotal(ctx context.Context, customer, from, to string) float64 {
	total, _ := c.fetchTotal(ctx, customer, from, to)
	return total
}

func (c *Client) fetchTotal(ctx context.Context, customer, from, to string) (float64, bool) {
	total, err := c.Total(ctx, customer, from, to)
	if err != nil {
		c.logger.Errorf(providers.TypeLedger, "Ledger total for %q (%s..%s) failed: %s", customer, from, to, err)
		c.metrics.IncLedgerFailures("total")
		return 0, false
	}
	return total, true
}

func (c *Client) call(ctx context.Context, function, customer, from, to string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"p_customer_name": customer,
		"p_start_date":    from,
		"p_end_date":      to,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/rest/v1/rpc/"+function, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", function, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("ledger %s: read body: %w", function, err)
	}
	c.logger.Debugf(providers.TypeLedger, "Ledger %s answered %d in %s", function, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		msg := gjson.GetBytes(body, "message").Str
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("ledger %s: status %d: %w", function, resp.StatusCode, errors.New(msg))
	}
	return body, nil
}

func parseItemDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", models.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type noopClient struct{}

func (n *noopClient) Total(_ context.Context, _, _, _ string) (float64, error) { return 0, nil }
func (n *noopClient) Detail(_ context.Context, _, _, _ string) ([]models.GroceryItem, error) {
	return []models.GroceryItem{}, nil
}
func (n *noopClient) Fetch(_ context.Context, _, _, _ string) models.LedgerResult {
	return models.LedgerResult{Items: []models.GroceryItem{}}
}
func (n *noopClient) FetchTotal(_ context.Context, _, _, _ string) float64 { return 0 }
func (n *noopClient) IsEnabled() bool                                     { return false }

// leveledLogger routes retryablehttp messages to the ledger log.
type leveledLogger struct {
	logger providers.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorf(providers.TypeLedger, "%s %v", msg, keysAndValues)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf(providers.TypeLedger, "%s %v", msg, keysAndValues)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf(providers.TypeLedger, "%s %v", msg, keysAndValues)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnf(providers.TypeLedger, "%s %v", msg, keysAndValues)
}
