// Package payflow is a client for the PayFlow payments API. It layers a
// retry/backoff/timeout executor, a TTL response cache for idempotent reads
// and a PII masking transform behind one façade per logical operation.
package payflow

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://api.payflow.dev"

// Client talks to a single PayFlow host. Safe for concurrent use; each
// in-flight operation runs its own independent retry timeline. The response
// cache is owned by the Client value, never shared across instances.
type Client struct {
	exec     *executor
	cache    *Cache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.exec.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.exec.baseURL = u
		}
	}
}

// WithTimeout bounds each network attempt, not the whole operation.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.exec.timeout = d }
}

// WithMaxRetries caps how many times a rate-limited call is reissued.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.exec.maxRetries = n }
}

// WithRetrySchedule replaces the escalating backoff used when the upstream
// supplies no retry hint.
func WithRetrySchedule(schedule []time.Duration) Option {
	return func(c *Client) { c.exec.retrySchedule = schedule }
}

func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
		c.exec.logger = l
	}
}

func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("apiKey required")
	}
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		exec: &executor{
			http:          &http.Client{},
			baseURL:       u,
			apiKey:        apiKey,
			timeout:       30 * time.Second,
			maxRetries:    3,
			retrySchedule: defaultRetrySchedule,
			sleep:         sleepContext,
			logger:        zerolog.Nop(),
		},
		cache:    NewCache(),
		cacheTTL: time.Minute,
		logger:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ClearCache drops every cached read.
func (c *Client) ClearCache() { c.cache.Clear() }

// doJSON runs op, consulting the cache first for cacheable reads and
// storing the decoded result afterwards. Writes never touch the cache, and
// a write never invalidates cached reads: the stale window up to the TTL is
// accepted behavior. Cache hits return a shallow copy, so mutating a
// returned struct's fields does not poison the stored value; slice and map
// fields still alias the cached data.
func doJSON[T any](ctx context.Context, c *Client, op Operation) (*T, error) {
	if op.Cacheable {
		if v, ok := c.cache.Get(op.CacheKey); ok {
			if cached, ok := v.(*T); ok {
				c.logger.Debug().Str("cacheKey", op.CacheKey).Msg("cache hit")
				cpy := *cached
				return &cpy, nil
			}
		}
	}
	var out T
	if err := c.exec.execute(ctx, op, &out); err != nil {
		return nil, err
	}
	if op.Cacheable {
		stored := out
		c.cache.Set(op.CacheKey, &stored, c.cacheTTL)
	}
	return &out, nil
}

// CreatePaymentRequest issues a new payment request to a payer.
func (c *Client) CreatePaymentRequest(ctx context.Context, in CreatePaymentRequestInput) (*PaymentRequest, error) {
	return doJSON[PaymentRequest](ctx, c, Operation{
		Method:         http.MethodPost,
		Path:           "/v1/payment-requests",
		Body:           in,
		IdempotencyKey: orNewKey(in.IdempotencyKey),
	})
}

// GetPaymentRequest fetches one payment request by id. Cacheable.
func (c *Client) GetPaymentRequest(ctx context.Context, id string) (*PaymentRequest, error) {
	if id == "" {
		return nil, errors.New("id required")
	}
	return doJSON[PaymentRequest](ctx, c, Operation{
		Method:    http.MethodGet,
		Path:      "/v1/payment-requests/" + url.PathEscape(id),
		Cacheable: true,
		CacheKey:  "payment:" + id,
	})
}

// ListPaymentRequests returns one page of payment requests.
func (c *Client) ListPaymentRequests(ctx context.Context, opts ListOptions) (*Page[PaymentRequest], error) {
	return doJSON[Page[PaymentRequest]](ctx, c, Operation{
		Method: http.MethodGet,
		Path:   "/v1/payment-requests" + opts.query(),
	})
}

// CreateCustomer registers a counterparty.
func (c *Client) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*Customer, error) {
	if in.Name == "" {
		return nil, errors.New("name required")
	}
	return doJSON[Customer](ctx, c, Operation{
		Method:         http.MethodPost,
		Path:           "/v1/customers",
		Body:           in,
		IdempotencyKey: orNewKey(in.IdempotencyKey),
	})
}

// GetCustomer fetches one customer by id or email. Cacheable.
func (c *Client) GetCustomer(ctx context.Context, idOrEmail string) (*Customer, error) {
	if idOrEmail == "" {
		return nil, errors.New("idOrEmail required")
	}
	return doJSON[Customer](ctx, c, Operation{
		Method:    http.MethodGet,
		Path:      "/v1/customers/" + url.PathEscape(idOrEmail),
		Cacheable: true,
		CacheKey:  "customer:" + idOrEmail,
	})
}

// GetTransaction fetches one ledger movement by id.
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, errors.New("id required")
	}
	return doJSON[Transaction](ctx, c, Operation{
		Method: http.MethodGet,
		Path:   "/v1/transactions/" + url.PathEscape(id),
	})
}

// ListTransactions returns one page of ledger movements.
func (c *Client) ListTransactions(ctx context.Context, opts ListOptions) (*Page[Transaction], error) {
	return doJSON[Page[Transaction]](ctx, c, Operation{
		Method: http.MethodGet,
		Path:   "/v1/transactions" + opts.query(),
	})
}

// GetBalance fetches the account balance snapshot. accountID may be empty
// for the default account. Cacheable.
func (c *Client) GetBalance(ctx context.Context, accountID string) (*Balance, error) {
	p := "/v1/balance"
	if accountID != "" {
		p += "?account=" + url.QueryEscape(accountID)
	}
	return doJSON[Balance](ctx, c, Operation{
		Method:    http.MethodGet,
		Path:      p,
		Cacheable: true,
		CacheKey:  balanceCacheKey(accountID),
	})
}

// CreateRefund reverses a payment request.
func (c *Client) CreateRefund(ctx context.Context, in CreateRefundInput) (*Refund, error) {
	if in.PaymentRequestID == "" {
		return nil, errors.New("paymentRequestId required")
	}
	return doJSON[Refund](ctx, c, Operation{
		Method:         http.MethodPost,
		Path:           "/v1/refunds",
		Body:           in,
		IdempotencyKey: orNewKey(in.IdempotencyKey),
	})
}

// GetRefund fetches one refund by id.
func (c *Client) GetRefund(ctx context.Context, id string) (*Refund, error) {
	if id == "" {
		return nil, errors.New("id required")
	}
	return doJSON[Refund](ctx, c, Operation{
		Method: http.MethodGet,
		Path:   "/v1/refunds/" + url.PathEscape(id),
	})
}

func balanceCacheKey(accountID string) string {
	if accountID == "" {
		accountID = "default"
	}
	return "balance:" + accountID
}

func orNewKey(key string) string {
	if key != "" {
		return key
	}
	return uuid.NewString()
}

func (o ListOptions) query() string {
	limit := o.Limit
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa(max(o.Skip, 0)))
	q.Set("limit", strconv.Itoa(limit))
	return "?" + q.Encode()
}
