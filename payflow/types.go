package payflow

import "time"

// Operation describes one logical API call: verb, path relative to the
// configured base URL, an optional JSON body and whether a successful
// result may be served from or stored into the response cache.
type Operation struct {
	Method         string
	Path           string
	Body           any
	Cacheable      bool
	CacheKey       string
	IdempotencyKey string
}

// PaymentRequest is a request for payment issued to a payer.
type PaymentRequest struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"` // minor units (cents)
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CustomerID  string    `json:"customerId,omitempty"`
	PaymentURL  string    `json:"paymentUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreatePaymentRequestInput is the payload for creating a payment request.
// IdempotencyKey is sent as a header, not in the body; when empty the client
// generates one so retried writes are safe to replay upstream.
type CreatePaymentRequestInput struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Description    string `json:"description,omitempty"`
	CustomerID     string `json:"customerId,omitempty"`
	IdempotencyKey string `json:"-"`
}

// Customer is a counterparty that payment requests are addressed to.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	TaxID     string    `json:"taxId,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCustomerInput is the payload for registering a customer.
type CreateCustomerInput struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	TaxID          string `json:"taxId,omitempty"`
	Phone          string `json:"phone,omitempty"`
	IdempotencyKey string `json:"-"`
}

// Transaction is a single ledger movement on the account.
type Transaction struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"` // "credit" or "debit"
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balanceAfter"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Balance is a point-in-time snapshot of account funds.
type Balance struct {
	Available int64  `json:"available"`
	Pending   int64  `json:"pending"`
	Blocked   int64  `json:"blocked"`
	Currency  string `json:"currency"`
}

// Refund reverses a settled payment request, fully or partially.
type Refund struct {
	ID               string    `json:"id"`
	PaymentRequestID string    `json:"paymentRequestId"`
	Amount           int64     `json:"amount"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateRefundInput is the payload for creating a refund. A zero Amount
// refunds the full payment request.
type CreateRefundInput struct {
	PaymentRequestID string `json:"paymentRequestId"`
	Amount           int64  `json:"amount,omitempty"`
	IdempotencyKey   string `json:"-"`
}

// ListOptions is offset-based pagination input for list operations.
type ListOptions struct {
	Skip  int
	Limit int
}

// Page is one page of a list result.
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
}
