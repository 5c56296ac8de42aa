// Package tools registers the PayFlow operations as MCP tools, resources
// and prompts. Every payload echoed back to the caller is masked first, and
// every propagated client failure is converted into a tool error result
// rather than thrown at the host.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/paymcp/payflow"
)

// Toolset binds one PayFlow client to the MCP registration lifecycle.
type Toolset struct {
	client *payflow.Client
	logger zerolog.Logger
}

// New creates a Toolset around client.
func New(client *payflow.Client, logger zerolog.Logger) *Toolset {
	return &Toolset{client: client, logger: logger}
}

// Register wires every tool, resource and prompt onto s.
func (t *Toolset) Register(s *server.MCPServer) {
	t.registerTools(s)
	t.registerResources(s)
	t.registerPrompts(s)
}

func (t *Toolset) registerTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("payment_request_create",
		mcp.WithDescription("Create a payment request for a payer. Amount is in minor units (cents)."),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount in minor units, e.g. 1050 for R$10.50")),
		mcp.WithString("currency", mcp.Description("ISO currency code"), mcp.DefaultString("BRL")),
		mcp.WithString("description", mcp.Description("Free-form description shown to the payer")),
		mcp.WithString("customer_id", mcp.Description("Existing customer to address the request to")),
	), t.createPaymentRequest)

	s.AddTool(mcp.NewTool("payment_request_get",
		mcp.WithDescription("Fetch one payment request by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Payment request id")),
	), t.getPaymentRequest)

	s.AddTool(mcp.NewTool("payment_request_list",
		mcp.WithDescription("List payment requests, newest first. Offset-based pagination."),
		mcp.WithNumber("skip", mcp.Description("Number of items to skip"), mcp.DefaultNumber(0)),
		mcp.WithNumber("limit", mcp.Description("Page size"), mcp.DefaultNumber(20)),
	), t.listPaymentRequests)

	s.AddTool(mcp.NewTool("customer_create",
		mcp.WithDescription("Register a customer (counterparty) for payment requests."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full name")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("tax_id", mcp.Description("Tax identifier (CPF/CNPJ)")),
		mcp.WithString("phone", mcp.Description("Phone number")),
	), t.createCustomer)

	s.AddTool(mcp.NewTool("customer_get",
		mcp.WithDescription("Fetch one customer by id or email."),
		mcp.WithString("id_or_email", mcp.Required(), mcp.Description("Customer id or email address")),
	), t.getCustomer)

	s.AddTool(mcp.NewTool("transaction_get",
		mcp.WithDescription("Fetch one ledger movement by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Transaction id")),
	), t.getTransaction)

	s.AddTool(mcp.NewTool("transaction_list",
		mcp.WithDescription("List ledger movements. Offset-based pagination."),
		mcp.WithNumber("skip", mcp.Description("Number of items to skip"), mcp.DefaultNumber(0)),
		mcp.WithNumber("limit", mcp.Description("Page size"), mcp.DefaultNumber(20)),
	), t.listTransactions)

	s.AddTool(mcp.NewTool("balance_get",
		mcp.WithDescription("Fetch the current account balance snapshot."),
		mcp.WithString("account", mcp.Description("Account id, empty for the default account")),
	), t.getBalance)

	s.AddTool(mcp.NewTool("refund_create",
		mcp.WithDescription("Refund a settled payment request, fully or partially."),
		mcp.WithString("payment_request_id", mcp.Required(), mcp.Description("Payment request to reverse")),
		mcp.WithNumber("amount", mcp.Description("Amount in minor units; omit for a full refund")),
	), t.createRefund)

	s.AddTool(mcp.NewTool("refund_get",
		mcp.WithDescription("Fetch one refund by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Refund id")),
	), t.getRefund)
}

func (t *Toolset) createPaymentRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	amount, err := req.RequireInt("amount")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pr, err := t.client.CreatePaymentRequest(ctx, payflow.CreatePaymentRequestInput{
		Amount:      int64(amount),
		Currency:    req.GetString("currency", "BRL"),
		Description: req.GetString("description", ""),
		CustomerID:  req.GetString("customer_id", ""),
	})
	if err != nil {
		return t.errResult("payment_request_create", err), nil
	}
	return t.jsonResult(pr), nil
}

func (t *Toolset) getPaymentRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pr, err := t.client.GetPaymentRequest(ctx, id)
	if err != nil {
		return t.errResult("payment_request_get", err), nil
	}
	return t.jsonResult(pr), nil
}

func (t *Toolset) listPaymentRequests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := t.client.ListPaymentRequests(ctx, listOptions(req))
	if err != nil {
		return t.errResult("payment_request_list", err), nil
	}
	return t.jsonResult(page), nil
}

func (t *Toolset) createCustomer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cus, err := t.client.CreateCustomer(ctx, payflow.CreateCustomerInput{
		Name:  name,
		Email: req.GetString("email", ""),
		TaxID: req.GetString("tax_id", ""),
		Phone: req.GetString("phone", ""),
	})
	if err != nil {
		return t.errResult("customer_create", err), nil
	}
	return t.jsonResult(cus), nil
}

func (t *Toolset) getCustomer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idOrEmail, err := req.RequireString("id_or_email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cus, err := t.client.GetCustomer(ctx, idOrEmail)
	if err != nil {
		return t.errResult("customer_get", err), nil
	}
	return t.jsonResult(cus), nil
}

func (t *Toolset) getTransaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tx, err := t.client.GetTransaction(ctx, id)
	if err != nil {
		return t.errResult("transaction_get", err), nil
	}
	return t.jsonResult(tx), nil
}

func (t *Toolset) listTransactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := t.client.ListTransactions(ctx, listOptions(req))
	if err != nil {
		return t.errResult("transaction_list", err), nil
	}
	return t.jsonResult(page), nil
}

func (t *Toolset) getBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := t.client.GetBalance(ctx, req.GetString("account", ""))
	if err != nil {
		return t.errResult("balance_get", err), nil
	}
	return t.jsonResult(b), nil
}

func (t *Toolset) createRefund(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prID, err := req.RequireString("payment_request_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := t.client.CreateRefund(ctx, payflow.CreateRefundInput{
		PaymentRequestID: prID,
		Amount:           int64(req.GetInt("amount", 0)),
	})
	if err != nil {
		return t.errResult("refund_create", err), nil
	}
	return t.jsonResult(ref), nil
}

func (t *Toolset) getRefund(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := t.client.GetRefund(ctx, id)
	if err != nil {
		return t.errResult("refund_get", err), nil
	}
	return t.jsonResult(ref), nil
}

// jsonResult renders v as masked JSON text content.
func (t *Toolset) jsonResult(v any) *mcp.CallToolResult {
	masked, err := payflow.MaskedJSON(v)
	if err != nil {
		t.logger.Error().Err(err).Msg("encoding tool result")
		return mcp.NewToolResultError("encoding result: " + err.Error())
	}
	return mcp.NewToolResultText(string(masked))
}

// errResult converts a propagated client failure into a user-facing error
// result without throwing further.
func (t *Toolset) errResult(tool string, err error) *mcp.CallToolResult {
	t.logger.Warn().Err(err).Str("tool", tool).Msg("tool call failed")
	return mcp.NewToolResultError(err.Error())
}

func listOptions(req mcp.CallToolRequest) payflow.ListOptions {
	return payflow.ListOptions{
		Skip:  req.GetInt("skip", 0),
		Limit: req.GetInt("limit", 20),
	}
}
