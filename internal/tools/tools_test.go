package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/paymcp/payflow"
)

func newToolset(t *testing.T, handler http.HandlerFunc) *Toolset {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := payflow.New("app_key_test", payflow.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return New(client, zerolog.Nop())
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestCustomerCreateMasksResponse(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cus_1","name":"John","taxId":"12345678900","phone":"11987654321"}`))
	})

	res, err := ts.createCustomer(context.Background(), callRequest("customer_create", map[string]any{
		"name":   "John",
		"tax_id": "12345678900",
		"phone":  "11987654321",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	assert.NotContains(t, text, "12345678900")
	assert.NotContains(t, text, "11987654321")
	assert.Contains(t, text, "*******8900")
	assert.Contains(t, text, "*******4321")
	assert.Contains(t, text, "John")
}

func TestMissingRequiredArgument(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected for invalid arguments")
	})

	res, err := ts.getPaymentRequest(context.Background(), callRequest("payment_request_get", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAPIFailureBecomesErrorResult(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	})

	res, err := ts.getBalance(context.Background(), callRequest("balance_get", map[string]any{}))
	require.NoError(t, err, "failures must degrade to error results, never propagate")
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid api key")
}

func TestPaymentRequestCreate(t *testing.T) {
	var gotBody string
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"id":"pay_1","amount":1050,"currency":"BRL","status":"pending"}`))
	})

	res, err := ts.createPaymentRequest(context.Background(), callRequest("payment_request_create", map[string]any{
		"amount":      float64(1050),
		"description": "Consulting",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, gotBody, `"amount":1050`)
	assert.Contains(t, gotBody, `"currency":"BRL"`, "currency defaults to BRL")
	assert.Contains(t, resultText(t, res), "pay_1")
}

func TestBalanceResourceDegradesOnFailure(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := mcp.ReadResourceRequest{}
	req.Params.URI = balanceResourceURI

	contents, err := ts.readBalance(context.Background(), req)
	require.NoError(t, err, "resource reads degrade to error payloads")
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, "error")
	assert.Equal(t, "application/json", text.MIMEType)
}

func TestBalanceResource(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"available":5000,"pending":100,"blocked":0,"currency":"BRL"}`))
	})

	req := mcp.ReadResourceRequest{}
	req.Params.URI = balanceResourceURI

	contents, err := ts.readBalance(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, balanceResourceURI, text.URI)
	assert.Contains(t, text.Text, "5000")
}

func TestPaymentReviewPrompt(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pay_1","amount":1050,"currency":"BRL","status":"pending"}`))
	})

	req := mcp.GetPromptRequest{}
	req.Params.Name = "payment_review"
	req.Params.Arguments = map[string]string{"payment_request_id": "pay_1"}

	res, err := ts.paymentReview(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	text, ok := res.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "pay_1")
	assert.Contains(t, text.Text, "1050")
}

func TestPaymentReviewPromptRequiresID(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {})

	req := mcp.GetPromptRequest{}
	req.Params.Name = "payment_review"
	req.Params.Arguments = map[string]string{}

	_, err := ts.paymentReview(context.Background(), req)
	require.Error(t, err)
}
