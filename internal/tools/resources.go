package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/briangreenhill/paymcp/payflow"
)

const (
	balanceResourceURI      = "payflow://balance"
	transactionsResourceURI = "payflow://transactions"
)

func (t *Toolset) registerResources(s *server.MCPServer) {
	s.AddResource(mcp.NewResource(balanceResourceURI, "Account balance",
		mcp.WithResourceDescription("Current balance snapshot of the default account"),
		mcp.WithMIMEType("application/json"),
	), t.readBalance)

	s.AddResource(mcp.NewResource(transactionsResourceURI, "Recent transactions",
		mcp.WithResourceDescription("The most recent ledger movements on the account"),
		mcp.WithMIMEType("application/json"),
	), t.readTransactions)
}

func (t *Toolset) readBalance(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := t.client.GetBalance(ctx, "")
	return t.resourceContents(req.Params.URI, b, err), nil
}

func (t *Toolset) readTransactions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	page, err := t.client.ListTransactions(ctx, payflow.ListOptions{Limit: 20})
	return t.resourceContents(req.Params.URI, page, err), nil
}

// resourceContents renders v masked, degrading a read failure to an
// error-shaped payload instead of crashing the surrounding host.
func (t *Toolset) resourceContents(uri string, v any, err error) []mcp.ResourceContents {
	var payload []byte
	if err == nil {
		payload, err = payflow.MaskedJSON(v)
	}
	if err != nil {
		t.logger.Warn().Err(err).Str("uri", uri).Msg("resource read failed")
		payload, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(payload),
		},
	}
}
