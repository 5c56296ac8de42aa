package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/briangreenhill/paymcp/payflow"
)

func (t *Toolset) registerPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("payment_review",
		mcp.WithPromptDescription("Summarize a payment request: amount, status, payer and next steps."),
		mcp.WithArgument("payment_request_id",
			mcp.ArgumentDescription("Id of the payment request to review"),
			mcp.RequiredArgument(),
		),
	), t.paymentReview)
}

func (t *Toolset) paymentReview(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := req.Params.Arguments["payment_request_id"]
	if id == "" {
		return nil, fmt.Errorf("payment_request_id is required")
	}

	pr, err := t.client.GetPaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	masked, err := payflow.MaskedJSON(pr)
	if err != nil {
		return nil, err
	}

	return mcp.NewGetPromptResult(
		"Review of payment request "+id,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(
				"Review the following payment request. Summarize the amount, currency, "+
					"status and payer, and suggest a next step if it is unpaid or failed:\n\n"+string(masked),
			)),
		},
	), nil
}
