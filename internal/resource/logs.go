package resource

import (
	"context"

	"github.com/trustidity/trustidity-go/internal/transport"
	"github.com/trustidity/trustidity-go/model"
)

// AuditLogs talks to the audit trail endpoints.
type AuditLogs struct {
	client *transport.Client
}

// NewAuditLogs creates the audit logs service.
func NewAuditLogs(client *transport.Client) *AuditLogs {
	return &AuditLogs{client: client}
}

// List fetches one page of audit entries. The backend names the items
// array "logs".
func (s *AuditLogs) List(ctx context.Context, q model.QueryRequest) (model.QueryResult[model.AuditLog], error) {
	return list[model.AuditLog](ctx, s.client, "/audit-logs", "logs", q)
}

// Plans talks to the pricing endpoints.
type Plans struct {
	client *transport.Client
}

// NewPlans creates the plans service.
func NewPlans(client *transport.Client) *Plans {
	return &Plans{client: client}
}

// List fetches one page of pricing plans.
func (s *Plans) List(ctx context.Context, q model.QueryRequest) (model.QueryResult[model.Plan], error) {
	return list[model.Plan](ctx, s.client, "/plans", "plans", q)
}
