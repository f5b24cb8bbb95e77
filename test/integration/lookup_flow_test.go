package integration

import (
	"context"
	"testing"

	"github.com/trustidity/trustidity-go/internal/lookup"
	"github.com/trustidity/trustidity-go/model"
)

func TestPlanLookupIsServedFromCache(t *testing.T) {
	h := NewHarness(t)
	h.Backend.On("listPlans").RespondList("plans", []map[string]any{
		{"id": "plan-basic", "name": "Basic"},
		{"id": "plan-pro", "name": "Professional"},
	}, 1, 100, 2, 1)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		opts, err := h.Lookups.Options(ctx, lookup.SourcePlans, "")
		if err != nil {
			t.Fatalf("Options: %v", err)
		}
		if len(opts) != 2 {
			t.Fatalf("got %d options, want 2", len(opts))
		}
	}

	h.Backend.AssertCalled(t, "listPlans", 1)
}

func TestInstitutionLookupFetchesApprovedOnly(t *testing.T) {
	h := NewHarness(t)
	h.Backend.On("listInstitutions").RespondList("institutions", []map[string]any{
		{"id": "inst-1", "name": "Acme University", "status": model.InstitutionApproved},
	}, 1, 100, 1, 1)

	opts, err := h.Lookups.Options(context.Background(), lookup.SourceInstitutions, "acme")
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts) != 1 || opts[0].Value != "inst-1" {
		t.Errorf("options = %+v, want the Acme entry", opts)
	}

	req := h.Backend.LastRequest("listInstitutions")
	if req.QueryParams["status"] != model.InstitutionApproved {
		t.Errorf("status param = %q, want approved institutions only", req.QueryParams["status"])
	}
	if req.QueryParams["limit"] != "100" {
		t.Errorf("limit param = %q, want the full page of 100", req.QueryParams["limit"])
	}
}

func TestStaticLookupsNeedNoBackend(t *testing.T) {
	h := NewHarness(t)

	opts, err := h.Lookups.Options(context.Background(), lookup.SourceDocumentTypes, "")
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts) != 3 {
		t.Errorf("got %d document types, want 3", len(opts))
	}
	h.Backend.AssertCalled(t, "listVerifications", 0)
}
