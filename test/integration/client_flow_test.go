package integration

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/trustidity/trustidity-go/internal/resource"
	"github.com/trustidity/trustidity-go/model"
)

func TestRequestsCarryBearerAndCorrelationHeaders(t *testing.T) {
	token := GenerateToken(t, TestClaims{SubjectID: "admin-1", Role: model.RoleSuperAdmin})
	h := NewHarness(t, WithToken(token))
	h.Backend.On("listUsers").RespondList("users", nil, 1, 10, 0, 0)

	if _, err := h.Users.List(context.Background(), model.QueryRequest{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	req := h.Backend.LastRequest("listUsers")
	if got := req.Headers.Get("Authorization"); got != "Bearer "+token {
		t.Errorf("Authorization = %q, want the seeded bearer token", got)
	}
	if req.Headers.Get("X-Correlation-Id") == "" {
		t.Error("request has no correlation ID")
	}
}

func TestExpiredTokenIsNotSent(t *testing.T) {
	token := GenerateToken(t, TestClaims{SubjectID: "admin-1", ExpiresIn: -time.Minute})
	h := NewHarness(t, WithToken(token))
	h.Backend.On("listUsers").RespondList("users", nil, 1, 10, 0, 0)

	if _, err := h.Users.List(context.Background(), model.QueryRequest{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	req := h.Backend.LastRequest("listUsers")
	if got := req.Headers.Get("Authorization"); got != "" {
		t.Errorf("Authorization = %q, want none for an expired token", got)
	}
}

func TestQueryStringOmitsSentinelFacets(t *testing.T) {
	h := NewHarness(t)
	h.Backend.On("listVerifications").RespondList("requests", nil, 1, 10, 0, 0)

	_, err := h.Verifications.List(context.Background(), model.QueryRequest{
		Page:     2,
		PageSize: 25,
		Search:   "degree",
		Status:   model.FacetAll,
		Type:     "",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	req := h.Backend.LastRequest("listVerifications")
	if req.QueryParams["page"] != "2" || req.QueryParams["limit"] != "25" {
		t.Errorf("pagination params = %v, want page=2 limit=25", req.QueryParams)
	}
	if req.QueryParams["search"] != "degree" {
		t.Errorf("search = %q, want %q", req.QueryParams["search"], "degree")
	}
	if _, present := req.QueryParams["status"]; present {
		t.Error("status=all leaked into the query string")
	}
	if _, present := req.QueryParams["type"]; present {
		t.Error("empty type leaked into the query string")
	}
}

func TestErrorEnvelopeSurfacesBackendMessage(t *testing.T) {
	h := NewHarness(t)
	h.Backend.On("getInstitution").RespondError(http.StatusNotFound, "institution not found")

	_, err := h.Institutions.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error for a missing institution")
	}
	apiErr := model.AsError(err)
	if apiErr.Kind != model.KindNotFound {
		t.Errorf("kind = %q, want %q", apiErr.Kind, model.KindNotFound)
	}
	if apiErr.Message != "institution not found" {
		t.Errorf("message = %q, want the backend's message", apiErr.Message)
	}
}

func TestMultipartSubmitCarriesFieldsAndFile(t *testing.T) {
	h := NewHarness(t)
	h.Backend.On("submitVerification").RespondItem(http.StatusCreated, map[string]any{
		"id":        "ver-1",
		"reference": "TRV-2024-0001",
		"status":    model.VerificationPending,
	})

	req, err := h.Verifications.Submit(context.Background(), resource.SubmitVerification{
		DocumentType:  model.DocumentTypeDegree,
		InstitutionID: "inst-1",
		Filename:      "degree.pdf",
		Content:       []byte("%PDF-1.4 test"),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Reference != "TRV-2024-0001" {
		t.Errorf("reference = %q, want the created request's", req.Reference)
	}

	recorded := h.Backend.LastRequest("submitVerification")
	contentType := recorded.Headers.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		t.Fatalf("content type = %q, want multipart/form-data", contentType)
	}
	body := string(recorded.RawBody)
	for _, want := range []string{"documentType", "degree", "institutionId", "inst-1", "degree.pdf", "%PDF-1.4 test"} {
		if !strings.Contains(body, want) {
			t.Errorf("multipart body missing %q", want)
		}
	}
}

func TestConnectionFailuresOpenTheBreaker(t *testing.T) {
	h := NewHarness(t, WithBreaker(2, 1, time.Minute), WithTimeout(time.Second))
	h.Backend.On("listPlans").RespondWithConnectionError()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := h.Plans.List(ctx, model.QueryRequest{}); err == nil {
			t.Fatal("expected a connection error")
		}
	}

	// Breaker is open now; the next call must not reach the backend.
	before := h.Backend.CallCount("listPlans")
	_, err := h.Plans.List(ctx, model.QueryRequest{})
	apiErr := model.AsError(err)
	if apiErr == nil || apiErr.Kind != model.KindNetworkError {
		t.Fatalf("error = %v, want a network error from the open breaker", err)
	}
	if h.Backend.CallCount("listPlans") != before {
		t.Error("open breaker still let a request through")
	}
}

func TestMutationsRoundTrip(t *testing.T) {
	h := NewHarness(t)
	h.Backend.On("approveInstitution").RespondItem(http.StatusOK, map[string]any{
		"id": "inst-1", "status": model.InstitutionApproved,
	})
	h.Backend.On("updateUserRole").RespondItem(http.StatusOK, map[string]any{
		"id": "user-1", "role": model.RoleEmployer,
	})

	ctx := context.Background()
	if err := h.Institutions.Approve(ctx, "inst-1"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := h.Users.UpdateRole(ctx, "user-1", model.RoleEmployer); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}

	approve := h.Backend.LastRequest("approveInstitution")
	if approve.Method != http.MethodPatch || approve.Path != "/institutions/inst-1/approve" {
		t.Errorf("approve hit %s %s", approve.Method, approve.Path)
	}
	role := h.Backend.LastRequest("updateUserRole")
	if role.Body["role"] != model.RoleEmployer {
		t.Errorf("role body = %v, want role=%s", role.Body, model.RoleEmployer)
	}
}
