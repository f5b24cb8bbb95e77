package resource

import (
	"context"
	"net/http"

	"github.com/trustidity/trustidity-go/internal/transport"
	"github.com/trustidity/trustidity-go/model"
)

// Institutions talks to the institution management endpoints.
type Institutions struct {
	client *transport.Client
}

// NewInstitutions creates the institutions service.
func NewInstitutions(client *transport.Client) *Institutions {
	return &Institutions{client: client}
}

// CreateInstitution is the registration payload.
type CreateInstitution struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	ContactName string `json:"contactName,omitempty"`
}

// List fetches one page of institutions.
func (s *Institutions) List(ctx context.Context, q model.QueryRequest) (model.QueryResult[model.Institution], error) {
	return list[model.Institution](ctx, s.client, "/institutions", "institutions", q)
}

// Get fetches a single institution by ID.
func (s *Institutions) Get(ctx context.Context, id string) (model.Institution, error) {
	resp, err := s.client.Get(ctx, "/institutions/"+id, nil)
	if err != nil {
		return model.Institution{}, err
	}
	return decodeOne[model.Institution](resp)
}

// Create registers a new institution.
func (s *Institutions) Create(ctx context.Context, in CreateInstitution) (model.Institution, error) {
	resp, err := s.client.Do(ctx, http.MethodPost, "/institutions", in)
	if err != nil {
		return model.Institution{}, err
	}
	return decodeOne[model.Institution](resp)
}

// Approve transitions a pending institution to approved.
func (s *Institutions) Approve(ctx context.Context, id string) error {
	_, err := s.client.Do(ctx, http.MethodPatch, "/institutions/"+id+"/approve", nil)
	return err
}

// Suspend transitions an institution to suspended.
func (s *Institutions) Suspend(ctx context.Context, id string, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	_, err := s.client.Do(ctx, http.MethodPatch, "/institutions/"+id+"/suspend", body)
	return err
}

// Delete removes an institution.
func (s *Institutions) Delete(ctx context.Context, id string) error {
	_, err := s.client.Do(ctx, http.MethodDelete, "/institutions/"+id, nil)
	return err
}
