package resource

import (
	"context"
	"net/http"

	"github.com/trustidity/trustidity-go/internal/transport"
	"github.com/trustidity/trustidity-go/model"
)

// Users talks to the account management endpoints.
type Users struct {
	client *transport.Client
}

// NewUsers creates the users service.
func NewUsers(client *transport.Client) *Users {
	return &Users{client: client}
}

// List fetches one page of users.
func (s *Users) List(ctx context.Context, q model.QueryRequest) (model.QueryResult[model.User], error) {
	return list[model.User](ctx, s.client, "/users", "users", q)
}

// Get fetches a single user by ID.
func (s *Users) Get(ctx context.Context, id string) (model.User, error) {
	resp, err := s.client.Get(ctx, "/users/"+id, nil)
	if err != nil {
		return model.User{}, err
	}
	return decodeOne[model.User](resp)
}

// UpdateRole changes a user's platform role.
func (s *Users) UpdateRole(ctx context.Context, id, role string) error {
	_, err := s.client.Do(ctx, http.MethodPatch, "/users/"+id+"/role", map[string]string{"role": role})
	return err
}

// Deactivate disables a user account.
func (s *Users) Deactivate(ctx context.Context, id string) error {
	_, err := s.client.Do(ctx, http.MethodPatch, "/users/"+id+"/deactivate", nil)
	return err
}
