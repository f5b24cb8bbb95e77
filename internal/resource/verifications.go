package resource

import (
	"context"
	"net/http"

	"github.com/trustidity/trustidity-go/internal/transport"
	"github.com/trustidity/trustidity-go/model"
)

// Verifications talks to the credential verification endpoints.
type Verifications struct {
	client *transport.Client
}

// NewVerifications creates the verifications service.
func NewVerifications(client *transport.Client) *Verifications {
	return &Verifications{client: client}
}

// SubmitVerification describes a new verification job: the document file plus
// its metadata.
type SubmitVerification struct {
	DocumentType  string
	InstitutionID string
	Filename      string
	Content       []byte
}

// List fetches one page of verification requests. The backend names the items
// array "requests".
func (s *Verifications) List(ctx context.Context, q model.QueryRequest) (model.QueryResult[model.VerificationRequest], error) {
	return list[model.VerificationRequest](ctx, s.client, "/verifications", "requests", q)
}

// Get fetches a single verification request by ID.
func (s *Verifications) Get(ctx context.Context, id string) (model.VerificationRequest, error) {
	resp, err := s.client.Get(ctx, "/verifications/"+id, nil)
	if err != nil {
		return model.VerificationRequest{}, err
	}
	return decodeOne[model.VerificationRequest](resp)
}

// Submit uploads a document and opens a verification request. The form's
// content type carries the multipart boundary, so the transport client omits
// its JSON content type.
func (s *Verifications) Submit(ctx context.Context, in SubmitVerification) (model.VerificationRequest, error) {
	form := &transport.MultipartForm{
		Fields: map[string]string{
			"documentType":  in.DocumentType,
			"institutionId": in.InstitutionID,
		},
		Files: []transport.FilePart{{
			Field:    "document",
			Filename: in.Filename,
			Content:  in.Content,
		}},
	}
	resp, err := s.client.DoMultipart(ctx, "/verifications", form)
	if err != nil {
		return model.VerificationRequest{}, err
	}
	return decodeOne[model.VerificationRequest](resp)
}

// UpdateStatus transitions a verification request (institution admin action).
func (s *Verifications) UpdateStatus(ctx context.Context, id, status, note string) error {
	body := map[string]string{"status": status}
	if note != "" {
		body["note"] = note
	}
	_, err := s.client.Do(ctx, http.MethodPatch, "/verifications/"+id+"/status", body)
	return err
}
