package lookup

import (
	"context"

	"github.com/trustidity/trustidity-go/internal/resource"
	"github.com/trustidity/trustidity-go/model"
)

// Well-known lookup IDs.
const (
	SourcePlans            = "plans"
	SourceInstitutions     = "institutions"
	SourceInstitutionTypes = "institution_types"
	SourceDocumentTypes    = "document_types"
)

// RegisterStandard wires the lookups the filter bar needs. Institution and
// document types are fixed vocabularies; plans and institutions come from the
// backend.
func RegisterStandard(p *Provider, plans *resource.Plans, institutions *resource.Institutions) {
	p.Register(SourceInstitutionTypes, staticSource([]Option{
		{Label: "University", Value: model.InstitutionTypeUniversity},
		{Label: "College", Value: model.InstitutionTypeCollege},
		{Label: "Professional Body", Value: model.InstitutionTypeProfessional},
	}))
	p.Register(SourceDocumentTypes, staticSource([]Option{
		{Label: "Degree Certificate", Value: model.DocumentTypeDegree},
		{Label: "Transcript", Value: model.DocumentTypeTranscript},
		{Label: "Professional Certificate", Value: model.DocumentTypeCertificate},
	}))

	p.Register(SourcePlans, func(ctx context.Context) ([]Option, error) {
		result, err := plans.List(ctx, model.QueryRequest{PageSize: model.MaxPageSize})
		if err != nil {
			return nil, err
		}
		options := make([]Option, 0, len(result.Items))
		for _, plan := range result.Items {
			options = append(options, Option{Label: plan.Name, Value: plan.ID})
		}
		return options, nil
	})

	p.Register(SourceInstitutions, func(ctx context.Context) ([]Option, error) {
		result, err := institutions.List(ctx, model.QueryRequest{
			PageSize: model.MaxPageSize,
			Status:   model.InstitutionApproved,
		})
		if err != nil {
			return nil, err
		}
		options := make([]Option, 0, len(result.Items))
		for _, inst := range result.Items {
			options = append(options, Option{Label: inst.Name, Value: inst.ID})
		}
		return options, nil
	})
}

func staticSource(options []Option) FetchFunc {
	return func(context.Context) ([]Option, error) {
		return options, nil
	}
}
