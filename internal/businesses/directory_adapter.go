package businesses

import (
	"context"

	"reservly/internal/policies"

	"github.com/google/uuid"
)

// DirectoryAdapter exposes the business service through the narrow
// BusinessDirectory interface the policies package consumes, avoiding a
// circular dependency between the two packages.
type DirectoryAdapter struct {
	service Service
}

// NewDirectoryAdapter creates an adapter around the business service
func NewDirectoryAdapter(service Service) *DirectoryAdapter {
	return &DirectoryAdapter{service: service}
}

// GetBusinessInfo implements policies.BusinessDirectory
func (a *DirectoryAdapter) GetBusinessInfo(ctx context.Context, businessID uuid.UUID) (policies.BusinessInfo, error) {
	business, err := a.service.GetBusiness(ctx, businessID)
	if err != nil {
		return policies.BusinessInfo{}, err
	}

	return policies.BusinessInfo{
		ID:                business.ID,
		Name:              business.Name,
		Currency:          business.Currency,
		CurrencyPrecision: business.CurrencyPrecision,
	}, nil
}
