package crm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

// ClientUseCase client records CRUD.
type ClientUseCase struct {
	repo repository.ClientRepository
	now  func() time.Time
}

// NewClientUseCase builds the use case.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, now: time.Now}
}

// Create stores a new client.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*entity.Client, error) {
	now := entity.StoreTime(uc.now())
	c := &entity.Client{
		ID:            uuid.New().String(),
		SchemaVersion: entity.SchemaVersion,
		CreatedAt:     now,
	}
	if err := apply(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the client or ErrNotFound.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("client", id)
	}
	return c, nil
}

// List returns clients ordered by company name.
func (uc *ClientUseCase) List(ctx context.Context, status, search string) ([]*entity.Client, error) {
	st := entity.ClientStatus(strings.ToLower(status))
	if st != "" && st != entity.ClientActive && st != entity.ClientInactive {
		return nil, domain.Validation("status must be active or inactive")
	}
	return uc.repo.List(ctx, repository.ClientFilter{Status: st, Search: search})
}

// Update replaces the editable fields of a client.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*entity.Client, error) {
	c, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(c, in); err != nil {
		return nil, err
	}
	c.SchemaVersion = entity.SchemaVersion
	c.UpdatedAt = entity.StoreTime(uc.now())
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete hard-deletes a client. Purchases and invoices keep their clientId.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func apply(c *entity.Client, in dto.ClientRequest) error {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return domain.Validation("companyName is required")
	}
	status := entity.ClientStatus(strings.ToLower(in.Status))
	switch status {
	case "":
		status = entity.ClientActive
	case entity.ClientActive, entity.ClientInactive:
	default:
		return domain.Validation("status must be active or inactive")
	}
	c.CompanyName = name
	c.ContactPerson = strings.TrimSpace(in.ContactPerson)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.BillingAddress = in.BillingAddress.ToAddress()
	c.ShippingAddress = in.ShippingAddress.ToAddress()
	c.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	c.PANNumber = strings.ToUpper(strings.TrimSpace(in.PANNumber))
	c.MSMENumber = strings.TrimSpace(in.MSMENumber)
	c.BankDetails = in.BankDetails.ToBankDetails()
	c.Status = status
	c.Notes = in.Notes
	return nil
}
