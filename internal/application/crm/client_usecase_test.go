package crm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/memory"
)

func TestClientLifecycle(t *testing.T) {
	uc := NewClientUseCase(memory.New().Stores().Clients)
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.ClientRequest{
		CompanyName:    "  Acme Traders ",
		Email:          "Accounts@Acme.in",
		GSTNumber:      "27aapfu0939f1zv",
		BillingAddress: dto.AddressDTO{Line1: "12 MG Road", City: "Pune", Country: "IN"},
		BankDetails:    &dto.BankDetailsDTO{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", c.CompanyName)
	assert.Equal(t, "accounts@acme.in", c.Email)
	assert.Equal(t, "27AAPFU0939F1ZV", c.GSTNumber)
	assert.Equal(t, entity.ClientActive, c.Status)
	assert.Nil(t, c.BankDetails, "blank bank details are dropped")
	assert.Equal(t, entity.SchemaVersion, c.SchemaVersion)

	_, err = uc.Create(ctx, dto.ClientRequest{CompanyName: "Zenith Exports", Status: "inactive", ContactPerson: "R. Iyer"})
	require.NoError(t, err)

	all, err := uc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Acme Traders", all[0].CompanyName)

	inactive, err := uc.List(ctx, "inactive", "")
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Zenith Exports", inactive[0].CompanyName)

	byContact, err := uc.List(ctx, "", "iyer")
	require.NoError(t, err)
	assert.Len(t, byContact, 1)

	_, err = uc.List(ctx, "archived", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := uc.Update(ctx, c.ID, dto.ClientRequest{CompanyName: "Acme Traders Pvt Ltd", Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, entity.ClientInactive, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(c.CreatedAt))

	_, err = uc.Update(ctx, c.ID, dto.ClientRequest{CompanyName: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, uc.Delete(ctx, c.ID))
	_, err = uc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrNotFound)
}
