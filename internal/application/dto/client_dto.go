package dto

import "github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"

// ClientRequest body for POST /api/clients and PUT /api/clients/:id.
type ClientRequest struct {
	CompanyName     string          `json:"companyName" validate:"required,max=200"`
	ContactPerson   string          `json:"contactPerson" validate:"omitempty,max=200"`
	Email           string          `json:"email" validate:"omitempty,email"`
	Phone           string          `json:"phone" validate:"omitempty,max=40"`
	BillingAddress  AddressDTO      `json:"billingAddress"`
	ShippingAddress AddressDTO      `json:"shippingAddress"`
	GSTNumber       string          `json:"gstNumber" validate:"omitempty,max=20"`
	PANNumber       string          `json:"panNumber" validate:"omitempty,max=20"`
	MSMENumber      string          `json:"msmeNumber" validate:"omitempty,max=40"`
	BankDetails     *BankDetailsDTO `json:"bankDetails"`
	Status          string          `json:"status" validate:"omitempty,oneofci=active inactive"`
	Notes           string          `json:"notes"`
}

// ClientResponse client in responses.
type ClientResponse struct {
	ID              string          `json:"id"`
	CompanyName     string          `json:"companyName"`
	ContactPerson   string          `json:"contactPerson"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	BillingAddress  AddressDTO      `json:"billingAddress"`
	ShippingAddress AddressDTO      `json:"shippingAddress"`
	GSTNumber       string          `json:"gstNumber"`
	PANNumber       string          `json:"panNumber"`
	MSMENumber      string          `json:"msmeNumber"`
	BankDetails     *BankDetailsDTO `json:"bankDetails,omitempty"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
	SchemaVersion   int             `json:"schemaVersion"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// FromClient maps an entity to its response.
func FromClient(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		CompanyName:     c.CompanyName,
		ContactPerson:   c.ContactPerson,
		Email:           c.Email,
		Phone:           c.Phone,
		BillingAddress:  FromAddress(c.BillingAddress),
		ShippingAddress: FromAddress(c.ShippingAddress),
		GSTNumber:       c.GSTNumber,
		PANNumber:       c.PANNumber,
		MSMENumber:      c.MSMENumber,
		BankDetails:     FromBankDetails(c.BankDetails),
		Status:          string(c.Status),
		Notes:           c.Notes,
		SchemaVersion:   c.SchemaVersion,
		CreatedAt:       ISO(c.CreatedAt),
		UpdatedAt:       ISO(c.UpdatedAt),
	}
}

// FromAddress maps an address.
func FromAddress(a entity.Address) AddressDTO {
	return AddressDTO(a)
}

// ToAddress maps an address DTO.
func (a AddressDTO) ToAddress() entity.Address {
	return entity.Address(a)
}

// FromBankDetails maps optional bank details.
func FromBankDetails(b *entity.BankDetails) *BankDetailsDTO {
	if b == nil {
		return nil
	}
	out := BankDetailsDTO(*b)
	return &out
}

// ToBankDetails maps optional bank details; blank objects become nil.
func (b *BankDetailsDTO) ToBankDetails() *entity.BankDetails {
	if b == nil || *b == (BankDetailsDTO{}) {
		return nil
	}
	out := entity.BankDetails(*b)
	return &out
}
