package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo ClientRepository over pool or tx.
type ClientRepo struct {
	q Querier
}

// NewClientRepository builds the adapter. Pass a pool or a tx.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, company_name, contact_person, email, phone, billing_address, shipping_address,
	gst_number, pan_number, msme_number, bank_details, status, notes, schema_version, created_at, updated_at`

// Create inserts a client.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	args, err := clientArgs(c)
	if err != nil {
		return err
	}
	query := `INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return writeErr("insert client", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the client does not exist.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get client", err)
	}
	return c, nil
}

// List returns matching clients ordered by company name.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	var fa filterArgs
	if f.Status != "" {
		fa.add("status = ?", string(f.Status))
	}
	if strings.TrimSpace(f.Search) != "" {
		fa.add("(company_name ILIKE ? OR contact_person ILIKE ? OR email ILIKE ?)", likePattern(f.Search))
	}
	query := `SELECT ` + clientColumns + ` FROM clients` + fa.sql() + ` ORDER BY lower(company_name), id COLLATE "C"`
	rows, err := r.q.Query(ctx, query, fa.args...)
	if err != nil {
		return nil, domain.Storage("list clients", err)
	}
	defer rows.Close()
	list := []*entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, domain.Storage("scan client", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update rewrites every column but created_at.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	args, err := clientArgs(c)
	if err != nil {
		return err
	}
	query := `
		UPDATE clients SET company_name = $2, contact_person = $3, email = $4, phone = $5,
		       billing_address = $6, shipping_address = $7, gst_number = $8, pan_number = $9,
		       msme_number = $10, bank_details = $11, status = $12, notes = $13,
		       schema_version = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, withoutCreatedAt(args)...)
	if err != nil {
		return writeErr("update client", err)
	}
	return notFound(tag, "client", c.ID)
}

// Delete removes a client; purchases and invoices keep its id.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return domain.Storage("delete client", err)
	}
	return nil
}

func clientArgs(c *entity.Client) ([]any, error) {
	billing, err := toJSON(c.BillingAddress)
	if err != nil {
		return nil, fmt.Errorf("encode billing address: %w", err)
	}
	shipping, err := toJSON(c.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("encode shipping address: %w", err)
	}
	var bank []byte
	if c.BankDetails != nil {
		if bank, err = toJSON(c.BankDetails); err != nil {
			return nil, fmt.Errorf("encode bank details: %w", err)
		}
	}
	return []any{
		c.ID, c.CompanyName, c.ContactPerson, c.Email, c.Phone, billing, shipping,
		c.GSTNumber, c.PANNumber, c.MSMENumber, bank, string(c.Status), c.Notes, c.SchemaVersion,
		c.CreatedAt, c.UpdatedAt,
	}, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var billing, shipping, bank []byte
	var status string
	err := row.Scan(&c.ID, &c.CompanyName, &c.ContactPerson, &c.Email, &c.Phone, &billing, &shipping,
		&c.GSTNumber, &c.PANNumber, &c.MSMENumber, &bank, &status, &c.Notes, &c.SchemaVersion,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = entity.ClientStatus(status)
	if err := fromJSON(billing, &c.BillingAddress); err != nil {
		return nil, err
	}
	if err := fromJSON(shipping, &c.ShippingAddress); err != nil {
		return nil, err
	}
	if len(bank) > 0 && string(bank) != "null" {
		c.BankDetails = &entity.BankDetails{}
		if err := fromJSON(bank, c.BankDetails); err != nil {
			return nil, err
		}
	}
	c.CreatedAt, c.UpdatedAt = c.CreatedAt.UTC(), c.UpdatedAt.UTC()
	return &c, nil
}
