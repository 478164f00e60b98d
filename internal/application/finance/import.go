package finance

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
)

// ImportRow one data row of a bulk import. Line is 1-based, header excluded.
// Fields are keyed by lower-cased header name. Err is set when the row could not be
// parsed at all; such a row counts as failed.
type ImportRow struct {
	Line   int
	Fields map[string]string
	Err    error
}

// Import creates one record per row, in order. A failing row is reported and skipped;
// rows stored before it stay stored.
func (uc *FinanceUseCase) Import(ctx context.Context, rows []ImportRow) (dto.ImportResult, error) {
	res := dto.ImportResult{Errors: []dto.ImportRowError{}}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := row.Err
		var req dto.FinanceRequest
		if err == nil {
			req, err = requestFromRow(row)
		}
		if err == nil {
			_, err = uc.Create(ctx, req)
		}
		if err != nil {
			res.Fail++
			res.Errors = append(res.Errors, dto.ImportRowError{Row: row.Line, Error: err.Error()})
			continue
		}
		res.OK++
	}
	uc.log.Info().Int("ok", res.OK).Int("fail", res.Fail).Msg("finance import finished")
	return res, nil
}

func requestFromRow(row ImportRow) (dto.FinanceRequest, error) {
	get := func(key string) string { return strings.TrimSpace(row.Fields[key]) }
	req := dto.FinanceRequest{
		Type:          get("type"),
		Category:      get("category"),
		Description:   get("description"),
		Date:          get("date"),
		PaymentMethod: get("paymentmethod"),
		Status:        get("status"),
		Reference:     get("reference"),
		TaxYear:       get("taxyear"),
		Notes:         get("notes"),
	}
	if s := get("amount"); s != "" {
		amount, err := parseNumber(s)
		if err != nil {
			return req, domain.Validation("invalid amount %q", s)
		}
		req.Amount = &amount
		return req, nil
	}
	qty, err := parseNumber(get("quantity"))
	if err != nil {
		return req, domain.Validation("invalid quantity %q", get("quantity"))
	}
	price, err := parseNumber(get("unitprice"))
	if err != nil {
		return req, domain.Validation("invalid unitPrice %q", get("unitprice"))
	}
	req.Quantity, req.UnitPrice = &qty, &price
	return req, nil
}

func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "₹"))
	return decimal.NewFromString(s)
}
