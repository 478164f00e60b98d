package http

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/finance"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/csvimport"
)

// FinanceHandler ledger endpoints.
type FinanceHandler struct {
	uc *finance.FinanceUseCase
}

// NewFinanceHandler builds the handler.
func NewFinanceHandler(uc *finance.FinanceUseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc}
}

// List godoc
// @Summary      List finance records
// @Tags         finance
// @Produce      json
// @Param        search         query  string  false  "free text over description, category, reference"
// @Param        type           query  string  false  "invested | expense | tds"
// @Param        category       query  string  false  "category"
// @Param        status         query  string  false  "completed | pending | failed"
// @Param        paymentMethod  query  string  false  "payment method"
// @Param        dateFrom       query  string  false  "ISO date, inclusive"
// @Param        dateTo         query  string  false  "ISO date, inclusive"
// @Success      200  {array}   dto.FinanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance [get]
func (h *FinanceHandler) List(c *fiber.Ctx) error {
	var q dto.FinanceQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	list, err := h.uc.List(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromFinanceRecords(list))
}

// Stats godoc
// @Summary      Finance KPIs
// @Description  Sums only completed records; profit = invested - expenses - tds.
// @Tags         finance
// @Produce      json
// @Param        search         query  string  false  "free text"
// @Param        type           query  string  false  "invested | expense | tds"
// @Param        category       query  string  false  "category"
// @Param        status         query  string  false  "completed | pending | failed"
// @Param        paymentMethod  query  string  false  "payment method"
// @Success      200  {object}  dto.FinanceStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance/stats [get]
func (h *FinanceHandler) Stats(c *fiber.Ctx) error {
	var q dto.FinanceQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	stats, err := h.uc.Stats(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromFinanceStats(stats))
}

// Create godoc
// @Summary      Create a finance record
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinanceRequest  true  "record"
// @Success      201   {object}  dto.FinanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance [post]
func (h *FinanceHandler) Create(c *fiber.Ctx) error {
	var in dto.FinanceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	rec, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromFinanceRecord(rec))
}

// Import godoc
// @Summary      Bulk import finance records from CSV
// @Description  Accepts a multipart "file" field or a raw text/csv body. Rows fail independently.
// @Tags         finance
// @Accept       mpfd
// @Accept       text/csv
// @Produce      json
// @Param        file  formData  file  false  "CSV file"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/import [post]
func (h *FinanceHandler) Import(c *fiber.Ctx) error {
	src, err := importSource(c)
	if err != nil {
		return err
	}
	defer src.Close()

	rows, err := csvimport.Read(src)
	if err != nil {
		return domain.Validation("%v", err)
	}
	res, err := h.uc.Import(c.Context(), rows)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func importSource(c *fiber.Ctx) (io.ReadCloser, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, domain.Validation("cannot open uploaded file: %v", err)
		}
		return f, nil
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, domain.Validation("a CSV file is required")
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// GetByID godoc
// @Summary      Get a finance record
// @Tags         finance
// @Produce      json
// @Param        id   path  string  true  "record id"
// @Success      200  {object}  dto.FinanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/finance/{id} [get]
func (h *FinanceHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromFinanceRecord(rec))
}

// Update godoc
// @Summary      Replace a finance record
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "record id"
// @Param        body  body  dto.FinanceRequest  true  "record"
// @Success      200   {object}  dto.FinanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/{id} [put]
func (h *FinanceHandler) Update(c *fiber.Ctx) error {
	var in dto.FinanceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	rec, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromFinanceRecord(rec))
}

// Delete godoc
// @Summary      Delete a finance record
// @Tags         finance
// @Produce      json
// @Param        id   path  string  true  "record id"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/finance/{id} [delete]
func (h *FinanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}
