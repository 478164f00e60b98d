package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/billing"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
)

// InvoiceHandler invoice lifecycle endpoints.
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf}
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        status    query  string  false  "draft | sent | paid | overdue"
// @Param        clientId  query  string  false  "client id"
// @Success      200  {object}  dto.InvoiceList
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	list, err := h.uc.List(c.Context(), q)
	if err != nil {
		return err
	}
	items := dto.FromInvoices(list, h.uc.Now())
	return c.JSON(dto.InvoiceList{Items: items, Total: len(items)})
}

// Stats godoc
// @Summary      Invoice KPIs
// @Tags         invoices
// @Produce      json
// @Param        clientId  query  string  false  "client id"
// @Param        dateFrom  query  string  false  "ISO date, inclusive"
// @Param        dateTo    query  string  false  "ISO date, inclusive"
// @Success      200  {object}  dto.InvoiceStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices/stats [get]
func (h *InvoiceHandler) Stats(c *fiber.Ctx) error {
	var q dto.InvoiceStatsQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	stats, err := h.uc.Stats(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromInvoiceStats(stats))
}

// Create godoc
// @Summary      Create a draft invoice from purchases
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "invoice"
// @Success      201   {object}  dto.InvoiceEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	inv, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceEnvelope{Invoice: dto.FromInvoice(inv, h.uc.Now())})
}

// GetByID godoc
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "invoice id"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromInvoice(inv, h.uc.Now()))
}

// Update godoc
// @Summary      Patch an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "invoice id"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "fields to change"
// @Success      200   {object}  dto.InvoiceEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [patch]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	inv, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.InvoiceEnvelope{Invoice: dto.FromInvoice(inv, h.uc.Now())})
}

// SetStatus godoc
// @Summary      Transition invoice status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "invoice id"
// @Param        body  body  dto.InvoiceStatusRequest  true  "target status"
// @Success      200   {object}  dto.InvoiceEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [post]
func (h *InvoiceHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.InvoiceStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	inv, err := h.uc.TransitionStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.InvoiceEnvelope{Invoice: dto.FromInvoice(inv, h.uc.Now())})
}

// PDF godoc
// @Summary      Download the invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path  string  true  "invoice id"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdf.Render(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}

// Delete godoc
// @Summary      Delete an invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "invoice id"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}
