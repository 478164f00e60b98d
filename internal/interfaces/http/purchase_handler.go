package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/purchasing"
)

// PurchaseHandler purchase order endpoints.
type PurchaseHandler struct {
	uc *purchasing.PurchaseUseCase
}

// NewPurchaseHandler builds the handler.
func NewPurchaseHandler(uc *purchasing.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// List godoc
// @Summary      List purchases (keyset pagination)
// @Tags         purchases
// @Produce      json
// @Param        limit      query  int     false  "page size, default 25, max 500"
// @Param        pageToken  query  string  false  "id of the previous page's last row"
// @Param        cursor     query  string  false  "ISO date; rows strictly after it"
// @Param        status     query  string  false  "pending | approved | rejected | completed"
// @Param        clientId   query  string  false  "client id"
// @Param        order      query  string  false  "asc | desc (default)"
// @Param        poPrefix   query  string  false  "PO number prefix"
// @Success      200  {object}  dto.PurchasePage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var q dto.PurchaseListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	page, err := h.uc.List(c.Context(), q)
	if err != nil {
		return err
	}
	out := dto.PurchasePage{Items: dto.FromPurchases(page.Items)}
	if page.NextPageToken != "" {
		out.NextCursor = &page.NextCursor
		out.NextPageToken = &page.NextPageToken
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Create a purchase order
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "purchase"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	p, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchase(p))
}

// ByIDs godoc
// @Summary      Fetch purchases by id
// @Description  Unknown ids are dropped; order follows the request.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseByIDsRequest  true  "ids"
// @Success      200   {array}   dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases/byIds [post]
func (h *PurchaseHandler) ByIDs(c *fiber.Ctx) error {
	var in dto.PurchaseByIDsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	list, err := h.uc.GetByIDs(c.Context(), in.IDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromPurchases(list))
}

// GetByID godoc
// @Summary      Get a purchase order
// @Tags         purchases
// @Produce      json
// @Param        id   path  string  true  "purchase id"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromPurchase(p))
}

// Update godoc
// @Summary      Update a purchase order
// @Description  Merge patch; PUT behaves the same way.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "purchase id"
// @Param        body  body  dto.UpdatePurchaseRequest  true  "fields to change"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [patch]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	p, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromPurchase(p))
}

// Delete godoc
// @Summary      Delete a purchase order
// @Tags         purchases
// @Produce      json
// @Param        id   path  string  true  "purchase id"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}
