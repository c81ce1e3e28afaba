package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/alquileres-api/internal/application/documents"
	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/rental"
)

// RentalHandler maneja alquileres, sus líneas, transiciones, facturación y documentos (protegido).
type RentalHandler struct {
	uc   *rental.UseCase
	docs *documents.UseCase
}

// NewRentalHandler construye el handler.
func NewRentalHandler(uc *rental.UseCase, docs *documents.UseCase) *RentalHandler {
	return &RentalHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Crear alquiler
// @Description  La obra debe estar activa. Con status "iniciado" reserva el stock en el acto.
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRentalRequest  true  "Obra, líneas y fechas"
// @Success      201   {object}  dto.RentalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortfallErrorResponse
// @Router       /api/rentals [post]
func (h *RentalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRentalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener alquiler
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alquiler"
// @Success      200  {object}  dto.RentalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rentals/{id} [get]
func (h *RentalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar alquileres
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "sin presupuestar | presupuestado | iniciado | finalizado"
// @Param        work_id      query  string  false  "Obra"
// @Param        client_id    query  string  false  "Cliente"
// @Param        product_id   query  string  false  "Producto incluido"
// @Param        q            query  string  false  "Búsqueda por cliente, obra o producto"
// @Param        return_from  query  string  false  "Devolución desde (YYYY-MM-DD)"
// @Param        return_to    query  string  false  "Devolución hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200          {object}  dto.RentalListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/rentals [get]
func (h *RentalHandler) List(c *fiber.Ctx) error {
	q := dto.RentalListQuery{
		Status:      c.Query("status"),
		WorkID:      c.Query("work_id"),
		ClientID:    c.Query("client_id"),
		ProductID:   c.Query("product_id"),
		Search:      c.Query("q"),
		ReturnFrom:  c.Query("return_from"),
		ReturnTo:    c.Query("return_to"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar fecha de devolución y notas
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del alquiler"
// @Param        body  body  dto.UpdateRentalRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.RentalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rentals/{id} [put]
func (h *RentalHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRentalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Líneas ────────────────────────────────────────────────────────────────────

// AddItem godoc
// @Summary      Agregar producto al alquiler
// @Description  Si el producto ya está en el alquiler se suma la cantidad. En un alquiler iniciado reserva stock.
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del alquiler"
// @Param        body  body  dto.RentalItemInput  true  "Producto y cantidad"
// @Success      200   {object}  dto.RentalResponse
// @Failure      409   {object}  dto.ShortfallErrorResponse
// @Router       /api/rentals/{id}/items [post]
func (h *RentalHandler) AddItem(c *fiber.Ctx) error {
	var in dto.RentalItemInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddItem(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar producto del alquiler
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del alquiler"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.RentalResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/rentals/{id}/items/{productId} [delete]
func (h *RentalHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.Context(), c.Params("id"), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetItemQuantity godoc
// @Summary      Cambiar cantidad de una línea
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID del alquiler"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.ItemQuantityRequest  true  "Nueva cantidad"
// @Success      200        {object}  dto.RentalResponse
// @Failure      409        {object}  dto.ShortfallErrorResponse
// @Router       /api/rentals/{id}/items/{productId}/quantity [put]
func (h *RentalHandler) SetItemQuantity(c *fiber.Ctx) error {
	var in dto.ItemQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetItemQuantity(c.Context(), c.Params("id"), c.Params("productId"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetItemDailyRate godoc
// @Summary      Cambiar tarifa diaria de una línea
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID del alquiler"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.ItemRateRequest  true  "Tarifa diaria"
// @Success      200        {object}  dto.RentalResponse
// @Router       /api/rentals/{id}/items/{productId}/rate [put]
func (h *RentalHandler) SetItemDailyRate(c *fiber.Ctx) error {
	var in dto.ItemRateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetItemDailyRate(c.Context(), c.Params("id"), c.Params("productId"), in.DailyPrice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetItemAddedDate godoc
// @Summary      Cambiar fecha de alta de una línea
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID del alquiler"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.ItemAddedDateRequest  true  "Fecha (YYYY-MM-DD)"
// @Success      200        {object}  dto.RentalResponse
// @Router       /api/rentals/{id}/items/{productId}/added-date [put]
func (h *RentalHandler) SetItemAddedDate(c *fiber.Ctx) error {
	var in dto.ItemAddedDateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetItemAddedDate(c.Context(), c.Params("id"), c.Params("productId"), in.AddedDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Ciclo de vida y cobro ─────────────────────────────────────────────────────

// RecordPayment godoc
// @Summary      Registrar pago del alquiler
// @Description  amount es el total pagado (no incremental); se recorta a [0, total].
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del alquiler"
// @Param        body  body  dto.PaymentRequest  true  "Monto pagado"
// @Success      200   {object}  dto.RentalResponse
// @Router       /api/rentals/{id}/payment [post]
func (h *RentalHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordPayment(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Aplicar transición
// @Description  action: presupuestar, iniciar, devolver, devolver_parcial (con items) o reactivar.
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del alquiler"
// @Param        body  body  dto.TransitionRequest  true  "Acción"
// @Success      200   {object}  dto.RentalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortfallErrorResponse
// @Router       /api/rentals/{id}/transitions [post]
func (h *RentalHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Transition(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReactivateWithRestock godoc
// @Summary      Reponer stock y reactivar alquiler
// @Tags         rentals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del alquiler"
// @Param        body  body  dto.RestockRequest  true  "Reposición por producto"
// @Success      200   {object}  dto.RentalResponse
// @Failure      409   {object}  dto.ShortfallErrorResponse
// @Router       /api/rentals/{id}/reactivate-with-restock [post]
func (h *RentalHandler) ReactivateWithRestock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ReactivateWithRestock(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Bill godoc
// @Summary      Cargo prorrateado
// @Tags         rentals
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del alquiler"
// @Param        mode   query  string  false  "to_date | current_month | custom"
// @Param        start  query  string  false  "Inicio (custom)"
// @Param        end    query  string  false  "Fin (custom)"
// @Success      200    {object}  dto.BillResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/rentals/{id}/bill [get]
func (h *RentalHandler) Bill(c *fiber.Ctx) error {
	q := dto.BillQuery{Mode: c.Query("mode"), Start: c.Query("start"), End: c.Query("end")}
	out, err := h.uc.Bill(c.Context(), c.Params("id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Documentos ────────────────────────────────────────────────────────────────

// Document godoc
// @Summary      Documento comercial (JSON)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id              path   string  true   "ID del alquiler"
// @Param        kind            path   string  true   "remito | recibo | cotizacion"
// @Param        payment_method  query  string  false  "Efectivo | Cheque (recibo)"
// @Success      200             {object}  dto.DocumentRecord
// @Failure      400             {object}  dto.ErrorResponse
// @Failure      404             {object}  dto.ErrorResponse
// @Router       /api/rentals/{id}/documents/{kind} [get]
func (h *RentalHandler) Document(c *fiber.Ctx) error {
	kind, err := documents.ParseKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.docs.Record(c.Context(), c.Params("id"), kind, documents.Options{PaymentMethod: c.Query("payment_method")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DocumentPDF godoc
// @Summary      Documento comercial (PDF)
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id              path   string  true   "ID del alquiler"
// @Param        kind            path   string  true   "remito | recibo | cotizacion"
// @Param        payment_method  query  string  false  "Efectivo | Cheque (recibo)"
// @Success      200             {file}    binary
// @Failure      404             {object}  dto.ErrorResponse
// @Router       /api/rentals/{id}/documents/{kind}/pdf [get]
func (h *RentalHandler) DocumentPDF(c *fiber.Ctx) error {
	kind, err := documents.ParseKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	b, filename, err := h.docs.PDF(c.Context(), c.Params("id"), kind, documents.Options{PaymentMethod: c.Query("payment_method")})
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(b)
}
