package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/site"
)

// SiteHandler maneja las obras y sus acciones de ciclo de vida (protegido).
type SiteHandler struct {
	uc *site.UseCase
}

// NewSiteHandler construye el handler.
func NewSiteHandler(uc *site.UseCase) *SiteHandler {
	return &SiteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear obra
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSiteRequest  true  "Datos de la obra"
// @Success      201   {object}  dto.SiteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sites [post]
func (h *SiteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSiteRequest
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
// @Summary      Obtener obra
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la obra"
// @Success      200  {object}  dto.SiteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{id} [get]
func (h *SiteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar obras
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "active | paused | completed"
// @Param        client_id  query  string  false  "Cliente"
// @Param        q          query  string  false  "Búsqueda por nombre o dirección"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200        {object}  dto.SiteListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/sites [get]
func (h *SiteHandler) List(c *fiber.Ctx) error {
	q := dto.SiteListQuery{
		Status:      c.Query("status"),
		ClientID:    c.Query("client_id"),
		Search:      c.Query("q"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar obra
// @Description  Un cambio de nombre se proyecta sobre sus alquileres.
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la obra"
// @Param        body  body  dto.UpdateSiteRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SiteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sites/{id} [put]
func (h *SiteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSiteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar obra
// @Tags         sites
// @Security     Bearer
// @Param        id   path  string  true  "ID de la obra"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sites/{id} [delete]
func (h *SiteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordPayment godoc
// @Summary      Registrar pago de la obra
// @Description  amount es el total pagado (no incremental); se recorta a [0, total].
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la obra"
// @Param        body  body  dto.PaymentRequest  true  "Monto pagado"
// @Success      200   {object}  dto.SiteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sites/{id}/payment [post]
func (h *SiteHandler) RecordPayment(c *fiber.Ctx) error {
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

// Finish godoc
// @Summary      Finalizar obra
// @Description  Devuelve todos los alquileres iniciados y marca la obra como completada y pagada.
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la obra"
// @Success      200  {object}  dto.SiteFinishResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sites/{id}/finish [post]
func (h *SiteHandler) Finish(c *fiber.Ctx) error {
	out, err := h.uc.Finish(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pause godoc
// @Summary      Pausar obra
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la obra"
// @Success      200  {object}  dto.SiteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sites/{id}/pause [post]
func (h *SiteHandler) Pause(c *fiber.Ctx) error {
	out, err := h.uc.Pause(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reactivate godoc
// @Summary      Reactivar obra
// @Description  Una obra completada reactiva sus alquileres finalizados; responde 409 con los faltantes si no hay stock.
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la obra"
// @Success      200  {object}  dto.SiteResponse
// @Failure      409  {object}  dto.ShortfallErrorResponse
// @Router       /api/sites/{id}/reactivate [post]
func (h *SiteHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReactivateWithRestock godoc
// @Summary      Reponer stock y reactivar obra
// @Description  Suma la reposición indicada a la capacidad y reactiva en la misma operación; si aún falta stock no se aplica nada.
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la obra"
// @Param        body  body  dto.RestockRequest  true  "Reposición por producto"
// @Success      200   {object}  dto.SiteResponse
// @Failure      409   {object}  dto.ShortfallErrorResponse
// @Router       /api/sites/{id}/reactivate-with-restock [post]
func (h *SiteHandler) ReactivateWithRestock(c *fiber.Ctx) error {
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

// Shortfall godoc
// @Summary      Faltantes para reactivar la obra
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la obra"
// @Success      200  {array}   inventory.StockShortfall
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{id}/shortfall [get]
func (h *SiteHandler) Shortfall(c *fiber.Ctx) error {
	out, err := h.uc.ReactivationShortfall(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.JSON([]any{})
	}
	return c.JSON(out)
}
