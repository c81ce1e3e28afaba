package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/alquileres-api/internal/application/analytics"
	"github.com/jhoicas/alquileres-api/internal/application/dto"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del tablero
// @Description  Vencidos, devoluciones próximas, montos por estado, stock y rankings. Las fechas se calculan en el servidor.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "30d (defecto) | all"
// @Success      200     {object}  dto.DashboardSummaryDTO
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	period := appanalytics.Period(c.Query("period", string(appanalytics.PeriodLast30)))
	if period != appanalytics.PeriodLast30 && period != appanalytics.PeriodAll {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "period debe ser 30d o all",
		})
	}

	summary, err := h.uc.GetSummary(c.Context(), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
