// Package jobs contiene los trabajos periódicos del servicio y el runner que los
// ejecuta con recuperación de pánicos.
package jobs

import (
	"context"
	"errors"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
	domainrental "github.com/jhoicas/alquileres-api/internal/domain/rental"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// RentalStarter ejecuta la transición "iniciar" de un alquiler (implementado por rental.UseCase).
type RentalStarter interface {
	Start(ctx context.Context, id string) (*dto.RentalResponse, error)
}

// AutoStartResult resumen de una pasada del auto-inicio.
type AutoStartResult struct {
	Started int
	Skipped int
}

// AutoStart promueve a iniciado los alquileres presupuestados cuya fecha de inicio ya llegó.
type AutoStart struct {
	rentals repository.RentalRepository
	starter RentalStarter
	cal     ports.Calendar
	log     *logger.Logger
}

// NewAutoStart construye el job.
func NewAutoStart(rentals repository.RentalRepository, starter RentalStarter, cal ports.Calendar, log *logger.Logger) *AutoStart {
	return &AutoStart{rentals: rentals, starter: starter, cal: cal, log: log.Component("autostart")}
}

// Run recorre los presupuestados con fecha de inicio (día, en la zona del negocio) menor o igual
// a hoy y los inicia uno por uno. Un fallo (p. ej. stock insuficiente) se registra y se
// omite sin cortar la pasada. Repetirlo no tiene efecto: la transición se revalida bajo bloqueo.
func (j *AutoStart) Run(ctx context.Context) (AutoStartResult, error) {
	var res AutoStartResult
	candidates, err := j.rentals.List(ctx, repository.RentalFilter{Status: entity.RentalStatusBudgeted})
	if err != nil {
		return res, err
	}
	today := j.cal.Today()
	loc := j.cal.Loc()
	for _, r := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if domainrental.DaysBetween(today, r.CreatedAt, loc) < 0 {
			continue
		}
		if _, err := j.starter.Start(ctx, r.ID); err != nil {
			res.Skipped++
			ev := j.log.Warn()
			if !errors.Is(err, domain.ErrInsufficientStock) && !errors.Is(err, domain.ErrInvalidTransition) {
				ev = j.log.Error()
			}
			ev.Err(err).Str("rental_id", r.ID).Str("work_name", r.WorkName).Msg("auto-inicio omitido")
			continue
		}
		res.Started++
		j.log.Info().Str("rental_id", r.ID).Str("work_name", r.WorkName).Msg("alquiler iniciado automáticamente")
	}
	return res, nil
}
