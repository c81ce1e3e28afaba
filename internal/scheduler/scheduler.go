package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/alquileres-api/internal/application/jobs"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// DefaultAutoStartSpec cada cuánto corre el auto-inicio si no se configura.
const DefaultAutoStartSpec = "@every 1m"

// Config expresiones cron de los jobs. Aceptan 5 o 6 campos (segundos opcionales) o descriptores (@every, @daily).
type Config struct {
	AutoStartSpec string
	Location      *time.Location
}

// Scheduler administra la programación de los jobs con cron.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
	log  *logger.Logger
}

// New crea el scheduler y registra los jobs. Falla si alguna expresión es inválida.
func New(runner *jobs.JobRunner, cfg Config, log *logger.Logger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(parser),
	)
	s := &Scheduler{cron: c, jobs: runner, log: log.Component("scheduler")}

	spec := cfg.AutoStartSpec
	if spec == "" {
		spec = DefaultAutoStartSpec
	}
	if _, err := s.cron.AddFunc(spec, s.jobs.StartDueRentals); err != nil {
		return nil, fmt.Errorf("scheduler: registrar auto-inicio %q: %w", spec, err)
	}
	s.log.Info().Str("auto_start", spec).Str("tz", loc.String()).Msg("jobs registrados")
	return s, nil
}

// Start ejecuta una pasada inmediata del auto-inicio y arranca el cron.
func (s *Scheduler) Start() {
	s.jobs.StartDueRentals()
	s.cron.Start()
	s.log.Info().Msg("scheduler iniciado")
}

// Stop detiene el cron esperando a que terminen los jobs en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler detenido")
}

// Entries cantidad de jobs registrados.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
