package jobs

import (
	"context"
	"time"

	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// jobTimeout tope de una pasada para que un job colgado no se solape indefinidamente.
const jobTimeout = 2 * time.Minute

// JobRunner coordina los jobs programados.
type JobRunner struct {
	autoStart *AutoStart
	log       *logger.Logger
}

// NewJobRunner crea el runner con sus dependencias.
func NewJobRunner(autoStart *AutoStart, log *logger.Logger) *JobRunner {
	return &JobRunner{autoStart: autoStart, log: log.Component("jobs")}
}

// runWithRecovery envuelve la ejecución de un job con recuperación de pánicos.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			jr.log.Error().Str("job", jobName).Interface("panic", r).Msg("job con pánico")
		}
	}()

	jr.log.Debug().Str("job", jobName).Msg("inicio de job")
	jobFunc()
	jr.log.Debug().Str("job", jobName).Msg("job completado")
}

// StartDueRentals ejecuta una pasada del auto-inicio (callback del cron).
func (jr *JobRunner) StartDueRentals() {
	jr.runWithRecovery("StartDueRentals", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		res, err := jr.autoStart.Run(ctx)
		if err != nil {
			jr.log.Error().Err(err).Msg("auto-inicio fallido")
			return
		}
		if res.Started > 0 || res.Skipped > 0 {
			jr.log.Info().Int("started", res.Started).Int("skipped", res.Skipped).Msg("auto-inicio de alquileres")
		}
	})
}
