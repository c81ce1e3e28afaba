package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/jobs"
	"github.com/jhoicas/alquileres-api/internal/scheduler"
	"github.com/jhoicas/alquileres-api/internal/testutil"
)

func newRunner(app *testutil.App) *jobs.JobRunner {
	return jobs.NewJobRunner(jobs.NewAutoStart(app.Repos.Rentals, app.Rentals, app.Cal, app.Log), app.Log)
}

func TestNew_ExpresionInvalida(t *testing.T) {
	app := testutil.NewApp(time.Date(2024, 3, 10, 9, 0, 0, 0, testutil.ART))

	_, err := scheduler.New(newRunner(app), scheduler.Config{AutoStartSpec: "cada tanto"}, app.Log)
	assert.Error(t, err)
}

func TestNew_RegistraAutoInicio(t *testing.T) {
	app := testutil.NewApp(time.Date(2024, 3, 10, 9, 0, 0, 0, testutil.ART))

	s, err := scheduler.New(newRunner(app), scheduler.Config{AutoStartSpec: "*/30 * * * * *", Location: testutil.ART}, app.Log)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	// sin expresión usa la de defecto
	s, err = scheduler.New(newRunner(app), scheduler.Config{}, app.Log)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())
}

func TestStart_PasadaInmediata(t *testing.T) {
	app := testutil.NewApp(time.Date(2024, 3, 10, 9, 0, 0, 0, testutil.ART))
	p := app.MustProduct(t, "Andamio", 100, 10)
	site := app.MustSite(t, "Constructora ABC", "Torre Norte")
	r := app.MustRental(t, site.ID, "presupuestado", "2024-03-10", testutil.Item(p.ID, 4))

	s, err := scheduler.New(newRunner(app), scheduler.Config{AutoStartSpec: "@every 1h", Location: testutil.ART}, app.Log)
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	got, err := app.Rentals.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "iniciado", got.Status, "Start corre el auto-inicio antes de esperar al cron")
	actual, _ := app.Stock(t, p.ID)
	assert.Equal(t, 6, actual)
}
