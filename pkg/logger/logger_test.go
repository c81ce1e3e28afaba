package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/pkg/logger"
)

func TestNew_JSONConNivelYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len(), "info por debajo del nivel warn")

	log.Component("rental").Warn().Str("rental_id", "r1").Msg("liberación recortada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "rental", entry["component"])
	assert.Equal(t, "r1", entry["rental_id"])
	assert.Equal(t, "liberación recortada", entry["message"])
}

func TestNilYNop_NoPanican(t *testing.T) {
	var nilLog *logger.Logger
	assert.NotPanics(t, func() {
		nilLog.Warn().Msg("x")
		nilLog.Component("x").Error().Msg("y")
		logger.Nop().Info().Msg("z")
	})
}
