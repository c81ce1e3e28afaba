package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/alquileres-api/internal/application/auth"
	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/pkg/jwt"
)

var cfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 30, Issuer: "alquileres-api"}

func TestLogin_SinHashAceptaCualquierUsuario(t *testing.T) {
	uc := auth.NewAuthUseCase(cfg, "")

	out, err := uc.Login(dto.LoginRequest{Username: "ana", Password: "lo-que-sea"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, 1800, out.ExpiresIn)

	username, err := jwt.Parse(cfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana", username)
}

func TestLogin_UsuarioVacio(t *testing.T) {
	uc := auth.NewAuthUseCase(cfg, "")
	_, err := uc.Login(dto.LoginRequest{Username: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_ConHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave"), bcrypt.MinCost)
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(cfg, string(hash))

	_, err = uc.Login(dto.LoginRequest{Username: "ana", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	out, err := uc.Login(dto.LoginRequest{Username: "ana", Password: "clave"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
}
