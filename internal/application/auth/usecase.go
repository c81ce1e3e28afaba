package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login del mostrador. Sin PasswordHash acepta cualquier usuario no vacío;
// con PasswordHash (bcrypt) exige que la contraseña coincida.
type AuthUseCase struct {
	jwtCfg       JWTConfig
	passwordHash string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(jwtCfg JWTConfig, passwordHash string) *AuthUseCase {
	return &AuthUseCase{jwtCfg: jwtCfg, passwordHash: strings.TrimSpace(passwordHash)}
}

// Login valida las credenciales y emite un JWT.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: usuario obligatorio", domain.ErrInvalidInput)
	}
	if uc.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(uc.passwordHash), []byte(in.Password)); err != nil {
			return nil, domain.ErrUnauthorized
		}
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	exp := uc.jwtCfg.ExpMinutes
	if exp <= 0 {
		exp = 60
	}
	return &dto.LoginResponse{Token: token, TokenType: "Bearer", ExpiresIn: exp * 60}, nil
}
