// Package auth autentica al operador único del almacén. No hay tabla de
// usuarios: las credenciales viven en la configuración y el hash es bcrypt.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/fefo-stock/internal/application/dto"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/pkg/jwt"
)

// RoleAdmin único rol existente: el operador lo puede todo.
const RoleAdmin = "admin"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credentials credenciales del operador cargadas de la configuración.
type Credentials struct {
	Username     string
	PasswordHash string // bcrypt
}

// UseCase login del operador.
type UseCase struct {
	creds  Credentials
	jwtCfg JWTConfig
}

// NewUseCase construye el caso de uso.
func NewUseCase(creds Credentials, jwtCfg JWTConfig) *UseCase {
	return &UseCase{creds: creds, jwtCfg: jwtCfg}
}

// Login verifica usuario y contraseña contra la configuración y emite un JWT.
// Usuario desconocido y contraseña incorrecta responden igual: ErrUnauthorized.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.creds.PasswordHash == "" {
		// Sin hash configurado el login queda deshabilitado, nunca abierto.
		return nil, domain.ErrUnauthorized
	}
	if in.Username != uc.creds.Username {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.creds.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, in.Username, RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		Username:  in.Username,
		Role:      RoleAdmin,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}
