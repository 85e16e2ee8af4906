package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/fefo-stock/internal/application/auth"
	"github.com/tu-usuario/fefo-stock/internal/application/dto"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	pkgjwt "github.com/tu-usuario/fefo-stock/pkg/jwt"
)

const testSecret = "secret-de-tests"

func newUseCase(t *testing.T, password string) *auth.UseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.NewUseCase(
		auth.Credentials{Username: "operador", PasswordHash: string(hash)},
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "fefo-stock-test"},
	)
}

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc := newUseCase(t, "contraseña-segura")

	resp, err := uc.Login(dto.LoginRequest{Username: "operador", Password: "contraseña-segura"})
	require.NoError(t, err)

	assert.Equal(t, "operador", resp.Username)
	assert.Equal(t, auth.RoleAdmin, resp.Role)
	assert.Equal(t, 3600, resp.ExpiresIn)

	// El token emitido debe validar y llevar el rol admin.
	username, role, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "operador", username)
	assert.Equal(t, auth.RoleAdmin, role)
}

func TestLogin_ContraseñaIncorrecta(t *testing.T) {
	uc := newUseCase(t, "contraseña-segura")

	_, err := uc.Login(dto.LoginRequest{Username: "operador", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Usuario desconocido responde igual que contraseña incorrecta: sin pista de
// cuál de los dos falló.
func TestLogin_UsuarioDesconocido(t *testing.T) {
	uc := newUseCase(t, "contraseña-segura")

	_, err := uc.Login(dto.LoginRequest{Username: "intruso", Password: "contraseña-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Sin hash configurado el login queda deshabilitado, nunca abierto.
func TestLogin_SinHashConfigurado(t *testing.T) {
	uc := auth.NewUseCase(
		auth.Credentials{Username: "operador", PasswordHash: ""},
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60},
	)

	_, err := uc.Login(dto.LoginRequest{Username: "operador", Password: "cualquiera"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
