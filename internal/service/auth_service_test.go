package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostaldelago/internal/model"
)

func newAuthFixture(t *testing.T) (*stubUsuarioRepo, AuthService) {
	t.Helper()
	repo := newStubUsuarioRepo()
	return repo, NewAuthService(repo, testConfig())
}

func TestBootstrapAdmin(t *testing.T) {
	repo, svc := newAuthFixture(t)

	creado, err := svc.BootstrapAdmin(context.Background(), "hostal-2026")
	require.NoError(t, err)
	assert.True(t, creado)

	admin, err := repo.FindByUsuario(context.Background(), "Admin")
	require.NoError(t, err)
	assert.Equal(t, model.NivelSuperusuario, admin.Nivel)

	// Con usuarios existentes el bootstrap no hace nada.
	creado, err = svc.BootstrapAdmin(context.Background(), "otra-clave-99")
	require.NoError(t, err)
	assert.False(t, creado)
}

func TestLoginYVerificar(t *testing.T) {
	_, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))

	_, err := svc.Login(context.Background(), "mirta", "clave-equivocada")
	assert.ErrorIs(t, err, ErrCredenciales)
	_, err = svc.Login(context.Background(), "nadie", "recepcion-1")
	assert.ErrorIs(t, err, ErrCredenciales)

	sesion, err := svc.Login(context.Background(), "mirta", "recepcion-1")
	require.NoError(t, err)
	assert.True(t, sesion.Activa)

	assert.NoError(t, svc.Verificar(sesion, model.NivelObservador))
	assert.NoError(t, svc.Verificar(sesion, model.NivelRecepcion))
	assert.ErrorIs(t, svc.Verificar(sesion, model.NivelEncargado), ErrPermiso)
	assert.ErrorIs(t, svc.Verificar(sesion, model.NivelSuperusuario), ErrPermiso)
}

func TestVerificarSesionVencida(t *testing.T) {
	_, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))

	sesion, err := svc.Login(context.Background(), "mirta", "recepcion-1")
	require.NoError(t, err)

	sesion.UltimaAuth = time.Now().Add(-10 * time.Minute)
	assert.ErrorIs(t, svc.Verificar(sesion, model.NivelObservador), ErrSesionVencida)
	assert.False(t, sesion.Activa, "la expiración desactiva la sesión")
	assert.ErrorIs(t, svc.Verificar(sesion, model.NivelObservador), ErrSesionInactiva)
}

func TestVerificarRenuevaActividad(t *testing.T) {
	_, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))

	sesion, err := svc.Login(context.Background(), "mirta", "recepcion-1")
	require.NoError(t, err)
	vieja := time.Now().Add(-2 * time.Minute)
	sesion.UltimaAuth = vieja

	require.NoError(t, svc.Verificar(sesion, model.NivelRecepcion))
	assert.True(t, sesion.UltimaAuth.After(vieja), "el uso dentro del período renueva la sesión")
}

func TestLogout(t *testing.T) {
	_, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))
	sesion, err := svc.Login(context.Background(), "mirta", "recepcion-1")
	require.NoError(t, err)

	svc.Logout(sesion)
	assert.ErrorIs(t, svc.Verificar(sesion, model.NivelObservador), ErrSesionInactiva)
}

func TestValidarPassword(t *testing.T) {
	casos := []struct {
		password string
		ok       bool
	}{
		{"corta-1", false},           // menos de 8
		{"sinimbolos1", false},       // falta símbolo
		{"con espacio-", false},      // caracter prohibido
		{"tiene#numeral", false},     // símbolo fuera del set
		{"recepcion-1", true},
		{"clave.con,todo+9", true},
		{"Admin@2026", true},
	}
	for _, c := range casos {
		err := ValidarPassword(c.password)
		if c.ok {
			assert.NoError(t, err, "password %q", c.password)
		} else {
			assert.Error(t, err, "password %q", c.password)
		}
	}
}

func TestCrearUsuarioDuplicado(t *testing.T) {
	_, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))

	err := svc.CrearUsuario(context.Background(), "mirta", "otra-clave-2", model.NivelEncargado)
	assert.ErrorIs(t, err, ErrUsuarioExiste)
}

func TestCrearUsuarioNivelInvalido(t *testing.T) {
	_, svc := newAuthFixture(t)
	assert.Error(t, svc.CrearUsuario(context.Background(), "x", "clave-valida-1", 4))
	assert.Error(t, svc.CrearUsuario(context.Background(), "x", "clave-valida-1", -1))
}

func TestCambiarPassword(t *testing.T) {
	_, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))

	require.NoError(t, svc.CambiarPassword(context.Background(), "mirta", "nueva-clave-7"))
	_, err := svc.Login(context.Background(), "mirta", "recepcion-1")
	assert.ErrorIs(t, err, ErrCredenciales)
	_, err = svc.Login(context.Background(), "mirta", "nueva-clave-7")
	assert.NoError(t, err)

	assert.Error(t, svc.CambiarPassword(context.Background(), "mirta", "débil"))
	assert.Error(t, svc.CambiarPassword(context.Background(), "fantasma", "nueva-clave-7"))
}

func TestRenombrarUsuario(t *testing.T) {
	repo, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))
	require.NoError(t, svc.CrearUsuario(context.Background(), "carlos", "recepcion-2", model.NivelRecepcion))

	assert.ErrorIs(t, svc.RenombrarUsuario(context.Background(), "mirta", "carlos"), ErrUsuarioExiste)
	require.NoError(t, svc.RenombrarUsuario(context.Background(), "mirta", "marta"))

	_, err := repo.FindByUsuario(context.Background(), "marta")
	assert.NoError(t, err)
	_, err = repo.FindByUsuario(context.Background(), "mirta")
	assert.Error(t, err)
}

func TestEliminarUsuario(t *testing.T) {
	repo, svc := newAuthFixture(t)
	require.NoError(t, svc.CrearUsuario(context.Background(), "mirta", "recepcion-1", model.NivelRecepcion))

	require.NoError(t, svc.EliminarUsuario(context.Background(), "mirta"))
	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)

	assert.Error(t, svc.EliminarUsuario(context.Background(), "mirta"))
}
