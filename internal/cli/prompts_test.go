package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prompter(entrada string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(entrada), &out, true), &out
}

func TestPedirTextoReintentaVacio(t *testing.T) {
	p, _ := prompter("\n\nJuan\n")
	s, err := p.PedirTexto("Nombre")
	require.NoError(t, err)
	assert.Equal(t, "Juan", s)
}

func TestCentinelaCancela(t *testing.T) {
	p, _ := prompter("0\n")
	_, err := p.PedirTexto("Nombre")
	assert.ErrorIs(t, err, ErrCancelado)
}

func TestEntradaCortadaDevuelveEOF(t *testing.T) {
	p, _ := prompter("")
	_, err := p.PedirTexto("Nombre")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPedirEnteroPositivoRechazaBasura(t *testing.T) {
	p, out := prompter("abc\n-3\n5\n")
	n, err := p.PedirEnteroPositivo("Cantidad")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Contains(t, out.String(), "número")
}

func TestPedirPrecioAceptaComa(t *testing.T) {
	p, _ := prompter("12,50\n")
	precio, err := p.PedirPrecio("Precio")
	require.NoError(t, err)
	assert.Equal(t, "12.50", precio.StringFixed(2))
}

func TestPedirTelefono(t *testing.T) {
	p, _ := prompter("2944123456\n")
	tel, err := p.PedirTelefono("Teléfono")
	require.NoError(t, err)
	assert.Equal(t, int64(2944123456), tel)
}

func TestPedirMailExigeArroba(t *testing.T) {
	p, _ := prompter("sinarroba\nana@hostal.com\n")
	mail, err := p.PedirMail("Email")
	require.NoError(t, err)
	assert.Equal(t, "ana@hostal.com", mail)
}

func TestConfirmar(t *testing.T) {
	p, _ := prompter("si\n")
	assert.True(t, p.Confirmar("¿Seguro?"))

	p, _ = prompter("n\n")
	assert.False(t, p.Confirmar("¿Seguro?"))

	// entrada cortada cuenta como no
	p, _ = prompter("")
	assert.False(t, p.Confirmar("¿Seguro?"))
}

func TestPedirFechaCompactaYSiglo(t *testing.T) {
	p, _ := prompter("15032027\n")
	f, err := p.PedirFecha("Check-in", FechaLibre)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 3, 15, 0, 0, 0, 0, time.Local), f)

	p, _ = prompter("15-03-27\n")
	f, err = p.PedirFecha("Check-in", FechaLibre)
	require.NoError(t, err)
	assert.Equal(t, 2027, f.Year())
}

func TestPedirFechaPasadaPideConfirmacion(t *testing.T) {
	// rechaza la primera fecha pasada y acepta la segunda
	p, out := prompter("01-01-2020\nn\n01-01-2020\ns\n")
	f, err := p.PedirFecha("Check-in", FechaConfirmaPasado)
	require.NoError(t, err)
	assert.Equal(t, 2020, f.Year())
	assert.Contains(t, out.String(), "ya pasó")
}

func TestPedirFechaFuturaRechazaPasado(t *testing.T) {
	// el modo de check-out no acepta una fecha pasada ni confirmada:
	// vuelve a pedir hasta recibir hoy o posterior
	p, out := prompter("01-01-2020\n01-01-2099\n")
	f, err := p.PedirFecha("Check-out", FechaFutura)
	require.NoError(t, err)
	assert.Equal(t, 2099, f.Year())
	assert.Contains(t, out.String(), "hoy o posterior")
	assert.NotContains(t, out.String(), "¿usarla igual?")
}

func TestPedirFechaLibreAceptaPasadoSinPreguntar(t *testing.T) {
	p, out := prompter("01-01-2020\n")
	f, err := p.PedirFecha("Desde", FechaLibre)
	require.NoError(t, err)
	assert.Equal(t, 2020, f.Year())
	assert.NotContains(t, out.String(), "ya pasó")
}
