package texto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizar(t *testing.T) {
	casos := []struct {
		entrada, esperado string
	}{
		{"Pérez", "perez"},
		{"GARCÍA-LÓPEZ", "garcia lopez"},
		{"  Muñoz_del  Río ", "munoz del rio"},
		{"O'Brien", "obrien"},
		{"Coca Cola 2L", "coca cola 2l"},
		{"", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, Normalizar(c.entrada), "entrada %q", c.entrada)
	}
}

func TestCoinciden(t *testing.T) {
	assert.True(t, Coinciden("Pérez", "perez"))
	assert.True(t, Coinciden("garcia-lopez", "García López"))
	assert.False(t, Coinciden("Pérez", "Perez Soto"))
}

func TestContiene(t *testing.T) {
	assert.True(t, Contiene("Agua Mineral Sin Gas", "mineral"))
	assert.True(t, Contiene("Café con Leche", "cafe"))
	assert.False(t, Contiene("Agua", "cerveza"))
}
