package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostaldelago/internal/infra"
	"hostaldelago/internal/model"
)

type consumoFixture struct {
	huespedes *stubHuespedRepo
	productos *stubProductoRepo
	consumos  *stubConsumoRepo
	svc       ConsumoService
}

func newConsumoFixture(t *testing.T) *consumoFixture {
	t.Helper()
	huespedes := newStubHuespedRepo()
	productos := newStubProductoRepo()
	consumos := newStubConsumoRepo(productos)
	audit := infra.NewAuditLogger(t.TempDir())
	return &consumoFixture{
		huespedes: huespedes,
		productos: productos,
		consumos:  consumos,
		svc:       NewConsumoService(consumos, productos, huespedes, audit, testConfig()),
	}
}

func (f *consumoFixture) sembrarProducto(codigo uint, nombre string, precio string, stock int, grupo *string) {
	f.productos.Create(context.Background(), &model.Producto{
		Codigo: codigo, Nombre: nombre,
		Precio: decimalDe(precio), Stock: stock, Alerta: 5, Grupo: grupo,
	})
}

func TestRegistrarConsumo(t *testing.T) {
	f := newConsumoFixture(t)
	h := sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	f.sembrarProducto(1, "Agua", "5.00", 10, nil)

	c, err := f.svc.Registrar(context.Background(), 3, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, h.Numero, c.Huesped)
	assert.Equal(t, 4, c.Cantidad)
	assert.Equal(t, 6, f.productos.productos[1].Stock)

	// El consumo queda anotado en la bitácora del huésped.
	guardado := f.huespedes.huespedes[h.Numero]
	require.NotNil(t, guardado.UltimaEntrada())
	assert.Contains(t, guardado.UltimaEntrada().Texto, "Agua")
}

func TestRegistrarConsumoSinHuespedAbierto(t *testing.T) {
	f := newConsumoFixture(t)
	sembrarHuesped(t, f.huespedes, 3, model.EstadoProgramado, marzo(10), marzo(15))
	f.sembrarProducto(1, "Agua", "5.00", 10, nil)

	_, err := f.svc.Registrar(context.Background(), 3, 1, 1)
	assert.Error(t, err, "una reserva no consume")
}

func TestRegistrarConsumoStockInsuficiente(t *testing.T) {
	f := newConsumoFixture(t)
	sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	f.sembrarProducto(1, "Agua", "5.00", 2, nil)

	_, err := f.svc.Registrar(context.Background(), 3, 1, 3)
	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.Equal(t, 2, f.productos.productos[1].Stock, "sin descuento parcial")
}

func TestRegistrarConsumoStockIlimitado(t *testing.T) {
	f := newConsumoFixture(t)
	sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	f.sembrarProducto(1, "Té de la casa", "3.00", model.StockIlimitado, nil)

	_, err := f.svc.Registrar(context.Background(), 3, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, model.StockIlimitado, f.productos.productos[1].Stock)
}

func TestRegistrarConsumoPoolGrupal(t *testing.T) {
	f := newConsumoFixture(t)
	sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	grupo := "gaseosas"
	f.sembrarProducto(1, "Cola 500", "4.00", 10, &grupo)
	f.sembrarProducto(2, "Naranja 500", "4.00", 10, &grupo)
	f.sembrarProducto(3, "Sifón", "4.00", model.StockIlimitado, &grupo)

	// El pool es compartido: consumir 3 de Cola baja a 7 también a
	// Naranja, el ilimitado no se toca.
	_, err := f.svc.Registrar(context.Background(), 3, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, f.productos.productos[1].Stock)
	assert.Equal(t, 7, f.productos.productos[2].Stock)
	assert.Equal(t, model.StockIlimitado, f.productos.productos[3].Stock)
}

func TestMarcarPagadosIdempotente(t *testing.T) {
	f := newConsumoFixture(t)
	h := sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	f.sembrarProducto(1, "Agua", "5.00", 10, nil)
	c, err := f.svc.Registrar(context.Background(), 3, 1, 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.MarcarPagados(context.Background(), h.Numero, []uint{c.ID}))
	assert.True(t, f.consumos.consumos[c.ID].Pagado)

	// Repetir sobre un consumo ya pagado es un no-op.
	require.NoError(t, f.svc.MarcarPagados(context.Background(), h.Numero, []uint{c.ID}))
	assert.True(t, f.consumos.consumos[c.ID].Pagado)
}

func TestEliminarConsumoReponeStock(t *testing.T) {
	f := newConsumoFixture(t)
	sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	f.sembrarProducto(1, "Agua", "5.00", 10, nil)
	c, err := f.svc.Registrar(context.Background(), 3, 1, 4)
	require.NoError(t, err)
	require.Equal(t, 6, f.productos.productos[1].Stock)

	require.NoError(t, f.svc.Eliminar(context.Background(), c.ID, "Admin", siempreSi))
	assert.NotContains(t, f.consumos.consumos, c.ID)
	assert.Equal(t, 10, f.productos.productos[1].Stock)
}

func TestEliminarConsumoPagadoBloqueado(t *testing.T) {
	f := newConsumoFixture(t)
	h := sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	f.sembrarProducto(1, "Agua", "5.00", 10, nil)
	c, err := f.svc.Registrar(context.Background(), 3, 1, 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.MarcarPagados(context.Background(), h.Numero, []uint{c.ID}))

	err = f.svc.Eliminar(context.Background(), c.ID, "Admin", siempreSi)
	assert.ErrorIs(t, err, ErrConsumoPagado)
}

func TestEliminarConsumoOperadorCancela(t *testing.T) {
	f := newConsumoFixture(t)
	sembrarHuesped(t, f.huespedes, 3, model.EstadoAbierto, marzo(10), marzo(15))
	f.sembrarProducto(1, "Agua", "5.00", 10, nil)
	c, err := f.svc.Registrar(context.Background(), 3, 1, 2)
	require.NoError(t, err)

	require.NoError(t, f.svc.Eliminar(context.Background(), c.ID, "Admin", func(string) bool { return false }))
	assert.Contains(t, f.consumos.consumos, c.ID, "cancelar no borra nada")
	assert.Equal(t, 8, f.productos.productos[1].Stock)
}

func TestRegistrarCortesia(t *testing.T) {
	f := newConsumoFixture(t)
	f.sembrarProducto(1, "Agua", "5.00", 10, nil)

	require.NoError(t, f.svc.RegistrarCortesia(context.Background(), 1, 2, "Encargado"))
	assert.Equal(t, 8, f.productos.productos[1].Stock)
	require.Len(t, f.consumos.cortesias, 1)
	assert.Equal(t, "Encargado", f.consumos.cortesias[0].Autoriza)
}

func TestRegistrarCortesiaSinStock(t *testing.T) {
	f := newConsumoFixture(t)
	f.sembrarProducto(1, "Agua", "5.00", 1, nil)

	err := f.svc.RegistrarCortesia(context.Background(), 1, 2, "Encargado")
	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.Empty(t, f.consumos.cortesias)
}
