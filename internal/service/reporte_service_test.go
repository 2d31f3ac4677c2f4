package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostaldelago/internal/fechas"
	"hostaldelago/internal/model"
)

func newReporteFixture(t *testing.T) (*stubHuespedRepo, *stubProductoRepo, *stubConsumoRepo, ReporteService) {
	t.Helper()
	huespedes := newStubHuespedRepo()
	productos := newStubProductoRepo()
	consumos := newStubConsumoRepo(productos)
	return huespedes, productos, consumos, NewReporteService(huespedes, consumos, productos)
}

func TestConsumosDelDia(t *testing.T) {
	_, productos, consumos, svc := newReporteFixture(t)
	productos.Create(context.Background(), &model.Producto{Codigo: 1, Nombre: "Agua", Precio: decimalDe("5.00"), Stock: 10, Alerta: 5})
	consumos.CreateTx(nil, &model.Consumo{Huesped: 1, Producto: 1, Cantidad: 2, Fecha: "2026-03-12 09:15:00"})
	consumos.CreateTx(nil, &model.Consumo{Huesped: 2, Producto: 1, Cantidad: 1, Fecha: "2026-03-12 21:40:00"})
	consumos.CreateTx(nil, &model.Consumo{Huesped: 1, Producto: 1, Cantidad: 9, Fecha: "2026-03-13 08:00:00"})

	rep, err := svc.ConsumosDelDia(context.Background(), marzo(12))
	require.NoError(t, err)
	assert.Len(t, rep.Detalles, 2)
	assert.Equal(t, "15.00", rep.Total.StringFixed(2))
}

func TestAbiertosYVencidos(t *testing.T) {
	huespedes, _, _, svc := newReporteFixture(t)
	hoy := fechas.Hoy()
	sembrarHuesped(t, huespedes, 1, model.EstadoAbierto, hoy.AddDate(0, 0, -1), hoy.AddDate(0, 0, 3))
	vencido := sembrarHuesped(t, huespedes, 2, model.EstadoAbierto, hoy.AddDate(0, 0, -5), hoy.AddDate(0, 0, -2))
	sembrarHuesped(t, huespedes, 3, model.EstadoProgramado, hoy, hoy.AddDate(0, 0, 2))

	abiertos, vencidos, err := svc.Abiertos(context.Background())
	require.NoError(t, err)
	assert.Len(t, abiertos, 2)
	require.Len(t, vencidos, 1)
	assert.Equal(t, vencido.Numero, vencidos[0].Numero)
	assert.Equal(t, 2, vencidos[0].DiasVencido)
}

func TestCerradosEnRango(t *testing.T) {
	huespedes, _, _, svc := newReporteFixture(t)
	sembrarHuesped(t, huespedes, 0, model.EstadoCerrado, marzo(1), marzo(5))
	sembrarHuesped(t, huespedes, 0, model.EstadoCerrado, marzo(1), marzo(20))
	sembrarHuesped(t, huespedes, 1, model.EstadoAbierto, marzo(1), marzo(5))

	cerrados, err := svc.CerradosEn(context.Background(), marzo(4), marzo(10))
	require.NoError(t, err)
	assert.Len(t, cerrados, 1)
	assert.Equal(t, "2026-03-05", cerrados[0].Checkout)
}

func TestProntoCheckin(t *testing.T) {
	huespedes, _, _, svc := newReporteFixture(t)
	hoy := fechas.Hoy()
	sembrarHuesped(t, huespedes, 1, model.EstadoProgramado, hoy.AddDate(0, 0, 2), hoy.AddDate(0, 0, 6))
	sembrarHuesped(t, huespedes, 2, model.EstadoProgramado, hoy.AddDate(0, 0, 30), hoy.AddDate(0, 0, 33))
	// Reserva atrasada que nunca hizo check-in: también aparece.
	atrasado := sembrarHuesped(t, huespedes, 3, model.EstadoProgramado, hoy.AddDate(0, 0, -4), hoy.AddDate(0, 0, 1))

	proximos, err := svc.ProntoCheckin(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, proximos, 2)
	assert.Equal(t, atrasado.Numero, proximos[0].Numero)
}
