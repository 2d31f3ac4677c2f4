package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"hostaldelago/internal/fechas"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

// ReporteConsumos es el movimiento de un día: las filas y su total.
type ReporteConsumos struct {
	Dia      time.Time
	Detalles []repository.ConsumoDetalle
	Total    decimal.Decimal
}

// HuespedVencido es un ABIERTO cuyo check-out ya pasó.
type HuespedVencido struct {
	model.Huesped
	DiasVencido int
}

type ReporteService interface {
	ConsumosDelDia(ctx context.Context, dia time.Time) (*ReporteConsumos, error)

	// Abiertos lista los alojados y por separado los que deberían
	// haberse ido.
	Abiertos(ctx context.Context) ([]model.Huesped, []HuespedVencido, error)

	CerradosEn(ctx context.Context, desde, hasta time.Time) ([]model.Huesped, error)

	// ProntoCheckin lista las reservas que llegan en los próximos
	// días, incluyendo las que ya deberían haber entrado.
	ProntoCheckin(ctx context.Context, dias int) ([]model.Huesped, error)

	BajoStock(ctx context.Context) ([]model.Producto, error)
}

type reporteService struct {
	huespedes repository.HuespedRepository
	consumos  repository.ConsumoRepository
	productos repository.ProductoRepository
}

func NewReporteService(
	huespedes repository.HuespedRepository,
	consumos repository.ConsumoRepository,
	productos repository.ProductoRepository,
) ReporteService {
	return &reporteService{huespedes: huespedes, consumos: consumos, productos: productos}
}

func (s *reporteService) ConsumosDelDia(ctx context.Context, dia time.Time) (*ReporteConsumos, error) {
	detalles, err := s.consumos.ListDelDia(ctx, fechas.ISO(dia))
	if err != nil {
		return nil, err
	}
	rep := &ReporteConsumos{Dia: dia, Detalles: detalles}
	for _, d := range detalles {
		rep.Total = rep.Total.Add(d.Importe())
	}
	rep.Total = rep.Total.Round(2)
	return rep, nil
}

func (s *reporteService) Abiertos(ctx context.Context) ([]model.Huesped, []HuespedVencido, error) {
	abiertos, err := s.huespedes.ListAbiertos(ctx)
	if err != nil {
		return nil, nil, err
	}
	hoy := fechas.Hoy()
	var vencidos []HuespedVencido
	for _, h := range abiertos {
		out, err := fechas.DesdeISO(h.Checkout)
		if err != nil {
			log.Warn().Uint("huesped", h.Numero).Str("checkout", h.Checkout).
				Msg("huésped con check-out ilegible, se omite del control de vencidos")
			continue
		}
		if out.Before(hoy) {
			vencidos = append(vencidos, HuespedVencido{
				Huesped:     h,
				DiasVencido: int(hoy.Sub(out).Hours() / 24),
			})
		}
	}
	return abiertos, vencidos, nil
}

func (s *reporteService) CerradosEn(ctx context.Context, desde, hasta time.Time) ([]model.Huesped, error) {
	return s.huespedes.ListCerradosEn(ctx, fechas.ISO(desde), fechas.ISO(hasta))
}

func (s *reporteService) ProntoCheckin(ctx context.Context, dias int) ([]model.Huesped, error) {
	hoy := fechas.Hoy()
	hasta := hoy.AddDate(0, 0, dias)
	// El piso queda bien atrás para arrastrar reservas atrasadas.
	desde := hoy.AddDate(-10, 0, 0)
	return s.huespedes.ListProgramadosCheckin(ctx, fechas.ISO(desde), fechas.ISO(hasta))
}

func (s *reporteService) BajoStock(ctx context.Context) ([]model.Producto, error) {
	return s.productos.ListBajoStock(ctx)
}
