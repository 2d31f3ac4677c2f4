package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hostaldelago/internal/config"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

// Confirmer resuelve una pregunta de sí o no con el operador. Los
// servicios lo reciben inyectado para que la lógica de negocio nunca
// lea de la terminal.
type Confirmer func(pregunta string) bool

// Liquidacion es el desglose de la cuenta de un huésped.
type Liquidacion struct {
	Subtotal          decimal.Decimal
	DescuentoConsumos decimal.Decimal
	Propina           decimal.Decimal
	Total             decimal.Decimal
	DescuentoFinal    decimal.Decimal
	TotalAPagar       decimal.Decimal

	Detalles []repository.ConsumoDetalle
	IDs      []uint // consumos impagos agregados

	Pagado   bool // el operador marcó todo como pagado
	ConDeuda bool // cierra igual con la deuda pendiente
	CanClose bool
}

type LiquidacionService interface {
	// Previa calcula el desglose sin tocar nada, para mostrar la
	// cuenta al operador.
	Previa(ctx context.Context, h *model.Huesped) (*Liquidacion, error)

	// LiquidarTx corre la liquidación dentro de la transacción del
	// cierre: muestra el desglose, pregunta si se paga ahora y marca
	// los consumos. Deja las anotaciones en el registro del huésped en
	// memoria, el caller las persiste dentro de la misma tx.
	LiquidarTx(ctx context.Context, tx *gorm.DB, h *model.Huesped, mostrar func(*Liquidacion), confirmar Confirmer) (*Liquidacion, error)
}

type liquidacionService struct {
	consumos repository.ConsumoRepository
	cfg      *config.Config
}

func NewLiquidacionService(consumos repository.ConsumoRepository, cfg *config.Config) LiquidacionService {
	return &liquidacionService{consumos: consumos, cfg: cfg}
}

// CalcularLiquidacion aplica las reglas de la cuenta: descuento sobre
// consumos primero, propina sobre el subtotal ya descontado, descuento
// final sobre el total con propina. La propina nunca se calcula sobre
// el subtotal crudo ni sobre el total post descuento final.
func CalcularLiquidacion(detalles []repository.ConsumoDetalle, d *model.Descuento, propinaPct int, topeValorConsumos bool) *Liquidacion {
	liq := &Liquidacion{Detalles: detalles}

	for _, det := range detalles {
		liq.Subtotal = liq.Subtotal.Add(det.Importe())
		liq.IDs = append(liq.IDs, det.ID)
	}

	cien := decimal.NewFromInt(100)
	if d != nil && d.Ambito == model.AmbitoConsumos {
		switch d.Tipo {
		case model.DescuentoPct:
			liq.DescuentoConsumos = liq.Subtotal.Mul(d.Monto).Div(cien)
		case model.DescuentoValor:
			liq.DescuentoConsumos = d.Monto
			if topeValorConsumos && liq.DescuentoConsumos.GreaterThan(liq.Subtotal) {
				liq.DescuentoConsumos = liq.Subtotal
			}
		}
	}

	base := liq.Subtotal.Sub(liq.DescuentoConsumos)
	liq.Propina = base.Mul(decimal.NewFromInt(int64(propinaPct))).Div(cien)
	liq.Total = base.Add(liq.Propina)

	if d != nil && d.Ambito == model.AmbitoFinal {
		switch d.Tipo {
		case model.DescuentoPct:
			liq.DescuentoFinal = liq.Total.Mul(d.Monto).Div(cien)
		case model.DescuentoValor:
			liq.DescuentoFinal = d.Monto
			if liq.DescuentoFinal.GreaterThan(liq.Total) {
				liq.DescuentoFinal = liq.Total
			}
		}
	}
	liq.TotalAPagar = liq.Total.Sub(liq.DescuentoFinal).Round(2)

	liq.Subtotal = liq.Subtotal.Round(2)
	liq.DescuentoConsumos = liq.DescuentoConsumos.Round(2)
	liq.Propina = liq.Propina.Round(2)
	liq.Total = liq.Total.Round(2)
	liq.DescuentoFinal = liq.DescuentoFinal.Round(2)
	return liq
}

func (s *liquidacionService) descuentoDe(h *model.Huesped) *model.Descuento {
	d := h.DescuentoActivo()
	if d == nil {
		return nil
	}
	if !d.Valido() {
		log.Warn().Uint("huesped", h.Numero).
			Msg("descuento guardado ilegible, se liquida sin descuento")
		return nil
	}
	return d
}

func (s *liquidacionService) Previa(ctx context.Context, h *model.Huesped) (*Liquidacion, error) {
	detalles, err := s.consumos.ListImpagosByHuesped(ctx, h.Numero)
	if err != nil {
		return nil, err
	}
	return CalcularLiquidacion(detalles, s.descuentoDe(h), s.cfg.TipPct, s.cfg.CapConsumosDiscount), nil
}

func (s *liquidacionService) LiquidarTx(ctx context.Context, tx *gorm.DB, h *model.Huesped, mostrar func(*Liquidacion), confirmar Confirmer) (*Liquidacion, error) {
	liq, err := s.Previa(ctx, h)
	if err != nil {
		return nil, err
	}

	// Sin consumos impagos no hay nada que cobrar ni que preguntar.
	if liq.Subtotal.IsZero() {
		liq.CanClose = true
		return liq, nil
	}

	if mostrar != nil {
		mostrar(liq)
	}

	if confirmar("¿Marcar todos los consumos como pagados ahora?") {
		if err := s.consumos.MarcarPagadosTx(tx, liq.IDs); err != nil {
			return nil, fmt.Errorf("marcar consumos pagados: %w", err)
		}
		h.AgregarEntrada(fmt.Sprintf("Cuenta saldada: %s (subtotal %s, propina %s)",
			liq.TotalAPagar.StringFixed(2), liq.Subtotal.StringFixed(2), liq.Propina.StringFixed(2)), time.Now())
		liq.Pagado = true
		liq.CanClose = true
		return liq, nil
	}

	if confirmar("¿Cerrar de todos modos dejando la deuda pendiente?") {
		h.AgregarEntrada(fmt.Sprintf("Cerrado con deuda pendiente: %s",
			liq.TotalAPagar.StringFixed(2)), time.Now())
		liq.ConDeuda = true
		liq.CanClose = true
		return liq, nil
	}

	liq.CanClose = false
	return liq, nil
}
