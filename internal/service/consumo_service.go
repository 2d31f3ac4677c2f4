package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hostaldelago/internal/config"
	"hostaldelago/internal/fechas"
	"hostaldelago/internal/infra"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

var (
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrConsumoPagado     = errors.New("el consumo ya está pagado")
)

type ConsumoService interface {
	// Registrar carga un consumo al huésped ABIERTO de la habitación y
	// descuenta stock en la misma transacción.
	Registrar(ctx context.Context, habitacion int, codigoProducto uint, cantidad int) (*model.Consumo, error)

	ListarDeHuesped(ctx context.Context, huesped uint) ([]repository.ConsumoDetalle, error)
	ListarImpagos(ctx context.Context, huesped uint) ([]repository.ConsumoDetalle, error)

	// MarcarPagados marca como pagados los consumos indicados. Los que
	// ya estaban pagados se ignoran sin error.
	MarcarPagados(ctx context.Context, huesped uint, ids []uint) error

	// Eliminar borra un consumo impago y devuelve el stock. confirmar
	// corta la operación antes de tocar nada.
	Eliminar(ctx context.Context, id uint, actor string, confirmar Confirmer) error

	// RegistrarCortesia entrega un producto sin cargo, autorizado por
	// un encargado, descontando stock igual.
	RegistrarCortesia(ctx context.Context, codigoProducto uint, cantidad int, autoriza string) error
}

type consumoService struct {
	consumos  repository.ConsumoRepository
	productos repository.ProductoRepository
	huespedes repository.HuespedRepository
	audit     *infra.AuditLogger
	cfg       *config.Config
}

func NewConsumoService(
	consumos repository.ConsumoRepository,
	productos repository.ProductoRepository,
	huespedes repository.HuespedRepository,
	audit *infra.AuditLogger,
	cfg *config.Config,
) ConsumoService {
	return &consumoService{
		consumos:  consumos,
		productos: productos,
		huespedes: huespedes,
		audit:     audit,
		cfg:       cfg,
	}
}

// descontarStockTx baja el stock del producto. Con el pool grupal
// activo el débito alcanza a todo el grupo, así los productos que
// comparten bodega quedan consistentes entre sí.
func (s *consumoService) descontarStockTx(tx *gorm.DB, p *model.Producto, cantidad int) error {
	if p.Stock == model.StockIlimitado {
		return nil
	}
	if p.Grupo != nil && s.cfg.GroupStockPool {
		return s.productos.UpdateStockGrupoTx(tx, *p.Grupo, -cantidad)
	}
	return s.productos.UpdateStockTx(tx, p.Codigo, -cantidad)
}

func (s *consumoService) reponerStockTx(tx *gorm.DB, p *model.Producto, cantidad int) error {
	if p.Stock == model.StockIlimitado {
		return nil
	}
	if p.Grupo != nil && s.cfg.GroupStockPool {
		return s.productos.UpdateStockGrupoTx(tx, *p.Grupo, cantidad)
	}
	return s.productos.UpdateStockTx(tx, p.Codigo, cantidad)
}

func (s *consumoService) Registrar(ctx context.Context, habitacion int, codigoProducto uint, cantidad int) (*model.Consumo, error) {
	if cantidad < 1 {
		return nil, errors.New("la cantidad debe ser al menos 1")
	}

	h, err := s.huespedes.FindAbiertoPorHabitacion(ctx, habitacion)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("la habitación %d no tiene un huésped abierto", habitacion)
	} else if err != nil {
		return nil, err
	}

	p, err := s.productos.FindByCodigo(ctx, codigoProducto)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no existe el producto %d", codigoProducto)
	} else if err != nil {
		return nil, err
	}
	if !p.StockSuficiente(cantidad) {
		return nil, fmt.Errorf("%w: %s tiene %d unidades", ErrStockInsuficiente, p.Nombre, p.Stock)
	}

	c := &model.Consumo{
		Huesped:  h.Numero,
		Producto: p.Codigo,
		Cantidad: cantidad,
		Fecha:    fechas.MarcaDeTiempo(time.Now()),
	}
	h.AgregarEntrada(fmt.Sprintf("Consumo: %d x %s", cantidad, p.Nombre), time.Now())

	err = runTx(ctx, s.consumos.DB(), func(tx *gorm.DB) error {
		if err := s.consumos.CreateTx(tx, c); err != nil {
			return err
		}
		if err := s.descontarStockTx(tx, p, cantidad); err != nil {
			return err
		}
		return s.huespedes.UpdateTx(tx, h.Numero, map[string]interface{}{
			"REGISTRO": h.Registro,
		})
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *consumoService) ListarDeHuesped(ctx context.Context, huesped uint) ([]repository.ConsumoDetalle, error) {
	return s.consumos.ListByHuesped(ctx, huesped)
}

func (s *consumoService) ListarImpagos(ctx context.Context, huesped uint) ([]repository.ConsumoDetalle, error) {
	return s.consumos.ListImpagosByHuesped(ctx, huesped)
}

func (s *consumoService) MarcarPagados(ctx context.Context, huesped uint, ids []uint) error {
	impagos, err := s.consumos.ListImpagosByHuesped(ctx, huesped)
	if err != nil {
		return err
	}
	// Marcar de nuevo un consumo pagado es un no-op, no un error.
	pendientes := make(map[uint]bool, len(impagos))
	for _, d := range impagos {
		pendientes[d.ID] = true
	}
	var aPagar []uint
	for _, id := range ids {
		if pendientes[id] {
			aPagar = append(aPagar, id)
		}
	}
	if len(aPagar) == 0 {
		return nil
	}
	return runTx(ctx, s.consumos.DB(), func(tx *gorm.DB) error {
		return s.consumos.MarcarPagadosTx(tx, aPagar)
	})
}

func (s *consumoService) Eliminar(ctx context.Context, id uint, actor string, confirmar Confirmer) error {
	c, err := s.consumos.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no existe el consumo %d", id)
	} else if err != nil {
		return err
	}
	if c.Pagado {
		return ErrConsumoPagado
	}
	p, err := s.productos.FindByCodigo(ctx, c.Producto)
	if err != nil {
		return err
	}
	if !confirmar(fmt.Sprintf("¿Eliminar el consumo %d (%d x %s) y reponer el stock?", c.ID, c.Cantidad, p.Nombre)) {
		return nil
	}

	err = runTx(ctx, s.consumos.DB(), func(tx *gorm.DB) error {
		if err := s.consumos.DeleteTx(tx, c.ID); err != nil {
			return err
		}
		return s.reponerStockTx(tx, p, c.Cantidad)
	})
	if err != nil {
		return err
	}
	s.audit.Append(infra.LogConsumosEliminados, fmt.Sprintf(
		"Eliminado consumo #%d | huésped #%d | %d x %s | por %s",
		c.ID, c.Huesped, c.Cantidad, p.Nombre, actor))
	return nil
}

func (s *consumoService) RegistrarCortesia(ctx context.Context, codigoProducto uint, cantidad int, autoriza string) error {
	if cantidad < 1 {
		return errors.New("la cantidad debe ser al menos 1")
	}
	p, err := s.productos.FindByCodigo(ctx, codigoProducto)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no existe el producto %d", codigoProducto)
	} else if err != nil {
		return err
	}
	if !p.StockSuficiente(cantidad) {
		return fmt.Errorf("%w: %s tiene %d unidades", ErrStockInsuficiente, p.Nombre, p.Stock)
	}

	cortesia := &model.Cortesia{
		Producto: p.Codigo,
		Cantidad: cantidad,
		Fecha:    fechas.MarcaDeTiempo(time.Now()),
		Autoriza: autoriza,
	}
	err = runTx(ctx, s.consumos.DB(), func(tx *gorm.DB) error {
		if err := s.consumos.CreateCortesiaTx(tx, cortesia); err != nil {
			return err
		}
		return s.descontarStockTx(tx, p, cantidad)
	})
	if err != nil {
		return err
	}
	s.audit.Append(infra.LogConsumosCortesia, fmt.Sprintf(
		"Cortesía: %d x %s | autoriza %s", cantidad, p.Nombre, autoriza))
	return nil
}
