package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hostaldelago/internal/config"
	"hostaldelago/internal/infra"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

type InventarioService interface {
	// IngresarCompra suma unidades compradas al stock. Para productos
	// agrupados el ingreso alimenta el pool completo.
	IngresarCompra(ctx context.Context, codigo uint, cantidad int, actor string) error

	// AjustarStock fija el stock en un valor absoluto, para recuentos
	// físicos. Acepta -1 para pasar a ilimitado.
	AjustarStock(ctx context.Context, codigo uint, stock int, actor string) error

	// Alertas lista los productos con stock en o bajo su umbral.
	Alertas(ctx context.Context) ([]model.Producto, error)
}

type inventarioService struct {
	productos repository.ProductoRepository
	audit     *infra.AuditLogger
	cfg       *config.Config
}

func NewInventarioService(productos repository.ProductoRepository, audit *infra.AuditLogger, cfg *config.Config) InventarioService {
	return &inventarioService{productos: productos, audit: audit, cfg: cfg}
}

func (s *inventarioService) IngresarCompra(ctx context.Context, codigo uint, cantidad int, actor string) error {
	if cantidad < 1 {
		return errors.New("la cantidad comprada debe ser al menos 1")
	}
	p, err := s.productos.FindByCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductoNoEncontrado
	} else if err != nil {
		return err
	}
	if p.Stock == model.StockIlimitado {
		return fmt.Errorf("%s tiene stock ilimitado, no admite compras", p.Nombre)
	}

	err = runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		if p.Grupo != nil && s.cfg.GroupStockPool {
			return s.productos.UpdateStockGrupoTx(tx, *p.Grupo, cantidad)
		}
		return s.productos.UpdateStockTx(tx, p.Codigo, cantidad)
	})
	if err != nil {
		return err
	}
	s.audit.Append(infra.LogInventarioCompras, fmt.Sprintf(
		"Compra: %d x %s (producto #%d) | por %s", cantidad, p.Nombre, p.Codigo, actor))
	return nil
}

func (s *inventarioService) AjustarStock(ctx context.Context, codigo uint, stock int, actor string) error {
	if stock < 0 && stock != model.StockIlimitado {
		return errors.New("el stock debe ser >= 0, o -1 para ilimitado")
	}
	p, err := s.productos.FindByCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductoNoEncontrado
	} else if err != nil {
		return err
	}

	err = runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		// El recuento físico fija el pool entero cuando el producto
		// está agrupado.
		if p.Grupo != nil && s.cfg.GroupStockPool && stock != model.StockIlimitado {
			grupo, err := s.productos.FindGrupo(ctx, *p.Grupo)
			if err != nil {
				return err
			}
			for _, g := range grupo {
				if g.Stock == model.StockIlimitado {
					continue
				}
				if err := s.productos.SetStockTx(tx, g.Codigo, stock); err != nil {
					return err
				}
			}
			return nil
		}
		return s.productos.SetStockTx(tx, p.Codigo, stock)
	})
	if err != nil {
		return err
	}
	s.audit.Append(infra.LogInventarioEdiciones, fmt.Sprintf(
		"Ajuste de stock: producto #%d %s, %d -> %d | por %s",
		p.Codigo, p.Nombre, p.Stock, stock, actor))
	return nil
}

func (s *inventarioService) Alertas(ctx context.Context) ([]model.Producto, error) {
	return s.productos.ListBajoStock(ctx)
}
