package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hostaldelago/internal/infra"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
	"hostaldelago/internal/texto"
)

var (
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrProductoExiste       = errors.New("ya existe un producto con ese código")
	ErrProductoConConsumos  = errors.New("no se puede eliminar, hay consumos que lo referencian")
)

// CrearProductoRequest reúne los datos de alta de un producto. Con
// Codigo en 0 el servicio asigna el siguiente libre.
type CrearProductoRequest struct {
	Codigo     uint
	Nombre     string
	Precio     decimal.Decimal
	Stock      int
	Alerta     int
	PInmediato bool
	Grupo      *string
}

type ProductoService interface {
	Crear(ctx context.Context, req CrearProductoRequest) (*model.Producto, error)
	Buscar(ctx context.Context, codigo uint) (*model.Producto, error)
	BuscarPorNombre(ctx context.Context, nombre string) ([]model.Producto, error)
	Listar(ctx context.Context) ([]model.Producto, error)
	EditarCampo(ctx context.Context, codigo uint, campo, valor, actor string) error
	Eliminar(ctx context.Context, codigo uint, actor string, confirmar Confirmer) error
}

type productoService struct {
	repo  repository.ProductoRepository
	audit *infra.AuditLogger
}

func NewProductoService(repo repository.ProductoRepository, audit *infra.AuditLogger) ProductoService {
	return &productoService{repo: repo, audit: audit}
}

func (s *productoService) Crear(ctx context.Context, req CrearProductoRequest) (*model.Producto, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if texto.Normalizar(nombre) == "" {
		return nil, errors.New("el nombre del producto no puede quedar vacío")
	}
	if req.Precio.IsNegative() {
		return nil, errors.New("el precio no puede ser negativo")
	}
	if req.Stock < 0 && req.Stock != model.StockIlimitado {
		return nil, errors.New("el stock debe ser >= 0, o -1 para ilimitado")
	}
	if req.Alerta < 0 {
		return nil, errors.New("el umbral de alerta no puede ser negativo")
	}

	codigo := req.Codigo
	if codigo == 0 {
		max, err := s.repo.MaxCodigo(ctx)
		if err != nil {
			return nil, err
		}
		codigo = max + 1
	} else if _, err := s.repo.FindByCodigo(ctx, codigo); err == nil {
		return nil, ErrProductoExiste
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	alerta := req.Alerta
	if alerta == 0 {
		alerta = 5
	}
	p := &model.Producto{
		Codigo:     codigo,
		Nombre:     nombre,
		Precio:     req.Precio,
		Stock:      req.Stock,
		Alerta:     alerta,
		PInmediato: req.PInmediato,
		Grupo:      req.Grupo,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productoService) Buscar(ctx context.Context, codigo uint) (*model.Producto, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductoNoEncontrado
	}
	return p, err
}

func (s *productoService) BuscarPorNombre(ctx context.Context, nombre string) ([]model.Producto, error) {
	return s.repo.SearchNombre(ctx, nombre)
}

func (s *productoService) Listar(ctx context.Context) ([]model.Producto, error) {
	return s.repo.List(ctx)
}

// camposProducto es la lista blanca de columnas editables del catálogo.
var camposProducto = map[string]bool{
	"NOMBRE": true, "PRECIO": true, "ALERTA": true,
	"PINMEDIATO": true, "GRUPO": true,
}

func (s *productoService) EditarCampo(ctx context.Context, codigo uint, campo, valor, actor string) error {
	campo = strings.ToUpper(strings.TrimSpace(campo))
	if !camposProducto[campo] {
		return fmt.Errorf("%w: %s", ErrCampoNoEditable, campo)
	}
	p, err := s.Buscar(ctx, codigo)
	if err != nil {
		return err
	}

	var nuevo interface{}
	switch campo {
	case "NOMBRE":
		if texto.Normalizar(valor) == "" {
			return errors.New("el nombre del producto no puede quedar vacío")
		}
		nuevo = strings.TrimSpace(valor)
	case "PRECIO":
		precio, err := decimal.NewFromString(strings.TrimSpace(valor))
		if err != nil || precio.IsNegative() {
			return fmt.Errorf("precio inválido: %q", valor)
		}
		nuevo = precio
	case "ALERTA":
		n, err := strconv.Atoi(strings.TrimSpace(valor))
		if err != nil || n < 0 {
			return fmt.Errorf("umbral de alerta inválido: %q", valor)
		}
		nuevo = n
	case "PINMEDIATO":
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(valor)))
		if err != nil {
			return fmt.Errorf("valor inválido para PINMEDIATO: %q", valor)
		}
		nuevo = b
	case "GRUPO":
		g := strings.TrimSpace(valor)
		if g == "" {
			nuevo = nil
		} else {
			nuevo = g
		}
	}

	if err := s.repo.Update(ctx, codigo, map[string]interface{}{campo: nuevo}); err != nil {
		return err
	}
	s.audit.Append(infra.LogProductosEditados, fmt.Sprintf(
		"Producto #%d %s | %s = %s | por %s", p.Codigo, p.Nombre, campo, valor, actor))
	return nil
}

func (s *productoService) Eliminar(ctx context.Context, codigo uint, actor string, confirmar Confirmer) error {
	p, err := s.Buscar(ctx, codigo)
	if err != nil {
		return err
	}
	if !confirmar(fmt.Sprintf("¿Eliminar el producto %d (%s)?", p.Codigo, p.Nombre)) {
		return nil
	}
	if err := s.repo.Delete(ctx, codigo); err != nil {
		// La FK de CONSUMOS es ON DELETE RESTRICT.
		if strings.Contains(strings.ToLower(err.Error()), "foreign key") ||
			strings.Contains(strings.ToLower(err.Error()), "constraint") {
			return ErrProductoConConsumos
		}
		return err
	}
	s.audit.Append(infra.LogProductosEliminados, fmt.Sprintf(
		"Eliminado producto #%d %s | por %s", p.Codigo, p.Nombre, actor))
	return nil
}
