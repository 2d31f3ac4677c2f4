package repository

import (
	"context"

	"gorm.io/gorm"

	"hostaldelago/internal/model"
	"hostaldelago/internal/texto"
)

// ProductoRepository defines the data access contract for the product
// catalogue and its stock.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByCodigo(ctx context.Context, codigo uint) (*model.Producto, error)
	List(ctx context.Context) ([]model.Producto, error)
	SearchNombre(ctx context.Context, nombre string) ([]model.Producto, error)

	// MaxCodigo devuelve el código más alto en uso, 0 si no hay
	// productos. Se usa para autogenerar el siguiente.
	MaxCodigo(ctx context.Context) (uint, error)

	// FindGrupo lista los productos que comparten un grupo de stock.
	FindGrupo(ctx context.Context, grupo string) ([]model.Producto, error)

	Update(ctx context.Context, codigo uint, campos map[string]interface{}) error
	Delete(ctx context.Context, codigo uint) error

	ListBajoStock(ctx context.Context) ([]model.Producto, error)

	// Used inside transactions — callers must pass the tx instance
	UpdateStockTx(tx *gorm.DB, codigo uint, delta int) error
	UpdateStockGrupoTx(tx *gorm.DB, grupo string, delta int) error
	SetStockTx(tx *gorm.DB, codigo uint, stock int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo uint) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "CODIGO = ?", codigo).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Order("CODIGO ASC").Find(&productos).Error
	return productos, err
}

// SearchNombre compara nombres normalizados en memoria, el catálogo de
// un hostal de 7 habitaciones entra entero en un Find.
func (r *productoRepo) SearchNombre(ctx context.Context, nombre string) ([]model.Producto, error) {
	todos, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var productos []model.Producto
	for _, p := range todos {
		if texto.Contiene(p.Nombre, nombre) {
			productos = append(productos, p)
		}
	}
	return productos, nil
}

func (r *productoRepo) MaxCodigo(ctx context.Context) (uint, error) {
	var max *uint
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Select("MAX(CODIGO)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *productoRepo) FindGrupo(ctx context.Context, grupo string) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("GRUPO = ?", grupo).
		Order("CODIGO ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, codigo uint, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("CODIGO = ?", codigo).Updates(campos).Error
}

func (r *productoRepo) Delete(ctx context.Context, codigo uint) error {
	return r.db.WithContext(ctx).Delete(&model.Producto{}, "CODIGO = ?", codigo).Error
}

func (r *productoRepo) ListBajoStock(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("STOCK <> ? AND STOCK <= ALERTA", model.StockIlimitado).
		Order("CODIGO ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, codigo uint, delta int) error {
	return tx.Model(&model.Producto{}).
		Where("CODIGO = ? AND STOCK <> ?", codigo, model.StockIlimitado).
		Update("STOCK", gorm.Expr("STOCK + ?", delta)).Error
}

// UpdateStockGrupoTx mueve el pool compartido: todos los productos del
// grupo cambian juntos, salvo los de stock ilimitado.
func (r *productoRepo) UpdateStockGrupoTx(tx *gorm.DB, grupo string, delta int) error {
	return tx.Model(&model.Producto{}).
		Where("GRUPO = ? AND STOCK <> ?", grupo, model.StockIlimitado).
		Update("STOCK", gorm.Expr("STOCK + ?", delta)).Error
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, codigo uint, stock int) error {
	return tx.Model(&model.Producto{}).
		Where("CODIGO = ?", codigo).
		Update("STOCK", stock).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
