package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hostaldelago/internal/model"
)

// ConsumoDetalle es una fila de consumo ya resuelta contra el catálogo,
// lista para mostrar o liquidar.
type ConsumoDetalle struct {
	model.Consumo
	Nombre string          `gorm:"column:NOMBRE"`
	Precio decimal.Decimal `gorm:"column:PRECIO"`
}

// Importe es cantidad por precio unitario al precio vigente.
func (d ConsumoDetalle) Importe() decimal.Decimal {
	return d.Precio.Mul(decimal.NewFromInt(int64(d.Cantidad)))
}

// ConsumoRepository defines the data access contract for guest
// consumptions and courtesy hand-outs.
type ConsumoRepository interface {
	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, c *model.Consumo) error
	MarcarPagadosTx(tx *gorm.DB, ids []uint) error
	DeleteTx(tx *gorm.DB, id uint) error
	CreateCortesiaTx(tx *gorm.DB, c *model.Cortesia) error

	FindByID(ctx context.Context, id uint) (*model.Consumo, error)
	ListByHuesped(ctx context.Context, huesped uint) ([]ConsumoDetalle, error)
	ListImpagosByHuesped(ctx context.Context, huesped uint) ([]ConsumoDetalle, error)

	// ListDelDia lista los consumos cuya fecha empieza con el día dado
	// (formato ISO).
	ListDelDia(ctx context.Context, diaISO string) ([]ConsumoDetalle, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type consumoRepo struct{ db *gorm.DB }

func NewConsumoRepository(db *gorm.DB) ConsumoRepository { return &consumoRepo{db: db} }

func (r *consumoRepo) CreateTx(tx *gorm.DB, c *model.Consumo) error {
	return tx.Create(c).Error
}

func (r *consumoRepo) MarcarPagadosTx(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&model.Consumo{}).
		Where("ID IN ?", ids).
		Update("PAGADO", true).Error
}

func (r *consumoRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Consumo{}, id).Error
}

func (r *consumoRepo) CreateCortesiaTx(tx *gorm.DB, c *model.Cortesia) error {
	return tx.Create(c).Error
}

func (r *consumoRepo) FindByID(ctx context.Context, id uint) (*model.Consumo, error) {
	var c model.Consumo
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *consumoRepo) detalleQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Consumo{}).
		Select("CONSUMOS.*, PRODUCTOS.NOMBRE AS NOMBRE, PRODUCTOS.PRECIO AS PRECIO").
		Joins("JOIN PRODUCTOS ON PRODUCTOS.CODIGO = CONSUMOS.PRODUCTO")
}

func (r *consumoRepo) ListByHuesped(ctx context.Context, huesped uint) ([]ConsumoDetalle, error) {
	var detalles []ConsumoDetalle
	err := r.detalleQuery(ctx).
		Where("CONSUMOS.HUESPED = ?", huesped).
		Order("CONSUMOS.ID ASC").
		Scan(&detalles).Error
	return detalles, err
}

func (r *consumoRepo) ListImpagosByHuesped(ctx context.Context, huesped uint) ([]ConsumoDetalle, error) {
	var detalles []ConsumoDetalle
	err := r.detalleQuery(ctx).
		Where("CONSUMOS.HUESPED = ? AND CONSUMOS.PAGADO = ?", huesped, false).
		Order("CONSUMOS.ID ASC").
		Scan(&detalles).Error
	return detalles, err
}

func (r *consumoRepo) ListDelDia(ctx context.Context, diaISO string) ([]ConsumoDetalle, error) {
	var detalles []ConsumoDetalle
	err := r.detalleQuery(ctx).
		Where("CONSUMOS.FECHA LIKE ?", diaISO+"%").
		Order("CONSUMOS.ID ASC").
		Scan(&detalles).Error
	return detalles, err
}

func (r *consumoRepo) DB() *gorm.DB { return r.db }
