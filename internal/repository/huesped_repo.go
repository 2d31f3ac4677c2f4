package repository

import (
	"context"

	"gorm.io/gorm"

	"hostaldelago/internal/model"
	"hostaldelago/internal/texto"
)

// HuespedRepository defines the data access contract for guests.
// Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type HuespedRepository interface {
	Create(ctx context.Context, h *model.Huesped) error
	FindByNumero(ctx context.Context, numero uint) (*model.Huesped, error)
	FindByDocumento(ctx context.Context, documento string) (*model.Huesped, error)

	// FindAbiertoPorHabitacion devuelve el huésped ABIERTO de una
	// habitación, o gorm.ErrRecordNotFound si está libre.
	FindAbiertoPorHabitacion(ctx context.Context, habitacion int) (*model.Huesped, error)

	// FindPorHabitacion lista los huéspedes no cerrados de una
	// habitación, para el chequeo de solapamiento.
	FindPorHabitacion(ctx context.Context, habitacion int) ([]model.Huesped, error)

	List(ctx context.Context) ([]model.Huesped, error)
	ListByEstado(ctx context.Context, estado string) ([]model.Huesped, error)
	SearchByApellido(ctx context.Context, apellido string) ([]model.Huesped, error)

	// Reportes
	ListAbiertos(ctx context.Context) ([]model.Huesped, error)
	ListCerradosEn(ctx context.Context, desdeISO, hastaISO string) ([]model.Huesped, error)
	ListProgramadosCheckin(ctx context.Context, desdeISO, hastaISO string) ([]model.Huesped, error)

	// Used inside transactions — callers must pass the tx instance
	UpdateTx(tx *gorm.DB, numero uint, campos map[string]interface{}) error

	Delete(ctx context.Context, numero uint) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type huespedRepo struct{ db *gorm.DB }

func NewHuespedRepository(db *gorm.DB) HuespedRepository { return &huespedRepo{db: db} }

func (r *huespedRepo) Create(ctx context.Context, h *model.Huesped) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *huespedRepo) FindByNumero(ctx context.Context, numero uint) (*model.Huesped, error) {
	var h model.Huesped
	err := r.db.WithContext(ctx).First(&h, numero).Error
	return &h, err
}

func (r *huespedRepo) FindByDocumento(ctx context.Context, documento string) (*model.Huesped, error) {
	var h model.Huesped
	err := r.db.WithContext(ctx).
		Where("DOCUMENTO = ?", documento).
		Order("NUMERO DESC").
		First(&h).Error
	return &h, err
}

func (r *huespedRepo) FindAbiertoPorHabitacion(ctx context.Context, habitacion int) (*model.Huesped, error) {
	var h model.Huesped
	err := r.db.WithContext(ctx).
		Where("HABITACION = ? AND ESTADO = ?", habitacion, model.EstadoAbierto).
		First(&h).Error
	return &h, err
}

func (r *huespedRepo) FindPorHabitacion(ctx context.Context, habitacion int) ([]model.Huesped, error) {
	var huespedes []model.Huesped
	err := r.db.WithContext(ctx).
		Where("HABITACION = ? AND ESTADO <> ?", habitacion, model.EstadoCerrado).
		Find(&huespedes).Error
	return huespedes, err
}

func (r *huespedRepo) List(ctx context.Context) ([]model.Huesped, error) {
	var huespedes []model.Huesped
	err := r.db.WithContext(ctx).Order("NUMERO ASC").Find(&huespedes).Error
	return huespedes, err
}

func (r *huespedRepo) ListByEstado(ctx context.Context, estado string) ([]model.Huesped, error) {
	var huespedes []model.Huesped
	err := r.db.WithContext(ctx).
		Where("ESTADO = ?", estado).
		Order("NUMERO ASC").
		Find(&huespedes).Error
	return huespedes, err
}

// SearchByApellido hace un barrido amplio con LIKE y refina en memoria
// con comparación normalizada, para que "Pérez" encuentre "perez" y al
// revés con el collation por defecto de SQLite.
func (r *huespedRepo) SearchByApellido(ctx context.Context, apellido string) ([]model.Huesped, error) {
	var candidatos []model.Huesped
	norm := texto.Normalizar(apellido)
	if norm == "" {
		return nil, nil
	}
	err := r.db.WithContext(ctx).Order("NUMERO ASC").Find(&candidatos).Error
	if err != nil {
		return nil, err
	}
	var huespedes []model.Huesped
	for _, h := range candidatos {
		if texto.Contiene(h.Apellido, apellido) {
			huespedes = append(huespedes, h)
		}
	}
	return huespedes, nil
}

func (r *huespedRepo) ListAbiertos(ctx context.Context) ([]model.Huesped, error) {
	return r.ListByEstado(ctx, model.EstadoAbierto)
}

func (r *huespedRepo) ListCerradosEn(ctx context.Context, desdeISO, hastaISO string) ([]model.Huesped, error) {
	var huespedes []model.Huesped
	err := r.db.WithContext(ctx).
		Where("ESTADO = ? AND CHECKOUT >= ? AND CHECKOUT <= ?", model.EstadoCerrado, desdeISO, hastaISO).
		Order("CHECKOUT ASC").
		Find(&huespedes).Error
	return huespedes, err
}

func (r *huespedRepo) ListProgramadosCheckin(ctx context.Context, desdeISO, hastaISO string) ([]model.Huesped, error) {
	var huespedes []model.Huesped
	err := r.db.WithContext(ctx).
		Where("ESTADO = ? AND CHECKIN >= ? AND CHECKIN <= ?", model.EstadoProgramado, desdeISO, hastaISO).
		Order("CHECKIN ASC").
		Find(&huespedes).Error
	return huespedes, err
}

func (r *huespedRepo) UpdateTx(tx *gorm.DB, numero uint, campos map[string]interface{}) error {
	return tx.Model(&model.Huesped{}).Where("NUMERO = ?", numero).Updates(campos).Error
}

func (r *huespedRepo) Delete(ctx context.Context, numero uint) error {
	return r.db.WithContext(ctx).Delete(&model.Huesped{}, numero).Error
}

func (r *huespedRepo) DB() *gorm.DB { return r.db }
