package repository

import (
	"context"

	"gorm.io/gorm"

	"hostaldelago/internal/model"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsuario(ctx context.Context, usuario string) (*model.Usuario, error)
	List(ctx context.Context) ([]model.Usuario, error)
	Count(ctx context.Context) (int64, error)
	UpdatePassword(ctx context.Context, usuario, hash string) error
	UpdateNivel(ctx context.Context, usuario string, nivel int) error
	UpdateNombre(ctx context.Context, usuario, nuevo string) error
	Delete(ctx context.Context, usuario string) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByUsuario(ctx context.Context, usuario string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("USUARIO = ?", usuario).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Order("USUARIO ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Count(&n).Error
	return n, err
}

func (r *usuarioRepo) UpdatePassword(ctx context.Context, usuario, hash string) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("USUARIO = ?", usuario).
		Update("CONTRASEÑA_HASH", hash).Error
}

func (r *usuarioRepo) UpdateNivel(ctx context.Context, usuario string, nivel int) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("USUARIO = ?", usuario).
		Update("NIVEL_DE_ACCESO", nivel).Error
}

func (r *usuarioRepo) UpdateNombre(ctx context.Context, usuario, nuevo string) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("USUARIO = ?", usuario).
		Update("USUARIO", nuevo).Error
}

func (r *usuarioRepo) Delete(ctx context.Context, usuario string) error {
	return r.db.WithContext(ctx).
		Where("USUARIO = ?", usuario).
		Delete(&model.Usuario{}).Error
}
