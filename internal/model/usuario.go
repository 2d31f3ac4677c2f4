package model

// Niveles de acceso del sistema.
// 0 = observador (solo lectura), 1 = recepción, 2 = encargado, 3 = superusuario.
const (
	NivelObservador   = 0
	NivelRecepcion    = 1
	NivelEncargado    = 2
	NivelSuperusuario = 3
)

// Usuario es una cuenta del sistema con acceso por niveles.
type Usuario struct {
	ID           uint   `gorm:"column:ID;primaryKey;autoIncrement"`
	Usuario      string `gorm:"column:USUARIO;uniqueIndex;not null"`
	PasswordHash string `gorm:"column:CONTRASEÑA_HASH;not null"`
	Nivel        int    `gorm:"column:NIVEL_DE_ACCESO;not null"`
}

func (Usuario) TableName() string { return "USUARIOS" }
