package model

// Consumo es una línea de producto consumida por un huésped. Solo muta
// para alternar el flag PAGADO; la baja es una acción administrativa
// explícita que restaura stock.
type Consumo struct {
	ID       uint   `gorm:"column:ID;primaryKey;autoIncrement"`
	Huesped  uint   `gorm:"column:HUESPED;not null;index"`
	Producto uint   `gorm:"column:PRODUCTO;not null"`
	Cantidad int    `gorm:"column:CANTIDAD;not null;check:CANTIDAD > 0"`
	Fecha    string `gorm:"column:FECHA;not null"`
	Pagado   bool   `gorm:"column:PAGADO;not null;default:false"`

	HuespedRef  *Huesped  `gorm:"foreignKey:Huesped;references:Numero;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductoRef *Producto `gorm:"foreignKey:Producto;references:Codigo;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Consumo) TableName() string { return "CONSUMOS" }

// Cortesia es un consumo sin cargo autorizado por un responsable: debita
// stock igual que un consumo pero no se vincula a ningún huésped.
type Cortesia struct {
	ID       uint   `gorm:"column:ID;primaryKey;autoIncrement"`
	Producto uint   `gorm:"column:PRODUCTO;not null"`
	Cantidad int    `gorm:"column:CANTIDAD;not null;check:CANTIDAD > 0"`
	Fecha    string `gorm:"column:FECHA;not null"`
	Autoriza string `gorm:"column:AUTORIZA;not null"`

	ProductoRef *Producto `gorm:"foreignKey:Producto;references:Codigo;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Cortesia) TableName() string { return "CORTESIAS" }
