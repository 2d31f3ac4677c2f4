package model

import (
	"github.com/shopspring/decimal"
)

// StockIlimitado es el centinela para productos sin control de stock.
const StockIlimitado = -1

// Producto del inventario del hostal. GRUPO agrupa productos que comparten
// un mismo pool de stock: un movimiento sobre un producto agrupado ajusta
// el stock de todos los miembros del grupo, salvo los de stock ilimitado.
type Producto struct {
	Codigo     uint            `gorm:"column:CODIGO;primaryKey"`
	Nombre     string          `gorm:"column:NOMBRE;not null"`
	Precio     decimal.Decimal `gorm:"column:PRECIO;type:decimal(10,2);not null;check:PRECIO >= 0"`
	Stock      int             `gorm:"column:STOCK;not null;check:STOCK >= 0 OR STOCK = -1"`
	Alerta     int             `gorm:"column:ALERTA;not null;default:5"`
	PInmediato bool            `gorm:"column:PINMEDIATO;not null;default:false"`
	Grupo      *string         `gorm:"column:GRUPO"`
}

func (Producto) TableName() string { return "PRODUCTOS" }

// StockSuficiente informa si hay existencias para la cantidad pedida.
func (p *Producto) StockSuficiente(cantidad int) bool {
	return p.Stock == StockIlimitado || p.Stock >= cantidad
}

// BajoAlerta informa si el producto cayó al umbral de reposición.
func (p *Producto) BajoAlerta() bool {
	return p.Stock != StockIlimitado && p.Stock <= p.Alerta
}
