package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Ámbito de aplicación del descuento.
// AmbitoConsumos descuenta sobre el subtotal de consumos, antes de la propina.
// AmbitoFinal descuenta sobre el total ya con propina incluida.
const (
	AmbitoConsumos = "consumos"
	AmbitoFinal    = "final"
)

// Tipo de descuento: porcentaje o monto fijo.
const (
	DescuentoPct   = "pct"
	DescuentoValor = "valor"
)

// Descuento es la variante etiquetada que reemplaza al string delimitado
// del sistema anterior. A lo sumo un descuento por huésped.
type Descuento struct {
	Ambito string          `json:"ambito"`
	Tipo   string          `json:"tipo"`
	Monto  decimal.Decimal `json:"monto"`
}

func (d *Descuento) Valido() bool {
	if d == nil {
		return false
	}
	if d.Ambito != AmbitoConsumos && d.Ambito != AmbitoFinal {
		return false
	}
	if d.Tipo != DescuentoPct && d.Tipo != DescuentoValor {
		return false
	}
	return !d.Monto.IsNegative()
}

func (d *Descuento) String() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", d.Ambito, d.Tipo, d.Monto.StringFixed(2))
}

// ParseDescuento interpreta la forma delimitada heredada, por ejemplo
// "consumos-pct-15" o "final-valor-50.00". Un descriptor malformado no es
// fatal: el caller lo trata como "sin descuento" con una advertencia.
func ParseDescuento(s string) (*Descuento, error) {
	partes := strings.SplitN(strings.TrimSpace(s), "-", 3)
	if len(partes) != 3 {
		return nil, fmt.Errorf("descuento %q: se esperan tres partes ambito-tipo-monto", s)
	}
	monto, err := decimal.NewFromString(partes[2])
	if err != nil {
		return nil, fmt.Errorf("descuento %q: monto inválido: %w", s, err)
	}
	d := &Descuento{Ambito: strings.ToLower(partes[0]), Tipo: strings.ToLower(partes[1]), Monto: monto}
	if !d.Valido() {
		return nil, fmt.Errorf("descuento %q: ambito o tipo desconocido", s)
	}
	return d, nil
}
