package model

import (
	"time"

	"gorm.io/datatypes"
)

// Estados del ciclo de vida de un huésped.
// PROGRAMADO = reserva futura, ABIERTO = alojado, CERRADO = egresado.
// CERRADO es terminal: no hay vuelta atrás salvo un cambio manual que
// revalida todas las precondiciones del estado destino.
const (
	EstadoProgramado = "PROGRAMADO"
	EstadoAbierto    = "ABIERTO"
	EstadoCerrado    = "CERRADO"
)

// RegistroEntry es una entrada del historial de auditoría del huésped.
// El historial es una lista ordenada de solo-agregado: nunca se edita
// ni se borra una entrada existente.
type RegistroEntry struct {
	Fecha time.Time `json:"fecha"`
	Texto string    `json:"texto"`
}

// Huesped representa un registro de estadía, no una persona reutilizable
// entre estadías. HABITACION queda en 0 cuando no hay habitación asignada
// (por ejemplo después del cierre).
type Huesped struct {
	Numero      uint   `gorm:"column:NUMERO;primaryKey;autoIncrement"`
	Apellido    string `gorm:"column:APELLIDO;not null"`
	Nombre      string `gorm:"column:NOMBRE;not null"`
	Telefono    int64  `gorm:"column:TELEFONO"`
	Email       string `gorm:"column:EMAIL"`
	App         bool   `gorm:"column:APP"`
	Estado      string `gorm:"column:ESTADO;not null;check:ESTADO IN ('ABIERTO','CERRADO','PROGRAMADO')"`
	Checkin     string `gorm:"column:CHECKIN"`
	Checkout    string `gorm:"column:CHECKOUT"`
	Documento   string `gorm:"column:DOCUMENTO"`
	Habitacion  int    `gorm:"column:HABITACION;not null"`
	Contingente int    `gorm:"column:CONTINGENTE"`
	// Fechas CHECKIN/CHECKOUT se persisten como ISO YYYY-MM-DD; una fila con
	// fecha malformada no debe romper los reportes (se saltea con warning).
	Registro  datatypes.JSONSlice[RegistroEntry] `gorm:"column:REGISTRO"`
	Descuento datatypes.JSONType[*Descuento]     `gorm:"column:DESCUENTO"`
}

func (Huesped) TableName() string { return "HUESPEDES" }

// UltimaEntrada devuelve la entrada más reciente del historial, o nil si
// el huésped no tiene historial.
func (h *Huesped) UltimaEntrada() *RegistroEntry {
	entradas := []RegistroEntry(h.Registro)
	if len(entradas) == 0 {
		return nil
	}
	return &entradas[len(entradas)-1]
}

// AgregarEntrada anexa una entrada con marca de tiempo al historial.
func (h *Huesped) AgregarEntrada(texto string, fecha time.Time) {
	entradas := []RegistroEntry(h.Registro)
	entradas = append(entradas, RegistroEntry{Fecha: fecha, Texto: texto})
	h.Registro = datatypes.NewJSONSlice(entradas)
}

// DescuentoActivo devuelve el descuento vigente del huésped, o nil.
func (h *Huesped) DescuentoActivo() *Descuento {
	return h.Descuento.Data()
}
