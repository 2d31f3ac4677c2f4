package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hostaldelago/internal/fechas"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

// Celda es el estado de una habitación en un día de la grilla.
type Celda int

const (
	CeldaLibre Celda = iota
	CeldaCheckIn
	CeldaCheckOut
	CeldaRotacion // check-out y check-in el mismo día
	CeldaOcupado
	CeldaReservado
)

func (c Celda) String() string {
	switch c {
	case CeldaCheckIn:
		return "CI"
	case CeldaCheckOut:
		return "CO"
	case CeldaRotacion:
		return "IO"
	case CeldaOcupado:
		return "X"
	case CeldaReservado:
		return "P"
	default:
		return "."
	}
}

// Grilla es la ocupación proyectada: una fila por habitación, una
// columna por día desde hoy.
type Grilla struct {
	Desde        time.Time
	Dias         int
	Habitaciones []int
	Celdas       map[int][]Celda // habitación -> celda por día
}

type OcupacionService interface {
	Grilla(ctx context.Context, desde time.Time, dias int) (*Grilla, error)
}

type ocupacionService struct {
	huespedes repository.HuespedRepository
}

func NewOcupacionService(huespedes repository.HuespedRepository) OcupacionService {
	return &ocupacionService{huespedes: huespedes}
}

func (s *ocupacionService) Grilla(ctx context.Context, desde time.Time, dias int) (*Grilla, error) {
	g := &Grilla{
		Desde:  desde,
		Dias:   dias,
		Celdas: make(map[int][]Celda, model.TotalHabitaciones),
	}
	for n := 1; n <= model.TotalHabitaciones; n++ {
		g.Habitaciones = append(g.Habitaciones, n)
		g.Celdas[n] = make([]Celda, dias)
	}

	abiertos, err := s.huespedes.ListByEstado(ctx, model.EstadoAbierto)
	if err != nil {
		return nil, err
	}
	programados, err := s.huespedes.ListByEstado(ctx, model.EstadoProgramado)
	if err != nil {
		return nil, err
	}

	// Primera pasada: noches ocupadas. Los ABIERTOS pintan siempre,
	// los PROGRAMADOS solo sobre celdas libres. Si una reserva pisa
	// una estadía abierta es una inconsistencia de datos que la grilla
	// tolera sin taparla.
	for _, h := range abiertos {
		s.pintarNoches(g, h, CeldaOcupado)
	}
	for _, h := range programados {
		s.pintarNoches(g, h, CeldaReservado)
	}

	// Segunda pasada: marcas puntuales de entrada y salida. Coinciden
	// en el día de rotación.
	for _, h := range append(abiertos, programados...) {
		s.marcarMovimientos(g, h)
	}
	return g, nil
}

func (s *ocupacionService) pintarNoches(g *Grilla, h model.Huesped, marca Celda) {
	fila, ok := g.Celdas[h.Habitacion]
	if !ok {
		return
	}
	in, out, ok := fechasDeEstadia(h)
	if !ok {
		return
	}
	for i := 0; i < g.Dias; i++ {
		dia := g.Desde.AddDate(0, 0, i)
		if !dia.Before(in) && dia.Before(out) {
			if marca == CeldaReservado && fila[i] != CeldaLibre {
				continue
			}
			fila[i] = marca
		}
	}
}

func (s *ocupacionService) marcarMovimientos(g *Grilla, h model.Huesped) {
	fila, ok := g.Celdas[h.Habitacion]
	if !ok {
		return
	}
	in, out, ok := fechasDeEstadia(h)
	if !ok {
		return
	}
	if i := diasDesde(g.Desde, out); i >= 0 && i < g.Dias {
		if fila[i] == CeldaCheckIn {
			fila[i] = CeldaRotacion
		} else {
			fila[i] = CeldaCheckOut
		}
	}
	if i := diasDesde(g.Desde, in); i >= 0 && i < g.Dias {
		if fila[i] == CeldaCheckOut {
			fila[i] = CeldaRotacion
		} else {
			fila[i] = CeldaCheckIn
		}
	}
}

// fechasDeEstadia lee las fechas guardadas del huésped. Una fecha
// ilegible saca al huésped de la grilla con aviso, nunca rompe el
// renderizado.
func fechasDeEstadia(h model.Huesped) (in, out time.Time, ok bool) {
	in, errIn := fechas.DesdeISO(h.Checkin)
	out, errOut := fechas.DesdeISO(h.Checkout)
	if errIn != nil || errOut != nil {
		log.Warn().Uint("huesped", h.Numero).
			Str("checkin", h.Checkin).Str("checkout", h.Checkout).
			Msg("huésped con fechas ilegibles, se omite de la grilla")
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}

// diasDesde cuenta días de calendario, no bloques de 24 horas: un
// cambio de hora dentro del horizonte no corre las marcas de la grilla.
func diasDesde(desde, dia time.Time) int {
	a := time.Date(desde.Year(), desde.Month(), desde.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
