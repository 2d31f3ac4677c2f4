package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hostaldelago/internal/fechas"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

var ErrHabitacionOcupada = errors.New("la habitación ya está ocupada o reservada en esas fechas")

type DisponibilidadService interface {
	// HabitacionOcupada informa si alguna estadía no cerrada de la
	// habitación se solapa con [checkin, checkout). excluir permite
	// ignorar a un huésped, para validar sus propias ediciones.
	HabitacionOcupada(ctx context.Context, habitacion int, checkin, checkout time.Time, excluir *uint) (bool, error)

	// ValidarHabitacion chequea que el número exista y que el
	// contingente entre en su capacidad.
	ValidarHabitacion(habitacion, contingente int) error
}

type disponibilidadService struct {
	huespedes repository.HuespedRepository
}

func NewDisponibilidadService(huespedes repository.HuespedRepository) DisponibilidadService {
	return &disponibilidadService{huespedes: huespedes}
}

func (s *disponibilidadService) HabitacionOcupada(ctx context.Context, habitacion int, checkin, checkout time.Time, excluir *uint) (bool, error) {
	ocupantes, err := s.huespedes.FindPorHabitacion(ctx, habitacion)
	if err != nil {
		return false, err
	}
	for _, h := range ocupantes {
		if excluir != nil && h.Numero == *excluir {
			continue
		}
		hIn, errIn := fechas.DesdeISO(h.Checkin)
		hOut, errOut := fechas.DesdeISO(h.Checkout)
		if errIn != nil || errOut != nil {
			// Fechas corruptas en la base no pueden bloquear la
			// operación, se saltean con aviso.
			log.Warn().Uint("huesped", h.Numero).
				Str("checkin", h.Checkin).Str("checkout", h.Checkout).
				Msg("huésped con fechas ilegibles, se omite del chequeo de disponibilidad")
			continue
		}
		if fechas.Solapan(checkin, checkout, hIn, hOut) {
			return true, nil
		}
	}
	return false, nil
}

func (s *disponibilidadService) ValidarHabitacion(habitacion, contingente int) error {
	hab, ok := model.BuscarHabitacion(habitacion)
	if !ok {
		return fmt.Errorf("la habitación %d no existe", habitacion)
	}
	if contingente < 1 {
		return errors.New("el contingente debe ser de al menos una persona")
	}
	if contingente > hab.Capacidad {
		return fmt.Errorf("la habitación %d (%s) admite hasta %d personas", habitacion, hab.Tipo, hab.Capacidad)
	}
	return nil
}
