// Package fechas concentra el manejo de fechas del hostal: entrada en
// formato día-mes-año, persistencia en ISO y la regla de solapamiento
// de estadías.
package fechas

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// FormatoISO es el formato con el que se guardan las fechas.
	FormatoISO = "2006-01-02"
	// FormatoVisible es el formato con el que se muestran al operador.
	FormatoVisible = "02-01-2006"
	// FormatoMarca se usa en registros y consumos.
	FormatoMarca = "2006-01-02 15:04:05"
)

var (
	ErrFechaInvalida = errors.New("fecha inválida")
	ErrRangoInvalido = errors.New("el check-out no puede ser anterior al check-in")
)

// ParseFecha interpreta la fecha tipeada por el operador. Acepta
// DDMMAAAA sin separadores o día, mes y año separados por cualquier
// signo de puntuación (12-03-2026, 12/3/26, 12.03.2026). Con
// asumirSiglo activo un año de dos dígitos se interpreta como 20AA.
func ParseFecha(entrada string, asumirSiglo bool) (time.Time, error) {
	limpia := strings.TrimSpace(entrada)
	if limpia == "" {
		return time.Time{}, ErrFechaInvalida
	}

	var dia, mes, anio int
	var err error
	if esSoloDigitos(limpia) {
		dia, mes, anio, err = partirCompacta(limpia)
	} else {
		dia, mes, anio, err = partirSeparada(limpia)
	}
	if err != nil {
		return time.Time{}, err
	}

	if anio < 100 {
		if !asumirSiglo {
			return time.Time{}, fmt.Errorf("%w: año de dos dígitos %q", ErrFechaInvalida, entrada)
		}
		anio += 2000
	}

	f := time.Date(anio, time.Month(mes), dia, 0, 0, 0, 0, time.Local)
	// time.Date normaliza desbordes (32-01 pasa a 01-02); acá eso es
	// un error de tipeo, no una fecha válida.
	if f.Day() != dia || int(f.Month()) != mes || f.Year() != anio {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFechaInvalida, entrada)
	}
	return f, nil
}

func esSoloDigitos(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func partirCompacta(s string) (dia, mes, anio int, err error) {
	if len(s) != 8 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrFechaInvalida, s)
	}
	dia, _ = strconv.Atoi(s[0:2])
	mes, _ = strconv.Atoi(s[2:4])
	anio, _ = strconv.Atoi(s[4:8])
	return dia, mes, anio, nil
}

func partirSeparada(s string) (dia, mes, anio int, err error) {
	partes := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	if len(partes) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrFechaInvalida, s)
	}
	dia, err = strconv.Atoi(partes[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrFechaInvalida, s)
	}
	mes, err = strconv.Atoi(partes[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrFechaInvalida, s)
	}
	anio, err = strconv.Atoi(partes[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrFechaInvalida, s)
	}
	return dia, mes, anio, nil
}

// ValidarRango verifica que el check-out no sea anterior al check-in.
// Entrada y salida el mismo día es una estadía válida de cero noches.
func ValidarRango(checkin, checkout time.Time) error {
	if checkout.Before(checkin) {
		return ErrRangoInvalido
	}
	return nil
}

// Solapan informa si dos estadías [aIn, aOut) y [bIn, bOut) comparten
// al menos una noche. Los intervalos son semiabiertos: que el check-out
// de una coincida con el check-in de la otra no es solapamiento, la
// habitación rota ese mismo día.
func Solapan(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// ISO serializa la fecha para guardarla.
func ISO(f time.Time) string {
	return f.Format(FormatoISO)
}

// DesdeISO recupera una fecha guardada. Devuelve error si la columna
// quedó con basura, el que llama decide si la saltea.
func DesdeISO(s string) (time.Time, error) {
	f, err := time.ParseInLocation(FormatoISO, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFechaInvalida, s)
	}
	return f, nil
}

// Formatear muestra la fecha como DD-MM-AAAA.
func Formatear(f time.Time) string {
	return f.Format(FormatoVisible)
}

// MarcaDeTiempo serializa fecha y hora para registros y consumos.
func MarcaDeTiempo(f time.Time) string {
	return f.Format(FormatoMarca)
}

// Hoy devuelve la fecha actual truncada a medianoche local.
func Hoy() time.Time {
	ahora := time.Now()
	return time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, time.Local)
}

// MismoDia compara dos instantes ignorando la hora.
func MismoDia(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
