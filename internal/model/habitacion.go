package model

// Habitacion es configuración estática: el hostal tiene 7 habitaciones
// fijas, no se persisten.
type Habitacion struct {
	Numero    int
	Tipo      string
	Capacidad int
}

var Habitaciones = map[int]Habitacion{
	1: {Numero: 1, Tipo: "Doble", Capacidad: 2},
	2: {Numero: 2, Tipo: "Doble", Capacidad: 2},
	3: {Numero: 3, Tipo: "Doble", Capacidad: 2},
	4: {Numero: 4, Tipo: "Doble", Capacidad: 2},
	5: {Numero: 5, Tipo: "Triple", Capacidad: 3},
	6: {Numero: 6, Tipo: "Triple", Capacidad: 3},
	7: {Numero: 7, Tipo: "Master Suite", Capacidad: 4},
}

// TotalHabitaciones es la cantidad de habitaciones del hostal.
const TotalHabitaciones = 7

// BuscarHabitacion devuelve la configuración de una habitación, o false
// si el número no está definido.
func BuscarHabitacion(numero int) (Habitacion, bool) {
	h, ok := Habitaciones[numero]
	return h, ok
}
