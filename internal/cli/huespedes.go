package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hostaldelago/internal/fechas"
	"hostaldelago/internal/model"
	"hostaldelago/internal/service"
)

func (a *App) menuHuespedes(ctx context.Context) error {
	return a.submenu(ctx, "Huéspedes", []Comando{
		{Titulo: "Nueva reserva", Nivel: model.NivelRecepcion, Accion: a.nuevaReserva},
		{Titulo: "Alta con ingreso inmediato", Nivel: model.NivelRecepcion, Accion: a.altaInmediata},
		{Titulo: "Check-in de reserva", Nivel: model.NivelRecepcion, Accion: a.checkIn},
		{Titulo: "Check-out / cierre", Nivel: model.NivelRecepcion, Accion: a.checkOut},
		{Titulo: "Ver ficha", Nivel: model.NivelObservador, Accion: a.verFicha},
		{Titulo: "Buscar por apellido", Nivel: model.NivelObservador, Accion: a.buscarPorApellido},
		{Titulo: "Grilla de ocupación", Nivel: model.NivelObservador, Accion: a.verGrilla},
		{Titulo: "Editar campo", Nivel: model.NivelEncargado, Accion: a.editarCampo},
		{Titulo: "Cambiar estado", Nivel: model.NivelEncargado, Accion: a.cambiarEstado},
		{Titulo: "Aplicar descuento", Nivel: model.NivelEncargado, Accion: a.aplicarDescuento},
		{Titulo: "Ver registro de auditoría", Nivel: model.NivelObservador, Accion: a.verRegistro},
		{Titulo: "Eliminar huésped", Nivel: model.NivelSuperusuario, Accion: a.eliminarHuesped},
	})
}

func (a *App) pedirNumeroDeHuesped(ctx context.Context) (*model.Huesped, error) {
	n, err := a.p.PedirEnteroPositivo("Número de huésped")
	if err != nil {
		return nil, err
	}
	return a.huespedes.Buscar(ctx, uint(n))
}

func (a *App) nuevaReserva(ctx context.Context) error {
	return a.crearHuesped(ctx, model.EstadoProgramado)
}

func (a *App) altaInmediata(ctx context.Context) error {
	return a.crearHuesped(ctx, model.EstadoAbierto)
}

func (a *App) crearHuesped(ctx context.Context, estado string) error {
	apellido, err := a.p.PedirTexto("Apellido")
	if err != nil {
		return err
	}
	nombre, err := a.p.PedirTexto("Nombre")
	if err != nil {
		return err
	}
	contingente, err := a.p.PedirEnteroPositivo("Cantidad de personas")
	if err != nil {
		return err
	}
	habitacion, err := a.p.PedirEnteroPositivo("Habitación (1 a 7)")
	if err != nil {
		return err
	}

	in := fechas.Hoy()
	if estado == model.EstadoProgramado {
		in, err = a.p.PedirFecha("Fecha de check-in", FechaConfirmaPasado)
		if err != nil {
			return err
		}
	}
	out, err := a.p.PedirFecha("Fecha de check-out", FechaFutura)
	if err != nil {
		return err
	}

	req := service.CrearHuespedRequest{
		Apellido: apellido, Nombre: nombre,
		Contingente: contingente, Habitacion: habitacion,
		Checkin: in, Checkout: out,
		Estado: estado,
	}
	if estado == model.EstadoAbierto {
		if req.Telefono, err = a.p.PedirTelefono("Teléfono"); err != nil {
			return err
		}
		if req.Email, err = a.p.PedirMail("Email"); err != nil {
			return err
		}
		if req.Documento, err = a.p.PedirTexto("Documento"); err != nil {
			return err
		}
		req.App = a.p.Confirmar("¿Reserva por aplicación de terceros?")
	}

	h, err := a.huespedes.Crear(ctx, req)
	if err != nil {
		return err
	}
	a.p.Printf("Huésped #%d creado en estado %s.\n", h.Numero, h.Estado)
	return nil
}

func (a *App) checkIn(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}

	req := service.CheckInRequest{}
	if in, errIn := fechas.DesdeISO(h.Checkin); errIn == nil && in.Before(fechas.Hoy()) {
		a.p.Printf("El check-in estaba reservado para el %s.\n", fechas.Formatear(in))
		real, err := a.p.PedirFecha("Fecha real de llegada", FechaConfirmaPasado)
		if err != nil {
			return err
		}
		req.FechaReal = &real
	}
	if h.Telefono <= 0 {
		if req.Telefono, err = a.p.PedirTelefono("Teléfono"); err != nil {
			return err
		}
	}
	if strings.TrimSpace(h.Email) == "" {
		if req.Email, err = a.p.PedirMail("Email"); err != nil {
			return err
		}
	}
	if strings.TrimSpace(h.Documento) == "" || h.Documento == "0" {
		if req.Documento, err = a.p.PedirTexto("Documento"); err != nil {
			return err
		}
	}

	actualizado, err := a.huespedes.CheckIn(ctx, h.Numero, req)
	if err != nil {
		return err
	}
	a.p.Printf("Check-in registrado, habitación %d ocupada.\n", actualizado.Habitacion)
	return nil
}

func (a *App) mostrarLiquidacion(liq *service.Liquidacion) {
	a.p.Println()
	a.p.Println("── Liquidación ──")
	for _, d := range liq.Detalles {
		a.p.Printf("  %-24s x%-3d %10s\n", d.Nombre, d.Cantidad, d.Importe().StringFixed(2))
	}
	a.p.Printf("  Subtotal:            %10s\n", liq.Subtotal.StringFixed(2))
	if !liq.DescuentoConsumos.IsZero() {
		a.p.Printf("  Descuento consumos:  %10s\n", liq.DescuentoConsumos.Neg().StringFixed(2))
	}
	a.p.Printf("  Propina (%d%%):       %10s\n", a.cfg.TipPct, liq.Propina.StringFixed(2))
	if !liq.DescuentoFinal.IsZero() {
		a.p.Printf("  Descuento final:     %10s\n", liq.DescuentoFinal.Neg().StringFixed(2))
	}
	a.p.Printf("  TOTAL A PAGAR:       %10s\n", liq.TotalAPagar.StringFixed(2))
}

func (a *App) checkOut(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	liq, err := a.huespedes.Cerrar(ctx, h.Numero, a.mostrarLiquidacion, a.p.Confirmar)
	if errors.Is(err, service.ErrCierreCancelado) {
		a.p.Println("Cierre cancelado, el huésped sigue abierto.")
		return nil
	}
	if err != nil {
		return err
	}
	a.p.Printf("Huésped #%d cerrado. Total: %s.\n", h.Numero, liq.TotalAPagar.StringFixed(2))
	return nil
}

func (a *App) verFicha(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	a.mostrarHuesped(h)
	return nil
}

func (a *App) mostrarHuesped(h *model.Huesped) {
	a.p.Println()
	a.p.Printf("── Huésped #%d ──\n", h.Numero)
	a.p.Printf("  %s, %s | %d persona(s) | estado %s\n", h.Apellido, h.Nombre, h.Contingente, h.Estado)
	a.p.Printf("  Habitación: %d | %s a %s\n", h.Habitacion, h.Checkin, h.Checkout)
	a.p.Printf("  Tel: %d | Email: %s | Doc: %s | App: %t\n", h.Telefono, h.Email, h.Documento, h.App)
	if d := h.DescuentoActivo(); d != nil {
		a.p.Printf("  Descuento: %s\n", d)
	}
}

func (a *App) buscarPorApellido(ctx context.Context) error {
	apellido, err := a.p.PedirTexto("Apellido")
	if err != nil {
		return err
	}
	resultados, err := a.huespedes.BuscarPorApellido(ctx, apellido)
	if err != nil {
		return err
	}
	if len(resultados) == 0 {
		a.p.Println("Sin resultados.")
		return nil
	}
	for _, h := range resultados {
		a.p.Printf("  #%-4d %-20s %-12s hab %d  %s\n", h.Numero, h.Apellido+", "+h.Nombre, h.Estado, h.Habitacion, h.Checkin)
	}
	return nil
}

func (a *App) verGrilla(ctx context.Context) error {
	g, err := a.ocupacion.Grilla(ctx, fechas.Hoy(), a.cfg.OccupancyHorizonDays)
	if err != nil {
		return err
	}
	a.p.Println()
	a.p.Printf("Ocupación desde %s (%d días)\n", fechas.Formatear(g.Desde), g.Dias)
	encabezado := "Hab |"
	for i := 0; i < g.Dias; i++ {
		encabezado += fmt.Sprintf("%3d", g.Desde.AddDate(0, 0, i).Day())
	}
	a.p.Println(encabezado)
	for _, hab := range g.Habitaciones {
		fila := fmt.Sprintf("%3d |", hab)
		for _, celda := range g.Celdas[hab] {
			fila += fmt.Sprintf("%3s", celda)
		}
		a.p.Println(fila)
	}
	a.p.Println("  . libre  X ocupado  P reservado  CI entrada  CO salida  IO rotación")
	return nil
}

func (a *App) editarCampo(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	a.mostrarHuesped(h)
	campo, err := a.p.PedirTexto("Campo a editar (APELLIDO, NOMBRE, TELEFONO, EMAIL, APP, CHECKIN, CHECKOUT, DOCUMENTO, CONTINGENTE, HABITACION)")
	if err != nil {
		return err
	}

	var valor string
	if c := strings.ToUpper(strings.TrimSpace(campo)); c == "CHECKIN" || c == "CHECKOUT" {
		// una salida en el pasado no se acepta; una entrada sí, con
		// confirmación, para corregir llegadas ya ocurridas
		modo := FechaFutura
		if c == "CHECKIN" {
			modo = FechaConfirmaPasado
		}
		f, err := a.p.PedirFecha("Nueva fecha", modo)
		if err != nil {
			return err
		}
		valor = fechas.ISO(f)
	} else {
		if valor, err = a.p.PedirTexto("Nuevo valor"); err != nil {
			return err
		}
	}

	if err := a.huespedes.EditarCampo(ctx, h.Numero, campo, valor); err != nil {
		return err
	}
	a.p.Println("Campo actualizado.")
	return nil
}

func (a *App) cambiarEstado(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	a.p.Printf("Estado actual: %s.\n", h.Estado)
	destino, err := a.p.PedirTexto("Estado destino (PROGRAMADO, ABIERTO, CERRADO)")
	if err != nil {
		return err
	}
	destino = strings.ToUpper(strings.TrimSpace(destino))
	if err := a.huespedes.CambiarEstado(ctx, h.Numero, destino, a.mostrarLiquidacion, a.p.Confirmar); err != nil {
		return err
	}
	a.p.Printf("Huésped #%d ahora está %s.\n", h.Numero, destino)
	return nil
}

func (a *App) aplicarDescuento(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	if d := h.DescuentoActivo(); d != nil {
		a.p.Printf("Descuento vigente: %s.\n", d)
		if a.p.Confirmar("¿Quitar el descuento vigente?") {
			return a.huespedes.AplicarDescuento(ctx, h.Numero, nil)
		}
	}
	s, err := a.p.PedirTexto("Descuento (ambito-tipo-monto, ej. consumos-pct-15 o final-valor-50)")
	if err != nil {
		return err
	}
	d, err := model.ParseDescuento(s)
	if err != nil {
		return err
	}
	if err := a.huespedes.AplicarDescuento(ctx, h.Numero, d); err != nil {
		return err
	}
	a.p.Printf("Descuento %s aplicado.\n", d)
	return nil
}

func (a *App) verRegistro(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	entradas, err := a.huespedes.VerRegistro(ctx, h.Numero)
	if err != nil {
		return err
	}
	if len(entradas) == 0 {
		a.p.Println("Sin entradas de registro.")
		return nil
	}
	for _, e := range entradas {
		a.p.Printf("  [%s] %s\n", e.Fecha.Format("02-01-2006 15:04"), e.Texto)
	}
	return nil
}

func (a *App) eliminarHuesped(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	a.mostrarHuesped(h)
	if !a.p.Confirmar(fmt.Sprintf("¿Eliminar definitivamente al huésped #%d?", h.Numero)) {
		return nil
	}
	if err := a.huespedes.Eliminar(ctx, h.Numero, a.sesion.Usuario); err != nil {
		return err
	}
	a.p.Println("Huésped eliminado.")
	return nil
}
