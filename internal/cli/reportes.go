package cli

import (
	"context"
	"errors"
	"os"

	"hostaldelago/internal/fechas"
	"hostaldelago/internal/model"
)

func (a *App) menuReportes(ctx context.Context) error {
	return a.submenu(ctx, "Reportes", []Comando{
		{Titulo: "Consumos del día", Nivel: model.NivelObservador, Accion: a.reporteConsumosDelDia},
		{Titulo: "Huéspedes abiertos y vencidos", Nivel: model.NivelObservador, Accion: a.reporteAbiertos},
		{Titulo: "Cerrados en un rango", Nivel: model.NivelObservador, Accion: a.reporteCerrados},
		{Titulo: "Próximos check-in", Nivel: model.NivelObservador, Accion: a.reporteProntoCheckin},
		{Titulo: "Stock bajo alerta", Nivel: model.NivelObservador, Accion: a.reporteBajoStock},
		{Titulo: "Ver bitácoras de auditoría", Nivel: model.NivelSuperusuario, Accion: a.verBitacoras},
	})
}

func (a *App) mostrarListaHuespedes(huespedes []model.Huesped) {
	for _, h := range huespedes {
		a.p.Printf("  #%-4d %-24s hab %d  %s a %s  %s\n",
			h.Numero, h.Apellido+", "+h.Nombre, h.Habitacion, h.Checkin, h.Checkout, h.Estado)
	}
}

func (a *App) reporteConsumosDelDia(ctx context.Context) error {
	dia, err := a.p.PedirFecha("Día a consultar", FechaLibre)
	if err != nil {
		return err
	}
	r, err := a.reportes.ConsumosDelDia(ctx, dia)
	if err != nil {
		return err
	}
	if len(r.Detalles) == 0 {
		a.p.Printf("Sin consumos el %s.\n", fechas.Formatear(r.Dia))
		return nil
	}
	a.p.Printf("Consumos del %s:\n", fechas.Formatear(r.Dia))
	a.mostrarDetalles(r.Detalles)
	a.p.Printf("  Total del día: %s\n", r.Total.StringFixed(2))
	return nil
}

func (a *App) reporteAbiertos(ctx context.Context) error {
	abiertos, vencidos, err := a.reportes.Abiertos(ctx)
	if err != nil {
		return err
	}
	a.p.Printf("Huéspedes alojados: %d\n", len(abiertos))
	a.mostrarListaHuespedes(abiertos)
	if len(vencidos) > 0 {
		a.p.Println()
		a.p.Println("Con check-out vencido:")
		for _, v := range vencidos {
			a.p.Printf("  #%-4d %-24s hab %d  debía salir el %s (%d día/s)\n",
				v.Numero, v.Apellido+", "+v.Nombre, v.Habitacion, v.Checkout, v.DiasVencido)
		}
	}
	return nil
}

func (a *App) reporteCerrados(ctx context.Context) error {
	desde, err := a.p.PedirFecha("Desde", FechaLibre)
	if err != nil {
		return err
	}
	hasta, err := a.p.PedirFecha("Hasta", FechaLibre)
	if err != nil {
		return err
	}
	cerrados, err := a.reportes.CerradosEn(ctx, desde, hasta)
	if err != nil {
		return err
	}
	if len(cerrados) == 0 {
		a.p.Println("Sin cierres en el rango.")
		return nil
	}
	a.mostrarListaHuespedes(cerrados)
	return nil
}

func (a *App) reporteProntoCheckin(ctx context.Context) error {
	dias, err := a.p.PedirEnteroPositivo("Días hacia adelante")
	if err != nil {
		return err
	}
	reservas, err := a.reportes.ProntoCheckin(ctx, dias)
	if err != nil {
		return err
	}
	if len(reservas) == 0 {
		a.p.Println("Sin reservas próximas.")
		return nil
	}
	hoy := fechas.Hoy()
	for _, h := range reservas {
		nota := ""
		if in, err := fechas.DesdeISO(h.Checkin); err == nil && in.Before(hoy) {
			nota = "  ** DEMORADO **"
		}
		a.p.Printf("  #%-4d %-24s hab %d  llega %s (%d persona/s)%s\n",
			h.Numero, h.Apellido+", "+h.Nombre, h.Habitacion, h.Checkin, h.Contingente, nota)
	}
	return nil
}

func (a *App) reporteBajoStock(ctx context.Context) error {
	return a.alertasStock(ctx)
}

func (a *App) verBitacoras(ctx context.Context) error {
	archivos, err := a.audit.List()
	if err != nil {
		return err
	}
	if len(archivos) == 0 {
		a.p.Println("No hay bitácoras todavía.")
		return nil
	}
	idx, err := a.elegirOpcion("Bitácoras", archivos)
	if err != nil {
		return err
	}
	contenido, err := a.audit.ReadAll(archivos[idx])
	if errors.Is(err, os.ErrNotExist) {
		a.p.Println("La bitácora está vacía.")
		return nil
	}
	if err != nil {
		return err
	}
	a.p.Println(contenido)
	return nil
}
