package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

// parseCodigo interpreta la entrada como código numérico de producto.
func parseCodigo(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("no es un código: %q", s)
	}
	return uint(n), nil
}

func (a *App) menuConsumos(ctx context.Context) error {
	return a.submenu(ctx, "Consumos", []Comando{
		{Titulo: "Registrar consumo", Nivel: model.NivelRecepcion, Accion: a.registrarConsumo},
		{Titulo: "Ver consumos de un huésped", Nivel: model.NivelObservador, Accion: a.verConsumos},
		{Titulo: "Marcar consumos como pagados", Nivel: model.NivelRecepcion, Accion: a.marcarPagados},
		{Titulo: "Eliminar consumo", Nivel: model.NivelEncargado, Accion: a.eliminarConsumo},
		{Titulo: "Registrar cortesía", Nivel: model.NivelEncargado, Accion: a.registrarCortesia},
	})
}

func (a *App) registrarConsumo(ctx context.Context) error {
	habitacion, err := a.p.PedirEnteroPositivo("Habitación")
	if err != nil {
		return err
	}
	producto, err := a.elegirProducto(ctx)
	if err != nil {
		return err
	}
	cantidad, err := a.p.PedirEnteroPositivo("Cantidad")
	if err != nil {
		return err
	}
	c, err := a.consumos.Registrar(ctx, habitacion, producto.Codigo, cantidad)
	if err != nil {
		return err
	}
	a.p.Printf("Consumo #%d registrado: %d x %s.\n", c.ID, c.Cantidad, producto.Nombre)

	// Los productos de pago inmediato se cobran en el momento.
	if producto.PInmediato && a.p.Confirmar("El producto es de pago inmediato, ¿cobrar ahora?") {
		if err := a.consumos.MarcarPagados(ctx, c.Huesped, []uint{c.ID}); err != nil {
			return err
		}
		a.p.Println("Consumo cobrado.")
	}
	return nil
}

// elegirProducto acepta un código directo o una búsqueda por nombre.
func (a *App) elegirProducto(ctx context.Context) (*model.Producto, error) {
	entrada, err := a.p.PedirTexto("Producto (código o nombre)")
	if err != nil {
		return nil, err
	}
	if codigo, errN := parseCodigo(entrada); errN == nil {
		return a.productos.Buscar(ctx, codigo)
	}
	candidatos, err := a.productos.BuscarPorNombre(ctx, entrada)
	if err != nil {
		return nil, err
	}
	if len(candidatos) == 0 {
		return nil, fmt.Errorf("no hay productos que coincidan con %q", entrada)
	}
	if len(candidatos) == 1 {
		return &candidatos[0], nil
	}
	opciones := make([]string, len(candidatos))
	for i, p := range candidatos {
		opciones[i] = fmt.Sprintf("%s ($%s)", p.Nombre, p.Precio.StringFixed(2))
	}
	idx, err := a.elegirOpcion("Coincidencias", opciones)
	if err != nil {
		return nil, err
	}
	return &candidatos[idx], nil
}

func (a *App) mostrarDetalles(detalles []repository.ConsumoDetalle) decimal.Decimal {
	total := decimal.Zero
	for _, d := range detalles {
		marca := " "
		if d.Pagado {
			marca = "P"
		}
		a.p.Printf("  #%-4d %s %-24s x%-3d %10s  %s\n", d.ID, marca, d.Nombre, d.Cantidad, d.Importe().StringFixed(2), d.Fecha)
		if !d.Pagado {
			total = total.Add(d.Importe())
		}
	}
	return total
}

func (a *App) verConsumos(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	detalles, err := a.consumos.ListarDeHuesped(ctx, h.Numero)
	if err != nil {
		return err
	}
	if len(detalles) == 0 {
		a.p.Println("El huésped no tiene consumos.")
		return nil
	}
	a.p.Printf("Consumos de #%d (%s, %s):\n", h.Numero, h.Apellido, h.Nombre)
	deuda := a.mostrarDetalles(detalles)
	a.p.Printf("  Deuda pendiente: %s\n", deuda.StringFixed(2))
	return nil
}

func (a *App) marcarPagados(ctx context.Context) error {
	h, err := a.pedirNumeroDeHuesped(ctx)
	if err != nil {
		return err
	}
	impagos, err := a.consumos.ListarImpagos(ctx, h.Numero)
	if err != nil {
		return err
	}
	if len(impagos) == 0 {
		a.p.Println("El huésped no tiene consumos impagos.")
		return nil
	}
	a.mostrarDetalles(impagos)

	var ids []uint
	if a.p.Confirmar("¿Marcar todos como pagados?") {
		for _, d := range impagos {
			ids = append(ids, d.ID)
		}
	} else {
		id, err := a.p.PedirEnteroPositivo("ID del consumo a marcar")
		if err != nil {
			return err
		}
		ids = []uint{uint(id)}
	}
	if err := a.consumos.MarcarPagados(ctx, h.Numero, ids); err != nil {
		return err
	}
	a.p.Printf("%d consumo(s) marcados como pagados.\n", len(ids))
	return nil
}

func (a *App) eliminarConsumo(ctx context.Context) error {
	id, err := a.p.PedirEnteroPositivo("ID del consumo")
	if err != nil {
		return err
	}
	if err := a.consumos.Eliminar(ctx, uint(id), a.sesion.Usuario, a.p.Confirmar); err != nil {
		return err
	}
	a.p.Println("Consumo eliminado y stock repuesto.")
	return nil
}

func (a *App) registrarCortesia(ctx context.Context) error {
	producto, err := a.elegirProducto(ctx)
	if err != nil {
		return err
	}
	cantidad, err := a.p.PedirEnteroPositivo("Cantidad")
	if err != nil {
		return err
	}
	if err := a.consumos.RegistrarCortesia(ctx, producto.Codigo, cantidad, a.sesion.Usuario); err != nil {
		return err
	}
	a.p.Printf("Cortesía registrada: %d x %s.\n", cantidad, producto.Nombre)
	return nil
}
