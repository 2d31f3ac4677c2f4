package cli

import (
	"context"
	"strconv"
	"strings"

	"hostaldelago/internal/model"
	"hostaldelago/internal/service"
)

func (a *App) menuProductos(ctx context.Context) error {
	return a.submenu(ctx, "Productos e inventario", []Comando{
		{Titulo: "Listar productos", Nivel: model.NivelObservador, Accion: a.listarProductos},
		{Titulo: "Buscar producto", Nivel: model.NivelObservador, Accion: a.buscarProducto},
		{Titulo: "Nuevo producto", Nivel: model.NivelEncargado, Accion: a.nuevoProducto},
		{Titulo: "Editar producto", Nivel: model.NivelEncargado, Accion: a.editarProducto},
		{Titulo: "Eliminar producto", Nivel: model.NivelSuperusuario, Accion: a.eliminarProducto},
		{Titulo: "Ingresar compra", Nivel: model.NivelRecepcion, Accion: a.ingresarCompra},
		{Titulo: "Ajustar stock (recuento)", Nivel: model.NivelEncargado, Accion: a.ajustarStock},
		{Titulo: "Alertas de stock", Nivel: model.NivelObservador, Accion: a.alertasStock},
	})
}

func (a *App) mostrarProducto(p *model.Producto) {
	stock := "ilimitado"
	if p.Stock != model.StockIlimitado {
		stock = strconv.Itoa(p.Stock)
	}
	grupo := "-"
	if p.Grupo != nil {
		grupo = *p.Grupo
	}
	inmediato := " "
	if p.PInmediato {
		inmediato = "I"
	}
	a.p.Printf("  %-4d %-28s %10s  stock %-9s alerta %-3d grupo %-10s %s\n",
		p.Codigo, p.Nombre, p.Precio.StringFixed(2), stock, p.Alerta, grupo, inmediato)
}

func (a *App) listarProductos(ctx context.Context) error {
	productos, err := a.productos.Listar(ctx)
	if err != nil {
		return err
	}
	if len(productos) == 0 {
		a.p.Println("No hay productos cargados.")
		return nil
	}
	for i := range productos {
		a.mostrarProducto(&productos[i])
	}
	return nil
}

func (a *App) buscarProducto(ctx context.Context) error {
	p, err := a.elegirProducto(ctx)
	if err != nil {
		return err
	}
	a.mostrarProducto(p)
	return nil
}

func (a *App) nuevoProducto(ctx context.Context) error {
	nombre, err := a.p.PedirTexto("Nombre")
	if err != nil {
		return err
	}
	precio, err := a.p.PedirPrecio("Precio")
	if err != nil {
		return err
	}
	stock, err := a.p.PedirEntero("Stock inicial (-1 para ilimitado)")
	if err != nil {
		return err
	}
	alerta, err := a.p.PedirEntero("Umbral de alerta (0 usa el valor por defecto)")
	if err != nil {
		return err
	}

	req := service.CrearProductoRequest{
		Nombre: nombre,
		Precio: precio,
		Stock:  stock,
		Alerta: alerta,
	}
	req.PInmediato = a.p.Confirmar("¿Se cobra en el momento (pago inmediato)?")
	if a.p.Confirmar("¿Pertenece a un grupo de stock compartido?") {
		grupo, err := a.p.PedirTexto("Grupo")
		if err != nil {
			return err
		}
		req.Grupo = &grupo
	}

	p, err := a.productos.Crear(ctx, req)
	if err != nil {
		return err
	}
	a.p.Printf("Producto #%d creado.\n", p.Codigo)
	return nil
}

func (a *App) editarProducto(ctx context.Context) error {
	p, err := a.elegirProducto(ctx)
	if err != nil {
		return err
	}
	a.mostrarProducto(p)
	campo, err := a.p.PedirTexto("Campo a editar (NOMBRE, PRECIO, ALERTA, PINMEDIATO, GRUPO)")
	if err != nil {
		return err
	}
	valor, err := a.p.PedirTextoOpcional("Nuevo valor (vacío quita el grupo)")
	if err != nil {
		return err
	}
	if err := a.productos.EditarCampo(ctx, p.Codigo, campo, valor, a.sesion.Usuario); err != nil {
		return err
	}
	a.p.Println("Producto actualizado.")
	return nil
}

func (a *App) eliminarProducto(ctx context.Context) error {
	p, err := a.elegirProducto(ctx)
	if err != nil {
		return err
	}
	a.mostrarProducto(p)
	return a.productos.Eliminar(ctx, p.Codigo, a.sesion.Usuario, a.p.Confirmar)
}

func (a *App) ingresarCompra(ctx context.Context) error {
	p, err := a.elegirProducto(ctx)
	if err != nil {
		return err
	}
	cantidad, err := a.p.PedirEnteroPositivo("Unidades compradas")
	if err != nil {
		return err
	}
	if err := a.inventario.IngresarCompra(ctx, p.Codigo, cantidad, a.sesion.Usuario); err != nil {
		return err
	}
	if p.Grupo != nil {
		a.p.Printf("Compra ingresada al pool del grupo %s.\n", strings.TrimSpace(*p.Grupo))
	} else {
		a.p.Println("Compra ingresada.")
	}
	return nil
}

func (a *App) ajustarStock(ctx context.Context) error {
	p, err := a.elegirProducto(ctx)
	if err != nil {
		return err
	}
	a.mostrarProducto(p)
	stock, err := a.p.PedirEntero("Stock contado (-1 para ilimitado)")
	if err != nil {
		return err
	}
	if err := a.inventario.AjustarStock(ctx, p.Codigo, stock, a.sesion.Usuario); err != nil {
		return err
	}
	a.p.Println("Stock ajustado.")
	return nil
}

func (a *App) alertasStock(ctx context.Context) error {
	bajos, err := a.inventario.Alertas(ctx)
	if err != nil {
		return err
	}
	if len(bajos) == 0 {
		a.p.Println("Sin alertas de stock.")
		return nil
	}
	a.p.Println("Productos en o bajo su umbral de alerta:")
	for i := range bajos {
		a.mostrarProducto(&bajos[i])
	}
	return nil
}
