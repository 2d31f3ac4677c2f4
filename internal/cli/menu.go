package cli

import (
	"context"
	"errors"

	"hostaldelago/internal/model"
	"hostaldelago/internal/service"
)

// Comando es una entrada de menú: el despacho chequea el nivel de
// acceso requerido antes de invocar la acción, reemplazando a los
// decoradores del sistema anterior.
type Comando struct {
	Titulo string
	Nivel  int
	Accion func(ctx context.Context) error
}

// correr despacha un comando aplicando la verificación de sesión. Una
// sesión vencida fuerza re-login y el operador debe reintentar.
func (a *App) correr(ctx context.Context, c Comando) error {
	if err := a.auth.Verificar(a.sesion, c.Nivel); err != nil {
		switch {
		case errors.Is(err, service.ErrPermiso):
			a.p.Printf("Acceso denegado: se requiere nivel %d.\n", c.Nivel)
			return nil
		case errors.Is(err, service.ErrSesionVencida), errors.Is(err, service.ErrSesionInactiva):
			a.p.Println("La sesión expiró, vuelva a ingresar.")
			if err := a.login(ctx); err != nil {
				return err
			}
			return a.correr(ctx, c)
		default:
			return err
		}
	}
	err := c.Accion(ctx)
	if errors.Is(err, ErrCancelado) {
		a.p.Println("Operación cancelada.")
		return nil
	}
	if err != nil {
		a.p.Printf("Error: %v\n", err)
	}
	return nil
}

// elegir muestra un menú numerado y devuelve el comando elegido, o nil
// si el operador vuelve atrás con 0.
func (a *App) elegir(titulo string, comandos []Comando) (*Comando, error) {
	a.p.Println()
	a.p.Printf("── %s ──\n", titulo)
	for i, c := range comandos {
		a.p.Printf("  %d. %s\n", i+1, c.Titulo)
	}
	for {
		n, err := a.p.PedirEntero("Opción")
		if errors.Is(err, ErrCancelado) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if n >= 1 && n <= len(comandos) {
			return &comandos[n-1], nil
		}
		a.p.Println("Opción inválida.")
	}
}

// elegirOpcion muestra una lista numerada de textos y devuelve el
// índice elegido. Volver atrás con 0 cancela.
func (a *App) elegirOpcion(titulo string, opciones []string) (int, error) {
	a.p.Println()
	a.p.Printf("── %s ──\n", titulo)
	for i, o := range opciones {
		a.p.Printf("  %d. %s\n", i+1, o)
	}
	for {
		n, err := a.p.PedirEntero("Opción")
		if err != nil {
			return 0, err
		}
		if n >= 1 && n <= len(opciones) {
			return n - 1, nil
		}
		a.p.Println("Opción inválida.")
	}
}

// submenu repite un menú hasta que el operador vuelve atrás.
func (a *App) submenu(ctx context.Context, titulo string, comandos []Comando) error {
	for {
		c, err := a.elegir(titulo, comandos)
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		if err := a.correr(ctx, *c); err != nil {
			return err
		}
	}
}

func (a *App) menuPrincipal(ctx context.Context) (bool, error) {
	c, err := a.elegir("Menú principal", []Comando{
		{Titulo: "Huéspedes", Nivel: model.NivelObservador, Accion: a.menuHuespedes},
		{Titulo: "Consumos", Nivel: model.NivelObservador, Accion: a.menuConsumos},
		{Titulo: "Productos e inventario", Nivel: model.NivelObservador, Accion: a.menuProductos},
		{Titulo: "Reportes", Nivel: model.NivelObservador, Accion: a.menuReportes},
		{Titulo: "Usuarios", Nivel: model.NivelSuperusuario, Accion: a.menuUsuarios},
		{Titulo: "Cerrar sesión", Nivel: model.NivelObservador, Accion: func(context.Context) error {
			a.auth.Logout(a.sesion)
			return nil
		}},
	})
	if err != nil {
		return false, err
	}
	if c == nil {
		// 0 en el menú principal es salir del programa.
		return true, nil
	}
	return false, a.correr(ctx, *c)
}
