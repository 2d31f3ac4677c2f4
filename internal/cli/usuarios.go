package cli

import (
	"context"

	"hostaldelago/internal/model"
)

func (a *App) menuUsuarios(ctx context.Context) error {
	return a.submenu(ctx, "Usuarios", []Comando{
		{Titulo: "Listar usuarios", Nivel: model.NivelSuperusuario, Accion: a.listarUsuarios},
		{Titulo: "Crear usuario", Nivel: model.NivelSuperusuario, Accion: a.crearUsuario},
		{Titulo: "Cambiar contraseña", Nivel: model.NivelSuperusuario, Accion: a.cambiarPassword},
		{Titulo: "Cambiar nivel de acceso", Nivel: model.NivelSuperusuario, Accion: a.cambiarNivel},
		{Titulo: "Renombrar usuario", Nivel: model.NivelSuperusuario, Accion: a.renombrarUsuario},
		{Titulo: "Eliminar usuario", Nivel: model.NivelSuperusuario, Accion: a.eliminarUsuario},
	})
}

func (a *App) listarUsuarios(ctx context.Context) error {
	usuarios, err := a.auth.ListarUsuarios(ctx)
	if err != nil {
		return err
	}
	for _, u := range usuarios {
		a.p.Printf("  %-20s nivel %d\n", u.Usuario, u.Nivel)
	}
	return nil
}

func (a *App) pedirNivel() (int, error) {
	for {
		n, err := a.p.PedirEntero("Nivel de acceso (0 observador, 1 recepción, 2 encargado, 3 superusuario)")
		if err != nil {
			return 0, err
		}
		if n >= model.NivelObservador && n <= model.NivelSuperusuario {
			return n, nil
		}
		a.p.Println("Nivel inválido.")
	}
}

func (a *App) crearUsuario(ctx context.Context) error {
	usuario, err := a.p.PedirTexto("Nombre de usuario")
	if err != nil {
		return err
	}
	password, err := a.p.PedirPassword("Contraseña (mínimo 8, letras, dígitos y -*/+.,@ con al menos un símbolo)")
	if err != nil {
		return err
	}
	nivel, err := a.pedirNivel()
	if err != nil {
		return err
	}
	if err := a.auth.CrearUsuario(ctx, usuario, password, nivel); err != nil {
		return err
	}
	a.p.Printf("Usuario %s creado con nivel %d.\n", usuario, nivel)
	return nil
}

func (a *App) cambiarPassword(ctx context.Context) error {
	usuario, err := a.p.PedirTexto("Usuario")
	if err != nil {
		return err
	}
	password, err := a.p.PedirPassword("Nueva contraseña")
	if err != nil {
		return err
	}
	if err := a.auth.CambiarPassword(ctx, usuario, password); err != nil {
		return err
	}
	a.p.Println("Contraseña actualizada.")
	return nil
}

func (a *App) cambiarNivel(ctx context.Context) error {
	usuario, err := a.p.PedirTexto("Usuario")
	if err != nil {
		return err
	}
	nivel, err := a.pedirNivel()
	if err != nil {
		return err
	}
	if err := a.auth.CambiarNivel(ctx, usuario, nivel); err != nil {
		return err
	}
	a.p.Printf("%s ahora tiene nivel %d.\n", usuario, nivel)
	return nil
}

func (a *App) renombrarUsuario(ctx context.Context) error {
	usuario, err := a.p.PedirTexto("Usuario actual")
	if err != nil {
		return err
	}
	nuevo, err := a.p.PedirTexto("Nuevo nombre")
	if err != nil {
		return err
	}
	if err := a.auth.RenombrarUsuario(ctx, usuario, nuevo); err != nil {
		return err
	}
	a.p.Printf("Usuario renombrado a %s.\n", nuevo)
	return nil
}

func (a *App) eliminarUsuario(ctx context.Context) error {
	usuario, err := a.p.PedirTexto("Usuario a eliminar")
	if err != nil {
		return err
	}
	if usuario == a.sesion.Usuario {
		a.p.Println("No se puede eliminar la sesión propia.")
		return nil
	}
	if !a.p.Confirmar("¿Eliminar el usuario " + usuario + "?") {
		return nil
	}
	if err := a.auth.EliminarUsuario(ctx, usuario); err != nil {
		return err
	}
	a.p.Println("Usuario eliminado.")
	return nil
}
