package cli

import (
	"context"
	"errors"
	"io"

	"gorm.io/gorm"

	"hostaldelago/internal/config"
	"hostaldelago/internal/infra"
	"hostaldelago/internal/repository"
	"hostaldelago/internal/service"
)

// App es la consola de recepción: arma el grafo de dependencias y
// conduce el menú principal.
// Grafo: CLI ← Service ← Repository ← DB
type App struct {
	cfg *config.Config
	p   *Prompter

	auth       service.AuthService
	huespedes  service.HuespedService
	consumos   service.ConsumoService
	productos  service.ProductoService
	inventario service.InventarioService
	reportes   service.ReporteService
	ocupacion  service.OcupacionService
	audit      *infra.AuditLogger

	sesion *service.Session
}

// New wires all dependencies and returns the console application.
func New(cfg *config.Config, db *gorm.DB, audit *infra.AuditLogger, in io.Reader, out io.Writer) *App {
	// ── Repositories ─────────────────────────────────────────────────
	huespedRepo := repository.NewHuespedRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	consumoRepo := repository.NewConsumoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	disponibilidadSvc := service.NewDisponibilidadService(huespedRepo)
	liquidacionSvc := service.NewLiquidacionService(consumoRepo, cfg)
	huespedSvc := service.NewHuespedService(huespedRepo, disponibilidadSvc, liquidacionSvc, audit)
	consumoSvc := service.NewConsumoService(consumoRepo, productoRepo, huespedRepo, audit, cfg)
	productoSvc := service.NewProductoService(productoRepo, audit)
	inventarioSvc := service.NewInventarioService(productoRepo, audit, cfg)
	reporteSvc := service.NewReporteService(huespedRepo, consumoRepo, productoRepo)
	ocupacionSvc := service.NewOcupacionService(huespedRepo)

	return &App{
		cfg:        cfg,
		p:          NewPrompter(in, out, cfg.AssumeCentury),
		auth:       authSvc,
		huespedes:  huespedSvc,
		consumos:   consumoSvc,
		productos:  productoSvc,
		inventario: inventarioSvc,
		reportes:   reporteSvc,
		ocupacion:  ocupacionSvc,
		audit:      audit,
	}
}

// Auth devuelve el servicio de autenticación, para el bootstrap inicial.
func (a *App) Auth() service.AuthService { return a.auth }

// Run conduce la sesión interactiva hasta que el operador sale o se
// corta la entrada.
func (a *App) Run(ctx context.Context) error {
	for {
		if a.sesion == nil || !a.sesion.Activa {
			if err := a.login(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
		salir, err := a.menuPrincipal(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if salir {
			return nil
		}
	}
}

func (a *App) login(ctx context.Context) error {
	a.p.Println()
	a.p.Println("═══ Hostal del Lago ═══")
	for {
		usuario, err := a.p.PedirTexto("Usuario")
		if errors.Is(err, ErrCancelado) {
			continue
		} else if err != nil {
			return err
		}
		password, err := a.p.PedirPassword("Contraseña")
		if errors.Is(err, ErrCancelado) {
			continue
		} else if err != nil {
			return err
		}
		sesion, err := a.auth.Login(ctx, usuario, password)
		if err != nil {
			a.p.Println("Usuario o contraseña incorrectos.")
			continue
		}
		a.sesion = sesion
		a.p.Printf("Bienvenido, %s (nivel %d).\n", sesion.Usuario, sesion.Nivel)
		return nil
	}
}
