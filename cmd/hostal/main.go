package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"hostaldelago/internal/cli"
	"hostaldelago/internal/config"
	"hostaldelago/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo cargar la configuración")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo abrir la base de datos")
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	audit := infra.NewAuditLogger(cfg.LogDir)

	// Un pánico en medio de una operación no debe perderse en silencio:
	// queda en crash.log antes de cerrar la base.
	defer func() {
		if r := recover(); r != nil {
			audit.Append(infra.LogCrash, fmt.Sprintf("pánico: %v\n%s", r, debug.Stack()))
			sqlDB.Close()
			log.Error().Interface("panic", r).Msg("el programa terminó por un error inesperado")
			os.Exit(1)
		}
	}()

	ctx := context.Background()
	app := cli.New(cfg, db, audit, os.Stdin, os.Stdout)

	if err := bootstrap(ctx, app); err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el usuario inicial")
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("la sesión terminó con error")
	}
}

// bootstrap crea el usuario Admin en la primera corrida, pidiendo la
// contraseña por consola.
func bootstrap(ctx context.Context, app *cli.App) error {
	creado, err := app.Auth().BootstrapAdmin(ctx, "")
	if err == nil && !creado {
		return nil
	}

	fmt.Println("Instalación nueva: se creará el usuario Admin (nivel 3).")
	for {
		fmt.Print("Contraseña para Admin: ")
		var password string
		if _, err := fmt.Scanln(&password); err != nil {
			return err
		}
		if _, err := app.Auth().BootstrapAdmin(ctx, password); err != nil {
			fmt.Printf("Contraseña rechazada: %v\n", err)
			continue
		}
		fmt.Println("Usuario Admin creado.")
		return nil
	}
}
