// cmd/seeduser — crea o restablece un usuario directamente en la base,
// para recuperar el acceso cuando se perdió la contraseña del Admin.
// Uso: go run ./cmd/seeduser <usuario> <contraseña> <nivel>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"hostaldelago/internal/infra"
	"hostaldelago/internal/model"
	"hostaldelago/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "uso: seeduser <usuario> <contraseña> <nivel>")
		os.Exit(2)
	}
	usuario, password := os.Args[1], os.Args[2]
	nivel, err := strconv.Atoi(os.Args[3])
	if err != nil || nivel < model.NivelObservador || nivel > model.NivelSuperusuario {
		log.Fatalf("nivel inválido: %s", os.Args[3])
	}
	if err := service.ValidarPassword(password); err != nil {
		log.Fatalf("contraseña rechazada: %v", err)
	}

	ruta := os.Getenv("DB_PATH")
	if ruta == "" {
		ruta = "hostal.db"
	}
	db, err := infra.NewDatabase(ruta)
	if err != nil {
		log.Fatalf("no se pudo abrir %s: %v", ruta, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}

	ctx := context.Background()
	var existente model.Usuario
	res := db.WithContext(ctx).Where("USUARIO = ?", usuario).First(&existente)
	if res.Error == nil {
		err = db.WithContext(ctx).Model(&existente).
			Updates(map[string]interface{}{"CONTRASEÑA_HASH": string(hash), "NIVEL_DE_ACCESO": nivel}).Error
	} else {
		err = db.WithContext(ctx).Create(&model.Usuario{
			Usuario:      usuario,
			PasswordHash: string(hash),
			Nivel:        nivel,
		}).Error
	}
	if err != nil {
		log.Fatalf("no se pudo guardar el usuario: %v", err)
	}
	fmt.Printf("Usuario %q listo con nivel %d.\n", usuario, nivel)
}
