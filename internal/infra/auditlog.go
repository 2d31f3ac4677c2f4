package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Nombres de archivo de auditoría. Cada operación sensible anota en el
// suyo; la bitácora nunca corta una operación que ya pasó sus chequeos.
const (
	LogCheckins            = "checkins.log"
	LogHuespedesCerrados   = "huespedes_cerrados.log"
	LogHuespedesEliminados = "huespedes_eliminados.log"
	LogConsumosEliminados  = "consumos_eliminados.log"
	LogConsumosCortesia    = "consumos_cortesia.log"
	LogInventarioCompras   = "inventario_compras.log"
	LogInventarioEdiciones = "inventario_ediciones.log"
	LogProductosEditados   = "productos_editados.log"
	LogProductosEliminados = "productos_eliminados.log"
	LogCrash               = "crash.log"
)

var separadorLog = strings.Repeat("-", 60)

// AuditLogger appends plain-text audit entries under a directory.
// Every write is best effort: a full disk or bad permissions produce a
// warning in the structured log, never an error for the caller.
type AuditLogger struct {
	dir string
}

func NewAuditLogger(dir string) *AuditLogger {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("no se pudo crear el directorio de logs")
	}
	return &AuditLogger{dir: dir}
}

// Append agrega una entrada fechada al archivo indicado.
func (a *AuditLogger) Append(archivo, texto string) {
	ruta := filepath.Join(a.dir, archivo)
	f, err := os.OpenFile(ruta, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("archivo", ruta).Msg("no se pudo abrir el log de auditoría")
		return
	}
	defer f.Close()

	marca := time.Now().Format("2006-01-02 15:04:05")
	if _, err := fmt.Fprintf(f, "[%s] %s\n%s\n", marca, texto, separadorLog); err != nil {
		log.Warn().Err(err).Str("archivo", ruta).Msg("no se pudo escribir el log de auditoría")
	}
}

// ReadAll devuelve el contenido completo de un archivo de auditoría.
func (a *AuditLogger) ReadAll(archivo string) (string, error) {
	datos, err := os.ReadFile(filepath.Join(a.dir, archivo))
	if err != nil {
		return "", err
	}
	return string(datos), nil
}

// List enumera los archivos de auditoría existentes en el directorio.
func (a *AuditLogger) List() ([]string, error) {
	entradas, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, err
	}
	var nombres []string
	for _, e := range entradas {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".log") {
			nombres = append(nombres, e.Name())
		}
	}
	return nombres, nil
}
