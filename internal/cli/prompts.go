package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hostaldelago/internal/fechas"
)

// ErrCancelado indica que el operador tipeó el centinela "0" para
// abortar el flujo en curso. Ningún dato se escribió todavía.
var ErrCancelado = errors.New("operación cancelada")

const centinela = "0"

// Prompter conduce el diálogo con el operador por la terminal. Todos
// los pedidos reintentan ante entrada inválida y cortan con ErrCancelado
// cuando se tipea el centinela.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer

	asumirSiglo bool
}

func NewPrompter(in io.Reader, out io.Writer, asumirSiglo bool) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, asumirSiglo: asumirSiglo}
}

func (p *Prompter) Printf(formato string, args ...interface{}) {
	fmt.Fprintf(p.out, formato, args...)
}

func (p *Prompter) Println(args ...interface{}) {
	fmt.Fprintln(p.out, args...)
}

func (p *Prompter) leer(etiqueta string) (string, error) {
	fmt.Fprintf(p.out, "%s (0 para cancelar): ", etiqueta)
	if !p.in.Scan() {
		return "", io.EOF
	}
	linea := strings.TrimSpace(p.in.Text())
	if linea == centinela {
		return "", ErrCancelado
	}
	return linea, nil
}

// PedirTexto reintenta hasta recibir un texto no vacío.
func (p *Prompter) PedirTexto(etiqueta string) (string, error) {
	for {
		s, err := p.leer(etiqueta)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		p.Println("No puede quedar vacío.")
	}
}

// PedirTextoOpcional acepta vacío como "sin dato".
func (p *Prompter) PedirTextoOpcional(etiqueta string) (string, error) {
	return p.leer(etiqueta)
}

func (p *Prompter) PedirEntero(etiqueta string) (int, error) {
	for {
		s, err := p.leer(etiqueta)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			p.Println("Ingrese un número entero.")
			continue
		}
		return n, nil
	}
}

func (p *Prompter) PedirEnteroPositivo(etiqueta string) (int, error) {
	for {
		n, err := p.PedirEntero(etiqueta)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return n, nil
		}
		p.Println("Debe ser mayor que cero.")
	}
}

func (p *Prompter) PedirTelefono(etiqueta string) (int64, error) {
	for {
		s, err := p.leer(etiqueta)
		if err != nil {
			return 0, err
		}
		tel, err := strconv.ParseInt(s, 10, 64)
		if err != nil || tel <= 0 {
			p.Println("Ingrese un teléfono válido, solo dígitos.")
			continue
		}
		return tel, nil
	}
}

func (p *Prompter) PedirMail(etiqueta string) (string, error) {
	for {
		s, err := p.leer(etiqueta)
		if err != nil {
			return "", err
		}
		if strings.Count(s, "@") == 1 && !strings.HasPrefix(s, "@") && !strings.HasSuffix(s, "@") {
			return s, nil
		}
		p.Println("Ingrese un email válido.")
	}
}

func (p *Prompter) PedirPrecio(etiqueta string) (decimal.Decimal, error) {
	for {
		s, err := p.leer(etiqueta)
		if err != nil {
			return decimal.Zero, err
		}
		precio, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil || precio.IsNegative() {
			p.Println("Ingrese un precio válido, mayor o igual a cero.")
			continue
		}
		return precio, nil
	}
}

// Confirmar pregunta sí o no. Cualquier cosa que no empiece con s/S se
// toma como no.
func (p *Prompter) Confirmar(pregunta string) bool {
	fmt.Fprintf(p.out, "%s [s/n]: ", pregunta)
	if !p.in.Scan() {
		return false
	}
	r := strings.ToLower(strings.TrimSpace(p.in.Text()))
	return strings.HasPrefix(r, "s")
}

// ModoFecha gobierna qué se hace cuando el operador tipea una fecha
// anterior a hoy.
type ModoFecha int

const (
	// FechaFutura rechaza fechas pasadas y vuelve a pedir.
	FechaFutura ModoFecha = iota
	// FechaConfirmaPasado acepta una fecha pasada solo tras confirmación.
	FechaConfirmaPasado
	// FechaLibre acepta cualquier fecha sin preguntar.
	FechaLibre
)

// PedirFecha lee una fecha en formato día-mes-año.
func (p *Prompter) PedirFecha(etiqueta string, modo ModoFecha) (time.Time, error) {
	for {
		s, err := p.leer(etiqueta + " (DD-MM-AAAA)")
		if err != nil {
			return time.Time{}, err
		}
		f, err := fechas.ParseFecha(s, p.asumirSiglo)
		if err != nil {
			p.Println("Fecha inválida, use DD-MM-AAAA.")
			continue
		}
		if f.Before(fechas.Hoy()) {
			switch modo {
			case FechaFutura:
				p.Println("La fecha debe ser hoy o posterior.")
				continue
			case FechaConfirmaPasado:
				if !p.Confirmar(fmt.Sprintf("La fecha %s ya pasó, ¿usarla igual?", fechas.Formatear(f))) {
					continue
				}
			}
		}
		return f, nil
	}
}

// PedirPassword lee una contraseña. La terminal de recepción no
// oculta el eco, igual que el sistema anterior.
func (p *Prompter) PedirPassword(etiqueta string) (string, error) {
	return p.PedirTexto(etiqueta)
}
