package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hostaldelago/internal/fechas"
	"hostaldelago/internal/infra"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
	"hostaldelago/internal/texto"
)

var (
	ErrHuespedNoEncontrado = errors.New("huésped no encontrado")
	ErrHuespedCerrado      = errors.New("el huésped ya está cerrado")
	ErrTieneConsumos       = errors.New("no se puede eliminar, tiene consumos registrados")
	ErrCierreCancelado     = errors.New("cierre cancelado por el operador")
	ErrCampoNoEditable     = errors.New("campo no editable")
)

// CrearHuespedRequest reúne los datos de una alta. Para un alta en
// ABIERTO los datos de contacto son obligatorios.
type CrearHuespedRequest struct {
	Apellido    string
	Nombre      string
	Contingente int
	Habitacion  int
	Checkin     time.Time
	Checkout    time.Time
	Estado      string // PROGRAMADO o ABIERTO
	Telefono    int64
	Email       string
	Documento   string
	App         bool
}

// CheckInRequest son los datos que se completan al efectivizar una
// reserva. FechaReal solo se pide cuando el check-in guardado quedó en
// el pasado.
type CheckInRequest struct {
	FechaReal *time.Time
	Telefono  int64
	Email     string
	Documento string
}

type HuespedService interface {
	Crear(ctx context.Context, req CrearHuespedRequest) (*model.Huesped, error)
	Buscar(ctx context.Context, numero uint) (*model.Huesped, error)
	BuscarPorApellido(ctx context.Context, apellido string) ([]model.Huesped, error)
	BuscarPorDocumento(ctx context.Context, documento string) (*model.Huesped, error)
	BuscarPorHabitacion(ctx context.Context, habitacion int) (*model.Huesped, error)
	Listar(ctx context.Context) ([]model.Huesped, error)

	// CheckIn pasa un PROGRAMADO a ABIERTO completando contacto y
	// anotando en la bitácora de entradas.
	CheckIn(ctx context.Context, numero uint, req CheckInRequest) (*model.Huesped, error)

	// Cerrar liquida la cuenta y pasa a CERRADO en una sola
	// transacción. mostrar y confirmar conducen el diálogo de la
	// liquidación.
	Cerrar(ctx context.Context, numero uint, mostrar func(*Liquidacion), confirmar Confirmer) (*Liquidacion, error)

	// CambiarEstado fuerza un estado arbitrario revalidando las
	// precondiciones del destino.
	CambiarEstado(ctx context.Context, numero uint, destino string, mostrar func(*Liquidacion), confirmar Confirmer) error

	EditarCampo(ctx context.Context, numero uint, campo, valor string) error
	AplicarDescuento(ctx context.Context, numero uint, d *model.Descuento) error
	Eliminar(ctx context.Context, numero uint, actor string) error
	VerRegistro(ctx context.Context, numero uint) ([]model.RegistroEntry, error)
}

type huespedService struct {
	repo           repository.HuespedRepository
	disponibilidad DisponibilidadService
	liquidacion    LiquidacionService
	audit          *infra.AuditLogger
}

func NewHuespedService(
	repo repository.HuespedRepository,
	disponibilidad DisponibilidadService,
	liquidacion LiquidacionService,
	audit *infra.AuditLogger,
) HuespedService {
	return &huespedService{
		repo:           repo,
		disponibilidad: disponibilidad,
		liquidacion:    liquidacion,
		audit:          audit,
	}
}

// ── Alta ─────────────────────────────────────────────────────────────

func (s *huespedService) Crear(ctx context.Context, req CrearHuespedRequest) (*model.Huesped, error) {
	apellido := texto.Normalizar(req.Apellido)
	nombre := texto.Normalizar(req.Nombre)
	if apellido == "" || nombre == "" {
		return nil, errors.New("nombre y apellido no pueden quedar vacíos")
	}
	if req.Estado != model.EstadoProgramado && req.Estado != model.EstadoAbierto {
		return nil, fmt.Errorf("estado de alta inválido: %q", req.Estado)
	}
	if err := fechas.ValidarRango(req.Checkin, req.Checkout); err != nil {
		return nil, err
	}
	if err := s.disponibilidad.ValidarHabitacion(req.Habitacion, req.Contingente); err != nil {
		return nil, err
	}
	ocupada, err := s.disponibilidad.HabitacionOcupada(ctx, req.Habitacion, req.Checkin, req.Checkout, nil)
	if err != nil {
		return nil, err
	}
	if ocupada {
		return nil, ErrHabitacionOcupada
	}
	if req.Estado == model.EstadoAbierto {
		if err := validarContacto(req.Telefono, req.Email, req.Documento); err != nil {
			return nil, err
		}
	}

	h := &model.Huesped{
		Apellido:    apellido,
		Nombre:      nombre,
		Telefono:    req.Telefono,
		Email:       req.Email,
		App:         req.App,
		Estado:      req.Estado,
		Checkin:     fechas.ISO(req.Checkin),
		Checkout:    fechas.ISO(req.Checkout),
		Documento:   req.Documento,
		Habitacion:  req.Habitacion,
		Contingente: req.Contingente,
	}
	h.AgregarEntrada(fmt.Sprintf("Alta en estado %s, habitación %d, %s a %s",
		req.Estado, req.Habitacion, fechas.Formatear(req.Checkin), fechas.Formatear(req.Checkout)), time.Now())

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func validarContacto(telefono int64, email, documento string) error {
	if telefono <= 0 {
		return errors.New("el teléfono es obligatorio para un huésped abierto")
	}
	if strings.TrimSpace(email) == "" {
		return errors.New("el email es obligatorio para un huésped abierto")
	}
	if strings.TrimSpace(documento) == "" || documento == "0" {
		return errors.New("el documento es obligatorio para un huésped abierto")
	}
	return nil
}

// ── Consultas ────────────────────────────────────────────────────────

func (s *huespedService) Buscar(ctx context.Context, numero uint) (*model.Huesped, error) {
	h, err := s.repo.FindByNumero(ctx, numero)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHuespedNoEncontrado
	}
	return h, err
}

func (s *huespedService) BuscarPorApellido(ctx context.Context, apellido string) ([]model.Huesped, error) {
	return s.repo.SearchByApellido(ctx, apellido)
}

func (s *huespedService) BuscarPorDocumento(ctx context.Context, documento string) (*model.Huesped, error) {
	h, err := s.repo.FindByDocumento(ctx, documento)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHuespedNoEncontrado
	}
	return h, err
}

func (s *huespedService) BuscarPorHabitacion(ctx context.Context, habitacion int) (*model.Huesped, error) {
	h, err := s.repo.FindAbiertoPorHabitacion(ctx, habitacion)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("la habitación %d no tiene un huésped abierto", habitacion)
	}
	return h, err
}

func (s *huespedService) Listar(ctx context.Context) ([]model.Huesped, error) {
	return s.repo.List(ctx)
}

func (s *huespedService) VerRegistro(ctx context.Context, numero uint) ([]model.RegistroEntry, error) {
	h, err := s.Buscar(ctx, numero)
	if err != nil {
		return nil, err
	}
	return []model.RegistroEntry(h.Registro), nil
}

// ── Check-in ─────────────────────────────────────────────────────────

func (s *huespedService) CheckIn(ctx context.Context, numero uint, req CheckInRequest) (*model.Huesped, error) {
	h, err := s.Buscar(ctx, numero)
	if err != nil {
		return nil, err
	}
	if h.Estado != model.EstadoProgramado {
		return nil, fmt.Errorf("solo se puede hacer check-in de un huésped PROGRAMADO, este está %s", h.Estado)
	}

	guardado, err := fechas.DesdeISO(h.Checkin)
	if err != nil {
		return nil, fmt.Errorf("el check-in guardado es ilegible: %w", err)
	}
	hoy := fechas.Hoy()
	if guardado.After(hoy) {
		return nil, fmt.Errorf("el check-in está programado para el %s, todavía no corresponde", fechas.Formatear(guardado))
	}

	// Con el check-in guardado en el pasado el operador indica la
	// fecha real de llegada, acotada entre lo reservado y hoy.
	real := hoy
	if guardado.Before(hoy) {
		if req.FechaReal == nil {
			return nil, fmt.Errorf("el check-in reservado (%s) quedó en el pasado, indique la fecha real de llegada", fechas.Formatear(guardado))
		}
		real = *req.FechaReal
		if real.Before(guardado) || real.After(hoy) {
			return nil, fmt.Errorf("la fecha real debe estar entre %s y %s", fechas.Formatear(guardado), fechas.Formatear(hoy))
		}
	}

	campos := map[string]interface{}{
		"ESTADO":  model.EstadoAbierto,
		"CHECKIN": fechas.ISO(real),
	}
	// Los datos de contacto que faltan se completan acá.
	if h.Telefono <= 0 {
		if req.Telefono <= 0 {
			return nil, errors.New("el teléfono es obligatorio para el check-in")
		}
		campos["TELEFONO"] = req.Telefono
		h.Telefono = req.Telefono
	}
	if strings.TrimSpace(h.Email) == "" {
		if strings.TrimSpace(req.Email) == "" {
			return nil, errors.New("el email es obligatorio para el check-in")
		}
		campos["EMAIL"] = req.Email
		h.Email = req.Email
	}
	if strings.TrimSpace(h.Documento) == "" || h.Documento == "0" {
		if strings.TrimSpace(req.Documento) == "" || req.Documento == "0" {
			return nil, errors.New("el documento es obligatorio para el check-in")
		}
		campos["DOCUMENTO"] = req.Documento
		h.Documento = req.Documento
	}

	h.AgregarEntrada(fmt.Sprintf("Check-in efectivo el %s (reservado para el %s)",
		fechas.Formatear(real), fechas.Formatear(guardado)), time.Now())
	campos["REGISTRO"] = h.Registro

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateTx(tx, numero, campos)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Append(infra.LogCheckins, fmt.Sprintf(
		"Check-in huésped #%d %s, %s | habitación %d | reservado %s | efectivo %s",
		h.Numero, h.Apellido, h.Nombre, h.Habitacion,
		fechas.Formatear(guardado), fechas.Formatear(real)))

	h.Estado = model.EstadoAbierto
	h.Checkin = fechas.ISO(real)
	return h, nil
}

// ── Cierre ───────────────────────────────────────────────────────────

func (s *huespedService) Cerrar(ctx context.Context, numero uint, mostrar func(*Liquidacion), confirmar Confirmer) (*Liquidacion, error) {
	h, err := s.Buscar(ctx, numero)
	if err != nil {
		return nil, err
	}
	if h.Estado == model.EstadoCerrado {
		return nil, ErrHuespedCerrado
	}

	var liq *Liquidacion
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		liq, err = s.liquidacion.LiquidarTx(ctx, tx, h, mostrar, confirmar)
		if err != nil {
			return err
		}
		if !liq.CanClose {
			return ErrCierreCancelado
		}
		hoy := fechas.Hoy()
		h.AgregarEntrada("Check-out, estadía cerrada", time.Now())
		return s.repo.UpdateTx(tx, numero, map[string]interface{}{
			"ESTADO":     model.EstadoCerrado,
			"HABITACION": 0,
			"CHECKOUT":   fechas.ISO(hoy),
			"REGISTRO":   h.Registro,
		})
	})
	if err != nil {
		return liq, err
	}

	s.audit.Append(infra.LogHuespedesCerrados, fmt.Sprintf(
		"Cierre huésped #%d %s, %s | total %s | pagado: %t | deuda: %t",
		h.Numero, h.Apellido, h.Nombre, liq.TotalAPagar.StringFixed(2), liq.Pagado, liq.ConDeuda))
	return liq, nil
}

// ── Cambio manual de estado ──────────────────────────────────────────

func (s *huespedService) CambiarEstado(ctx context.Context, numero uint, destino string, mostrar func(*Liquidacion), confirmar Confirmer) error {
	h, err := s.Buscar(ctx, numero)
	if err != nil {
		return err
	}
	if h.Estado == destino {
		return fmt.Errorf("el huésped ya está %s", destino)
	}

	switch destino {
	case model.EstadoCerrado:
		_, err := s.Cerrar(ctx, numero, mostrar, confirmar)
		return err
	case model.EstadoProgramado, model.EstadoAbierto:
		// El destino revalida fechas, capacidad y solapamiento como si
		// fuera un alta nueva en ese estado.
		in, errIn := fechas.DesdeISO(h.Checkin)
		out, errOut := fechas.DesdeISO(h.Checkout)
		if errIn != nil || errOut != nil {
			return errors.New("las fechas guardadas son ilegibles, corríjalas antes de cambiar el estado")
		}
		if err := fechas.ValidarRango(in, out); err != nil {
			return err
		}
		if err := s.disponibilidad.ValidarHabitacion(h.Habitacion, h.Contingente); err != nil {
			return err
		}
		numero := h.Numero
		ocupada, err := s.disponibilidad.HabitacionOcupada(ctx, h.Habitacion, in, out, &numero)
		if err != nil {
			return err
		}
		if ocupada {
			return ErrHabitacionOcupada
		}
		if destino == model.EstadoAbierto {
			if err := validarContacto(h.Telefono, h.Email, h.Documento); err != nil {
				return err
			}
		}
		h.AgregarEntrada(fmt.Sprintf("Cambio manual de estado %s -> %s", h.Estado, destino), time.Now())
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.repo.UpdateTx(tx, h.Numero, map[string]interface{}{
				"ESTADO":   destino,
				"REGISTRO": h.Registro,
			})
		})
	default:
		return fmt.Errorf("estado destino inválido: %q", destino)
	}
}

// ── Edición de campos ────────────────────────────────────────────────

// camposEditables es la lista blanca de columnas que admite la edición
// directa.
var camposEditables = map[string]bool{
	"APELLIDO": true, "NOMBRE": true, "TELEFONO": true, "EMAIL": true,
	"APP": true, "CHECKIN": true, "CHECKOUT": true, "DOCUMENTO": true,
	"CONTINGENTE": true, "HABITACION": true,
}

func (s *huespedService) EditarCampo(ctx context.Context, numero uint, campo, valor string) error {
	campo = strings.ToUpper(strings.TrimSpace(campo))
	if !camposEditables[campo] {
		return fmt.Errorf("%w: %s", ErrCampoNoEditable, campo)
	}
	h, err := s.Buscar(ctx, numero)
	if err != nil {
		return err
	}

	var nuevo interface{}
	switch campo {
	case "APELLIDO", "NOMBRE":
		norm := texto.Normalizar(valor)
		if norm == "" {
			return fmt.Errorf("%s no puede quedar vacío", campo)
		}
		nuevo = norm
	case "TELEFONO":
		tel, err := strconv.ParseInt(strings.TrimSpace(valor), 10, 64)
		if err != nil || tel < 0 {
			return fmt.Errorf("teléfono inválido: %q", valor)
		}
		nuevo = tel
	case "CONTINGENTE":
		n, err := strconv.Atoi(strings.TrimSpace(valor))
		if err != nil {
			return fmt.Errorf("contingente inválido: %q", valor)
		}
		if err := s.disponibilidad.ValidarHabitacion(h.Habitacion, n); err != nil {
			return err
		}
		nuevo = n
	case "HABITACION":
		hab, err := strconv.Atoi(strings.TrimSpace(valor))
		if err != nil {
			return fmt.Errorf("habitación inválida: %q", valor)
		}
		if err := s.disponibilidad.ValidarHabitacion(hab, h.Contingente); err != nil {
			return err
		}
		if h.Estado != model.EstadoCerrado {
			in, errIn := fechas.DesdeISO(h.Checkin)
			out, errOut := fechas.DesdeISO(h.Checkout)
			if errIn != nil || errOut != nil {
				return errors.New("las fechas guardadas son ilegibles, corríjalas antes de mudar de habitación")
			}
			numero := h.Numero
			ocupada, err := s.disponibilidad.HabitacionOcupada(ctx, hab, in, out, &numero)
			if err != nil {
				return err
			}
			if ocupada {
				return ErrHabitacionOcupada
			}
		}
		nuevo = hab
	case "APP":
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(valor)))
		if err != nil {
			return fmt.Errorf("valor inválido para APP: %q", valor)
		}
		nuevo = b
	case "CHECKIN", "CHECKOUT":
		f, err := fechas.DesdeISO(valor)
		if err != nil {
			return err
		}
		otro := h.Checkout
		if campo == "CHECKOUT" {
			otro = h.Checkin
		}
		if otroF, errOtro := fechas.DesdeISO(otro); errOtro == nil {
			in, out := f, otroF
			if campo == "CHECKOUT" {
				in, out = otroF, f
			}
			if err := fechas.ValidarRango(in, out); err != nil {
				return err
			}
		}
		nuevo = fechas.ISO(f)
	default:
		nuevo = strings.TrimSpace(valor)
	}

	h.AgregarEntrada(fmt.Sprintf("Edición: %s = %v", campo, nuevo), time.Now())
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateTx(tx, numero, map[string]interface{}{
			campo:      nuevo,
			"REGISTRO": h.Registro,
		})
	})
}

func (s *huespedService) AplicarDescuento(ctx context.Context, numero uint, d *model.Descuento) error {
	h, err := s.Buscar(ctx, numero)
	if err != nil {
		return err
	}
	if d != nil && !d.Valido() {
		return fmt.Errorf("descuento inválido: %s", d)
	}
	if d == nil {
		h.AgregarEntrada("Descuento quitado", time.Now())
	} else {
		h.AgregarEntrada(fmt.Sprintf("Descuento aplicado: %s", d), time.Now())
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateTx(tx, numero, map[string]interface{}{
			"DESCUENTO": datatypes.NewJSONType(d),
			"REGISTRO":  h.Registro,
		})
	})
}

// ── Baja ─────────────────────────────────────────────────────────────

func (s *huespedService) Eliminar(ctx context.Context, numero uint, actor string) error {
	h, err := s.Buscar(ctx, numero)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, numero); err != nil {
		// La FK de CONSUMOS bloquea la baja de huéspedes con consumos.
		if strings.Contains(strings.ToLower(err.Error()), "foreign key") ||
			strings.Contains(strings.ToLower(err.Error()), "constraint") {
			return ErrTieneConsumos
		}
		return err
	}
	s.audit.Append(infra.LogHuespedesEliminados, fmt.Sprintf(
		"Eliminado huésped #%d %s, %s | estado %s | por %s",
		h.Numero, h.Apellido, h.Nombre, h.Estado, actor))
	return nil
}
