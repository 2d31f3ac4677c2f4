package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hostaldelago/internal/config"
	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
)

var (
	ErrCredenciales   = errors.New("usuario o contraseña incorrectos")
	ErrPermiso        = errors.New("nivel de acceso insuficiente")
	ErrSesionInactiva = errors.New("no hay sesión activa")
	ErrSesionVencida  = errors.New("la sesión expiró, vuelva a autenticarse")
	ErrUsuarioExiste  = errors.New("ya existe un usuario con ese nombre")
)

// Session representa al operador autenticado en la consola. Vive en
// memoria mientras la aplicación corre, no se persiste.
type Session struct {
	ID         uuid.UUID
	Usuario    string
	Nivel      int
	UltimaAuth time.Time
	Activa     bool
}

type AuthService interface {
	Login(ctx context.Context, usuario, password string) (*Session, error)
	Logout(s *Session)

	// Verificar chequea que la sesión esté activa, vigente y con nivel
	// suficiente. Si pasa, renueva la marca de actividad.
	Verificar(s *Session, nivelRequerido int) error

	CrearUsuario(ctx context.Context, usuario, password string, nivel int) error
	CambiarPassword(ctx context.Context, usuario, nueva string) error
	CambiarNivel(ctx context.Context, usuario string, nivel int) error
	RenombrarUsuario(ctx context.Context, usuario, nuevo string) error
	EliminarUsuario(ctx context.Context, usuario string) error
	ListarUsuarios(ctx context.Context) ([]model.Usuario, error)

	// BootstrapAdmin crea el usuario inicial Admin nivel 3 cuando la
	// tabla está vacía (instalación nueva).
	BootstrapAdmin(ctx context.Context, password string) (bool, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, usuario, password string) (*Session, error) {
	user, err := s.repo.FindByUsuario(ctx, usuario)
	if err != nil {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrCredenciales
	}
	return &Session{
		ID:         uuid.New(),
		Usuario:    user.Usuario,
		Nivel:      user.Nivel,
		UltimaAuth: time.Now(),
		Activa:     true,
	}, nil
}

func (s *authService) Logout(sesion *Session) {
	if sesion != nil {
		sesion.Activa = false
	}
}

func (s *authService) Verificar(sesion *Session, nivelRequerido int) error {
	if sesion == nil || !sesion.Activa {
		return ErrSesionInactiva
	}
	ttl := time.Duration(s.cfg.SessionTTLSeconds) * time.Second
	if time.Since(sesion.UltimaAuth) > ttl {
		sesion.Activa = false
		return ErrSesionVencida
	}
	if sesion.Nivel < nivelRequerido {
		return ErrPermiso
	}
	sesion.UltimaAuth = time.Now()
	return nil
}

// ValidarPassword aplica la política de contraseñas: mínimo ocho
// caracteres, solo letras, dígitos y los símbolos - * / + . , @ y al
// menos uno de esos símbolos.
func ValidarPassword(password string) error {
	if len(password) < 8 {
		return errors.New("la contraseña debe tener al menos 8 caracteres")
	}
	const simbolos = "-*/+.,@"
	tieneSimbolo := false
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(simbolos, r):
			tieneSimbolo = true
		default:
			return fmt.Errorf("carácter no permitido en la contraseña: %q", r)
		}
	}
	if !tieneSimbolo {
		return errors.New("la contraseña debe incluir al menos un símbolo (- * / + . , @)")
	}
	return nil
}

func (s *authService) CrearUsuario(ctx context.Context, usuario, password string, nivel int) error {
	usuario = strings.TrimSpace(usuario)
	if usuario == "" {
		return errors.New("el nombre de usuario no puede estar vacío")
	}
	if nivel < model.NivelObservador || nivel > model.NivelSuperusuario {
		return fmt.Errorf("nivel de acceso inválido: %d", nivel)
	}
	if err := ValidarPassword(password); err != nil {
		return err
	}
	if _, err := s.repo.FindByUsuario(ctx, usuario); err == nil {
		return ErrUsuarioExiste
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, &model.Usuario{
		Usuario:      usuario,
		PasswordHash: string(hash),
		Nivel:        nivel,
	})
}

func (s *authService) CambiarPassword(ctx context.Context, usuario, nueva string) error {
	if err := ValidarPassword(nueva); err != nil {
		return err
	}
	if _, err := s.repo.FindByUsuario(ctx, usuario); err != nil {
		return fmt.Errorf("usuario %q no encontrado", usuario)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(nueva), 12)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, usuario, string(hash))
}

func (s *authService) CambiarNivel(ctx context.Context, usuario string, nivel int) error {
	if nivel < model.NivelObservador || nivel > model.NivelSuperusuario {
		return fmt.Errorf("nivel de acceso inválido: %d", nivel)
	}
	if _, err := s.repo.FindByUsuario(ctx, usuario); err != nil {
		return fmt.Errorf("usuario %q no encontrado", usuario)
	}
	return s.repo.UpdateNivel(ctx, usuario, nivel)
}

func (s *authService) RenombrarUsuario(ctx context.Context, usuario, nuevo string) error {
	nuevo = strings.TrimSpace(nuevo)
	if nuevo == "" {
		return errors.New("el nombre de usuario no puede estar vacío")
	}
	if _, err := s.repo.FindByUsuario(ctx, usuario); err != nil {
		return fmt.Errorf("usuario %q no encontrado", usuario)
	}
	if _, err := s.repo.FindByUsuario(ctx, nuevo); err == nil {
		return ErrUsuarioExiste
	}
	return s.repo.UpdateNombre(ctx, usuario, nuevo)
}

func (s *authService) EliminarUsuario(ctx context.Context, usuario string) error {
	if _, err := s.repo.FindByUsuario(ctx, usuario); err != nil {
		return fmt.Errorf("usuario %q no encontrado", usuario)
	}
	return s.repo.Delete(ctx, usuario)
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]model.Usuario, error) {
	return s.repo.List(ctx)
}

func (s *authService) BootstrapAdmin(ctx context.Context, password string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := ValidarPassword(password); err != nil {
		return false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return false, err
	}
	err = s.repo.Create(ctx, &model.Usuario{
		Usuario:      "Admin",
		PasswordHash: string(hash),
		Nivel:        model.NivelSuperusuario,
	})
	return err == nil, err
}
