package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hostaldelago/internal/model"
	"hostaldelago/internal/repository"
	"hostaldelago/internal/texto"
)

func datatypesJSON(d *model.Descuento) datatypes.JSONType[*model.Descuento] {
	return datatypes.NewJSONType(d)
}

func decimalDe(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── In-memory Repository Stubs ───────────────────────────────────────

var _ repository.HuespedRepository = (*stubHuespedRepo)(nil)

type stubHuespedRepo struct {
	huespedes map[uint]*model.Huesped
	next      uint

	// conConsumos simula el bloqueo por FK de CONSUMOS al borrar.
	conConsumos map[uint]bool
}

func newStubHuespedRepo() *stubHuespedRepo {
	return &stubHuespedRepo{huespedes: make(map[uint]*model.Huesped), next: 1}
}

func (r *stubHuespedRepo) Create(_ context.Context, h *model.Huesped) error {
	h.Numero = r.next
	r.next++
	copia := *h
	r.huespedes[h.Numero] = &copia
	return nil
}

func (r *stubHuespedRepo) FindByNumero(_ context.Context, numero uint) (*model.Huesped, error) {
	h, ok := r.huespedes[numero]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *h
	return &copia, nil
}

func (r *stubHuespedRepo) FindByDocumento(_ context.Context, documento string) (*model.Huesped, error) {
	var mejor *model.Huesped
	for _, h := range r.huespedes {
		if h.Documento == documento && (mejor == nil || h.Numero > mejor.Numero) {
			mejor = h
		}
	}
	if mejor == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *mejor
	return &copia, nil
}

func (r *stubHuespedRepo) FindAbiertoPorHabitacion(_ context.Context, habitacion int) (*model.Huesped, error) {
	for _, h := range r.huespedes {
		if h.Habitacion == habitacion && h.Estado == model.EstadoAbierto {
			copia := *h
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubHuespedRepo) FindPorHabitacion(_ context.Context, habitacion int) ([]model.Huesped, error) {
	var out []model.Huesped
	for _, h := range r.huespedes {
		if h.Habitacion == habitacion && h.Estado != model.EstadoCerrado {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *stubHuespedRepo) List(_ context.Context) ([]model.Huesped, error) {
	var out []model.Huesped
	for _, h := range r.huespedes {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (r *stubHuespedRepo) ListByEstado(_ context.Context, estado string) ([]model.Huesped, error) {
	var out []model.Huesped
	for _, h := range r.huespedes {
		if h.Estado == estado {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (r *stubHuespedRepo) SearchByApellido(_ context.Context, apellido string) ([]model.Huesped, error) {
	var out []model.Huesped
	for _, h := range r.huespedes {
		if texto.Contiene(h.Apellido, apellido) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *stubHuespedRepo) ListAbiertos(ctx context.Context) ([]model.Huesped, error) {
	return r.ListByEstado(ctx, model.EstadoAbierto)
}

func (r *stubHuespedRepo) ListCerradosEn(_ context.Context, desdeISO, hastaISO string) ([]model.Huesped, error) {
	var out []model.Huesped
	for _, h := range r.huespedes {
		if h.Estado == model.EstadoCerrado && h.Checkout >= desdeISO && h.Checkout <= hastaISO {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *stubHuespedRepo) ListProgramadosCheckin(_ context.Context, desdeISO, hastaISO string) ([]model.Huesped, error) {
	var out []model.Huesped
	for _, h := range r.huespedes {
		if h.Estado == model.EstadoProgramado && h.Checkin >= desdeISO && h.Checkin <= hastaISO {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Checkin < out[j].Checkin })
	return out, nil
}

func (r *stubHuespedRepo) UpdateTx(_ *gorm.DB, numero uint, campos map[string]interface{}) error {
	h, ok := r.huespedes[numero]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for campo, valor := range campos {
		switch campo {
		case "APELLIDO":
			h.Apellido = valor.(string)
		case "NOMBRE":
			h.Nombre = valor.(string)
		case "TELEFONO":
			h.Telefono = valor.(int64)
		case "EMAIL":
			h.Email = valor.(string)
		case "APP":
			h.App = valor.(bool)
		case "ESTADO":
			h.Estado = valor.(string)
		case "CHECKIN":
			h.Checkin = valor.(string)
		case "CHECKOUT":
			h.Checkout = valor.(string)
		case "DOCUMENTO":
			h.Documento = valor.(string)
		case "HABITACION":
			h.Habitacion = valor.(int)
		case "CONTINGENTE":
			h.Contingente = valor.(int)
		case "REGISTRO":
			h.Registro = valor.(datatypes.JSONSlice[model.RegistroEntry])
		case "DESCUENTO":
			h.Descuento = valor.(datatypes.JSONType[*model.Descuento])
		}
	}
	return nil
}

func (r *stubHuespedRepo) Delete(_ context.Context, numero uint) error {
	if r.conConsumos[numero] {
		return errors.New("FOREIGN KEY constraint failed")
	}
	delete(r.huespedes, numero)
	return nil
}

func (r *stubHuespedRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stubProductoRepo struct {
	productos map[uint]*model.Producto

	// conConsumos simula la FK ON DELETE RESTRICT de CONSUMOS.
	conConsumos map[uint]bool
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uint]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	copia := *p
	r.productos[p.Codigo] = &copia
	return nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo uint) (*model.Producto, error) {
	p, ok := r.productos[codigo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) List(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *stubProductoRepo) SearchNombre(ctx context.Context, nombre string) ([]model.Producto, error) {
	todos, _ := r.List(ctx)
	var out []model.Producto
	for _, p := range todos {
		if texto.Contiene(p.Nombre, nombre) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) MaxCodigo(_ context.Context) (uint, error) {
	var max uint
	for codigo := range r.productos {
		if codigo > max {
			max = codigo
		}
	}
	return max, nil
}

func (r *stubProductoRepo) FindGrupo(_ context.Context, grupo string) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Grupo != nil && *p.Grupo == grupo {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, codigo uint, campos map[string]interface{}) error {
	p, ok := r.productos[codigo]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for campo, valor := range campos {
		switch campo {
		case "NOMBRE":
			p.Nombre = valor.(string)
		case "ALERTA":
			p.Alerta = valor.(int)
		case "PINMEDIATO":
			p.PInmediato = valor.(bool)
		case "GRUPO":
			if valor == nil {
				p.Grupo = nil
			} else {
				g := valor.(string)
				p.Grupo = &g
			}
		}
	}
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, codigo uint) error {
	if r.conConsumos[codigo] {
		return errors.New("FOREIGN KEY constraint failed")
	}
	delete(r.productos, codigo)
	return nil
}

func (r *stubProductoRepo) ListBajoStock(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Stock != model.StockIlimitado && p.Stock <= p.Alerta {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, codigo uint, delta int) error {
	p, ok := r.productos[codigo]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Stock != model.StockIlimitado {
		p.Stock += delta
	}
	return nil
}

func (r *stubProductoRepo) UpdateStockGrupoTx(_ *gorm.DB, grupo string, delta int) error {
	for _, p := range r.productos {
		if p.Grupo != nil && *p.Grupo == grupo && p.Stock != model.StockIlimitado {
			p.Stock += delta
		}
	}
	return nil
}

func (r *stubProductoRepo) SetStockTx(_ *gorm.DB, codigo uint, stock int) error {
	p, ok := r.productos[codigo]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ConsumoRepository = (*stubConsumoRepo)(nil)

type stubConsumoRepo struct {
	consumos  map[uint]*model.Consumo
	cortesias []model.Cortesia
	productos *stubProductoRepo
	next      uint
}

func newStubConsumoRepo(productos *stubProductoRepo) *stubConsumoRepo {
	return &stubConsumoRepo{
		consumos:  make(map[uint]*model.Consumo),
		productos: productos,
		next:      1,
	}
}

func (r *stubConsumoRepo) CreateTx(_ *gorm.DB, c *model.Consumo) error {
	c.ID = r.next
	r.next++
	copia := *c
	r.consumos[c.ID] = &copia
	return nil
}

func (r *stubConsumoRepo) MarcarPagadosTx(_ *gorm.DB, ids []uint) error {
	for _, id := range ids {
		if c, ok := r.consumos[id]; ok {
			c.Pagado = true
		}
	}
	return nil
}

func (r *stubConsumoRepo) DeleteTx(_ *gorm.DB, id uint) error {
	delete(r.consumos, id)
	return nil
}

func (r *stubConsumoRepo) CreateCortesiaTx(_ *gorm.DB, c *model.Cortesia) error {
	c.ID = uint(len(r.cortesias) + 1)
	r.cortesias = append(r.cortesias, *c)
	return nil
}

func (r *stubConsumoRepo) FindByID(_ context.Context, id uint) (*model.Consumo, error) {
	c, ok := r.consumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubConsumoRepo) detalle(c model.Consumo) repository.ConsumoDetalle {
	d := repository.ConsumoDetalle{Consumo: c}
	if p, ok := r.productos.productos[c.Producto]; ok {
		d.Nombre = p.Nombre
		d.Precio = p.Precio
	}
	return d
}

func (r *stubConsumoRepo) ListByHuesped(_ context.Context, huesped uint) ([]repository.ConsumoDetalle, error) {
	var out []repository.ConsumoDetalle
	for _, c := range r.consumos {
		if c.Huesped == huesped {
			out = append(out, r.detalle(*c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubConsumoRepo) ListImpagosByHuesped(_ context.Context, huesped uint) ([]repository.ConsumoDetalle, error) {
	var out []repository.ConsumoDetalle
	for _, c := range r.consumos {
		if c.Huesped == huesped && !c.Pagado {
			out = append(out, r.detalle(*c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubConsumoRepo) ListDelDia(_ context.Context, diaISO string) ([]repository.ConsumoDetalle, error) {
	var out []repository.ConsumoDetalle
	for _, c := range r.consumos {
		if strings.HasPrefix(c.Fecha, diaISO) {
			out = append(out, r.detalle(*c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubConsumoRepo) DB() *gorm.DB { return nil }

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
	next     uint
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario), next: 1}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = r.next
	r.next++
	copia := *u
	r.usuarios[u.Usuario] = &copia
	return nil
}

func (r *stubUsuarioRepo) FindByUsuario(_ context.Context, usuario string) (*model.Usuario, error) {
	u, ok := r.usuarios[usuario]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *u
	return &copia, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Usuario < out[j].Usuario })
	return out, nil
}

func (r *stubUsuarioRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.usuarios)), nil
}

func (r *stubUsuarioRepo) UpdatePassword(_ context.Context, usuario, hash string) error {
	u, ok := r.usuarios[usuario]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUsuarioRepo) UpdateNivel(_ context.Context, usuario string, nivel int) error {
	u, ok := r.usuarios[usuario]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Nivel = nivel
	return nil
}

func (r *stubUsuarioRepo) UpdateNombre(_ context.Context, usuario, nuevo string) error {
	u, ok := r.usuarios[usuario]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.usuarios, usuario)
	u.Usuario = nuevo
	r.usuarios[nuevo] = u
	return nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, usuario string) error {
	delete(r.usuarios, usuario)
	return nil
}
