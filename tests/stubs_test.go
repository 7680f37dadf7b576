package tests

import (
	"context"
	"errors"
	"strings"
	"time"

	"distriverde/internal/dto"
	"distriverde/internal/model"
	"distriverde/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ClienteRepository ───────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
	pedidos  map[uuid.UUID]int64 // cliente → order count, for delete guard
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{
		clientes: make(map[uuid.UUID]*model.Cliente),
		pedidos:  make(map[uuid.UUID]int64),
	}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

func (r *stubClienteRepo) List(_ context.Context, filter dto.ClienteFilter) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if filter.Tipo != "" && c.TipoCliente != filter.Tipo {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(c.NombreCompleto), strings.ToLower(filter.Nombre)) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) CountPedidos(_ context.Context, clienteID uuid.UUID) (int64, error) {
	return r.pedidos[clienteID], nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── In-memory ProductoRepository ──────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Estado == "" {
		p.Estado = model.ProductoActivo
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Estado = estado
	return nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		switch filter.Estado {
		case "todos":
		case "inactivo":
			if p.Estado != model.ProductoInactivo {
				continue
			}
		default:
			if p.Estado != model.ProductoActivo {
				continue
			}
		}
		if filter.Tipo != "" && p.Tipo != filter.Tipo {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Estado == model.ProductoActivo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) SetPrecioVentaDesdeCosto(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		p, ok := r.productos[id]
		if ok && p.PrecioVenta == nil {
			costo := p.PrecioCosto
			p.PrecioVenta = &costo
			n++
		}
	}
	return n, nil
}

func (r *stubProductoRepo) CountBajoStock(_ context.Context, umbral int) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.Tipo == model.TipoHuevo && p.Estado == model.ProductoActivo && p.StockCantidad < umbral {
			n++
		}
	}
	return n, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── In-memory PedidoRepository ────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos  map[uuid.UUID]*model.Pedido
	clientes *stubClienteRepo
	prods    *stubProductoRepo

	// lastReplacedItems records the exact array passed to ReplaceItems.
	lastReplacedItems []model.PedidoItem
}

func newStubPedidoRepo(clientes *stubClienteRepo, prods *stubProductoRepo) *stubPedidoRepo {
	return &stubPedidoRepo{
		pedidos:  make(map[uuid.UUID]*model.Pedido),
		clientes: clientes,
		prods:    prods,
	}
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
	}
	p.CreatedAt = time.Now()
	r.pedidos[p.ID] = p
	if r.clientes != nil {
		r.clientes.pedidos[p.ClienteID]++
	}
	return nil
}

// FindByID mirrors the Preload("Cliente").Preload("Items.Producto") the real
// repository does.
func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if r.clientes != nil {
		if c, ok := r.clientes.clientes[p.ClienteID]; ok {
			p.Cliente = c
		}
	}
	if r.prods != nil {
		for i := range p.Items {
			if prod, ok := r.prods.productos[p.Items[i].ProductoID]; ok {
				p.Items[i].Producto = prod
			}
		}
	}
	return p, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.Estado != "" && filter.Estado != "todos" && p.Estado != filter.Estado {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPedidoRepo) ReplaceItems(_ context.Context, _ *gorm.DB, pedidoID uuid.UUID, items []model.PedidoItem, montoTotal decimal.Decimal) error {
	p, ok := r.pedidos[pedidoID]
	if !ok {
		return errors.New("not found")
	}
	for i := range items {
		items[i].ID = uuid.New()
	}
	r.lastReplacedItems = items
	p.Items = items
	p.MontoTotal = &montoTotal
	return nil
}

func (r *stubPedidoRepo) UpdateEstado(_ context.Context, _ *gorm.DB, id uuid.UUID, estado string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) UpdateEstadoWhere(_ context.Context, _ *gorm.DB, desde, hasta string) (int64, error) {
	var n int64
	for _, p := range r.pedidos {
		if p.Estado == desde {
			p.Estado = hasta
			n++
		}
	}
	return n, nil
}

func (r *stubPedidoRepo) MarcarPagado(_ context.Context, id uuid.UUID) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Pagado = true
	return nil
}

func (r *stubPedidoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) SincronizarPrecios(_ context.Context, _ *gorm.DB) (int64, error) {
	var n int64
	for _, p := range r.pedidos {
		if p.Estado != model.EstadoConfirmado {
			continue
		}
		total := decimal.Zero
		for i := range p.Items {
			prod, ok := r.prods.productos[p.Items[i].ProductoID]
			if ok && prod.PrecioVenta != nil {
				p.Items[i].PrecioUnitario = *prod.PrecioVenta
				p.Items[i].PrecioTotal = prod.PrecioVenta.Mul(p.Items[i].Cantidad)
				n++
			}
			total = total.Add(p.Items[i].PrecioTotal)
		}
		p.MontoTotal = &total
	}
	return n, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── Stub ReporteRepository ────────────────────────────────────────────────────

type stubReporteRepo struct {
	consolidado     []repository.ConsolidadoRow
	deudores        []repository.DeudorRow
	huevos          []repository.VentaHuevoRow
	kpis            repository.KPIRow
	lastTipoCliente string
}

func (r *stubReporteRepo) Consolidado(_ context.Context, tipoCliente string) ([]repository.ConsolidadoRow, error) {
	r.lastTipoCliente = tipoCliente
	return r.consolidado, nil
}
func (r *stubReporteRepo) Deudores(_ context.Context) ([]repository.DeudorRow, error) {
	return r.deudores, nil
}
func (r *stubReporteRepo) VentasHuevos(_ context.Context, _ time.Time) ([]repository.VentaHuevoRow, error) {
	return r.huevos, nil
}
func (r *stubReporteRepo) PedidosConHuevos(_ context.Context) ([]repository.PedidoHuevoRow, error) {
	return nil, nil
}
func (r *stubReporteRepo) NegocioTotales(_ context.Context, _ time.Time) (repository.NegocioTotalesRow, error) {
	return repository.NegocioTotalesRow{}, nil
}
func (r *stubReporteRepo) TopProductosPorGanancia(_ context.Context, _ time.Time, _ int) ([]repository.RankingRow, error) {
	return nil, nil
}
func (r *stubReporteRepo) TopClientesPorGanancia(_ context.Context, _ time.Time, _ int) ([]repository.RankingRow, error) {
	return nil, nil
}
func (r *stubReporteRepo) KPIs(_ context.Context) (repository.KPIRow, error) {
	return r.kpis, nil
}

var _ repository.ReporteRepository = (*stubReporteRepo)(nil)

// ── In-memory UsuarioRepository ───────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.usuarios[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func mustUUID(t interface{ Fatalf(string, ...any) }, s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("invalid uuid %q: %v", s, err)
	}
	return id
}

func seedCliente(repo *stubClienteRepo, nombre, tipo string, tarifa *decimal.Decimal) *model.Cliente {
	c := &model.Cliente{NombreCompleto: nombre, TipoCliente: tipo, TarifaFlete: tarifa}
	_ = repo.Create(context.Background(), c)
	return c
}

func seedProducto(repo *stubProductoRepo, nombre, tipo string, costo, venta float64) *model.Producto {
	precioVenta := decimal.NewFromFloat(venta)
	p := &model.Producto{
		Nombre:      nombre,
		Tipo:        tipo,
		PrecioCosto: decimal.NewFromFloat(costo),
		PrecioVenta: &precioVenta,
		Estado:      model.ProductoActivo,
	}
	_ = repo.Create(context.Background(), p)
	return p
}

func seedPedido(repo *stubPedidoRepo, cliente *model.Cliente, estado string, items ...model.PedidoItem) *model.Pedido {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.PrecioTotal)
	}
	p := &model.Pedido{
		ClienteID:  cliente.ID,
		Estado:     estado,
		Items:      items,
		MontoTotal: &total,
	}
	_ = repo.Create(context.Background(), nil, p)
	return p
}

func item(p *model.Producto, cantidad, unitario float64) model.PedidoItem {
	q := decimal.NewFromFloat(cantidad)
	u := decimal.NewFromFloat(unitario)
	return model.PedidoItem{
		ProductoID:     p.ID,
		Cantidad:       q,
		PrecioUnitario: u,
		PrecioTotal:    u.Mul(q),
	}
}
