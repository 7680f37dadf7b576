package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"distriverde/internal/dto"
	"distriverde/internal/model"
	"distriverde/internal/repository"
	"distriverde/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FiltroHuevos restricts the order detail view to egg items.
const FiltroHuevos = "huevos"

type PedidoService interface {
	Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoListItem, error)
	Detalle(ctx context.Context, id uuid.UUID, filtro string) (*dto.PedidoDetalleResponse, error)
	EditarItems(ctx context.Context, id uuid.UUID, req dto.EditarPedidoRequest) (*dto.PedidoDetalleResponse, error)
	CrearDesdeTexto(ctx context.Context, req dto.PedidoManualRequest) (*dto.PedidoDetalleResponse, error)
	Facturar(ctx context.Context, id uuid.UUID) error
	FacturarConfirmados(ctx context.Context) (*dto.MensajeResponse, error)
	ArchivarFacturados(ctx context.Context) (*dto.MensajeResponse, error)
	MarcarPagado(ctx context.Context, id uuid.UUID) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type pedidoService struct {
	repo            repository.PedidoRepository
	clienteRepo     repository.ClienteRepository
	productoRepo    repository.ProductoRepository
	reporteRepo     repository.ReporteRepository
	dispatcher      *worker.Dispatcher
	consolidadoDest string
}

func NewPedidoService(
	repo repository.PedidoRepository,
	clienteRepo repository.ClienteRepository,
	productoRepo repository.ProductoRepository,
	reporteRepo repository.ReporteRepository,
	dispatcher *worker.Dispatcher,
	consolidadoDest string,
) PedidoService {
	return &pedidoService{
		repo:            repo,
		clienteRepo:     clienteRepo,
		productoRepo:    productoRepo,
		reporteRepo:     reporteRepo,
		dispatcher:      dispatcher,
		consolidadoDest: consolidadoDest,
	}
}

// ── Listado ───────────────────────────────────────────────────────────────────

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoListItem, error) {
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	if filter.Estado == "" {
		filter.Estado = model.EstadoConfirmado
	}
	pedidos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PedidoListItem, 0, len(pedidos))
	for i := range pedidos {
		p := &pedidos[i]
		nombre := ""
		if p.Cliente != nil {
			nombre = p.Cliente.NombreCompleto
		}
		items = append(items, dto.PedidoListItem{
			ID:         p.ID.String(),
			Cliente:    nombre,
			Estado:     p.Estado,
			Pagado:     p.Pagado,
			MontoTotal: p.MontoTotal,
			CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return items, nil
}

// ── Detalle ───────────────────────────────────────────────────────────────────
// Display rules for the detail view:
//   - con_flete clients see cost-based prices (unit = precio_costo,
//     line = costo × cantidad); the persisted sale-based rows are untouched.
//   - items sort ascending by product name, case-insensitive.
//   - filtro=huevos hides every non-egg line.
//   - the grand total is recomputed from the visible lines whenever a filter
//     is active or the client is con_flete; otherwise it is the persisted
//     monto_total.

func (s *pedidoService) Detalle(ctx context.Context, id uuid.UUID, filtro string) (*dto.PedidoDetalleResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return s.buildDetalle(p, filtro), nil
}

func (s *pedidoService) buildDetalle(p *model.Pedido, filtro string) *dto.PedidoDetalleResponse {
	conFlete := p.Cliente != nil && p.Cliente.TipoCliente == model.TipoClienteConFlete

	items := make([]dto.PedidoDetalleItem, 0, len(p.Items))
	for _, item := range p.Items {
		nombre, tipo := "", ""
		costo := decimal.Zero
		if item.Producto != nil {
			nombre = item.Producto.Nombre
			tipo = item.Producto.Tipo
			costo = item.Producto.PrecioCosto
		}
		if filtro == FiltroHuevos && tipo != model.TipoHuevo {
			continue
		}

		unitario, total := item.PrecioUnitario, item.PrecioTotal
		if conFlete {
			unitario = costo
			total = costo.Mul(item.Cantidad)
		}

		items = append(items, dto.PedidoDetalleItem{
			ID:             item.ID.String(),
			ProductoID:     item.ProductoID.String(),
			Producto:       nombre,
			Tipo:           tipo,
			Cantidad:       item.Cantidad,
			PrecioUnitario: unitario,
			PrecioTotal:    total,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Producto) < strings.ToLower(items[j].Producto)
	})

	total := decimal.Zero
	if filtro != "" || conFlete {
		for _, it := range items {
			total = total.Add(it.PrecioTotal)
		}
	} else if p.MontoTotal != nil {
		total = *p.MontoTotal
	}

	resp := &dto.PedidoDetalleResponse{
		ID:            p.ID.String(),
		Estado:        p.Estado,
		Pagado:        p.Pagado,
		Items:         items,
		TotalMostrado: total,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.Cliente != nil {
		resp.Cliente = *clienteToResponse(p.Cliente)
	}
	return resp
}

// ── Edición (replace-all) ─────────────────────────────────────────────────────

func (s *pedidoService) EditarItems(ctx context.Context, id uuid.UUID, req dto.EditarPedidoRequest) (*dto.PedidoDetalleResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	if p.Estado == model.EstadoArchivado || p.Estado == model.EstadoCancelado {
		return nil, fmt.Errorf("un pedido %s no puede editarse", p.Estado)
	}

	vistos := make(map[uuid.UUID]bool, len(req.Items))
	items := make([]model.PedidoItem, 0, len(req.Items))
	total := decimal.Zero

	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if vistos[pid] {
			return nil, errors.New("el pedido contiene productos duplicados")
		}
		vistos[pid] = true

		producto, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", it.ProductoID)
		}

		lineTotal := it.PrecioUnitario.Mul(it.Cantidad)
		total = total.Add(lineTotal)
		items = append(items, model.PedidoItem{
			PedidoID:       id,
			ProductoID:     producto.ID,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			PrecioTotal:    lineTotal,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.ReplaceItems(ctx, tx, id, items, total)
	})
	if err != nil {
		return nil, err
	}
	return s.Detalle(ctx, id, "")
}

// ── Carga manual desde texto ──────────────────────────────────────────────────

func (s *pedidoService) CrearDesdeTexto(ctx context.Context, req dto.PedidoManualRequest) (*dto.PedidoDetalleResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		return nil, errors.New("cliente no encontrado")
	}

	catalogo, err := s.productoRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	lineas, err := parsePedidoTexto(req.Texto, catalogo)
	if err != nil {
		return nil, err
	}

	pedido := model.Pedido{
		ClienteID: clienteID,
		Estado:    model.EstadoConfirmado,
	}
	total := decimal.Zero
	for _, l := range lineas {
		precio := decimal.Zero
		if l.Producto.PrecioVenta != nil {
			precio = *l.Producto.PrecioVenta
		}
		lineTotal := precio.Mul(l.Cantidad)
		total = total.Add(lineTotal)
		pedido.Items = append(pedido.Items, model.PedidoItem{
			ProductoID:     l.Producto.ID,
			Cantidad:       l.Cantidad,
			PrecioUnitario: precio,
			PrecioTotal:    lineTotal,
		})
	}
	pedido.MontoTotal = &total

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, &pedido)
	})
	if err != nil {
		return nil, err
	}
	return s.Detalle(ctx, pedido.ID, "")
}

// ── Transiciones de estado ────────────────────────────────────────────────────

func (s *pedidoService) Facturar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}
	if p.Estado != model.EstadoConfirmado {
		return fmt.Errorf("solo un pedido confirmado puede facturarse (estado actual: %s)", p.Estado)
	}
	return s.repo.UpdateEstado(ctx, nil, id, model.EstadoFacturado)
}

func (s *pedidoService) FacturarConfirmados(ctx context.Context) (*dto.MensajeResponse, error) {
	var n int64
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		n, err = s.repo.UpdateEstadoWhere(ctx, tx, model.EstadoConfirmado, model.EstadoFacturado)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Mail the purchase list to the buyer once the batch is invoiced.
	if n > 0 && s.dispatcher != nil && s.consolidadoDest != "" {
		if body, err := s.consolidadoBody(ctx); err == nil {
			_ = s.dispatcher.EnqueueEmail(ctx, map[string]interface{}{
				"to_email": s.consolidadoDest,
				"subject":  fmt.Sprintf("Consolidado de compra (%d pedidos facturados)", n),
				"body":     body,
			})
		}
	}

	return &dto.MensajeResponse{Mensaje: fmt.Sprintf("%d pedidos facturados", n)}, nil
}

func (s *pedidoService) consolidadoBody(ctx context.Context) (string, error) {
	rows, err := s.reporteRepo.Consolidado(ctx, "")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Consolidado de compra\n\n")
	costoTotal := decimal.Zero
	for _, r := range rows {
		fmt.Fprintf(&b, "%-30s %10s  $%s\n", r.ProductoNombre, r.CantidadTotal.String(), r.CostoEstimado.StringFixed(2))
		costoTotal = costoTotal.Add(r.CostoEstimado)
	}
	fmt.Fprintf(&b, "\nCosto total estimado: $%s\n", costoTotal.StringFixed(2))
	return b.String(), nil
}

func (s *pedidoService) ArchivarFacturados(ctx context.Context) (*dto.MensajeResponse, error) {
	var n int64
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		// Unpaid invoices archive too; the debtors report keeps tracking them.
		n, err = s.repo.UpdateEstadoWhere(ctx, tx, model.EstadoFacturado, model.EstadoArchivado)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.MensajeResponse{Mensaje: fmt.Sprintf("%d pedidos archivados", n)}, nil
}

func (s *pedidoService) MarcarPagado(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}
	if p.Pagado {
		return errors.New("el pedido ya está pagado")
	}
	return s.repo.MarcarPagado(ctx, id)
}

func (s *pedidoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("pedido no encontrado")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
