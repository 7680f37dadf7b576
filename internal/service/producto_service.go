package service

import (
	"context"
	"errors"
	"fmt"

	"distriverde/internal/dto"
	"distriverde/internal/model"
	"distriverde/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	Archivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	AjustarStock(ctx context.Context, id uuid.UUID, cantidad int) (*dto.ProductoResponse, error)
	// SincronizarPrecios reprices every confirmed order's items to current
	// sale prices. Fails when any active product still lacks a sale price.
	SincronizarPrecios(ctx context.Context) (*dto.MensajeResponse, error)
	// AjustarYSincronizar backfills missing sale prices from cost for the
	// given products, then runs the full sync, atomically.
	AjustarYSincronizar(ctx context.Context, req dto.AjustarYSincronizarRequest) (*dto.MensajeResponse, error)
}

type productoService struct {
	repo       repository.ProductoRepository
	pedidoRepo repository.PedidoRepository
}

func NewProductoService(repo repository.ProductoRepository, pedidoRepo repository.PedidoRepository) ProductoService {
	return &productoService{repo: repo, pedidoRepo: pedidoRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:      req.Nombre,
		Tipo:        req.Tipo,
		PrecioCosto: req.PrecioCosto,
		PrecioVenta: req.PrecioVenta,
		Estado:      model.ProductoActivo,
	}
	if req.Tipo == model.TipoHuevo {
		p.StockCantidad = req.StockCantidad
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Tipo != nil {
		p.Tipo = *req.Tipo
	}
	if req.PrecioCosto != nil {
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = req.PrecioVenta
	}
	if req.StockCantidad != nil {
		if p.Tipo != model.TipoHuevo {
			return nil, errors.New("solo los productos de tipo huevo llevan stock")
		}
		p.StockCantidad = *req.StockCantidad
	}
	if p.Tipo != model.TipoHuevo {
		p.StockCantidad = 0
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = *productoToResponse(&productos[i])
	}
	return resp, nil
}

func (s *productoService) Archivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	return s.repo.UpdateEstado(ctx, id, model.ProductoInactivo)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	return s.repo.UpdateEstado(ctx, id, model.ProductoActivo)
}

func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, cantidad int) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if p.Tipo != model.TipoHuevo {
		return nil, errors.New("solo los productos de tipo huevo llevan stock")
	}
	p.StockCantidad = cantidad
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) SincronizarPrecios(ctx context.Context) (*dto.MensajeResponse, error) {
	if err := s.checkPreciosCompletos(ctx); err != nil {
		return nil, err
	}
	var touched int64
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.pedidoRepo.SincronizarPrecios(ctx, tx)
		touched = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.MensajeResponse{
		Mensaje: fmt.Sprintf("Precios sincronizados: %d items actualizados", touched),
	}, nil
}

func (s *productoService) AjustarYSincronizar(ctx context.Context, req dto.AjustarYSincronizarRequest) (*dto.MensajeResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.ProductoIDs))
	for _, raw := range req.ProductoIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		ids = append(ids, id)
	}

	var ajustados, touched int64
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.SetPrecioVentaDesdeCosto(ctx, tx, ids)
		if err != nil {
			return err
		}
		ajustados = n
		touched, err = s.pedidoRepo.SincronizarPrecios(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.MensajeResponse{
		Mensaje: fmt.Sprintf("%d precios ajustados al costo, %d items sincronizados", ajustados, touched),
	}, nil
}

// checkPreciosCompletos rejects the sync while any active product has no
// sale price, so confirmed orders never get repriced to NULL.
func (s *productoService) checkPreciosCompletos(ctx context.Context) error {
	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return err
	}
	var sinPrecio []string
	for _, p := range productos {
		if p.PrecioVenta == nil {
			sinPrecio = append(sinPrecio, p.Nombre)
		}
	}
	if len(sinPrecio) > 0 {
		return fmt.Errorf("productos sin precio de venta: %v", sinPrecio)
	}
	return nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		Tipo:          p.Tipo,
		StockCantidad: p.StockCantidad,
		PrecioCosto:   p.PrecioCosto,
		PrecioVenta:   p.PrecioVenta,
		Estado:        p.Estado,
	}
}
