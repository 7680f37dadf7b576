package service

import (
	"context"
	"encoding/json"
	"time"

	"distriverde/internal/dto"
	"distriverde/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	kpiCacheKey = "cache:kpis"
	kpiCacheTTL = 5 * time.Minute

	// topCompradores caps the buyer breakdown per egg product.
	topCompradores = 3

	// umbralBajoStock: egg products below this count flag the dashboard.
	umbralBajoStock = 30
)

type ReporteService interface {
	Consolidado(ctx context.Context, filter dto.ConsolidadoFilter) (*dto.ConsolidadoResponse, error)
	Deudores(ctx context.Context) (*dto.DeudoresResponse, error)
	Huevos(ctx context.Context, periodDays int) ([]dto.HuevoReporteItem, error)
	PedidosConHuevos(ctx context.Context) ([]dto.PedidoConHuevos, error)
	Negocio(ctx context.Context, periodDays int) (*dto.NegocioReporteResponse, error)
	KPIs(ctx context.Context) (*dto.KPIResponse, error)
}

type reporteService struct {
	repo         repository.ReporteRepository
	productoRepo repository.ProductoRepository
	rdb          *redis.Client
}

func NewReporteService(repo repository.ReporteRepository, productoRepo repository.ProductoRepository, rdb *redis.Client) ReporteService {
	return &reporteService{repo: repo, productoRepo: productoRepo, rdb: rdb}
}

func (s *reporteService) Consolidado(ctx context.Context, filter dto.ConsolidadoFilter) (*dto.ConsolidadoResponse, error) {
	rows, err := s.repo.Consolidado(ctx, tipoClienteFromTab(filter.TipoCliente))
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsolidadoResponse{Items: make([]dto.ConsolidadoItem, 0, len(rows))}
	for _, r := range rows {
		resp.Items = append(resp.Items, dto.ConsolidadoItem{
			ProductoNombre: r.ProductoNombre,
			CantidadTotal:  r.CantidadTotal,
			CostoEstimado:  r.CostoEstimado,
		})
		resp.CostoTotal = resp.CostoTotal.Add(r.CostoEstimado)
	}
	return resp, nil
}

// tipoClienteFromTab maps the frontend tab labels to the column values.
func tipoClienteFromTab(tab string) string {
	switch tab {
	case "Normal":
		return "normal"
	case "CostoConFlete":
		return "con_flete"
	default:
		return ""
	}
}

func (s *reporteService) Deudores(ctx context.Context) (*dto.DeudoresResponse, error) {
	rows, err := s.repo.Deudores(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.DeudoresResponse{Deudores: make([]dto.DeudorItem, 0, len(rows))}
	for _, r := range rows {
		resp.Deudores = append(resp.Deudores, dto.DeudorItem{Cliente: r.Cliente, Deuda: r.Deuda})
		resp.DeudaTotal = resp.DeudaTotal.Add(r.Deuda)
	}
	return resp, nil
}

func (s *reporteService) Huevos(ctx context.Context, periodDays int) ([]dto.HuevoReporteItem, error) {
	if periodDays < 1 {
		periodDays = 30
	}
	desde := time.Now().AddDate(0, 0, -periodDays)
	rows, err := s.repo.VentasHuevos(ctx, desde)
	if err != nil {
		return nil, err
	}

	// Rows arrive ordered by product then quantity desc, so grouping
	// sequentially keeps the buyer ranking intact.
	var items []dto.HuevoReporteItem
	for _, r := range rows {
		if len(items) == 0 || items[len(items)-1].ProductoNombre != r.ProductoNombre {
			items = append(items, dto.HuevoReporteItem{ProductoNombre: r.ProductoNombre})
		}
		last := &items[len(items)-1]
		last.TotalVendido = last.TotalVendido.Add(r.Cantidad)
		if len(last.Compradores) < topCompradores {
			last.Compradores = append(last.Compradores, dto.CompradorHuevo{
				Cliente:  r.Cliente,
				Cantidad: r.Cantidad,
			})
		}
	}
	return items, nil
}

func (s *reporteService) PedidosConHuevos(ctx context.Context) ([]dto.PedidoConHuevos, error) {
	rows, err := s.repo.PedidosConHuevos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PedidoConHuevos, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.PedidoConHuevos{
			ID:          r.PedidoID,
			Cliente:     r.Cliente,
			TotalHuevos: r.TotalHuevos,
			CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return resp, nil
}

func (s *reporteService) Negocio(ctx context.Context, periodDays int) (*dto.NegocioReporteResponse, error) {
	if periodDays < 1 {
		periodDays = 30
	}
	desde := time.Now().AddDate(0, 0, -periodDays)

	totales, err := s.repo.NegocioTotales(ctx, desde)
	if err != nil {
		return nil, err
	}
	topProductos, err := s.repo.TopProductosPorGanancia(ctx, desde, 5)
	if err != nil {
		return nil, err
	}
	topClientes, err := s.repo.TopClientesPorGanancia(ctx, desde, 5)
	if err != nil {
		return nil, err
	}

	resp := &dto.NegocioReporteResponse{
		IngresosTotales: totales.Ingresos,
		GananciaTotal:   totales.Ganancia,
		TotalPedidos:    totales.Pedidos,
		TopProductos:    make([]dto.RankingEntry, 0, len(topProductos)),
		TopClientes:     make([]dto.RankingEntry, 0, len(topClientes)),
	}
	for _, r := range topProductos {
		resp.TopProductos = append(resp.TopProductos, dto.RankingEntry{Nombre: r.Nombre, Ganancia: r.Ganancia})
	}
	for _, r := range topClientes {
		resp.TopClientes = append(resp.TopClientes, dto.RankingEntry{Nombre: r.Nombre, Ganancia: r.Ganancia})
	}
	return resp, nil
}

// KPIs serves the dashboard header. Cache-aside over Redis: the three
// aggregates hit every page load and tolerate 5 minutes of staleness.
func (s *reporteService) KPIs(ctx context.Context) (*dto.KPIResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, kpiCacheKey).Result(); err == nil {
			var resp dto.KPIResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	row, err := s.repo.KPIs(ctx)
	if err != nil {
		return nil, err
	}
	bajoStock, err := s.productoRepo.CountBajoStock(ctx, umbralBajoStock)
	if err != nil {
		return nil, err
	}

	resp := &dto.KPIResponse{
		PedidosNuevos:      row.PedidosNuevos,
		IngresosDelMes:     row.IngresosDelMes,
		ProductosBajoStock: bajoStock,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, kpiCacheKey, data, kpiCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear KPIs")
			}
		}
	}
	return resp, nil
}
