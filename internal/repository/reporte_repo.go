package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row types scanned out of the raw aggregation queries.

type ConsolidadoRow struct {
	ProductoNombre string
	CantidadTotal  decimal.Decimal
	CostoEstimado  decimal.Decimal
}

type DeudorRow struct {
	Cliente string
	Deuda   decimal.Decimal
}

type VentaHuevoRow struct {
	ProductoNombre string
	Cliente        string
	Cantidad       decimal.Decimal
}

type PedidoHuevoRow struct {
	PedidoID    string
	Cliente     string
	TotalHuevos decimal.Decimal
	CreatedAt   time.Time
}

type NegocioTotalesRow struct {
	Ingresos decimal.Decimal
	Ganancia decimal.Decimal
	Pedidos  int64
}

type RankingRow struct {
	Nombre   string
	Ganancia decimal.Decimal
}

type KPIRow struct {
	PedidosNuevos  int64
	IngresosDelMes decimal.Decimal
}

// ReporteRepository runs the aggregation queries behind the report endpoints.
// Everything here is read-only raw SQL over pedidos/pedido_items.
type ReporteRepository interface {
	Consolidado(ctx context.Context, tipoCliente string) ([]ConsolidadoRow, error)
	Deudores(ctx context.Context) ([]DeudorRow, error)
	VentasHuevos(ctx context.Context, desde time.Time) ([]VentaHuevoRow, error)
	PedidosConHuevos(ctx context.Context) ([]PedidoHuevoRow, error)
	NegocioTotales(ctx context.Context, desde time.Time) (NegocioTotalesRow, error)
	TopProductosPorGanancia(ctx context.Context, desde time.Time, limit int) ([]RankingRow, error)
	TopClientesPorGanancia(ctx context.Context, desde time.Time, limit int) ([]RankingRow, error)
	KPIs(ctx context.Context) (KPIRow, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) Consolidado(ctx context.Context, tipoCliente string) ([]ConsolidadoRow, error) {
	var rows []ConsolidadoRow
	q := `
		SELECT p.nombre AS producto_nombre,
		       SUM(pi.cantidad) AS cantidad_total,
		       SUM(pi.cantidad * p.precio_costo) AS costo_estimado
		FROM pedido_items pi
		JOIN pedidos pe ON pe.id = pi.pedido_id
		JOIN productos p ON p.id = pi.producto_id
		JOIN clientes c ON c.id = pe.cliente_id
		WHERE pe.estado = 'facturado'`
	args := []any{}
	if tipoCliente != "" {
		q += ` AND c.tipo_cliente = ?`
		args = append(args, tipoCliente)
	}
	q += `
		GROUP BY p.nombre
		ORDER BY p.nombre`
	err := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) Deudores(ctx context.Context) ([]DeudorRow, error) {
	var rows []DeudorRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.nombre_completo AS cliente,
		       SUM(pe.monto_total) AS deuda
		FROM pedidos pe
		JOIN clientes c ON c.id = pe.cliente_id
		WHERE pe.estado IN ('facturado', 'archivado')
		  AND pe.pagado = false
		  AND pe.monto_total IS NOT NULL
		GROUP BY c.nombre_completo
		ORDER BY deuda DESC`).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) VentasHuevos(ctx context.Context, desde time.Time) ([]VentaHuevoRow, error) {
	var rows []VentaHuevoRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.nombre AS producto_nombre,
		       c.nombre_completo AS cliente,
		       SUM(pi.cantidad) AS cantidad
		FROM pedido_items pi
		JOIN pedidos pe ON pe.id = pi.pedido_id
		JOIN productos p ON p.id = pi.producto_id
		JOIN clientes c ON c.id = pe.cliente_id
		WHERE p.tipo = 'huevo'
		  AND pe.estado IN ('confirmado', 'facturado', 'archivado')
		  AND pe.created_at >= ?
		GROUP BY p.nombre, c.nombre_completo
		ORDER BY p.nombre, cantidad DESC`, desde).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) PedidosConHuevos(ctx context.Context) ([]PedidoHuevoRow, error) {
	var rows []PedidoHuevoRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT pe.id AS pedido_id,
		       c.nombre_completo AS cliente,
		       SUM(pi.cantidad) AS total_huevos,
		       pe.created_at
		FROM pedidos pe
		JOIN clientes c ON c.id = pe.cliente_id
		JOIN pedido_items pi ON pi.pedido_id = pe.id
		JOIN productos p ON p.id = pi.producto_id
		WHERE p.tipo = 'huevo'
		  AND pe.estado = 'confirmado'
		GROUP BY pe.id, c.nombre_completo, pe.created_at
		ORDER BY pe.created_at DESC`).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) NegocioTotales(ctx context.Context, desde time.Time) (NegocioTotalesRow, error) {
	var row NegocioTotalesRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(pi.precio_total), 0) AS ingresos,
		       COALESCE(SUM(pi.precio_total - pi.cantidad * p.precio_costo), 0) AS ganancia,
		       COUNT(DISTINCT pe.id) AS pedidos
		FROM pedidos pe
		JOIN pedido_items pi ON pi.pedido_id = pe.id
		JOIN productos p ON p.id = pi.producto_id
		WHERE pe.estado IN ('facturado', 'archivado')
		  AND pe.created_at >= ?`, desde).Scan(&row).Error
	return row, err
}

func (r *reporteRepo) TopProductosPorGanancia(ctx context.Context, desde time.Time, limit int) ([]RankingRow, error) {
	var rows []RankingRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.nombre AS nombre,
		       SUM(pi.precio_total - pi.cantidad * p.precio_costo) AS ganancia
		FROM pedido_items pi
		JOIN pedidos pe ON pe.id = pi.pedido_id
		JOIN productos p ON p.id = pi.producto_id
		WHERE pe.estado IN ('facturado', 'archivado')
		  AND pe.created_at >= ?
		GROUP BY p.nombre
		ORDER BY ganancia DESC
		LIMIT ?`, desde, limit).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) TopClientesPorGanancia(ctx context.Context, desde time.Time, limit int) ([]RankingRow, error) {
	var rows []RankingRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.nombre_completo AS nombre,
		       SUM(pi.precio_total - pi.cantidad * p.precio_costo) AS ganancia
		FROM pedido_items pi
		JOIN pedidos pe ON pe.id = pi.pedido_id
		JOIN productos p ON p.id = pi.producto_id
		JOIN clientes c ON c.id = pe.cliente_id
		WHERE pe.estado IN ('facturado', 'archivado')
		  AND pe.created_at >= ?
		GROUP BY c.nombre_completo
		ORDER BY ganancia DESC
		LIMIT ?`, desde, limit).Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) KPIs(ctx context.Context) (KPIRow, error) {
	var row KPIRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT (SELECT COUNT(*) FROM pedidos WHERE estado = 'confirmado') AS pedidos_nuevos,
		       (SELECT COALESCE(SUM(monto_total), 0)
		        FROM pedidos
		        WHERE estado IN ('facturado', 'archivado')
		          AND pagado = true
		          AND created_at >= date_trunc('month', CURRENT_DATE)) AS ingresos_del_mes`).Scan(&row).Error
	return row, err
}
