package dto

import "github.com/shopspring/decimal"

// ─── Consolidado (purchase list) ────────────────────────────────────────────

// ConsolidadoFilter selects which client segment the purchase list covers.
// Tab values match the frontend: "" (total) | "Normal" | "CostoConFlete".
type ConsolidadoFilter struct {
	TipoCliente string `form:"tipo_cliente"`
}

type ConsolidadoItem struct {
	ProductoNombre string          `json:"producto_nombre"`
	CantidadTotal  decimal.Decimal `json:"cantidad_total"`
	CostoEstimado  decimal.Decimal `json:"costo_estimado"`
}

type ConsolidadoResponse struct {
	Items      []ConsolidadoItem `json:"items"`
	CostoTotal decimal.Decimal   `json:"costo_total"`
}

// ─── Deudores ───────────────────────────────────────────────────────────────

type DeudorItem struct {
	Cliente string          `json:"cliente"`
	Deuda   decimal.Decimal `json:"deuda"`
}

type DeudoresResponse struct {
	Deudores   []DeudorItem    `json:"deudores"`
	DeudaTotal decimal.Decimal `json:"deuda_total"`
}

// ─── Huevos ─────────────────────────────────────────────────────────────────

type PeriodoFilter struct {
	PeriodDays int `form:"period_days,default=30" validate:"min=1,max=365"`
}

type CompradorHuevo struct {
	Cliente  string          `json:"cliente"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

type HuevoReporteItem struct {
	ProductoNombre string           `json:"producto_nombre"`
	TotalVendido   decimal.Decimal  `json:"total_vendido"`
	Compradores    []CompradorHuevo `json:"compradores"`
}

type PedidoConHuevos struct {
	ID          string          `json:"id"`
	Cliente     string          `json:"cliente"`
	TotalHuevos decimal.Decimal `json:"total_huevos"`
	CreatedAt   string          `json:"created_at"`
}

// ─── Negocio (profitability) ────────────────────────────────────────────────

type RankingEntry struct {
	Nombre   string          `json:"nombre"`
	Ganancia decimal.Decimal `json:"ganancia"`
}

type NegocioReporteResponse struct {
	IngresosTotales decimal.Decimal `json:"ingresos_totales"`
	GananciaTotal   decimal.Decimal `json:"ganancia_total"`
	TotalPedidos    int64           `json:"total_pedidos"`
	TopProductos    []RankingEntry  `json:"top_productos"`
	TopClientes     []RankingEntry  `json:"top_clientes"`
}

// ─── Dashboard KPIs ─────────────────────────────────────────────────────────

type KPIResponse struct {
	PedidosNuevos      int64           `json:"pedidos_nuevos"`
	IngresosDelMes     decimal.Decimal `json:"ingresos_del_mes"`
	ProductosBajoStock int64           `json:"productos_bajo_stock"`
}
