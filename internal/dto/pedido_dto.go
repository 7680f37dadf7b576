package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	// Estado: confirmado | facturado | archivado | todos (default confirmado)
	Estado string `form:"estado,default=confirmado"`
	Limit  int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type PedidoListItem struct {
	ID         string           `json:"id"`
	Cliente    string           `json:"cliente"`
	Estado     string           `json:"estado"`
	Pagado     bool             `json:"pagado"`
	MontoTotal *decimal.Decimal `json:"monto_total"`
	CreatedAt  string           `json:"created_at"`
}

// ─── Detail view ────────────────────────────────────────────────────────────

// PedidoDetalleItem is one line of the order detail view. For con-flete
// clients PrecioUnitario/PrecioTotal carry the cost-based display values,
// not the persisted sale-based ones.
type PedidoDetalleItem struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	PrecioTotal    decimal.Decimal `json:"precio_total"`
}

type PedidoDetalleResponse struct {
	ID            string              `json:"id"`
	Estado        string              `json:"estado"`
	Pagado        bool                `json:"pagado"`
	Cliente       ClienteResponse     `json:"cliente"`
	Items         []PedidoDetalleItem `json:"items"`
	// TotalMostrado follows the display rule: recomputed from the visible
	// items when a filter is active or the client is con_flete, the
	// persisted monto_total otherwise.
	TotalMostrado decimal.Decimal `json:"total_mostrado"`
	CreatedAt     string          `json:"created_at"`
}

// ─── Replace-all edit ───────────────────────────────────────────────────────

type EditarItemRequest struct {
	ProductoID     string          `json:"producto_id" validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"min=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

// EditarPedidoRequest replaces the order's whole item set. An empty list is
// valid and leaves the order without items.
type EditarPedidoRequest struct {
	Items []EditarItemRequest `json:"items" validate:"dive"`
}

// ─── Manual order entry ─────────────────────────────────────────────────────

type PedidoManualRequest struct {
	ClienteID string `json:"cliente_id" validate:"required,uuid"`
	// Texto holds the pasted product list, one "<cantidad> <producto>"
	// entry per line.
	Texto string `json:"texto" validate:"required"`
}
