package dto

import "github.com/shopspring/decimal"

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Tipo   string `form:"tipo"` // verduleria | huevo | empty = all
	// Estado: "inactivo" = archived only, "todos" = everything,
	// anything else = active only (default).
	Estado string `form:"estado"`
}

type CrearProductoRequest struct {
	Nombre      string           `json:"nombre" validate:"required,min=2"`
	Tipo        string           `json:"tipo" validate:"required,oneof=verduleria huevo"`
	PrecioCosto decimal.Decimal  `json:"precio_costo" validate:"min=0"`
	PrecioVenta *decimal.Decimal `json:"precio_venta" validate:"omitempty,min=0"`
	// StockCantidad only applies to tipo huevo; forced to 0 otherwise.
	StockCantidad int `json:"stock_cantidad" validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre        *string          `json:"nombre" validate:"omitempty,min=2"`
	Tipo          *string          `json:"tipo" validate:"omitempty,oneof=verduleria huevo"`
	PrecioCosto   *decimal.Decimal `json:"precio_costo" validate:"omitempty,min=0"`
	PrecioVenta   *decimal.Decimal `json:"precio_venta" validate:"omitempty,min=0"`
	StockCantidad *int             `json:"stock_cantidad" validate:"omitempty,min=0"`
}

type AjustarStockRequest struct {
	StockCantidad int `json:"stock_cantidad" validate:"min=0"`
}

// AjustarYSincronizarRequest lists products whose missing sale price should
// be backfilled from cost before the global price sync runs.
type AjustarYSincronizarRequest struct {
	ProductoIDs []string `json:"producto_ids" validate:"required,min=1,dive,uuid"`
}

type ProductoResponse struct {
	ID            string           `json:"id"`
	Nombre        string           `json:"nombre"`
	Tipo          string           `json:"tipo"`
	StockCantidad int              `json:"stock_cantidad"`
	PrecioCosto   decimal.Decimal  `json:"precio_costo"`
	PrecioVenta   *decimal.Decimal `json:"precio_venta"`
	Estado        string           `json:"estado"`
}

// MensajeResponse carries the success message string returned by the
// procedure-style endpoints.
type MensajeResponse struct {
	Mensaje string `json:"mensaje"`
}
