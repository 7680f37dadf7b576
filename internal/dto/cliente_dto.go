package dto

import "github.com/shopspring/decimal"

// ClienteFilter is bound from the query string of GET /v1/clientes.
type ClienteFilter struct {
	// Nombre: case-insensitive substring match.
	Nombre string `form:"nombre"`
	Tipo   string `form:"tipo"` // normal | con_flete | empty = all
}

type GuardarClienteRequest struct {
	NombreCompleto string  `json:"nombre_completo" validate:"required,min=2"`
	Telefono       *string `json:"telefono"`
	TipoCliente    string  `json:"tipo_cliente" validate:"required,oneof=normal con_flete"`
	// TarifaFlete is ignored (and persisted as NULL) unless tipo_cliente
	// is con_flete.
	TarifaFlete *decimal.Decimal `json:"tarifa_flete" validate:"omitempty,min=0"`
}

type ClienteResponse struct {
	ID             string           `json:"id"`
	NombreCompleto string           `json:"nombre_completo"`
	Telefono       *string          `json:"telefono"`
	TipoCliente    string           `json:"tipo_cliente"`
	TarifaFlete    *decimal.Decimal `json:"tarifa_flete"`
	CreatedAt      string           `json:"created_at"`
}
