package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TipoVerduleria = "verduleria"
	TipoHuevo      = "huevo"

	ProductoActivo   = "activo"
	ProductoInactivo = "inactivo"
)

// Producto is a catalog entry.
// Tipo: "verduleria" | "huevo". Stock is only tracked for the egg business
// unit; produce rotates daily and carries no stock figure.
// Estado: "activo" | "inactivo" — soft delete flag.
type Producto struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string           `gorm:"uniqueIndex;not null"`
	Tipo          string           `gorm:"type:varchar(20);not null;default:'verduleria'"`
	StockCantidad int              `gorm:"not null;default:0"`
	PrecioCosto   decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	PrecioVenta   *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Estado        string           `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
