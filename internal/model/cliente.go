package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TipoClienteNormal   = "normal"
	TipoClienteConFlete = "con_flete"
)

// Cliente is a buyer account. Con-flete clients buy at cost and pay a
// separate freight fee, so TarifaFlete is only set for them.
type Cliente struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreCompleto string    `gorm:"index;not null"`
	Telefono       *string
	TipoCliente    string           `gorm:"type:varchar(20);not null;default:'normal'"`
	TarifaFlete    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
