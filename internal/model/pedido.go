package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido lifecycle: en_carrito → confirmado → facturado → archivado.
// cancelado is terminal from any pre-facturado state.
const (
	EstadoEnCarrito  = "en_carrito"
	EstadoConfirmado = "confirmado"
	EstadoFacturado  = "facturado"
	EstadoArchivado  = "archivado"
	EstadoCancelado  = "cancelado"
)

type Pedido struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Estado     string           `gorm:"type:varchar(20);not null;index;default:'confirmado'"`
	Pagado     bool             `gorm:"not null;default:false"`
	MontoTotal *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
	Items   []PedidoItem `gorm:"foreignKey:PedidoID"`
}

// PedidoItem quantities are decimal: produce is sold by fractional weight
// (e.g. 0.5 kg), eggs by whole units.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
