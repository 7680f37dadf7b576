package repository

import (
	"context"

	"distriverde/internal/dto"
	"distriverde/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error)
	// ReplaceItems deletes the order's items and inserts the given set,
	// persisting montoTotal in the same transaction.
	ReplaceItems(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID, items []model.PedidoItem, montoTotal decimal.Decimal) error
	UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado string) error
	// UpdateEstadoWhere moves every order in estado `desde` to `hasta` and
	// reports how many rows changed.
	UpdateEstadoWhere(ctx context.Context, tx *gorm.DB, desde, hasta string) (int64, error)
	MarcarPagado(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// SincronizarPrecios reprices the items of every confirmed order to the
	// product's current sale price and recomputes order totals. Returns the
	// number of item rows touched.
	SincronizarPrecios(ctx context.Context, tx *gorm.DB) (int64, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Items.Producto").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	q := r.db.WithContext(ctx).Model(&model.Pedido{}).Preload("Cliente")

	if filter.Estado != "" && filter.Estado != "todos" {
		q = q.Where("estado = ?", filter.Estado)
	}

	err := q.Order("created_at DESC").Limit(filter.Limit).Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ReplaceItems(ctx context.Context, tx *gorm.DB, pedidoID uuid.UUID, items []model.PedidoItem, montoTotal decimal.Decimal) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("pedido_id = ?", pedidoID).Delete(&model.PedidoItem{}).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
	}
	return tx.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ?", pedidoID).
		Update("monto_total", montoTotal).Error
}

func (r *pedidoRepo) UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) UpdateEstadoWhere(ctx context.Context, tx *gorm.DB, desde, hasta string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&model.Pedido{}).
		Where("estado = ?", desde).
		Update("estado", hasta)
	return res.RowsAffected, res.Error
}

func (r *pedidoRepo) MarcarPagado(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("pagado", true).Error
}

func (r *pedidoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("pedido_id = ?", id).Delete(&model.PedidoItem{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Delete(&model.Pedido{}, id).Error
}

func (r *pedidoRepo) SincronizarPrecios(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE pedido_items pi
		SET precio_unitario = p.precio_venta,
		    precio_total    = pi.cantidad * p.precio_venta
		FROM productos p, pedidos pe
		WHERE pi.producto_id = p.id
		  AND pi.pedido_id = pe.id
		  AND pe.estado = 'confirmado'
		  AND p.precio_venta IS NOT NULL`)
	if res.Error != nil {
		return 0, res.Error
	}

	err := tx.WithContext(ctx).Exec(`
		UPDATE pedidos pe
		SET monto_total = sub.total
		FROM (
			SELECT pedido_id, SUM(precio_total) AS total
			FROM pedido_items
			GROUP BY pedido_id
		) sub
		WHERE pe.id = sub.pedido_id
		  AND pe.estado = 'confirmado'`).Error

	return res.RowsAffected, err
}
