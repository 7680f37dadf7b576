package repository

import (
	"context"

	"distriverde/internal/dto"
	"distriverde/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	// SetPrecioVentaDesdeCosto backfills precio_venta = precio_costo for the
	// given products where precio_venta is NULL.
	SetPrecioVentaDesdeCosto(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
	CountBajoStock(ctx context.Context, umbral int) (int64, error)
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch filter.Estado {
	case "todos":
	case "inactivo":
		q = q.Where("estado = ?", "inactivo")
	default:
		q = q.Where("estado = ?", "activo")
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	err := q.Order("nombre").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("estado = ?", "activo").Order("nombre").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) SetPrecioVentaDesdeCosto(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&model.Producto{}).
		Where("id IN ? AND precio_venta IS NULL", ids).
		Update("precio_venta", gorm.Expr("precio_costo"))
	return res.RowsAffected, res.Error
}

func (r *productoRepo) CountBajoStock(ctx context.Context, umbral int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("tipo = ? AND estado = ? AND stock_cantidad < ?", "huevo", "activo", umbral).
		Count(&n).Error
	return n, err
}
