package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
)

// ErrStockInsuficiente is returned by DecrementStock when the
// conditional update matched no row (missing product or not enough
// stock).
var ErrStockInsuficiente = errors.New("stock insuficiente")

type InventarioRepository interface {
	Create(ctx context.Context, p *model.Inventario) error
	FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Inventario, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string) ([]model.Inventario, error)
	List(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Inventario, error)
	Update(ctx context.Context, p *model.Inventario) error
	Delete(ctx context.Context, id, usuarioID uuid.UUID) error
	// DecrementStock subtracts cantidad atomically, guarded by
	// stock >= cantidad so concurrent expenses cannot oversell.
	DecrementStock(ctx context.Context, id, usuarioID uuid.UUID, cantidad decimal.Decimal) error
	IncrementStock(ctx context.Context, id, usuarioID uuid.UUID, cantidad decimal.Decimal) error
	LowStock(ctx context.Context, usuarioID uuid.UUID, finca string, limite *decimal.Decimal) ([]model.Inventario, error)
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.InventarioStatsResumen, error)
}

type inventarioRepository struct {
	db *gorm.DB
}

func NewInventarioRepository(db *gorm.DB) InventarioRepository {
	return &inventarioRepository{db: db}
}

func (r *inventarioRepository) Create(ctx context.Context, p *model.Inventario) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *inventarioRepository) FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Inventario, error) {
	var p model.Inventario
	err := r.db.WithContext(ctx).
		First(&p, "id = ? AND usuario_id = ?", id, usuarioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *inventarioRepository) FindByIDs(ctx context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string) ([]model.Inventario, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var productos []model.Inventario
	err := r.db.WithContext(ctx).
		Where("id IN ? AND usuario_id = ? AND finca = ?", ids, usuarioID, finca).
		Find(&productos).Error
	return productos, err
}

func (r *inventarioRepository) List(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Inventario, error) {
	var productos []model.Inventario
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *inventarioRepository) Update(ctx context.Context, p *model.Inventario) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *inventarioRepository) Delete(ctx context.Context, id, usuarioID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		Delete(&model.Inventario{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *inventarioRepository) DecrementStock(ctx context.Context, id, usuarioID uuid.UUID, cantidad decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("id = ? AND usuario_id = ? AND stock >= ?", id, usuarioID, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockInsuficiente
	}
	return nil
}

func (r *inventarioRepository) IncrementStock(ctx context.Context, id, usuarioID uuid.UUID, cantidad decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		Update("stock", gorm.Expr("stock + ?", cantidad)).Error
}

func (r *inventarioRepository) LowStock(ctx context.Context, usuarioID uuid.UUID, finca string, limite *decimal.Decimal) ([]model.Inventario, error) {
	q := r.db.WithContext(ctx).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca)
	if limite != nil {
		q = q.Where("stock <= ?", *limite)
	} else {
		q = q.Where("stock <= stock_minimo")
	}

	var productos []model.Inventario
	err := q.Order("stock ASC").Find(&productos).Error
	return productos, err
}

func (r *inventarioRepository) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.InventarioStatsResumen, error) {
	var stats dto.InventarioStatsResumen
	scope := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca)

	var row struct {
		Cantidad int64
		Valor    decimal.Decimal
	}
	if err := scope.Session(&gorm.Session{}).
		Select("COUNT(*) AS cantidad, COALESCE(SUM(stock * precio), 0) AS valor").
		Scan(&row).Error; err != nil {
		return stats, err
	}
	stats.TotalProductos = row.Cantidad
	stats.ValorTotal = row.Valor

	var porCategoria []dto.CategoriaStats
	if err := scope.Session(&gorm.Session{}).
		Select("categoria, COUNT(*) AS cantidad, COALESCE(SUM(stock * precio), 0) AS valor_total").
		Group("categoria").
		Order("categoria ASC").
		Scan(&porCategoria).Error; err != nil {
		return stats, err
	}
	stats.PorCategoria = porCategoria
	return stats, nil
}
