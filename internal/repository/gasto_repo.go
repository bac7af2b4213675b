package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Gasto, error)
	List(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.GastoFiltros) ([]model.Gasto, error)
	// Delete only removes unsettled rows; a concurrently claimed row is
	// left intact and the call fails with ErrForbidden.
	Delete(ctx context.Context, id, usuarioID uuid.UUID) error
	Pendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Gasto, error)
	Claim(ctx context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string, liquidacionID uuid.UUID) (int64, error)
	FindByLiquidacion(ctx context.Context, liquidacionID uuid.UUID) ([]model.Gasto, error)
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.GastoStatsResumen, error)
}

type gastoRepository struct {
	db *gorm.DB
}

func NewGastoRepository(db *gorm.DB) GastoRepository {
	return &gastoRepository{db: db}
}

func (r *gastoRepository) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepository) FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).Preload("Consumos").
		First(&g, "id = ? AND usuario_id = ?", id, usuarioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gastoRepository) List(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.GastoFiltros) ([]model.Gasto, error) {
	q := r.db.WithContext(ctx).Preload("Consumos").
		Where("usuario_id = ? AND finca = ?", usuarioID, finca)
	if f.FechaInicio != nil {
		q = q.Where("fecha >= ?", *f.FechaInicio)
	}
	if f.FechaFin != nil {
		q = q.Where("fecha <= ?", *f.FechaFin)
	}
	limite := f.Limite
	if limite <= 0 {
		limite = 100
	}

	var gastos []model.Gasto
	err := q.Order("fecha DESC").Limit(limite).Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepository) Delete(ctx context.Context, id, usuarioID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ? AND liquidada = false", id, usuarioID).
		Delete(&model.Gasto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.Gasto{}).
			Where("id = ? AND usuario_id = ?", id, usuarioID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apierror.ErrForbidden
		}
		return apierror.ErrNotFound
	}
	return nil
}

func (r *gastoRepository) Pendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).Preload("Consumos").
		Where("usuario_id = ? AND finca = ? AND liquidada = false", usuarioID, finca).
		Order("fecha DESC").
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepository) Claim(ctx context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string, liquidacionID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Gasto{}).
		Where("id IN ? AND usuario_id = ? AND finca = ? AND liquidada = false", ids, usuarioID, finca).
		Updates(map[string]interface{}{
			"liquidada":         true,
			"liquidacion_id":    liquidacionID,
			"fecha_liquidacion": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *gastoRepository) FindByLiquidacion(ctx context.Context, liquidacionID uuid.UUID) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).Preload("Consumos").
		Where("liquidacion_id = ?", liquidacionID).
		Order("fecha DESC").
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepository) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.GastoStatsResumen, error) {
	var stats dto.GastoStatsResumen
	scope := r.db.WithContext(ctx).Model(&model.Gasto{}).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca)

	var row struct {
		Total    decimal.Decimal
		Cantidad int64
	}
	if err := scope.Session(&gorm.Session{}).
		Select("COALESCE(SUM(valor), 0) AS total, COUNT(*) AS cantidad").
		Scan(&row).Error; err != nil {
		return stats, err
	}
	stats.TotalHistorico = row.Total
	stats.Cantidad = row.Cantidad

	var mes struct{ Total decimal.Decimal }
	if err := scope.Session(&gorm.Session{}).
		Where("fecha >= date_trunc('month', now())").
		Select("COALESCE(SUM(valor), 0) AS total").
		Scan(&mes).Error; err != nil {
		return stats, err
	}
	stats.TotalMes = mes.Total

	if err := scope.Session(&gorm.Session{}).
		Where("liquidada = false").
		Count(&stats.Pendientes).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
