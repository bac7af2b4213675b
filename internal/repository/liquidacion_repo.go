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

type HistorialFiltros struct {
	FechaInicio *time.Time
	FechaFin    *time.Time
	Limite      int
}

type LiquidacionRepository interface {
	Create(ctx context.Context, l *model.Liquidacion) error
	FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Liquidacion, error)
	// Ultima returns the most recent settlement for the farm, nil when
	// the farm has never been settled.
	Ultima(ctx context.Context, usuarioID uuid.UUID, finca string) (*model.Liquidacion, error)
	Historial(ctx context.Context, usuarioID uuid.UUID, finca string, f HistorialFiltros) ([]model.Liquidacion, error)
	// Cancelar flips estado completada -> cancelada. Already-cancelled
	// settlements report ErrNotFound through the conditional update.
	Cancelar(ctx context.Context, id, usuarioID uuid.UUID) error
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.LiquidacionStats, error)
}

type liquidacionRepository struct {
	db *gorm.DB
}

func NewLiquidacionRepository(db *gorm.DB) LiquidacionRepository {
	return &liquidacionRepository{db: db}
}

func (r *liquidacionRepository) Create(ctx context.Context, l *model.Liquidacion) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *liquidacionRepository) FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Liquidacion, error) {
	var l model.Liquidacion
	err := r.db.WithContext(ctx).
		Preload("EntradasLiquidadas").
		Preload("GastosLiquidados").
		Preload("InventarioUsado").
		First(&l, "id = ? AND usuario_id = ?", id, usuarioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *liquidacionRepository) Ultima(ctx context.Context, usuarioID uuid.UUID, finca string) (*model.Liquidacion, error) {
	var l model.Liquidacion
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca).
		Order("fecha DESC").
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *liquidacionRepository) Historial(ctx context.Context, usuarioID uuid.UUID, finca string, f HistorialFiltros) ([]model.Liquidacion, error) {
	q := r.db.WithContext(ctx).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca)
	if f.FechaInicio != nil {
		q = q.Where("fecha >= ?", *f.FechaInicio)
	}
	if f.FechaFin != nil {
		q = q.Where("fecha <= ?", *f.FechaFin)
	}
	limite := f.Limite
	if limite <= 0 {
		limite = 50
	}

	var liqs []model.Liquidacion
	err := q.Order("fecha DESC").Limit(limite).Find(&liqs).Error
	return liqs, err
}

func (r *liquidacionRepository) Cancelar(ctx context.Context, id, usuarioID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Liquidacion{}).
		Where("id = ? AND usuario_id = ? AND estado = ?", id, usuarioID, model.LiquidacionCompletada).
		Update("estado", model.LiquidacionCancelada)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *liquidacionRepository) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.LiquidacionStats, error) {
	var stats dto.LiquidacionStats
	var row struct {
		Cantidad int64
		Ingresos decimal.Decimal
		Egresos  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Liquidacion{}).
		Where("usuario_id = ? AND finca = ? AND estado = ?", usuarioID, finca, model.LiquidacionCompletada).
		Select("COUNT(*) AS cantidad, COALESCE(SUM(total_ingresos), 0) AS ingresos, COALESCE(SUM(total_egresos), 0) AS egresos").
		Scan(&row).Error
	if err != nil {
		return stats, err
	}

	stats.TotalLiquidaciones = row.Cantidad
	stats.TotalIngresos = row.Ingresos
	stats.TotalEgresos = row.Egresos
	if row.Cantidad > 0 {
		n := decimal.NewFromInt(row.Cantidad)
		stats.PromedioIngreso = row.Ingresos.Div(n).Round(2)
		stats.PromedioEgreso = row.Egresos.Div(n).Round(2)
	}
	return stats, nil
}
