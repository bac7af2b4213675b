package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fincalibro/internal/model"
)

type CajaRepository interface {
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	// SumMovimientosDesde folds movements with fecha strictly after the
	// given instant: ingresos add, retiros subtract. A nil desde folds
	// the full history.
	SumMovimientosDesde(ctx context.Context, usuarioID uuid.UUID, finca string, desde *time.Time) (decimal.Decimal, error)
	ListMovimientos(ctx context.Context, usuarioID uuid.UUID, finca string, limite int) ([]model.MovimientoCaja, error)
}

type cajaRepository struct {
	db *gorm.DB
}

func NewCajaRepository(db *gorm.DB) CajaRepository {
	return &cajaRepository{db: db}
}

func (r *cajaRepository) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepository) SumMovimientosDesde(ctx context.Context, usuarioID uuid.UUID, finca string, desde *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca)
	if desde != nil {
		q = q.Where("fecha > ?", *desde)
	}

	var row struct {
		Total decimal.Decimal
	}
	err := q.Select("COALESCE(SUM(CASE WHEN tipo = 'ingreso' THEN valor ELSE -valor END), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *cajaRepository) ListMovimientos(ctx context.Context, usuarioID uuid.UUID, finca string, limite int) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca).
		Order("fecha DESC").
		Limit(limite).
		Find(&movs).Error
	return movs, err
}
