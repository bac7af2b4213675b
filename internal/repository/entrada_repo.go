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

type EntradaRepository interface {
	Create(ctx context.Context, e *model.Entrada) error
	FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Entrada, error)
	List(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.EntradaFiltros) ([]model.Entrada, error)
	// Update and Delete only touch unsettled rows: a row a settlement
	// claimed concurrently is left intact and the call fails with
	// ErrForbidden.
	Update(ctx context.Context, e *model.Entrada) error
	Delete(ctx context.Context, id, usuarioID uuid.UUID) error
	Pendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Entrada, error)
	// Claim marks the given unsettled entries as consumed by a
	// settlement. The liquidada=false guard makes the claim a no-op for
	// rows another settlement already took.
	Claim(ctx context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string, liquidacionID uuid.UUID) (int64, error)
	FindByLiquidacion(ctx context.Context, liquidacionID uuid.UUID) ([]model.Entrada, error)
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.EntradaStatsResumen, error)
}

type entradaRepository struct {
	db *gorm.DB
}

func NewEntradaRepository(db *gorm.DB) EntradaRepository {
	return &entradaRepository{db: db}
}

func (r *entradaRepository) Create(ctx context.Context, e *model.Entrada) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entradaRepository) FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Entrada, error) {
	var e model.Entrada
	err := r.db.WithContext(ctx).
		First(&e, "id = ? AND usuario_id = ?", id, usuarioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entradaRepository) List(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.EntradaFiltros) ([]model.Entrada, error) {
	q := r.db.WithContext(ctx).
		Where("usuario_id = ? AND finca = ?", usuarioID, finca)
	if f.FechaInicio != nil {
		q = q.Where("fecha_entrada >= ?", *f.FechaInicio)
	}
	if f.FechaFin != nil {
		q = q.Where("fecha_entrada <= ?", *f.FechaFin)
	}
	if f.Descripcion != "" {
		q = q.Where("descripcion ILIKE ?", "%"+f.Descripcion+"%")
	}
	if f.MontoMin != nil {
		q = q.Where("valor >= ?", *f.MontoMin)
	}
	if f.MontoMax != nil {
		q = q.Where("valor <= ?", *f.MontoMax)
	}
	limite := f.Limite
	if limite <= 0 {
		limite = 100
	}

	var entradas []model.Entrada
	err := q.Order("fecha_entrada DESC").Limit(limite).Find(&entradas).Error
	return entradas, err
}

func (r *entradaRepository) Update(ctx context.Context, e *model.Entrada) error {
	// Conditional write, same discipline as Claim: a plain Save here
	// would overwrite the flag of a row a settlement claimed between the
	// caller's read and this write.
	res := r.db.WithContext(ctx).Model(&model.Entrada{}).
		Where("id = ? AND usuario_id = ? AND liquidada = false", e.ID, e.UsuarioID).
		Updates(map[string]interface{}{
			"descripcion":   e.Descripcion,
			"valor":         e.Valor,
			"fecha_entrada": e.FechaEntrada,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.frozenOrMissing(ctx, e.ID, e.UsuarioID)
	}
	return nil
}

func (r *entradaRepository) Delete(ctx context.Context, id, usuarioID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND usuario_id = ? AND liquidada = false", id, usuarioID).
		Delete(&model.Entrada{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.frozenOrMissing(ctx, id, usuarioID)
	}
	return nil
}

func (r *entradaRepository) frozenOrMissing(ctx context.Context, id, usuarioID uuid.UUID) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Entrada{}).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apierror.ErrForbidden
	}
	return apierror.ErrNotFound
}

func (r *entradaRepository) Pendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Entrada, error) {
	var entradas []model.Entrada
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND finca = ? AND liquidada = false", usuarioID, finca).
		Order("fecha_entrada DESC").
		Find(&entradas).Error
	return entradas, err
}

func (r *entradaRepository) Claim(ctx context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string, liquidacionID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Entrada{}).
		Where("id IN ? AND usuario_id = ? AND finca = ? AND liquidada = false", ids, usuarioID, finca).
		Updates(map[string]interface{}{
			"liquidada":         true,
			"liquidacion_id":    liquidacionID,
			"fecha_liquidacion": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *entradaRepository) FindByLiquidacion(ctx context.Context, liquidacionID uuid.UUID) ([]model.Entrada, error) {
	var entradas []model.Entrada
	err := r.db.WithContext(ctx).
		Where("liquidacion_id = ?", liquidacionID).
		Order("fecha_entrada DESC").
		Find(&entradas).Error
	return entradas, err
}

func (r *entradaRepository) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.EntradaStatsResumen, error) {
	var stats dto.EntradaStatsResumen
	scope := r.db.WithContext(ctx).Model(&model.Entrada{}).
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
		Where("fecha_entrada >= date_trunc('month', now())").
		Select("COALESCE(SUM(valor), 0) AS total").
		Scan(&mes).Error; err != nil {
		return stats, err
	}
	stats.TotalMes = mes.Total

	var semana struct{ Total decimal.Decimal }
	if err := scope.Session(&gorm.Session{}).
		Where("fecha_entrada >= date_trunc('week', now())").
		Select("COALESCE(SUM(valor), 0) AS total").
		Scan(&semana).Error; err != nil {
		return stats, err
	}
	stats.TotalSemana = semana.Total

	if err := scope.Session(&gorm.Session{}).
		Where("liquidada = false").
		Count(&stats.Pendientes).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
