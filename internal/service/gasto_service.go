package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
	"fincalibro/internal/repository"
)

type GastoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.CrearGastoRequest) (*model.Gasto, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.GastoFiltros) ([]model.Gasto, error)
	Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Gasto, error)
	Eliminar(ctx context.Context, id, usuarioID uuid.UUID) error
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.GastoStatsResumen, error)
}

type gastoService struct {
	db         *gorm.DB
	repo       repository.GastoRepository
	inventario repository.InventarioRepository
}

func NewGastoService(db *gorm.DB, repo repository.GastoRepository, inventario repository.InventarioRepository) GastoService {
	return &gastoService{db: db, repo: repo, inventario: inventario}
}

func (s *gastoService) repos(tx *gorm.DB) (repository.GastoRepository, repository.InventarioRepository) {
	if tx == nil {
		return s.repo, s.inventario
	}
	return repository.NewGastoRepository(tx), repository.NewInventarioRepository(tx)
}

// Crear registers an expense and decrements stock for its consumption
// lines in the same transaction. Stock checks are conditional updates,
// so two concurrent expenses cannot consume the same units twice.
func (s *gastoService) Crear(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.CrearGastoRequest) (*model.Gasto, error) {
	if finca == "" {
		return nil, apierror.ErrNoActiveFarm
	}
	if req.Valor.IsNegative() {
		return nil, fmt.Errorf("%w: el valor no puede ser negativo", apierror.ErrInvalidInput)
	}
	if req.Valor.IsZero() && len(req.Consumos) == 0 {
		return nil, fmt.Errorf("%w: el gasto debe tener valor o consumos", apierror.ErrInvalidInput)
	}
	for _, c := range req.Consumos {
		if !c.Cantidad.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", apierror.ErrInvalidInput)
		}
	}

	fecha := time.Now()
	if req.Fecha != nil {
		fecha = *req.Fecha
	}
	if fecha.After(time.Now()) {
		return nil, fmt.Errorf("%w: la fecha no puede ser futura", apierror.ErrInvalidInput)
	}

	var gasto *model.Gasto
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		gastos, inventario := s.repos(tx)

		consumos := make([]model.ConsumoInventario, 0, len(req.Consumos))
		for _, c := range req.Consumos {
			invID, err := uuid.Parse(c.InventarioID)
			if err != nil {
				return fmt.Errorf("%w: inventarioId inválido", apierror.ErrInvalidInput)
			}
			p, err := inventario.FindByID(ctx, invID, usuarioID)
			if err != nil {
				return err
			}
			if p.Finca != finca {
				return apierror.ErrNotFound
			}
			if p.Stock.LessThan(c.Cantidad) {
				return fmt.Errorf("%w: stock insuficiente de %s", apierror.ErrInvalidInput, p.Nombre)
			}
			consumos = append(consumos, model.ConsumoInventario{
				InventarioID:   p.ID,
				NombreProducto: p.Nombre,
				Cantidad:       c.Cantidad,
				Unidad:         p.Unidad,
			})
		}

		gasto = &model.Gasto{
			ID:          uuid.New(),
			UsuarioID:   usuarioID,
			Finca:       finca,
			Descripcion: req.Descripcion,
			Valor:       req.Valor,
			Fecha:       fecha,
			Consumos:    consumos,
		}
		if err := gastos.Create(ctx, gasto); err != nil {
			return err
		}

		for _, c := range consumos {
			if err := inventario.DecrementStock(ctx, c.InventarioID, usuarioID, c.Cantidad); err != nil {
				if err == repository.ErrStockInsuficiente {
					return fmt.Errorf("%w: stock insuficiente de %s", apierror.ErrInvalidInput, c.NombreProducto)
				}
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return gasto, nil
}

func (s *gastoService) Listar(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.GastoFiltros) ([]model.Gasto, error) {
	if finca == "" {
		return []model.Gasto{}, nil
	}
	return s.repo.List(ctx, usuarioID, finca, f)
}

func (s *gastoService) Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Gasto, error) {
	return s.repo.FindByID(ctx, id, usuarioID)
}

// Eliminar removes an unsettled expense and restores the stock its
// consumption lines took. Settled expenses are frozen: their cost is
// already part of a settlement snapshot.
func (s *gastoService) Eliminar(ctx context.Context, id, usuarioID uuid.UUID) error {
	g, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return err
	}
	if g.Liquidada {
		return apierror.ErrForbidden
	}

	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		gastos, inventario := s.repos(tx)

		// Delete first: the liquidada=false guard in the repo makes this
		// fail for a row a settlement claimed after the check above, and
		// then no stock is restored.
		if err := gastos.Delete(ctx, id, usuarioID); err != nil {
			return err
		}

		for _, c := range g.Consumos {
			// Restore is best-effort per line: a deleted product simply
			// has no stock to give back.
			if err := inventario.IncrementStock(ctx, c.InventarioID, usuarioID, c.Cantidad); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *gastoService) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.GastoStatsResumen, error) {
	if finca == "" {
		return dto.GastoStatsResumen{}, nil
	}
	return s.repo.Stats(ctx, usuarioID, finca)
}
