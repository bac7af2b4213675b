package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
	"fincalibro/internal/repository"
)

type InventarioService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.CrearInventarioRequest) (*model.Inventario, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Inventario, error)
	Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Inventario, error)
	Actualizar(ctx context.Context, id, usuarioID uuid.UUID, req dto.ActualizarInventarioRequest) (*model.Inventario, error)
	Eliminar(ctx context.Context, id, usuarioID uuid.UUID) error
	StockBajo(ctx context.Context, usuarioID uuid.UUID, finca string, limite *decimal.Decimal) ([]model.Inventario, error)
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.InventarioStatsResumen, error)
}

type inventarioService struct {
	repo repository.InventarioRepository
}

func NewInventarioService(repo repository.InventarioRepository) InventarioService {
	return &inventarioService{repo: repo}
}

func (s *inventarioService) Crear(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.CrearInventarioRequest) (*model.Inventario, error) {
	if finca == "" {
		return nil, apierror.ErrNoActiveFarm
	}
	if req.Stock.IsNegative() || req.Precio.IsNegative() || req.StockMinimo.IsNegative() {
		return nil, fmt.Errorf("%w: stock y precio no pueden ser negativos", apierror.ErrInvalidInput)
	}

	categoria := req.Categoria
	if categoria == "" {
		categoria = "general"
	}
	unidad := req.Unidad
	if unidad == "" {
		unidad = "unidad"
	}

	p := &model.Inventario{
		ID:          uuid.New(),
		UsuarioID:   usuarioID,
		Finca:       finca,
		Nombre:      req.Nombre,
		Categoria:   categoria,
		Stock:       req.Stock,
		Unidad:      unidad,
		Precio:      req.Precio,
		StockMinimo: req.StockMinimo,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *inventarioService) Listar(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Inventario, error) {
	if finca == "" {
		return []model.Inventario{}, nil
	}
	return s.repo.List(ctx, usuarioID, finca)
}

func (s *inventarioService) Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Inventario, error) {
	return s.repo.FindByID(ctx, id, usuarioID)
}

func (s *inventarioService) Actualizar(ctx context.Context, id, usuarioID uuid.UUID, req dto.ActualizarInventarioRequest) (*model.Inventario, error) {
	p, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Stock != nil {
		if req.Stock.IsNegative() {
			return nil, fmt.Errorf("%w: el stock no puede ser negativo", apierror.ErrInvalidInput)
		}
		p.Stock = *req.Stock
	}
	if req.Unidad != nil {
		p.Unidad = *req.Unidad
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", apierror.ErrInvalidInput)
		}
		p.Precio = *req.Precio
	}
	if req.StockMinimo != nil {
		if req.StockMinimo.IsNegative() {
			return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", apierror.ErrInvalidInput)
		}
		p.StockMinimo = *req.StockMinimo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *inventarioService) Eliminar(ctx context.Context, id, usuarioID uuid.UUID) error {
	return s.repo.Delete(ctx, id, usuarioID)
}

func (s *inventarioService) StockBajo(ctx context.Context, usuarioID uuid.UUID, finca string, limite *decimal.Decimal) ([]model.Inventario, error) {
	if finca == "" {
		return []model.Inventario{}, nil
	}
	return s.repo.LowStock(ctx, usuarioID, finca, limite)
}

func (s *inventarioService) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.InventarioStatsResumen, error) {
	if finca == "" {
		return dto.InventarioStatsResumen{}, nil
	}
	return s.repo.Stats(ctx, usuarioID, finca)
}
