package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
	"fincalibro/internal/repository"
)

type EntradaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.CrearEntradaRequest) (*model.Entrada, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.EntradaFiltros) ([]model.Entrada, dto.EntradaEstadisticas, error)
	Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Entrada, error)
	Actualizar(ctx context.Context, id, usuarioID uuid.UUID, req dto.ActualizarEntradaRequest) (*model.Entrada, error)
	Eliminar(ctx context.Context, id, usuarioID uuid.UUID) error
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.EntradaStatsResumen, error)
}

type entradaService struct {
	repo repository.EntradaRepository
}

func NewEntradaService(repo repository.EntradaRepository) EntradaService {
	return &entradaService{repo: repo}
}

func (s *entradaService) Crear(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.CrearEntradaRequest) (*model.Entrada, error) {
	if finca == "" {
		return nil, apierror.ErrNoActiveFarm
	}
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: el valor debe ser mayor a cero", apierror.ErrInvalidInput)
	}

	fecha := time.Now()
	if req.FechaEntrada != nil {
		fecha = *req.FechaEntrada
	}
	if fecha.After(time.Now()) {
		return nil, fmt.Errorf("%w: la fecha no puede ser futura", apierror.ErrInvalidInput)
	}

	e := &model.Entrada{
		ID:           uuid.New(),
		UsuarioID:    usuarioID,
		Finca:        finca,
		Descripcion:  req.Descripcion,
		Valor:        req.Valor,
		FechaEntrada: fecha,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *entradaService) Listar(ctx context.Context, usuarioID uuid.UUID, finca string, f dto.EntradaFiltros) ([]model.Entrada, dto.EntradaEstadisticas, error) {
	stats := dto.EntradaEstadisticas{TotalValor: decimal.Zero, Promedio: decimal.Zero}
	if finca == "" {
		return []model.Entrada{}, stats, nil
	}

	entradas, err := s.repo.List(ctx, usuarioID, finca, f)
	if err != nil {
		return nil, stats, err
	}

	// Estadísticas describe the filtered result set, not the full table.
	for _, e := range entradas {
		stats.TotalValor = stats.TotalValor.Add(e.Valor)
	}
	stats.Total = int64(len(entradas))
	if stats.Total > 0 {
		stats.Promedio = stats.TotalValor.Div(decimal.NewFromInt(stats.Total)).Round(2)
	}
	return entradas, stats, nil
}

func (s *entradaService) Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Entrada, error) {
	return s.repo.FindByID(ctx, id, usuarioID)
}

func (s *entradaService) Actualizar(ctx context.Context, id, usuarioID uuid.UUID, req dto.ActualizarEntradaRequest) (*model.Entrada, error) {
	e, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, err
	}
	// Settled entries are frozen inside a settlement snapshot.
	if e.Liquidada {
		return nil, apierror.ErrForbidden
	}

	if req.Descripcion != nil {
		e.Descripcion = *req.Descripcion
	}
	if req.Valor != nil {
		if !req.Valor.IsPositive() {
			return nil, fmt.Errorf("%w: el valor debe ser mayor a cero", apierror.ErrInvalidInput)
		}
		e.Valor = *req.Valor
	}
	if req.FechaEntrada != nil {
		if req.FechaEntrada.After(time.Now()) {
			return nil, fmt.Errorf("%w: la fecha no puede ser futura", apierror.ErrInvalidInput)
		}
		e.FechaEntrada = *req.FechaEntrada
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *entradaService) Eliminar(ctx context.Context, id, usuarioID uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return err
	}
	if e.Liquidada {
		return apierror.ErrForbidden
	}
	return s.repo.Delete(ctx, id, usuarioID)
}

func (s *entradaService) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.EntradaStatsResumen, error) {
	if finca == "" {
		return dto.EntradaStatsResumen{}, nil
	}
	return s.repo.Stats(ctx, usuarioID, finca)
}
