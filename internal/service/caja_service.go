package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/infra"
	"fincalibro/internal/model"
	"fincalibro/internal/repository"
)

// leaseTTL bounds how long a crashed holder can block a farm.
const leaseTTL = 10 * time.Second

type CajaService interface {
	// CajaActual reconstructs the balance: last settlement's closing
	// balance (0 if the farm was never settled) plus the fold of manual
	// movements dated strictly after it.
	CajaActual(ctx context.Context, usuarioID uuid.UUID, finca string) (*dto.CajaActualResponse, error)
	RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)
	ListarMovimientos(ctx context.Context, usuarioID uuid.UUID, finca string, limite int) ([]model.MovimientoCaja, error)
}

type cajaService struct {
	db            *gorm.DB
	movimientos   repository.CajaRepository
	liquidaciones repository.LiquidacionRepository
	locker        infra.FarmLocker
}

func NewCajaService(db *gorm.DB, movimientos repository.CajaRepository, liquidaciones repository.LiquidacionRepository, locker infra.FarmLocker) CajaService {
	return &cajaService{db: db, movimientos: movimientos, liquidaciones: liquidaciones, locker: locker}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func leaseKey(usuarioID uuid.UUID, finca string) string {
	return fmt.Sprintf("caja:%s:%s", usuarioID, finca)
}

func (s *cajaService) repos(tx *gorm.DB) (repository.CajaRepository, repository.LiquidacionRepository) {
	if tx == nil {
		return s.movimientos, s.liquidaciones
	}
	return repository.NewCajaRepository(tx), repository.NewLiquidacionRepository(tx)
}

// saldo computes the current balance plus the settlement it is anchored
// on (nil when the farm has no settlements yet).
func saldo(ctx context.Context, movs repository.CajaRepository, liqs repository.LiquidacionRepository, usuarioID uuid.UUID, finca string) (decimal.Decimal, *model.Liquidacion, error) {
	ultima, err := liqs.Ultima(ctx, usuarioID, finca)
	if err != nil {
		return decimal.Zero, nil, err
	}

	base := decimal.Zero
	var desde *time.Time
	if ultima != nil {
		base = ultima.CajaFinal
		desde = &ultima.Fecha
	}

	delta, err := movs.SumMovimientosDesde(ctx, usuarioID, finca, desde)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return base.Add(delta), ultima, nil
}

func (s *cajaService) CajaActual(ctx context.Context, usuarioID uuid.UUID, finca string) (*dto.CajaActualResponse, error) {
	// No active farm is a defined zero state, not an error: the
	// frontend shows an empty dashboard until a finca is selected.
	if finca == "" {
		return &dto.CajaActualResponse{Success: true, CajaActual: decimal.Zero}, nil
	}

	actual, ultima, err := saldo(ctx, s.movimientos, s.liquidaciones, usuarioID, finca)
	if err != nil {
		return nil, err
	}

	resp := &dto.CajaActualResponse{Success: true, CajaActual: actual}
	if ultima != nil {
		resp.UltimaLiquidacion = &dto.UltimaLiquidacion{Fecha: ultima.Fecha, CajaFinal: ultima.CajaFinal}
	}
	return resp, nil
}

func (s *cajaService) RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	if finca == "" {
		return nil, apierror.ErrNoActiveFarm
	}
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: el valor debe ser mayor a cero", apierror.ErrInvalidInput)
	}

	// The lease serializes the read-check-write against concurrent
	// movements and settlements on the same farm.
	ok, release, err := s.locker.TryLock(ctx, leaseKey(usuarioID, finca), leaseTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierror.ErrConflict
	}
	defer release()

	var resp *dto.MovimientoCajaResponse
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		movs, liqs := s.repos(tx)

		actual, _, err := saldo(ctx, movs, liqs, usuarioID, finca)
		if err != nil {
			return err
		}

		if req.Tipo == model.MovimientoRetiro && actual.LessThan(req.Valor) {
			return apierror.ErrInsufficientFunds
		}

		despues := actual.Add(req.Valor)
		if req.Tipo == model.MovimientoRetiro {
			despues = actual.Sub(req.Valor)
		}

		mov := &model.MovimientoCaja{
			ID:          uuid.New(),
			UsuarioID:   usuarioID,
			Finca:       finca,
			Tipo:        req.Tipo,
			Valor:       req.Valor,
			Descripcion: req.Descripcion,
			Fecha:       time.Now(),
			CajaAntes:   actual,
			CajaDespues: despues,
		}
		if err := movs.CreateMovimiento(ctx, mov); err != nil {
			return err
		}

		resp = &dto.MovimientoCajaResponse{Success: true, Movimiento: mov, CajaActual: despues}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

func (s *cajaService) ListarMovimientos(ctx context.Context, usuarioID uuid.UUID, finca string, limite int) ([]model.MovimientoCaja, error) {
	if finca == "" {
		return []model.MovimientoCaja{}, nil
	}
	if limite <= 0 {
		limite = 50
	}
	if limite > 500 {
		limite = 500
	}
	return s.movimientos.ListMovimientos(ctx, usuarioID, finca, limite)
}
