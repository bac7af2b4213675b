package service

import (
	"context"
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

type LiquidacionService interface {
	EntradasPendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Entrada, error)
	GastosPendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]dto.GastoPendiente, error)
	Procesar(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.ProcesarLiquidacionRequest) (*dto.ProcesarLiquidacionResponse, error)
	Historial(ctx context.Context, usuarioID uuid.UUID, finca string, f repository.HistorialFiltros) ([]model.Liquidacion, error)
	Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Liquidacion, error)
	Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.LiquidacionStats, error)
	Cancelar(ctx context.Context, id, usuarioID uuid.UUID) (*model.Liquidacion, error)
	GenerarPDF(ctx context.Context, id, usuarioID uuid.UUID) (string, error)
}

type liquidacionService struct {
	db             *gorm.DB
	liquidaciones  repository.LiquidacionRepository
	entradas       repository.EntradaRepository
	gastos         repository.GastoRepository
	inventario     repository.InventarioRepository
	movimientos    repository.CajaRepository
	locker         infra.FarmLocker
	pdfStoragePath string
}

func NewLiquidacionService(
	db *gorm.DB,
	liquidaciones repository.LiquidacionRepository,
	entradas repository.EntradaRepository,
	gastos repository.GastoRepository,
	inventario repository.InventarioRepository,
	movimientos repository.CajaRepository,
	locker infra.FarmLocker,
	pdfStoragePath string,
) LiquidacionService {
	return &liquidacionService{
		db:             db,
		liquidaciones:  liquidaciones,
		entradas:       entradas,
		gastos:         gastos,
		inventario:     inventario,
		movimientos:    movimientos,
		locker:         locker,
		pdfStoragePath: pdfStoragePath,
	}
}

func (s *liquidacionService) repos(tx *gorm.DB) (repository.LiquidacionRepository, repository.EntradaRepository, repository.GastoRepository, repository.InventarioRepository, repository.CajaRepository) {
	if tx == nil {
		return s.liquidaciones, s.entradas, s.gastos, s.inventario, s.movimientos
	}
	return repository.NewLiquidacionRepository(tx),
		repository.NewEntradaRepository(tx),
		repository.NewGastoRepository(tx),
		repository.NewInventarioRepository(tx),
		repository.NewCajaRepository(tx)
}

// valorConsumos prices an expense's consumption lines against current
// inventory. Lines whose product no longer exists are skipped: deleted
// products contribute nothing rather than failing the whole operation.
// The same function backs both the pending-expenses preview and the
// processor, so the preview shows exactly what a settlement would
// charge right now.
func valorConsumos(consumos []model.ConsumoInventario, productos map[uuid.UUID]model.Inventario) (decimal.Decimal, []model.InventarioUsado) {
	total := decimal.Zero
	var usado []model.InventarioUsado
	for _, c := range consumos {
		p, ok := productos[c.InventarioID]
		if !ok {
			continue
		}
		subtotal := c.Cantidad.Mul(p.Precio)
		total = total.Add(subtotal)
		usado = append(usado, model.InventarioUsado{
			InventarioID:   p.ID,
			NombreProducto: p.Nombre,
			Cantidad:       c.Cantidad,
			PrecioUnitario: p.Precio,
			Subtotal:       subtotal,
		})
	}
	return total, usado
}

func productosDe(ctx context.Context, inv repository.InventarioRepository, gastos []model.Gasto, usuarioID uuid.UUID, finca string) (map[uuid.UUID]model.Inventario, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, g := range gastos {
		for _, c := range g.Consumos {
			if _, dup := seen[c.InventarioID]; dup {
				continue
			}
			seen[c.InventarioID] = struct{}{}
			ids = append(ids, c.InventarioID)
		}
	}

	productos, err := inv.FindByIDs(ctx, ids, usuarioID, finca)
	if err != nil {
		return nil, err
	}
	m := make(map[uuid.UUID]model.Inventario, len(productos))
	for _, p := range productos {
		m[p.ID] = p
	}
	return m, nil
}

func (s *liquidacionService) EntradasPendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]model.Entrada, error) {
	if finca == "" {
		return []model.Entrada{}, nil
	}
	return s.entradas.Pendientes(ctx, usuarioID, finca)
}

func (s *liquidacionService) GastosPendientes(ctx context.Context, usuarioID uuid.UUID, finca string) ([]dto.GastoPendiente, error) {
	if finca == "" {
		return []dto.GastoPendiente{}, nil
	}

	gastos, err := s.gastos.Pendientes(ctx, usuarioID, finca)
	if err != nil {
		return nil, err
	}
	productos, err := productosDe(ctx, s.inventario, gastos, usuarioID, finca)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GastoPendiente, 0, len(gastos))
	for _, g := range gastos {
		valorInv, _ := valorConsumos(g.Consumos, productos)
		out = append(out, dto.GastoPendiente{
			Gasto:           g,
			ValorInventario: valorInv,
			ValorTotal:      g.Valor.Add(valorInv),
		})
	}
	return out, nil
}

// Procesar runs the settlement state machine: claim the requested
// unsettled items, price inventory consumption at current prices,
// compute the closing balance, and persist the settlement with its
// immutable snapshots — all in one transaction under the farm lease.
//
// Requested ids that are missing, foreign, or already settled are
// silently dropped; the resumen counts expose the difference so the
// client can warn the user.
func (s *liquidacionService) Procesar(ctx context.Context, usuarioID uuid.UUID, finca string, req dto.ProcesarLiquidacionRequest) (*dto.ProcesarLiquidacionResponse, error) {
	if finca == "" {
		return nil, apierror.ErrNoActiveFarm
	}

	ok, release, err := s.locker.TryLock(ctx, leaseKey(usuarioID, finca), leaseTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierror.ErrConflict
	}
	defer release()

	entradaIDs := parseIDs(req.Entradas)
	gastoIDs := parseIDs(req.Gastos)
	liqID := uuid.New()

	var (
		liq     *model.Liquidacion
		resumen dto.ResumenLiquidacion
	)
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		liqs, entradas, gastos, inventario, movimientos := s.repos(tx)

		// Claim before reading back: the liquidada=false guard in the
		// UPDATE is what makes double-settlement impossible even if a
		// concurrent writer slipped past the lease.
		if _, err := entradas.Claim(ctx, entradaIDs, usuarioID, finca, liqID); err != nil {
			return err
		}
		if _, err := gastos.Claim(ctx, gastoIDs, usuarioID, finca, liqID); err != nil {
			return err
		}

		entradasClaimed, err := entradas.FindByLiquidacion(ctx, liqID)
		if err != nil {
			return err
		}
		gastosClaimed, err := gastos.FindByLiquidacion(ctx, liqID)
		if err != nil {
			return err
		}

		productos, err := productosDe(ctx, inventario, gastosClaimed, usuarioID, finca)
		if err != nil {
			return err
		}

		totalIngresos := decimal.Zero
		entradasSnap := make([]model.EntradaLiquidada, 0, len(entradasClaimed))
		for _, e := range entradasClaimed {
			totalIngresos = totalIngresos.Add(e.Valor)
			entradasSnap = append(entradasSnap, model.EntradaLiquidada{
				EntradaID:    e.ID,
				Descripcion:  e.Descripcion,
				Valor:        e.Valor,
				FechaEntrada: e.FechaEntrada,
			})
		}

		totalEgresos := decimal.Zero
		gastosSnap := make([]model.GastoLiquidado, 0, len(gastosClaimed))
		var usadoSnap []model.InventarioUsado
		for _, g := range gastosClaimed {
			valorInv, usado := valorConsumos(g.Consumos, productos)
			valorTotal := g.Valor.Add(valorInv)
			totalEgresos = totalEgresos.Add(valorTotal)
			gastosSnap = append(gastosSnap, model.GastoLiquidado{
				GastoID:     g.ID,
				Descripcion: g.Descripcion,
				Valor:       valorTotal,
				Fecha:       g.Fecha,
			})
			usadoSnap = append(usadoSnap, usado...)
		}

		cajaInicial, _, err := saldo(ctx, movimientos, liqs, usuarioID, finca)
		if err != nil {
			return err
		}
		// Overdrafts are real data: the closing balance is recorded as
		// computed, negative or not.
		cajaFinal := cajaInicial.Add(totalIngresos).Sub(totalEgresos)

		liq = &model.Liquidacion{
			ID:                 liqID,
			UsuarioID:          usuarioID,
			Finca:              finca,
			Fecha:              time.Now(),
			CajaInicial:        cajaInicial,
			TotalIngresos:      totalIngresos,
			TotalEgresos:       totalEgresos,
			CajaFinal:          cajaFinal,
			Estado:             model.LiquidacionCompletada,
			Notas:              req.Notas,
			EntradasLiquidadas: entradasSnap,
			GastosLiquidados:   gastosSnap,
			InventarioUsado:    usadoSnap,
		}
		if err := liqs.Create(ctx, liq); err != nil {
			return err
		}

		resumen = dto.ResumenLiquidacion{
			EntradasSolicitadas: len(req.Entradas),
			EntradasLiquidadas:  len(entradasClaimed),
			GastosSolicitados:   len(req.Gastos),
			GastosLiquidados:    len(gastosClaimed),
			CajaInicial:         cajaInicial,
			ValorEntradas:       totalIngresos,
			ValorGastos:         totalEgresos,
			CajaFinal:           cajaFinal,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.ProcesarLiquidacionResponse{Success: true, Liquidacion: liq, Resumen: resumen}, nil
}

func (s *liquidacionService) Historial(ctx context.Context, usuarioID uuid.UUID, finca string, f repository.HistorialFiltros) ([]model.Liquidacion, error) {
	if finca == "" {
		return []model.Liquidacion{}, nil
	}
	return s.liquidaciones.Historial(ctx, usuarioID, finca, f)
}

func (s *liquidacionService) Obtener(ctx context.Context, id, usuarioID uuid.UUID) (*model.Liquidacion, error) {
	return s.liquidaciones.FindByID(ctx, id, usuarioID)
}

func (s *liquidacionService) Stats(ctx context.Context, usuarioID uuid.UUID, finca string) (dto.LiquidacionStats, error) {
	if finca == "" {
		return dto.LiquidacionStats{}, nil
	}
	return s.liquidaciones.Stats(ctx, usuarioID, finca)
}

// Cancelar flips the settlement to cancelada. Consumed entries and
// expenses stay flagged: reversal would let them reappear in a second
// settlement's snapshots.
func (s *liquidacionService) Cancelar(ctx context.Context, id, usuarioID uuid.UUID) (*model.Liquidacion, error) {
	if err := s.liquidaciones.Cancelar(ctx, id, usuarioID); err != nil {
		return nil, err
	}
	return s.liquidaciones.FindByID(ctx, id, usuarioID)
}

func (s *liquidacionService) GenerarPDF(ctx context.Context, id, usuarioID uuid.UUID) (string, error) {
	liq, err := s.liquidaciones.FindByID(ctx, id, usuarioID)
	if err != nil {
		return "", err
	}
	return infra.GenerateLiquidacionPDF(liq, s.pdfStoragePath)
}

func parseIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
