package service

// In-memory repository fakes shared by the service tests. They are
// mutex-guarded so the concurrency tests can hammer them from several
// goroutines.

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
	"fincalibro/internal/repository"
)

// ── CajaRepository ───────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	mu   sync.Mutex
	movs []model.MovimientoCaja
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movs = append(r.movs, *m)
	return nil
}

func (r *fakeCajaRepo) SumMovimientosDesde(_ context.Context, usuarioID uuid.UUID, finca string, desde *time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, m := range r.movs {
		if m.UsuarioID != usuarioID || m.Finca != finca {
			continue
		}
		if desde != nil && !m.Fecha.After(*desde) {
			continue
		}
		if m.Tipo == model.MovimientoIngreso {
			total = total.Add(m.Valor)
		} else {
			total = total.Sub(m.Valor)
		}
	}
	return total, nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, usuarioID uuid.UUID, finca string, limite int) ([]model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movs {
		if m.UsuarioID == usuarioID && m.Finca == finca {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	if len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

// ── LiquidacionRepository ────────────────────────────────────────────────────

type fakeLiquidacionRepo struct {
	mu   sync.Mutex
	liqs map[uuid.UUID]*model.Liquidacion
}

var _ repository.LiquidacionRepository = (*fakeLiquidacionRepo)(nil)

func newFakeLiquidacionRepo() *fakeLiquidacionRepo {
	return &fakeLiquidacionRepo{liqs: make(map[uuid.UUID]*model.Liquidacion)}
}

func (r *fakeLiquidacionRepo) Create(_ context.Context, l *model.Liquidacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.liqs[l.ID] = &cp
	return nil
}

func (r *fakeLiquidacionRepo) FindByID(_ context.Context, id, usuarioID uuid.UUID) (*model.Liquidacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.liqs[id]
	if !ok || l.UsuarioID != usuarioID {
		return nil, apierror.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLiquidacionRepo) Ultima(_ context.Context, usuarioID uuid.UUID, finca string) (*model.Liquidacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ultima *model.Liquidacion
	for _, l := range r.liqs {
		if l.UsuarioID != usuarioID || l.Finca != finca {
			continue
		}
		if ultima == nil || l.Fecha.After(ultima.Fecha) {
			ultima = l
		}
	}
	if ultima == nil {
		return nil, nil
	}
	cp := *ultima
	return &cp, nil
}

func (r *fakeLiquidacionRepo) Historial(_ context.Context, usuarioID uuid.UUID, finca string, f repository.HistorialFiltros) ([]model.Liquidacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Liquidacion
	for _, l := range r.liqs {
		if l.UsuarioID != usuarioID || l.Finca != finca {
			continue
		}
		if f.FechaInicio != nil && l.Fecha.Before(*f.FechaInicio) {
			continue
		}
		if f.FechaFin != nil && l.Fecha.After(*f.FechaFin) {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	limite := f.Limite
	if limite <= 0 {
		limite = 50
	}
	if len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (r *fakeLiquidacionRepo) Cancelar(_ context.Context, id, usuarioID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.liqs[id]
	if !ok || l.UsuarioID != usuarioID || l.Estado != model.LiquidacionCompletada {
		return apierror.ErrNotFound
	}
	l.Estado = model.LiquidacionCancelada
	return nil
}

func (r *fakeLiquidacionRepo) Stats(_ context.Context, usuarioID uuid.UUID, finca string) (dto.LiquidacionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := dto.LiquidacionStats{
		TotalIngresos:   decimal.Zero,
		TotalEgresos:    decimal.Zero,
		PromedioIngreso: decimal.Zero,
		PromedioEgreso:  decimal.Zero,
	}
	for _, l := range r.liqs {
		if l.UsuarioID != usuarioID || l.Finca != finca || l.Estado != model.LiquidacionCompletada {
			continue
		}
		stats.TotalLiquidaciones++
		stats.TotalIngresos = stats.TotalIngresos.Add(l.TotalIngresos)
		stats.TotalEgresos = stats.TotalEgresos.Add(l.TotalEgresos)
	}
	if stats.TotalLiquidaciones > 0 {
		n := decimal.NewFromInt(stats.TotalLiquidaciones)
		stats.PromedioIngreso = stats.TotalIngresos.Div(n).Round(2)
		stats.PromedioEgreso = stats.TotalEgresos.Div(n).Round(2)
	}
	return stats, nil
}

// ── EntradaRepository ────────────────────────────────────────────────────────

type fakeEntradaRepo struct {
	mu       sync.Mutex
	entradas map[uuid.UUID]*model.Entrada
}

var _ repository.EntradaRepository = (*fakeEntradaRepo)(nil)

func newFakeEntradaRepo() *fakeEntradaRepo {
	return &fakeEntradaRepo{entradas: make(map[uuid.UUID]*model.Entrada)}
}

func (r *fakeEntradaRepo) Create(_ context.Context, e *model.Entrada) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	r.entradas[e.ID] = &cp
	return nil
}

func (r *fakeEntradaRepo) FindByID(_ context.Context, id, usuarioID uuid.UUID) (*model.Entrada, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entradas[id]
	if !ok || e.UsuarioID != usuarioID {
		return nil, apierror.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEntradaRepo) List(_ context.Context, usuarioID uuid.UUID, finca string, f dto.EntradaFiltros) ([]model.Entrada, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Entrada
	for _, e := range r.entradas {
		if e.UsuarioID == usuarioID && e.Finca == finca {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaEntrada.After(out[j].FechaEntrada) })
	return out, nil
}

func (r *fakeEntradaRepo) Update(_ context.Context, e *model.Entrada) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.entradas[e.ID]
	if !ok || cur.UsuarioID != e.UsuarioID {
		return apierror.ErrNotFound
	}
	// Same conditional-write contract as the real repo: settled rows are
	// never overwritten.
	if cur.Liquidada {
		return apierror.ErrForbidden
	}
	cur.Descripcion = e.Descripcion
	cur.Valor = e.Valor
	cur.FechaEntrada = e.FechaEntrada
	return nil
}

func (r *fakeEntradaRepo) Delete(_ context.Context, id, usuarioID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entradas[id]
	if !ok || e.UsuarioID != usuarioID {
		return apierror.ErrNotFound
	}
	if e.Liquidada {
		return apierror.ErrForbidden
	}
	delete(r.entradas, id)
	return nil
}

func (r *fakeEntradaRepo) Pendientes(_ context.Context, usuarioID uuid.UUID, finca string) ([]model.Entrada, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Entrada
	for _, e := range r.entradas {
		if e.UsuarioID == usuarioID && e.Finca == finca && !e.Liquidada {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaEntrada.After(out[j].FechaEntrada) })
	return out, nil
}

func (r *fakeEntradaRepo) Claim(_ context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string, liquidacionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed int64
	for _, id := range ids {
		e, ok := r.entradas[id]
		if !ok || e.UsuarioID != usuarioID || e.Finca != finca || e.Liquidada {
			continue
		}
		liqID := liquidacionID
		ahora := time.Now()
		e.Liquidada = true
		e.LiquidacionID = &liqID
		e.FechaLiquidacion = &ahora
		claimed++
	}
	return claimed, nil
}

func (r *fakeEntradaRepo) FindByLiquidacion(_ context.Context, liquidacionID uuid.UUID) ([]model.Entrada, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Entrada
	for _, e := range r.entradas {
		if e.LiquidacionID != nil && *e.LiquidacionID == liquidacionID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEntradaRepo) Stats(_ context.Context, usuarioID uuid.UUID, finca string) (dto.EntradaStatsResumen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := dto.EntradaStatsResumen{TotalHistorico: decimal.Zero, TotalMes: decimal.Zero, TotalSemana: decimal.Zero}
	for _, e := range r.entradas {
		if e.UsuarioID != usuarioID || e.Finca != finca {
			continue
		}
		stats.Cantidad++
		stats.TotalHistorico = stats.TotalHistorico.Add(e.Valor)
		if !e.Liquidada {
			stats.Pendientes++
		}
	}
	return stats, nil
}

// ── GastoRepository ──────────────────────────────────────────────────────────

type fakeGastoRepo struct {
	mu     sync.Mutex
	gastos map[uuid.UUID]*model.Gasto
}

var _ repository.GastoRepository = (*fakeGastoRepo)(nil)

func newFakeGastoRepo() *fakeGastoRepo {
	return &fakeGastoRepo{gastos: make(map[uuid.UUID]*model.Gasto)}
}

func (r *fakeGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	cp := *g
	r.gastos[g.ID] = &cp
	return nil
}

func (r *fakeGastoRepo) FindByID(_ context.Context, id, usuarioID uuid.UUID) (*model.Gasto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gastos[id]
	if !ok || g.UsuarioID != usuarioID {
		return nil, apierror.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGastoRepo) List(_ context.Context, usuarioID uuid.UUID, finca string, _ dto.GastoFiltros) ([]model.Gasto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.UsuarioID == usuarioID && g.Finca == finca {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *fakeGastoRepo) Delete(_ context.Context, id, usuarioID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gastos[id]
	if !ok || g.UsuarioID != usuarioID {
		return apierror.ErrNotFound
	}
	if g.Liquidada {
		return apierror.ErrForbidden
	}
	delete(r.gastos, id)
	return nil
}

func (r *fakeGastoRepo) Pendientes(_ context.Context, usuarioID uuid.UUID, finca string) ([]model.Gasto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.UsuarioID == usuarioID && g.Finca == finca && !g.Liquidada {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *fakeGastoRepo) Claim(_ context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string, liquidacionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed int64
	for _, id := range ids {
		g, ok := r.gastos[id]
		if !ok || g.UsuarioID != usuarioID || g.Finca != finca || g.Liquidada {
			continue
		}
		liqID := liquidacionID
		ahora := time.Now()
		g.Liquidada = true
		g.LiquidacionID = &liqID
		g.FechaLiquidacion = &ahora
		claimed++
	}
	return claimed, nil
}

func (r *fakeGastoRepo) FindByLiquidacion(_ context.Context, liquidacionID uuid.UUID) ([]model.Gasto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.LiquidacionID != nil && *g.LiquidacionID == liquidacionID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGastoRepo) Stats(_ context.Context, usuarioID uuid.UUID, finca string) (dto.GastoStatsResumen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := dto.GastoStatsResumen{TotalHistorico: decimal.Zero, TotalMes: decimal.Zero}
	for _, g := range r.gastos {
		if g.UsuarioID != usuarioID || g.Finca != finca {
			continue
		}
		stats.Cantidad++
		stats.TotalHistorico = stats.TotalHistorico.Add(g.Valor)
		if !g.Liquidada {
			stats.Pendientes++
		}
	}
	return stats, nil
}

// ── InventarioRepository ─────────────────────────────────────────────────────

type fakeInventarioRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Inventario
}

var _ repository.InventarioRepository = (*fakeInventarioRepo)(nil)

func newFakeInventarioRepo() *fakeInventarioRepo {
	return &fakeInventarioRepo{productos: make(map[uuid.UUID]*model.Inventario)}
}

func (r *fakeInventarioRepo) Create(_ context.Context, p *model.Inventario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *fakeInventarioRepo) FindByID(_ context.Context, id, usuarioID uuid.UUID) (*model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return nil, apierror.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeInventarioRepo) FindByIDs(_ context.Context, ids []uuid.UUID, usuarioID uuid.UUID, finca string) ([]model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Inventario
	for _, id := range ids {
		p, ok := r.productos[id]
		if ok && p.UsuarioID == usuarioID && p.Finca == finca {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeInventarioRepo) List(_ context.Context, usuarioID uuid.UUID, finca string) ([]model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Inventario
	for _, p := range r.productos {
		if p.UsuarioID == usuarioID && p.Finca == finca {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *fakeInventarioRepo) Update(_ context.Context, p *model.Inventario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *fakeInventarioRepo) Delete(_ context.Context, id, usuarioID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return apierror.ErrNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *fakeInventarioRepo) DecrementStock(_ context.Context, id, usuarioID uuid.UUID, cantidad decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID || p.Stock.LessThan(cantidad) {
		return repository.ErrStockInsuficiente
	}
	p.Stock = p.Stock.Sub(cantidad)
	return nil
}

func (r *fakeInventarioRepo) IncrementStock(_ context.Context, id, usuarioID uuid.UUID, cantidad decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return nil
	}
	p.Stock = p.Stock.Add(cantidad)
	return nil
}

func (r *fakeInventarioRepo) LowStock(_ context.Context, usuarioID uuid.UUID, finca string, limite *decimal.Decimal) ([]model.Inventario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Inventario
	for _, p := range r.productos {
		if p.UsuarioID != usuarioID || p.Finca != finca {
			continue
		}
		umbral := p.StockMinimo
		if limite != nil {
			umbral = *limite
		}
		if p.Stock.LessThanOrEqual(umbral) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock.LessThan(out[j].Stock) })
	return out, nil
}

func (r *fakeInventarioRepo) Stats(_ context.Context, usuarioID uuid.UUID, finca string) (dto.InventarioStatsResumen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := dto.InventarioStatsResumen{ValorTotal: decimal.Zero}
	for _, p := range r.productos {
		if p.UsuarioID != usuarioID || p.Finca != finca {
			continue
		}
		stats.TotalProductos++
		stats.ValorTotal = stats.ValorTotal.Add(p.Stock.Mul(p.Precio))
	}
	return stats, nil
}
