package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
)

type gastoFixture struct {
	svc        GastoService
	gastos     *fakeGastoRepo
	inventario *fakeInventarioRepo
	usuarioID  uuid.UUID
	finca      string
}

func newGastoFixture() *gastoFixture {
	f := &gastoFixture{
		gastos:     newFakeGastoRepo(),
		inventario: newFakeInventarioRepo(),
		usuarioID:  uuid.New(),
		finca:      "La Esperanza",
	}
	f.svc = NewGastoService(nil, f.gastos, f.inventario)
	return f
}

func (f *gastoFixture) addProducto(t *testing.T, nombre, stock, precio string) *model.Inventario {
	t.Helper()
	p := &model.Inventario{
		ID: uuid.New(), UsuarioID: f.usuarioID, Finca: f.finca,
		Nombre: nombre, Stock: d(stock), Precio: d(precio), Unidad: "kg",
	}
	require.NoError(t, f.inventario.Create(context.Background(), p))
	return p
}

func TestCrearGastoDescuentaStock(t *testing.T) {
	f := newGastoFixture()
	abono := f.addProducto(t, "Abono", "10", "5.00")

	g, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "fertilización",
		Valor:       d("15.00"),
		Consumos:    []dto.ConsumoRequest{{InventarioID: abono.ID.String(), Cantidad: d("3")}},
	})
	require.NoError(t, err)
	require.Len(t, g.Consumos, 1)
	assert.Equal(t, "Abono", g.Consumos[0].NombreProducto)
	assert.Equal(t, "kg", g.Consumos[0].Unidad)

	p, err := f.inventario.FindByID(context.Background(), abono.ID, f.usuarioID)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(d("7")), "stock %s", p.Stock)
}

func TestCrearGastoStockInsuficiente(t *testing.T) {
	f := newGastoFixture()
	abono := f.addProducto(t, "Abono", "2", "5.00")

	_, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "fertilización",
		Valor:       d("15.00"),
		Consumos:    []dto.ConsumoRequest{{InventarioID: abono.ID.String(), Cantidad: d("5")}},
	})
	assert.ErrorIs(t, err, apierror.ErrInvalidInput)

	// Nothing persisted, stock intact
	pendientes, err := f.gastos.Pendientes(context.Background(), f.usuarioID, f.finca)
	require.NoError(t, err)
	assert.Empty(t, pendientes)
	p, err := f.inventario.FindByID(context.Background(), abono.ID, f.usuarioID)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(d("2")))
}

func TestCrearGastoProductoDeOtraFinca(t *testing.T) {
	f := newGastoFixture()
	p := &model.Inventario{
		ID: uuid.New(), UsuarioID: f.usuarioID, Finca: "El Roble",
		Nombre: "Cal", Stock: d("10"), Precio: d("2.00"), Unidad: "kg",
	}
	require.NoError(t, f.inventario.Create(context.Background(), p))

	_, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "encalado",
		Valor:       d("5.00"),
		Consumos:    []dto.ConsumoRequest{{InventarioID: p.ID.String(), Cantidad: d("1")}},
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestCrearGastoSinValorNiConsumos(t *testing.T) {
	f := newGastoFixture()

	_, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "vacío",
	})
	assert.ErrorIs(t, err, apierror.ErrInvalidInput)
}

func TestCrearGastoValorNegativo(t *testing.T) {
	f := newGastoFixture()

	_, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "negativo", Valor: d("-5.00"),
	})
	assert.ErrorIs(t, err, apierror.ErrInvalidInput)
}

func TestCrearGastoFechaFutura(t *testing.T) {
	f := newGastoFixture()
	futura := time.Now().Add(48 * time.Hour)

	_, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "adelantado", Valor: d("5.00"), Fecha: &futura,
	})
	assert.ErrorIs(t, err, apierror.ErrInvalidInput)
}

func TestEliminarGastoRestauraStock(t *testing.T) {
	f := newGastoFixture()
	abono := f.addProducto(t, "Abono", "10", "5.00")

	g, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "fertilización",
		Valor:       d("15.00"),
		Consumos:    []dto.ConsumoRequest{{InventarioID: abono.ID.String(), Cantidad: d("3")}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Eliminar(context.Background(), g.ID, f.usuarioID))

	p, err := f.inventario.FindByID(context.Background(), abono.ID, f.usuarioID)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(d("10")), "stock %s", p.Stock)

	_, err = f.svc.Obtener(context.Background(), g.ID, f.usuarioID)
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestEliminarGastoLiquidadoProhibido(t *testing.T) {
	f := newGastoFixture()

	g, err := f.svc.Crear(context.Background(), f.usuarioID, f.finca, dto.CrearGastoRequest{
		Descripcion: "jornal", Valor: d("40.00"),
	})
	require.NoError(t, err)

	liqID := uuid.New()
	_, err = f.gastos.Claim(context.Background(), []uuid.UUID{g.ID}, f.usuarioID, f.finca, liqID)
	require.NoError(t, err)

	err = f.svc.Eliminar(context.Background(), g.ID, f.usuarioID)
	assert.ErrorIs(t, err, apierror.ErrForbidden)
}

// racingGastoRepo runs a hook right after the service's read,
// simulating a settlement that claims the row before the delete lands.
type racingGastoRepo struct {
	*fakeGastoRepo
	afterRead func()
}

func (r *racingGastoRepo) FindByID(ctx context.Context, id, usuarioID uuid.UUID) (*model.Gasto, error) {
	g, err := r.fakeGastoRepo.FindByID(ctx, id, usuarioID)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return g, err
}

func TestEliminarGastoPierdeCarreraConLiquidacion(t *testing.T) {
	inner := newFakeGastoRepo()
	inventario := newFakeInventarioRepo()
	repo := &racingGastoRepo{fakeGastoRepo: inner}
	svc := NewGastoService(nil, repo, inventario)
	usuarioID := uuid.New()

	abono := &model.Inventario{
		ID: uuid.New(), UsuarioID: usuarioID, Finca: "La Esperanza",
		Nombre: "Abono", Stock: d("7"), Precio: d("5.00"), Unidad: "kg",
	}
	require.NoError(t, inventario.Create(context.Background(), abono))

	g := &model.Gasto{
		ID: uuid.New(), UsuarioID: usuarioID, Finca: "La Esperanza",
		Descripcion: "fertilización", Valor: d("15.00"), Fecha: time.Now(),
		Consumos: []model.ConsumoInventario{{
			InventarioID: abono.ID, NombreProducto: abono.Nombre, Cantidad: d("3"),
		}},
	}
	require.NoError(t, inner.Create(context.Background(), g))

	repo.afterRead = func() {
		_, err := inner.Claim(context.Background(), []uuid.UUID{g.ID}, usuarioID, "La Esperanza", uuid.New())
		require.NoError(t, err)
	}

	err := svc.Eliminar(context.Background(), g.ID, usuarioID)
	assert.ErrorIs(t, err, apierror.ErrForbidden)

	// The expense survives, and no stock was given back
	after, err := inner.FindByID(context.Background(), g.ID, usuarioID)
	require.NoError(t, err)
	assert.True(t, after.Liquidada)
	p, err := inventario.FindByID(context.Background(), abono.ID, usuarioID)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(d("7")), "stock %s", p.Stock)
}

func TestCrearGastoSinFincaActiva(t *testing.T) {
	f := newGastoFixture()

	_, err := f.svc.Crear(context.Background(), f.usuarioID, "", dto.CrearGastoRequest{
		Descripcion: "x", Valor: d("5.00"),
	})
	assert.ErrorIs(t, err, apierror.ErrNoActiveFarm)
}
