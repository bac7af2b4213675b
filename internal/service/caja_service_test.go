package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/infra"
	"fincalibro/internal/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newCajaFixture() (CajaService, *fakeCajaRepo, *fakeLiquidacionRepo) {
	movs := &fakeCajaRepo{}
	liqs := newFakeLiquidacionRepo()
	svc := NewCajaService(nil, movs, liqs, infra.NewMemoryFarmLocker())
	return svc, movs, liqs
}

func TestCajaActualFincaNueva(t *testing.T) {
	svc, _, _ := newCajaFixture()

	resp, err := svc.CajaActual(context.Background(), uuid.New(), "La Esperanza")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.CajaActual.IsZero())
	assert.Nil(t, resp.UltimaLiquidacion)
}

func TestCajaActualSinFincaActiva(t *testing.T) {
	svc, _, _ := newCajaFixture()

	resp, err := svc.CajaActual(context.Background(), uuid.New(), "")
	require.NoError(t, err)
	assert.True(t, resp.CajaActual.IsZero())
}

func TestCajaActualReconstruccion(t *testing.T) {
	svc, movs, liqs := newCajaFixture()
	usuarioID := uuid.New()
	finca := "La Esperanza"
	corte := time.Now().Add(-24 * time.Hour)

	require.NoError(t, liqs.Create(context.Background(), &model.Liquidacion{
		ID: uuid.New(), UsuarioID: usuarioID, Finca: finca,
		Fecha: corte, CajaFinal: d("100.00"), Estado: model.LiquidacionCompletada,
	}))

	// Before the settlement: must not fold in
	require.NoError(t, movs.CreateMovimiento(context.Background(), &model.MovimientoCaja{
		UsuarioID: usuarioID, Finca: finca, Tipo: model.MovimientoIngreso,
		Valor: d("999.00"), Fecha: corte.Add(-time.Hour),
	}))
	// After the settlement
	require.NoError(t, movs.CreateMovimiento(context.Background(), &model.MovimientoCaja{
		UsuarioID: usuarioID, Finca: finca, Tipo: model.MovimientoIngreso,
		Valor: d("50.00"), Fecha: corte.Add(time.Hour),
	}))
	require.NoError(t, movs.CreateMovimiento(context.Background(), &model.MovimientoCaja{
		UsuarioID: usuarioID, Finca: finca, Tipo: model.MovimientoRetiro,
		Valor: d("20.00"), Fecha: corte.Add(2 * time.Hour),
	}))

	resp, err := svc.CajaActual(context.Background(), usuarioID, finca)
	require.NoError(t, err)
	assert.True(t, resp.CajaActual.Equal(d("130.00")), "got %s", resp.CajaActual)
	require.NotNil(t, resp.UltimaLiquidacion)
	assert.True(t, resp.UltimaLiquidacion.CajaFinal.Equal(d("100.00")))
}

func TestCajaActualNoMezclaFincas(t *testing.T) {
	svc, movs, _ := newCajaFixture()
	usuarioID := uuid.New()

	require.NoError(t, movs.CreateMovimiento(context.Background(), &model.MovimientoCaja{
		UsuarioID: usuarioID, Finca: "El Roble", Tipo: model.MovimientoIngreso,
		Valor: d("500.00"), Fecha: time.Now(),
	}))

	resp, err := svc.CajaActual(context.Background(), usuarioID, "La Esperanza")
	require.NoError(t, err)
	assert.True(t, resp.CajaActual.IsZero())
}

func TestRegistrarIngreso(t *testing.T) {
	svc, _, _ := newCajaFixture()
	usuarioID := uuid.New()

	resp, err := svc.RegistrarMovimiento(context.Background(), usuarioID, "La Esperanza", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoIngreso, Valor: d("75.50"), Descripcion: "venta de plátano",
	})
	require.NoError(t, err)
	assert.True(t, resp.CajaActual.Equal(d("75.50")))
	assert.True(t, resp.Movimiento.CajaAntes.IsZero())
	assert.True(t, resp.Movimiento.CajaDespues.Equal(d("75.50")))

	actual, err := svc.CajaActual(context.Background(), usuarioID, "La Esperanza")
	require.NoError(t, err)
	assert.True(t, actual.CajaActual.Equal(d("75.50")))
}

func TestRetiroSinFondosRechazado(t *testing.T) {
	svc, movs, _ := newCajaFixture()
	usuarioID := uuid.New()

	_, err := svc.RegistrarMovimiento(context.Background(), usuarioID, "La Esperanza", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoIngreso, Valor: d("30.00"), Descripcion: "abono",
	})
	require.NoError(t, err)

	_, err = svc.RegistrarMovimiento(context.Background(), usuarioID, "La Esperanza", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoRetiro, Valor: d("50.00"), Descripcion: "compra",
	})
	assert.ErrorIs(t, err, apierror.ErrInsufficientFunds)

	// Nothing was written: balance still 30
	movs.mu.Lock()
	n := len(movs.movs)
	movs.mu.Unlock()
	assert.Equal(t, 1, n)
}

func TestRetiroExactoPermitido(t *testing.T) {
	svc, _, _ := newCajaFixture()
	usuarioID := uuid.New()

	_, err := svc.RegistrarMovimiento(context.Background(), usuarioID, "La Esperanza", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoIngreso, Valor: d("30.00"), Descripcion: "abono",
	})
	require.NoError(t, err)

	resp, err := svc.RegistrarMovimiento(context.Background(), usuarioID, "La Esperanza", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoRetiro, Valor: d("30.00"), Descripcion: "retiro total",
	})
	require.NoError(t, err)
	assert.True(t, resp.CajaActual.IsZero())
}

func TestMovimientoSinFincaActiva(t *testing.T) {
	svc, _, _ := newCajaFixture()

	_, err := svc.RegistrarMovimiento(context.Background(), uuid.New(), "", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoIngreso, Valor: d("10.00"), Descripcion: "x",
	})
	assert.ErrorIs(t, err, apierror.ErrNoActiveFarm)
}

func TestMovimientoValorNoPositivo(t *testing.T) {
	svc, _, _ := newCajaFixture()

	_, err := svc.RegistrarMovimiento(context.Background(), uuid.New(), "La Esperanza", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoIngreso, Valor: d("0"), Descripcion: "x",
	})
	assert.ErrorIs(t, err, apierror.ErrInvalidInput)
}

func TestMovimientoConLeaseTomado(t *testing.T) {
	movs := &fakeCajaRepo{}
	liqs := newFakeLiquidacionRepo()
	locker := infra.NewMemoryFarmLocker()
	svc := NewCajaService(nil, movs, liqs, locker)
	usuarioID := uuid.New()

	ok, release, err := locker.TryLock(context.Background(), leaseKey(usuarioID, "La Esperanza"), time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	_, err = svc.RegistrarMovimiento(context.Background(), usuarioID, "La Esperanza", dto.MovimientoCajaRequest{
		Tipo: model.MovimientoIngreso, Valor: d("10.00"), Descripcion: "x",
	})
	assert.ErrorIs(t, err, apierror.ErrConflict)
}

func TestListarMovimientosLimite(t *testing.T) {
	svc, movs, _ := newCajaFixture()
	usuarioID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, movs.CreateMovimiento(context.Background(), &model.MovimientoCaja{
			UsuarioID: usuarioID, Finca: "La Esperanza", Tipo: model.MovimientoIngreso,
			Valor: d("1.00"), Fecha: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	out, err := svc.ListarMovimientos(context.Background(), usuarioID, "La Esperanza", 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	// Newest first
	assert.True(t, out[0].Fecha.After(out[1].Fecha))
}
