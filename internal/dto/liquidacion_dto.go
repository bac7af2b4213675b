package dto

import (
	"github.com/shopspring/decimal"

	"fincalibro/internal/model"
)

// ProcesarLiquidacionRequest selects which pending items to settle.
// Both lists may be empty: a settlement with no items still closes the
// period at the current opening balance.
type ProcesarLiquidacionRequest struct {
	Entradas []string `json:"entradas" validate:"omitempty,dive,uuid"`
	Gastos   []string `json:"gastos" validate:"omitempty,dive,uuid"`
	Notas    string   `json:"notas" validate:"max=500"`
}

// ResumenLiquidacion reports what the processor actually settled versus
// what was requested. Requested ids that were missing, foreign, or
// already settled show up as the difference between the counts.
type ResumenLiquidacion struct {
	EntradasSolicitadas int             `json:"entradasSolicitadas"`
	EntradasLiquidadas  int             `json:"entradasLiquidadas"`
	GastosSolicitados   int             `json:"gastosSolicitados"`
	GastosLiquidados    int             `json:"gastosLiquidados"`
	CajaInicial         decimal.Decimal `json:"cajaInicial"`
	ValorEntradas       decimal.Decimal `json:"valorEntradas"`
	ValorGastos         decimal.Decimal `json:"valorGastos"`
	CajaFinal           decimal.Decimal `json:"cajaFinal"`
}

type ProcesarLiquidacionResponse struct {
	Success     bool               `json:"success"`
	Liquidacion *model.Liquidacion `json:"liquidacion"`
	Resumen     ResumenLiquidacion `json:"resumen"`
}

// GastoPendiente is an unsettled expense annotated with live pricing.
type GastoPendiente struct {
	model.Gasto
	ValorInventario decimal.Decimal `json:"valorInventario"`
	ValorTotal      decimal.Decimal `json:"valorTotal"`
}

type EntradasPendientesResponse struct {
	Success  bool            `json:"success"`
	Entradas []model.Entrada `json:"entradas"`
}

type GastosPendientesResponse struct {
	Success bool             `json:"success"`
	Gastos  []GastoPendiente `json:"gastos"`
}

type HistorialResponse struct {
	Success       bool                `json:"success"`
	Liquidaciones []model.Liquidacion `json:"liquidaciones"`
}

type LiquidacionResponse struct {
	Success     bool               `json:"success"`
	Liquidacion *model.Liquidacion `json:"liquidacion"`
}

type LiquidacionStats struct {
	TotalLiquidaciones int64           `json:"totalLiquidaciones"`
	TotalIngresos      decimal.Decimal `json:"totalIngresos"`
	TotalEgresos       decimal.Decimal `json:"totalEgresos"`
	PromedioIngreso    decimal.Decimal `json:"promedioIngreso"`
	PromedioEgreso     decimal.Decimal `json:"promedioEgreso"`
}

type LiquidacionStatsResponse struct {
	Success bool             `json:"success"`
	Stats   LiquidacionStats `json:"stats"`
}
