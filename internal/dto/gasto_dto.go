package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fincalibro/internal/model"
)

type ConsumoRequest struct {
	InventarioID string          `json:"inventarioId" validate:"required,uuid"`
	Cantidad     decimal.Decimal `json:"cantidad" validate:"required"`
}

type CrearGastoRequest struct {
	Descripcion string           `json:"descripcion" validate:"required,min=1,max=200"`
	Valor       decimal.Decimal  `json:"valor"`
	Fecha       *time.Time       `json:"fecha"`
	Consumos    []ConsumoRequest `json:"consumos" validate:"omitempty,dive"`
}

type GastoFiltros struct {
	FechaInicio *time.Time
	FechaFin    *time.Time
	Limite      int
}

type GastosListResponse struct {
	Success bool          `json:"success"`
	Gastos  []model.Gasto `json:"gastos"`
}

type GastoResponse struct {
	Success bool         `json:"success"`
	Gasto   *model.Gasto `json:"gasto"`
}

type GastoStatsResumen struct {
	TotalHistorico decimal.Decimal `json:"totalHistorico"`
	TotalMes       decimal.Decimal `json:"totalMes"`
	Cantidad       int64           `json:"cantidad"`
	Pendientes     int64           `json:"pendientes"`
}

type GastoStatsResponse struct {
	Success bool              `json:"success"`
	Stats   GastoStatsResumen `json:"stats"`
}
