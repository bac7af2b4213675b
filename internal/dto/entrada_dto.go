package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fincalibro/internal/model"
)

type CrearEntradaRequest struct {
	Descripcion  string          `json:"descripcion" validate:"required,min=1,max=200"`
	Valor        decimal.Decimal `json:"valor" validate:"required"`
	FechaEntrada *time.Time      `json:"fechaEntrada"` // defaults to now; never in the future
}

type ActualizarEntradaRequest struct {
	Descripcion  *string          `json:"descripcion" validate:"omitempty,min=1,max=200"`
	Valor        *decimal.Decimal `json:"valor"`
	FechaEntrada *time.Time       `json:"fechaEntrada"`
}

// EntradaFiltros are the query-string filters for listing.
type EntradaFiltros struct {
	FechaInicio *time.Time
	FechaFin    *time.Time
	Descripcion string
	MontoMin    *decimal.Decimal
	MontoMax    *decimal.Decimal
	Limite      int
}

type EntradaEstadisticas struct {
	Total      int64           `json:"total"`
	TotalValor decimal.Decimal `json:"totalValor"`
	Promedio   decimal.Decimal `json:"promedio"`
}

type EntradasListResponse struct {
	Success      bool                `json:"success"`
	Entradas     []model.Entrada     `json:"entradas"`
	Estadisticas EntradaEstadisticas `json:"estadisticas"`
}

type EntradaResponse struct {
	Success bool           `json:"success"`
	Entrada *model.Entrada `json:"entrada"`
}

type EntradaStatsResumen struct {
	TotalHistorico decimal.Decimal `json:"totalHistorico"`
	TotalMes       decimal.Decimal `json:"totalMes"`
	TotalSemana    decimal.Decimal `json:"totalSemana"`
	Cantidad       int64           `json:"cantidad"`
	Pendientes     int64           `json:"pendientes"`
}

type EntradaStatsResponse struct {
	Success bool                `json:"success"`
	Stats   EntradaStatsResumen `json:"stats"`
}
