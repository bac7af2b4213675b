package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fincalibro/internal/model"
)

// CajaActualResponse is the reconstructed balance. UltimaLiquidacion is
// nil when the farm has never been settled.
type CajaActualResponse struct {
	Success           bool                `json:"success"`
	CajaActual        decimal.Decimal     `json:"cajaActual"`
	UltimaLiquidacion *UltimaLiquidacion  `json:"ultimaLiquidacion,omitempty"`
}

type UltimaLiquidacion struct {
	Fecha     time.Time       `json:"fecha"`
	CajaFinal decimal.Decimal `json:"cajaFinal"`
}

type MovimientoCajaRequest struct {
	Tipo        string          `json:"tipo" validate:"required,oneof=ingreso retiro"`
	Valor       decimal.Decimal `json:"valor" validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,min=1,max=200"`
}

type MovimientoCajaResponse struct {
	Success    bool                  `json:"success"`
	Movimiento *model.MovimientoCaja `json:"movimiento"`
	CajaActual decimal.Decimal       `json:"cajaActual"`
}

type MovimientosListResponse struct {
	Success     bool                   `json:"success"`
	Movimientos []model.MovimientoCaja `json:"movimientos"`
}
