package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincalibro/internal/dto"
	"fincalibro/internal/middleware"
	"fincalibro/internal/service"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Actual godoc
// @Summary Devuelve la caja actual reconstruida de la finca activa
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CajaActualResponse
// @Router /v1/caja/actual [get]
func (h *CajaHandler) Actual(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	resp, err := h.svc.CajaActual(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso o retiro manual de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoCajaRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoCajaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, finca := middleware.GetScope(c)

	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), usuarioID, finca, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarMovimientos godoc
// @Summary Lista los movimientos de caja, más recientes primero
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param limite query int false "Máximo de filas (default 50, máx 500)"
// @Success 200 {object} dto.MovimientosListResponse
// @Router /v1/caja/movimientos [get]
func (h *CajaHandler) ListarMovimientos(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)
	limite := parseLimite(c, 50, 500)

	movs, err := h.svc.ListarMovimientos(c.Request.Context(), usuarioID, finca, limite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MovimientosListResponse{Success: true, Movimientos: movs})
}
