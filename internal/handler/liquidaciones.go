package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincalibro/internal/dto"
	"fincalibro/internal/middleware"
	"fincalibro/internal/repository"
	"fincalibro/internal/service"
)

type LiquidacionHandler struct{ svc service.LiquidacionService }

func NewLiquidacionHandler(svc service.LiquidacionService) *LiquidacionHandler {
	return &LiquidacionHandler{svc: svc}
}

// EntradasPendientes godoc
// @Summary Lista las entradas sin liquidar de la finca activa
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EntradasPendientesResponse
// @Router /v1/liquidaciones/entradas-pendientes [get]
func (h *LiquidacionHandler) EntradasPendientes(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	entradas, err := h.svc.EntradasPendientes(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EntradasPendientesResponse{Success: true, Entradas: entradas})
}

// GastosPendientes godoc
// @Summary Lista los gastos sin liquidar con su valoración de inventario a precios actuales
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.GastosPendientesResponse
// @Router /v1/liquidaciones/gastos-pendientes [get]
func (h *LiquidacionHandler) GastosPendientes(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	gastos, err := h.svc.GastosPendientes(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GastosPendientesResponse{Success: true, Gastos: gastos})
}

// Procesar godoc
// @Summary Procesa una liquidación sobre las entradas y gastos seleccionados
// @Tags liquidaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ProcesarLiquidacionRequest true "Selección"
// @Success 201 {object} dto.ProcesarLiquidacionResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/liquidaciones/procesar [post]
func (h *LiquidacionHandler) Procesar(c *gin.Context) {
	var req dto.ProcesarLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, finca := middleware.GetScope(c)

	resp, err := h.svc.Procesar(c.Request.Context(), usuarioID, finca, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Historial godoc
// @Summary Lista liquidaciones pasadas, más recientes primero
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Param fechaInicio query string false "Desde (RFC3339 o YYYY-MM-DD)"
// @Param fechaFin query string false "Hasta"
// @Param limite query int false "Máximo de filas (default 50)"
// @Success 200 {object} dto.HistorialResponse
// @Router /v1/liquidaciones/historial [get]
func (h *LiquidacionHandler) Historial(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)
	f := repository.HistorialFiltros{
		FechaInicio: parseFecha(c.Query("fechaInicio")),
		FechaFin:    parseFecha(c.Query("fechaFin")),
		Limite:      parseLimite(c, 50, 500),
	}

	liqs, err := h.svc.Historial(c.Request.Context(), usuarioID, finca, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.HistorialResponse{Success: true, Liquidaciones: liqs})
}

// Stats godoc
// @Summary Totales y promedios de las liquidaciones completadas
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LiquidacionStatsResponse
// @Router /v1/liquidaciones/stats/resumen [get]
func (h *LiquidacionHandler) Stats(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	stats, err := h.svc.Stats(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LiquidacionStatsResponse{Success: true, Stats: stats})
}

// Obtener godoc
// @Summary Devuelve una liquidación con sus snapshots
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.LiquidacionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/liquidaciones/{id} [get]
func (h *LiquidacionHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	liq, err := h.svc.Obtener(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LiquidacionResponse{Success: true, Liquidacion: liq})
}

// Cancelar godoc
// @Summary Marca una liquidación como cancelada
// @Tags liquidaciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.LiquidacionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/liquidaciones/{id}/cancelar [patch]
func (h *LiquidacionHandler) Cancelar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	liq, err := h.svc.Cancelar(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LiquidacionResponse{Success: true, Liquidacion: liq})
}

// PDF godoc
// @Summary Descarga el comprobante PDF de una liquidación
// @Tags liquidaciones
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/liquidaciones/{id}/pdf [get]
func (h *LiquidacionHandler) PDF(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	path, err := h.svc.GenerarPDF(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "liquidacion_"+id.String()+".pdf")
}
