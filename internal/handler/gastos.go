package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincalibro/internal/dto"
	"fincalibro/internal/middleware"
	"fincalibro/internal/service"
)

type GastoHandler struct{ svc service.GastoService }

func NewGastoHandler(svc service.GastoService) *GastoHandler { return &GastoHandler{svc: svc} }

// Crear godoc
// @Summary Registra un gasto, descontando stock por cada consumo
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearGastoRequest true "Gasto"
// @Success 201 {object} dto.GastoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/gastos [post]
func (h *GastoHandler) Crear(c *gin.Context) {
	var req dto.CrearGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, finca := middleware.GetScope(c)

	g, err := h.svc.Crear(c.Request.Context(), usuarioID, finca, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GastoResponse{Success: true, Gasto: g})
}

// Listar godoc
// @Summary Lista gastos con sus consumos
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Param fechaInicio query string false "Desde"
// @Param fechaFin query string false "Hasta"
// @Param limite query int false "Máximo de filas (default 100)"
// @Success 200 {object} dto.GastosListResponse
// @Router /v1/gastos [get]
func (h *GastoHandler) Listar(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)
	f := dto.GastoFiltros{
		FechaInicio: parseFecha(c.Query("fechaInicio")),
		FechaFin:    parseFecha(c.Query("fechaFin")),
		Limite:      parseLimite(c, 100, 500),
	}

	gastos, err := h.svc.Listar(c.Request.Context(), usuarioID, finca, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GastosListResponse{Success: true, Gastos: gastos})
}

// Obtener godoc
// @Summary Devuelve un gasto
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.GastoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/gastos/{id} [get]
func (h *GastoHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	g, err := h.svc.Obtener(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GastoResponse{Success: true, Gasto: g})
}

// Eliminar godoc
// @Summary Elimina un gasto no liquidado y repone el stock consumido
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} apierror.APIError
// @Router /v1/gastos/{id} [delete]
func (h *GastoHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	if err := h.svc.Eliminar(c.Request.Context(), id, usuarioID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Stats godoc
// @Summary Resumen histórico y mensual de gastos
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.GastoStatsResponse
// @Router /v1/gastos/stats/resumen [get]
func (h *GastoHandler) Stats(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	stats, err := h.svc.Stats(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GastoStatsResponse{Success: true, Stats: stats})
}
