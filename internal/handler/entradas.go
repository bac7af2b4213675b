package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincalibro/internal/dto"
	"fincalibro/internal/middleware"
	"fincalibro/internal/service"
)

type EntradaHandler struct{ svc service.EntradaService }

func NewEntradaHandler(svc service.EntradaService) *EntradaHandler {
	return &EntradaHandler{svc: svc}
}

// Crear godoc
// @Summary Registra una entrada de dinero
// @Tags entradas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearEntradaRequest true "Entrada"
// @Success 201 {object} dto.EntradaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/entradas [post]
func (h *EntradaHandler) Crear(c *gin.Context) {
	var req dto.CrearEntradaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, finca := middleware.GetScope(c)

	e, err := h.svc.Crear(c.Request.Context(), usuarioID, finca, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.EntradaResponse{Success: true, Entrada: e})
}

// Listar godoc
// @Summary Lista entradas con filtros y estadísticas del conjunto filtrado
// @Tags entradas
// @Produce json
// @Security BearerAuth
// @Param fechaInicio query string false "Desde"
// @Param fechaFin query string false "Hasta"
// @Param descripcion query string false "Texto contenido en la descripción"
// @Param montoMin query number false "Valor mínimo"
// @Param montoMax query number false "Valor máximo"
// @Param limite query int false "Máximo de filas (default 100)"
// @Success 200 {object} dto.EntradasListResponse
// @Router /v1/entradas [get]
func (h *EntradaHandler) Listar(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)
	f := dto.EntradaFiltros{
		FechaInicio: parseFecha(c.Query("fechaInicio")),
		FechaFin:    parseFecha(c.Query("fechaFin")),
		Descripcion: c.Query("descripcion"),
		MontoMin:    parseDecimalQuery(c, "montoMin"),
		MontoMax:    parseDecimalQuery(c, "montoMax"),
		Limite:      parseLimite(c, 100, 500),
	}

	entradas, stats, err := h.svc.Listar(c.Request.Context(), usuarioID, finca, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EntradasListResponse{Success: true, Entradas: entradas, Estadisticas: stats})
}

// Obtener godoc
// @Summary Devuelve una entrada
// @Tags entradas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.EntradaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/entradas/{id} [get]
func (h *EntradaHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	e, err := h.svc.Obtener(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EntradaResponse{Success: true, Entrada: e})
}

// Actualizar godoc
// @Summary Modifica una entrada no liquidada
// @Tags entradas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.ActualizarEntradaRequest true "Cambios"
// @Success 200 {object} dto.EntradaResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/entradas/{id} [put]
func (h *EntradaHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ActualizarEntradaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	e, err := h.svc.Actualizar(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EntradaResponse{Success: true, Entrada: e})
}

// Eliminar godoc
// @Summary Elimina una entrada no liquidada
// @Tags entradas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} apierror.APIError
// @Router /v1/entradas/{id} [delete]
func (h *EntradaHandler) Eliminar(c *gin.Context) {
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
// @Summary Resumen histórico, mensual y semanal de entradas
// @Tags entradas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EntradaStatsResponse
// @Router /v1/entradas/stats/resumen [get]
func (h *EntradaHandler) Stats(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	stats, err := h.svc.Stats(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EntradaStatsResponse{Success: true, Stats: stats})
}
