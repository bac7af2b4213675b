package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincalibro/internal/dto"
	"fincalibro/internal/middleware"
	"fincalibro/internal/service"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Crear godoc
// @Summary Da de alta un insumo de inventario
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearInventarioRequest true "Insumo"
// @Success 201 {object} dto.InventarioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventario [post]
func (h *InventarioHandler) Crear(c *gin.Context) {
	var req dto.CrearInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, finca := middleware.GetScope(c)

	p, err := h.svc.Crear(c.Request.Context(), usuarioID, finca, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.InventarioResponse{Success: true, Producto: p})
}

// Listar godoc
// @Summary Lista el inventario de la finca activa
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.InventarioListResponse
// @Router /v1/inventario [get]
func (h *InventarioHandler) Listar(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	productos, err := h.svc.Listar(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InventarioListResponse{Success: true, Productos: productos})
}

// Obtener godoc
// @Summary Devuelve un insumo
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.InventarioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventario/{id} [get]
func (h *InventarioHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	p, err := h.svc.Obtener(c.Request.Context(), id, usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InventarioResponse{Success: true, Producto: p})
}

// Actualizar godoc
// @Summary Modifica un insumo (el precio afecta liquidaciones futuras, nunca pasadas)
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param body body dto.ActualizarInventarioRequest true "Cambios"
// @Success 200 {object} dto.InventarioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventario/{id} [put]
func (h *InventarioHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ActualizarInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	p, err := h.svc.Actualizar(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InventarioResponse{Success: true, Producto: p})
}

// Eliminar godoc
// @Summary Elimina un insumo
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventario/{id} [delete]
func (h *InventarioHandler) Eliminar(c *gin.Context) {
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

// StockBajo godoc
// @Summary Lista insumos con stock bajo, menor stock primero
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param limite query number false "Umbral de stock (default: stock mínimo de cada insumo)"
// @Success 200 {object} dto.InventarioListResponse
// @Router /v1/inventario/alertas/stock-bajo [get]
func (h *InventarioHandler) StockBajo(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)
	limite := parseDecimalQuery(c, "limite")

	productos, err := h.svc.StockBajo(c.Request.Context(), usuarioID, finca, limite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InventarioListResponse{Success: true, Productos: productos})
}

// Stats godoc
// @Summary Valor total del inventario y desglose por categoría
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.InventarioStatsResponse
// @Router /v1/inventario/stats/resumen [get]
func (h *InventarioHandler) Stats(c *gin.Context) {
	usuarioID, finca := middleware.GetScope(c)

	stats, err := h.svc.Stats(c.Request.Context(), usuarioID, finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InventarioStatsResponse{Success: true, Stats: stats})
}
