package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincalibro/internal/infra"
	"fincalibro/internal/middleware"
)

type RecogidasHandler struct{ client *infra.RecogidasClient }

func NewRecogidasHandler(client *infra.RecogidasClient) *RecogidasHandler {
	return &RecogidasHandler{client: client}
}

// Listar godoc
// @Summary Devuelve las recogidas del servicio externo (passthrough opaco)
// @Tags recogidas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object
// @Failure 503 {object} apierror.APIError
// @Router /v1/recogidas [get]
func (h *RecogidasHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)

	payload, err := h.client.Listar(c.Request.Context(), claims.Usuario)
	if err != nil {
		respondError(c, err)
		return
	}
	// The harvest service's schema is its own; pass the JSON through
	// untouched.
	c.Data(http.StatusOK, "application/json", payload)
}
