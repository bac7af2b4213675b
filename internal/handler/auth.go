package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincalibro/internal/dto"
	"fincalibro/internal/middleware"
	"fincalibro/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Inicia sesión y devuelve un token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Devuelve el usuario autenticado con sus fincas
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UsuarioInfo
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	usuarioID, _ := middleware.GetScope(c)

	info, err := h.svc.Me(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "usuario": info})
}

// CambiarFinca godoc
// @Summary Cambia la finca activa del usuario
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CambiarFincaRequest true "Finca destino"
// @Success 200 {object} dto.UsuarioInfo
// @Failure 403 {object} apierror.APIError
// @Router /v1/auth/finca-activa [put]
func (h *AuthHandler) CambiarFinca(c *gin.Context) {
	var req dto.CambiarFincaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, _ := middleware.GetScope(c)

	info, err := h.svc.CambiarFinca(c.Request.Context(), usuarioID, req.Finca)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "usuario": info})
}
