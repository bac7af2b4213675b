package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fincalibro/internal/apierror"
	"fincalibro/internal/repository"
)

const (
	ClaimsKey    = "claims"
	UsuarioIDKey = "usuario_id"
	FincaKey     = "finca"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID  string `json:"user_id"`
	Usuario string `json:"usuario"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// FarmScope resolves the caller's active finca from the database and
// injects (usuarioID, finca) into the context. The finca may be empty;
// each service decides whether that is an error for its operation, so
// read-only endpoints can answer with defined zero values instead.
//
// The fresh DB read means a finca switch takes effect on the very next
// request, token contents notwithstanding.
func FarmScope(usuarios repository.UsuarioRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}

		usuarioID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}

		u, err := usuarios.FindByID(c.Request.Context(), usuarioID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Usuario no encontrado"))
			return
		}

		c.Set(UsuarioIDKey, u.ID)
		c.Set(FincaKey, u.FincaActiva)
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
// Returns nil when JWTAuth did not run, so callers answer 401 instead of
// panicking on a mis-ordered middleware chain.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// GetScope returns the (usuarioID, finca) pair injected by FarmScope.
func GetScope(c *gin.Context) (uuid.UUID, string) {
	v, _ := c.Get(UsuarioIDKey)
	usuarioID, _ := v.(uuid.UUID)
	finca := c.GetString(FincaKey)
	return usuarioID, finca
}
