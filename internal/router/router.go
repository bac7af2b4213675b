package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fincalibro/internal/config"
	"fincalibro/internal/handler"
	"fincalibro/internal/infra"
	"fincalibro/internal/middleware"
	"fincalibro/internal/repository"
	"fincalibro/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	var locker infra.FarmLocker
	if rdb != nil {
		locker = infra.NewRedisFarmLocker(rdb)
	} else {
		locker = infra.NewMemoryFarmLocker()
	}
	recogidasCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	recogidasClient := infra.NewRecogidasClient(cfg.RecogidasAPIURL, recogidasCB)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	entradaRepo := repository.NewEntradaRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	liquidacionRepo := repository.NewLiquidacionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	cajaSvc := service.NewCajaService(db, cajaRepo, liquidacionRepo, locker)
	liquidacionSvc := service.NewLiquidacionService(db, liquidacionRepo, entradaRepo, gastoRepo, inventarioRepo, cajaRepo, locker, cfg.PDFStoragePath)
	entradaSvc := service.NewEntradaService(entradaRepo)
	gastoSvc := service.NewGastoService(db, gastoRepo, inventarioRepo)
	inventarioSvc := service.NewInventarioService(inventarioRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	liquidacionesH := handler.NewLiquidacionHandler(liquidacionSvc)
	entradasH := handler.NewEntradaHandler(entradaSvc)
	gastosH := handler.NewGastoHandler(gastoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	recogidasH := handler.NewRecogidasHandler(recogidasClient)
	healthH := handler.NewHealthHandler(db, rdb, recogidasCB)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes: JWT first, then the per-request farm scope
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	scopeMW := middleware.FarmScope(usuarioRepo)
	v1 := r.Group("/v1", jwtMW, scopeMW)
	{
		v1.GET("/auth/me", authH.Me)
		v1.PUT("/auth/finca-activa", authH.CambiarFinca)

		caja := v1.Group("/caja")
		{
			caja.GET("/actual", cajaH.Actual)
			caja.POST("/movimientos", cajaH.RegistrarMovimiento)
			caja.GET("/movimientos", cajaH.ListarMovimientos)
		}

		liq := v1.Group("/liquidaciones")
		{
			liq.GET("/entradas-pendientes", liquidacionesH.EntradasPendientes)
			liq.GET("/gastos-pendientes", liquidacionesH.GastosPendientes)
			liq.POST("/procesar", liquidacionesH.Procesar)
			liq.GET("/historial", liquidacionesH.Historial)
			liq.GET("/stats/resumen", liquidacionesH.Stats)
			liq.GET("/:id", liquidacionesH.Obtener)
			liq.PATCH("/:id/cancelar", liquidacionesH.Cancelar)
			liq.GET("/:id/pdf", liquidacionesH.PDF)
		}

		entradas := v1.Group("/entradas")
		{
			entradas.POST("", entradasH.Crear)
			entradas.GET("", entradasH.Listar)
			entradas.GET("/stats/resumen", entradasH.Stats)
			entradas.GET("/:id", entradasH.Obtener)
			entradas.PUT("/:id", entradasH.Actualizar)
			entradas.DELETE("/:id", entradasH.Eliminar)
		}

		gastos := v1.Group("/gastos")
		{
			gastos.POST("", gastosH.Crear)
			gastos.GET("", gastosH.Listar)
			gastos.GET("/stats/resumen", gastosH.Stats)
			gastos.GET("/:id", gastosH.Obtener)
			gastos.DELETE("/:id", gastosH.Eliminar)
		}

		inventario := v1.Group("/inventario")
		{
			inventario.POST("", inventarioH.Crear)
			inventario.GET("", inventarioH.Listar)
			inventario.GET("/stats/resumen", inventarioH.Stats)
			inventario.GET("/alertas/stock-bajo", inventarioH.StockBajo)
			inventario.GET("/:id", inventarioH.Obtener)
			inventario.PUT("/:id", inventarioH.Actualizar)
			inventario.DELETE("/:id", inventarioH.Eliminar)
		}

		v1.GET("/recogidas", recogidasH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
