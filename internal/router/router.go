package router

import (
	"time"

	"distriverde/internal/config"
	"distriverde/internal/handler"
	"distriverde/internal/middleware"
	"distriverde/internal/repository"
	"distriverde/internal/service"
	"distriverde/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	productoSvc := service.NewProductoService(productoRepo, pedidoRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, clienteRepo, productoRepo, reporteRepo, dispatcher, cfg.ConsolidadoEmail)
	reporteSvc := service.NewReporteService(reporteRepo, productoRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes — single operator, every authenticated user has
	// full access
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		productos := v1.Group("/productos")
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/:id", productosH.Obtener)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Archivar)
			productos.PATCH("/:id/reactivar", productosH.Reactivar)
			productos.PATCH("/:id/stock", productosH.AjustarStock)
			productos.POST("/sincronizar-precios", productosH.SincronizarPrecios)
			productos.POST("/ajustar-y-sincronizar", productosH.AjustarYSincronizar)
		}

		pedidos := v1.Group("/pedidos")
		{
			pedidos.GET("", pedidosH.Listar)
			pedidos.POST("/manual", pedidosH.CrearManual)
			pedidos.POST("/facturar-confirmados", pedidosH.FacturarConfirmados)
			pedidos.POST("/archivar-facturados", pedidosH.ArchivarFacturados)
			pedidos.GET("/:id", pedidosH.Detalle)
			pedidos.PUT("/:id/items", pedidosH.EditarItems)
			pedidos.POST("/:id/facturar", pedidosH.Facturar)
			pedidos.POST("/:id/pagar", pedidosH.MarcarPagado)
			pedidos.DELETE("/:id", pedidosH.Eliminar)
			pedidos.GET("/:id/boleta.pdf", pedidosH.Boleta)
		}

		reportes := v1.Group("/reportes")
		{
			reportes.GET("/consolidado", reportesH.Consolidado)
			reportes.GET("/consolidado.pdf", reportesH.ConsolidadoPDF)
			reportes.GET("/deudores", reportesH.Deudores)
			reportes.GET("/huevos", reportesH.Huevos)
			reportes.GET("/pedidos-con-huevos", reportesH.PedidosConHuevos)
			reportes.GET("/negocio", reportesH.Negocio)
			reportes.GET("/kpis", reportesH.KPIs)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
