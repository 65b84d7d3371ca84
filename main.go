package main

import (
	"database/sql"
	"log"
	"net/http"

	catalogCache "sales/src/catalog/infrastructure/cache"
	catalogPersistence "sales/src/catalog/infrastructure/persistence"
	commissionApp "sales/src/commission/application"
	commissionController "sales/src/commission/infrastructure/controller"
	commissionPersistence "sales/src/commission/infrastructure/persistence"
	packagesApp "sales/src/packages/application"
	packagesController "sales/src/packages/infrastructure/controller"
	packagesPersistence "sales/src/packages/infrastructure/persistence"
	pricingApp "sales/src/pricing/application"
	pricingPersistence "sales/src/pricing/infrastructure/persistence"
	salesUseCase "sales/src/sales/application/usecase"
	salesController "sales/src/sales/infrastructure/controller"
	salesPersistence "sales/src/sales/infrastructure/persistence"
	sharedConfig "sales/src/shared/infrastructure/config"
	"sales/src/shared/infrastructure/metrics"
	"sales/src/shared/infrastructure/middleware"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // Driver de PostgreSQL
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("🚀 Sales Ledger Service - Iniciando...")

	cfg, err := sharedConfig.Load()
	if err != nil {
		log.Fatalf("❌ Configuración inválida: %v", err)
	}

	// Configurar el router con Gin
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Métricas Prometheus
	var salesMetrics *metrics.SalesMetrics
	if cfg.PrometheusEnabled {
		salesMetrics = metrics.NewSalesMetrics()
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Println("✅ Endpoint /metrics registrado")
	} else {
		log.Println("Métricas Prometheus deshabilitadas")
	}

	// Conectar a la base de datos
	log.Printf("Intentando conectar a %s", cfg.DBName)
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("❌ Error al abrir la conexión a la base de datos: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("❌ Error al verificar la conexión a la base de datos: %v", err)
	}
	log.Printf("✅ Conexión a %s establecida con éxito", cfg.DBName)

	// Cache de métodos de pago
	pmCache := catalogCache.NewPaymentMethodCache()
	if err := pmCache.LoadFromDB(db); err != nil {
		log.Fatalf("❌ Error al cargar métodos de pago: %v", err)
	}

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1: todas las operaciones del ledger requieren un atendente autenticado
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))

	setupModules(v1, db, pmCache, salesMetrics)

	log.Printf("✅ Servidor iniciado en http://localhost:%s", cfg.Port)
	router.Run(":" + cfg.Port)
}

// setupModules arma los módulos del ledger y registra sus rutas
func setupModules(router *gin.RouterGroup, db *sql.DB, pmCache *catalogCache.PaymentMethodCache, salesMetrics *metrics.SalesMetrics) {
	log.Println("Configurando módulos del ledger...")

	tx := sharedPersistence.NewSQLTxManager(db)

	// Repositorios
	clientRepo := catalogPersistence.NewClientPostgresRepository(db)
	serviceRepo := pricingPersistence.NewServicePostgresRepository(db)
	policyRepo := commissionPersistence.NewPolicyPostgresRepository(db)
	commissionRepo := commissionPersistence.NewCommissionPostgresRepository(db)
	packageRepo := packagesPersistence.NewPackagePostgresRepository(db)
	saleRepo := salesPersistence.NewSalePostgresRepository(db)
	refundRepo := salesPersistence.NewRefundPostgresRepository(db)

	// Servicios de aplicación compartidos entre casos de uso
	pricingResolver := pricingApp.NewResolver(serviceRepo)
	commissionResolver := commissionApp.NewResolver(policyRepo)
	commissionCalc := commissionApp.NewCalculator()
	packageLedger := packagesApp.NewLedger(packageRepo)

	// Casos de uso de ventas
	createSaleUC := salesUseCase.NewCreateSaleUseCase(saleRepo, clientRepo, pricingResolver, commissionResolver, commissionCalc, commissionRepo, packageLedger, pmCache, tx, salesMetrics)
	updateSaleUC := salesUseCase.NewUpdateSaleUseCase(saleRepo, pricingResolver, commissionResolver, commissionCalc, commissionRepo, packageLedger, pmCache, tx)
	confirmSaleUC := salesUseCase.NewConfirmSaleUseCase(saleRepo, pmCache)
	cancelSaleUC := salesUseCase.NewCancelSaleUseCase(saleRepo, commissionRepo, packageLedger, tx, salesMetrics)
	refundSaleUC := salesUseCase.NewRefundSaleUseCase(saleRepo, refundRepo, tx, salesMetrics)
	getSaleUC := salesUseCase.NewGetSaleUseCase(saleRepo, pmCache)
	listSalesUC := salesUseCase.NewListSalesUseCase(saleRepo, pmCache)

	// Controladores
	saleCtrl := salesController.NewSaleController(createSaleUC, updateSaleUC, confirmSaleUC, cancelSaleUC, refundSaleUC, getSaleUC, listSalesUC, refundRepo)
	packageCtrl := packagesController.NewPackageController(packageLedger)
	commissionCtrl := commissionController.NewCommissionController(commissionRepo)

	saleCtrl.RegisterRoutes(router)
	packageCtrl.RegisterRoutes(router)
	commissionCtrl.RegisterRoutes(router)

	log.Println("✅ Módulos configurados exitosamente")
}
