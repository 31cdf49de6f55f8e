package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appcustomer "github.com/xiebiao/fabricshop/internal/application/customer"
	appinventory "github.com/xiebiao/fabricshop/internal/application/inventory"
	appinvoice "github.com/xiebiao/fabricshop/internal/application/invoice"
	appproduct "github.com/xiebiao/fabricshop/internal/application/product"
	appuser "github.com/xiebiao/fabricshop/internal/application/user"
	"github.com/xiebiao/fabricshop/internal/domain/user"
	"github.com/xiebiao/fabricshop/internal/infrastructure/config"
	"github.com/xiebiao/fabricshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/fabricshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/fabricshop/internal/interface/http/handler"
	"github.com/xiebiao/fabricshop/internal/interface/http/middleware"
	"github.com/xiebiao/fabricshop/pkg/jwt"
	"github.com/xiebiao/fabricshop/pkg/metrics"
	"github.com/xiebiao/fabricshop/pkg/mq"
	"github.com/xiebiao/fabricshop/pkg/response"
	"github.com/xiebiao/fabricshop/pkg/tracing"
)

// main 主程序入口（手动依赖注入，Wire配置见wire.go）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化可观测性组件
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("fabricshop-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
	}

	// 3. 初始化数据库与Redis
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 4. 初始化消息队列（可选组件，关闭时事件发布降级为空操作）
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer publisher.Close()
		fmt.Println("✓ RabbitMQ连接成功")
	}

	// 5. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	customerRepo := mysql.NewCustomerRepository(db)
	productRepo := mysql.NewProductRepository(db)
	invoiceRepo := mysql.NewInvoiceRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	events := appinvoice.NewEventPublisher(publisher)

	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	profileUseCase := appuser.NewProfileUseCase(userRepo, sessionStore)
	deactivateUserUseCase := appuser.NewDeactivateUserUseCase(userRepo, sessionStore)

	manageCustomerUseCase := appcustomer.NewManageCustomerUseCase(customerRepo)
	manageProductUseCase := appproduct.NewManageProductUseCase(productRepo)

	createInvoiceUseCase := appinvoice.NewCreateInvoiceUseCase(invoiceRepo, productRepo, customerRepo, txManager, events)
	reserveInvoiceUseCase := appinvoice.NewReserveInvoiceUseCase(invoiceRepo, productRepo, inventoryRepo, txManager, events)
	approveInvoiceUseCase := appinvoice.NewApproveInvoiceUseCase(invoiceRepo, txManager, events)
	shipInvoiceUseCase := appinvoice.NewShipInvoiceUseCase(invoiceRepo, inventoryRepo, txManager, events)
	deliverInvoiceUseCase := appinvoice.NewDeliverInvoiceUseCase(invoiceRepo, txManager, events)
	cancelInvoiceUseCase := appinvoice.NewCancelInvoiceUseCase(invoiceRepo, productRepo, inventoryRepo, txManager, events)
	queryInvoicesUseCase := appinvoice.NewQueryInvoicesUseCase(invoiceRepo)

	recordTransactionUseCase := appinventory.NewRecordTransactionUseCase(productRepo, inventoryRepo, txManager)
	listTransactionsUseCase := appinventory.NewListTransactionsUseCase(inventoryRepo)
	productQuantityUseCase := appinventory.NewProductQuantityUseCase(productRepo, inventoryRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase,
		profileUseCase, deactivateUserUseCase)
	customerHandler := handler.NewCustomerHandler(manageCustomerUseCase)
	productHandler := handler.NewProductHandler(manageProductUseCase)
	invoiceHandler := handler.NewInvoiceHandler(
		createInvoiceUseCase, reserveInvoiceUseCase, approveInvoiceUseCase,
		shipInvoiceUseCase, deliverInvoiceUseCase, cancelInvoiceUseCase,
		queryInvoicesUseCase,
	)
	inventoryHandler := handler.NewInventoryHandler(recordTransactionUseCase, listTransactionsUseCase, productQuantityUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 6. 初始化Gin引擎并注册路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing("fabricshop-api"))
	}
	r.Use(middleware.Metrics())

	registerRoutes(r, userHandler, customerHandler, productHandler, invoiceHandler, inventoryHandler, authMiddleware)

	// 7. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	customerHandler *handler.CustomerHandler,
	productHandler *handler.ProductHandler,
	invoiceHandler *handler.InvoiceHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档（生产环境建议禁用或加访问控制）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块（注册/登录公开，其余需要登录）
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
			users.GET("/me", authMiddleware.RequireAuth(), userHandler.Me)
			users.DELETE("/:id",
				authMiddleware.RequireAuth(),
				authMiddleware.RequireRoles(user.RoleAdmin),
				userHandler.Deactivate)
		}

		// 以下接口全部需要登录
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			// 客户模块
			customers := authorized.Group("/customers")
			{
				customers.POST("", customerHandler.Create)
				customers.GET("", customerHandler.List)
				customers.GET("/:id", customerHandler.Get)
				customers.PUT("/:id", customerHandler.Update)
			}

			// 产品模块
			products := authorized.Group("/products")
			{
				products.POST("", productHandler.Create)
				products.GET("", productHandler.List)
				products.GET("/:id", productHandler.Get)
				products.PUT("/:id", productHandler.Update)
			}

			// 发票模块：每个生命周期转移一个端点，
			// 角色与状态的细粒度判定在应用层状态机中
			invoices := authorized.Group("/invoices")
			{
				invoices.POST("", invoiceHandler.Create)
				invoices.GET("", invoiceHandler.List)
				invoices.GET("/:id", invoiceHandler.Get)
				invoices.POST("/:id/reserve", invoiceHandler.Reserve)
				invoices.POST("/:id/approve", invoiceHandler.Approve)
				invoices.POST("/:id/ship", invoiceHandler.Ship)
				invoices.POST("/:id/deliver", invoiceHandler.Deliver)
				invoices.POST("/:id/cancel", invoiceHandler.Cancel)
			}

			// 库存台账模块（手工台账入口只对admin/warehouse开放）
			inventory := authorized.Group("/inventory")
			{
				inventory.POST("/transactions",
					authMiddleware.RequireRoles(user.RoleAdmin, user.RoleWarehouse),
					inventoryHandler.Record)
				inventory.GET("/transactions", inventoryHandler.List)
				inventory.GET("/products/:id/quantity", inventoryHandler.Quantity)
			}
		}
	}
}
