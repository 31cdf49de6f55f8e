//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式：
// Step 1: 修改本文件中的Provider分组
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
//
// 与main.go中的手动组装等价，Wire在编译期生成同样的代码，
// 优势是依赖链变化时不需要手工调整构造顺序。

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
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
	"github.com/xiebiao/fabricshop/pkg/mq"
	"github.com/xiebiao/fabricshop/pkg/response"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,      // 用户仓储
	mysql.NewCustomerRepository,  // 客户仓储
	mysql.NewProductRepository,   // 产品仓储
	mysql.NewInvoiceRepository,   // 发票仓储
	mysql.NewInventoryRepository, // 库存台账仓储
	mysql.NewTxManager,           // 事务管理器
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService, // 用户领域服务
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	provideEventPublisher, // 发票事件发布器（依赖可选的MQ连接）

	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewProfileUseCase,
	appuser.NewDeactivateUserUseCase,
	appcustomer.NewManageCustomerUseCase,
	appproduct.NewManageProductUseCase,
	appinvoice.NewCreateInvoiceUseCase,
	appinvoice.NewReserveInvoiceUseCase,
	appinvoice.NewApproveInvoiceUseCase,
	appinvoice.NewShipInvoiceUseCase,
	appinvoice.NewDeliverInvoiceUseCase,
	appinvoice.NewCancelInvoiceUseCase,
	appinvoice.NewQueryInvoicesUseCase,
	appinventory.NewRecordTransactionUseCase,
	appinventory.NewListTransactionsUseCase,
	appinventory.NewProductQuantityUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewCustomerHandler,
	handler.NewProductHandler,
	handler.NewInvoiceHandler,
	handler.NewInventoryHandler,
)

// provideJWTManager 从配置创建JWT管理器
// config.Config包含多个字段，Wire无法自动提取，需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideEventPublisher 创建发票事件发布器
// MQ是可选组件：未启用时传入nil Publisher，发布操作降级为空操作
func provideEventPublisher(cfg *config.Config) (*appinvoice.EventPublisher, error) {
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		var err error
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			return nil, err
		}
	}
	return appinvoice.NewEventPublisher(publisher), nil
}

// provideGinEngine 创建并配置Gin引擎
// 路由在这里注册，避免与main.go中的registerRoutes冲突
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	customerHandler *handler.CustomerHandler,
	productHandler *handler.ProductHandler,
	invoiceHandler *handler.InvoiceHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing("fabricshop-api"))
	}
	r.Use(middleware.Metrics())

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

		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			customers := authorized.Group("/customers")
			{
				customers.POST("", customerHandler.Create)
				customers.GET("", customerHandler.List)
				customers.GET("/:id", customerHandler.Get)
				customers.PUT("/:id", customerHandler.Update)
			}

			products := authorized.Group("/products")
			{
				products.POST("", productHandler.Create)
				products.GET("", productHandler.List)
				products.GET("/:id", productHandler.Get)
				products.PUT("/:id", productHandler.Update)
			}

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

	return r
}

// InitializeApp 初始化整个应用
// Wire会按依赖链顺序调用所有Provider，生成代码写入wire_gen.go
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	// 占位返回值，实际初始化代码由wire_gen.go提供
	return nil, nil
}
