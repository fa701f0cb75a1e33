package router

import (
	"github.com/gin-gonic/gin"

	"seal-system/internal/api"
	"seal-system/internal/api/admin"
	"seal-system/internal/middleware"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine) {
	// 健康检查接口（不需要任何中间件）
	r.GET("/api/v1/health", api.SimpleHealthCheck)

	// 扫码入口：印在标签二维码里的短链接
	r.GET("/s/:code", api.ScanEntry)

	// 公开API路由
	setupPublicRoutes(r)

	// 合作方API路由
	setupPartnerRoutes(r)

	// 运营端API路由
	setupAdminRoutes(r)
}

// setupPublicRoutes 设置公开API路由
func setupPublicRoutes(r *gin.Engine) {
	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.Logger())
	apiGroup.Use(middleware.Recovery())
	apiGroup.Use(middleware.Cors())

	// 认证相关
	auth := apiGroup.Group("/auth")
	{
		auth.POST("/login", api.Login)
	}

	// 公开验证接口（不需要认证，只读，永不跳转）
	apiGroup.GET("/verify/:code", api.VerifyToken)

	// 扫码入口的API路径别名
	apiGroup.GET("/s/:code", api.ScanEntry)
}

// setupPartnerRoutes 设置合作方API路由
func setupPartnerRoutes(r *gin.Engine) {
	partnerGroup := r.Group("/api/v1/partner")
	partnerGroup.Use(middleware.Logger())
	partnerGroup.Use(middleware.Recovery())
	partnerGroup.Use(middleware.Cors())
	partnerGroup.Use(middleware.JWT())
	partnerGroup.Use(middleware.PartnerAuth())
	{
		// 扫码会话
		session := partnerGroup.Group("/session")
		{
			session.GET("", api.GetActiveSession)    // 查询当前生效会话
			session.POST("", api.OpenSession)        // 开启会话
			session.POST("/close", api.CloseSession) // 关闭会话
		}

		// 扫码绑定
		scan := partnerGroup.Group("/scan")
		{
			scan.POST("/bind", api.BindFromScan)    // 扫码绑定
			scan.POST("/rebind", api.ConfirmRebind) // 确认换绑
		}

		partnerGroup.GET("/bindings", api.GetPartnerBindings) // 绑定记录
	}
}

// setupAdminRoutes 设置运营端API路由
func setupAdminRoutes(r *gin.Engine) {
	adminGroup := r.Group("/api/v1/admin")
	adminGroup.Use(middleware.Logger())
	adminGroup.Use(middleware.Recovery())
	adminGroup.Use(middleware.Cors())
	adminGroup.Use(middleware.JWT())
	adminGroup.Use(middleware.OperatorAuth())
	{
		// 防伪码管理
		tokens := adminGroup.Group("/tokens")
		{
			tokens.POST("/batch", admin.CreateTokenBatch) // 批量铸码
			tokens.GET("", admin.GetTokens)               // 防伪码列表
			tokens.GET("/:id", admin.GetToken)            // 单个防伪码及当前绑定
			tokens.POST("/:id/revoke", admin.RevokeToken) // 作废防伪码
		}

		// 标签生成
		seals := adminGroup.Group("/seals")
		{
			seals.POST("/generate", admin.GenerateSeals) // 生成矢量图与排版
			seals.POST("/pdf", admin.GeneratePDF)        // 生成可打印PDF
			seals.GET("/preview", admin.PreviewLayout)   // 排版预览
		}

		// 批次管理
		sheets := adminGroup.Group("/sheets")
		{
			sheets.GET("", admin.GetSheets)                       // 批次列表
			sheets.GET("/:id", admin.GetSheet)                    // 单个批次
			sheets.POST("/:id/assign", admin.AssignSheet)         // 分配给合作方
			sheets.POST("/:id/revoke", admin.RevokeSheet)         // 作废批次
			sheets.GET("/:id/verify-hash", admin.VerifySheetHash) // 校验批次哈希
		}

		// 跳转规则管理，兜底规则走独立入口
		redirects := adminGroup.Group("/redirect-rules")
		{
			redirects.GET("", admin.GetRedirectRules)                      // 规则列表
			redirects.POST("", admin.CreateRedirectRule)                   // 创建规则
			redirects.GET("/fallback", admin.GetFallbackRule)              // 查询兜底规则
			redirects.PUT("/fallback", admin.UpsertFallbackRule)           // 创建或更新兜底规则
			redirects.POST("/fallback/disable", admin.DisableFallbackRule) // 停用兜底规则
			redirects.GET("/:id", admin.GetRedirectRule)                   // 单条规则
			redirects.PUT("/:id", admin.UpdateRedirectRule)                // 更新规则
			redirects.DELETE("/:id", admin.DeleteRedirectRule)             // 删除规则
		}

		// 合作方与产品管理
		partners := adminGroup.Group("/partners")
		{
			partners.GET("", admin.GetPartners)    // 合作方列表
			partners.POST("", admin.CreatePartner) // 创建合作方
		}
		products := adminGroup.Group("/products")
		{
			products.GET("", admin.GetProducts)    // 产品列表
			products.POST("", admin.CreateProduct) // 创建产品
		}

		// 账号管理
		adminGroup.POST("/users", admin.CreateUser) // 创建员工账号

		// 审计与登录日志
		adminGroup.GET("/audit-logs", admin.GetAuditLogs)
		adminGroup.GET("/system/login-logs", admin.GetLoginLogs)
	}
}
