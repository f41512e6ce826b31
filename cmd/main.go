package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/controller"
	"scm_dev_v1_202608/internal/middleware"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/internal/router"
	"scm_dev_v1_202608/internal/service"
	"scm_dev_v1_202608/internal/task"
	"scm_dev_v1_202608/pkg/cache"
	"scm_dev_v1_202608/pkg/config"
	"scm_dev_v1_202608/pkg/database"
	"scm_dev_v1_202608/pkg/logger"
)

func main() {
	// 1. 配置与日志
	cfg := config.Load()
	logger.Init(cfg.LogMode, cfg.LogFile)

	if cfg.JWTSecret != "" {
		jwtCfg := middleware.DefaultJWTConfig()
		jwtCfg.SecretKey = cfg.JWTSecret
		middleware.SetJWTConfig(jwtCfg)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 种子管理员账号
	seedAdmin(db)

	// 5. 启动定时任务
	repairTask := initTasks(cfg, deps)
	defer repairTask.Stop()

	// 6. 初始化路由
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	router.InitRoutes(r,
		deps.Controllers.Excel,
		deps.Controllers.Product,
		deps.Controllers.Category,
		deps.Controllers.Quote,
		deps.Controllers.Auth,
		deps.Controllers.Admin,
		deps.Controllers.Notification,
	)

	// 7. 启动服务
	startServer(r, cfg.ServerPort)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Product      repository.ProductRepository
	Category     repository.CategoryRepository
	Quote        repository.QuoteRepository
	Cart         repository.CartRepository
	Member       repository.MemberRepository
	Notification repository.NotificationRepository
}

// Services 服务集合
type Services struct {
	Import       *service.ImportService
	Repair       *service.RepairService
	Export       *service.ExportService
	Product      *service.ProductService
	Category     *service.CategoryService
	Quote        *service.QuoteService
	Member       *service.MemberService
	Notification *service.NotificationService
	Dashboard    *service.DashboardService
}

// Controllers 控制器集合
type Controllers struct {
	Excel        *controller.ExcelController
	Product      *controller.ProductController
	Category     *controller.CategoryController
	Quote        *controller.QuoteController
	Auth         *controller.AuthController
	Admin        *controller.AdminController
	Notification *controller.NotificationController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.DatabaseDSN,
		// 商品目录
		&model.Category{}, &model.Product{},
		// 会员与交易
		&model.Member{}, &model.CartItem{},
		&model.Quote{}, &model.QuoteItem{},
		// 公告
		&model.Notification{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Product:      repository.NewProductRepository(db),
		Category:     repository.NewCategoryRepository(db),
		Quote:        repository.NewQuoteRepository(db),
		Cart:         repository.NewCartRepository(db),
		Member:       repository.NewMemberRepository(db),
		Notification: repository.NewNotificationRepository(db),
	}

	// -------- 商品缓存（可选） --------
	var productCache *cache.ProductCache
	if cfg.RedisEnable {
		productCache = cache.NewProductCache(cfg.RedisAddr)
	}

	// -------- 业务服务 --------
	services := &Services{
		Import:       service.NewImportService(db, repos.Product, repos.Category, productCache),
		Repair:       service.NewRepairService(db),
		Export:       service.NewExportService(db),
		Product:      service.NewProductService(repos.Product, repos.Category, productCache),
		Category:     service.NewCategoryService(repos.Category, repos.Product, productCache),
		Quote:        service.NewQuoteService(db, repos.Quote, repos.Cart),
		Member:       service.NewMemberService(repos.Member),
		Notification: service.NewNotificationService(repos.Notification),
		Dashboard:    service.NewDashboardService(repos.Product, repos.Member, repos.Quote),
	}

	// -------- Controller 层 --------
	controllers := &Controllers{
		Excel:        controller.NewExcelController(services.Import, services.Repair, services.Export),
		Product:      controller.NewProductController(services.Product),
		Category:     controller.NewCategoryController(services.Category),
		Quote:        controller.NewQuoteController(services.Quote),
		Auth:         controller.NewAuthController(services.Member),
		Admin:        controller.NewAdminController(services.Member, services.Dashboard),
		Notification: controller.NewNotificationController(services.Notification),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// seedAdmin 首次启动时创建默认管理员（ADMIN_USERNAME/ADMIN_PASSWORD 可覆盖）
func seedAdmin(db *gorm.DB) {
	username := getEnv("ADMIN_USERNAME", "admin")

	var count int64
	if err := db.Model(&model.Member{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		zap.S().Warnf("管理员账号检查失败: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(getEnv("ADMIN_PASSWORD", "admin1234")), bcrypt.DefaultCost)
	if err != nil {
		zap.S().Warnf("管理员口令生成失败: %v", err)
		return
	}

	now := time.Now()
	admin := &model.Member{
		Username:     username,
		PasswordHash: string(hash),
		CompanyName:  "SCM",
		Role:         model.RoleAdmin,
		IsApproved:   true,
		ApprovedAt:   &now,
	}
	if err := db.Create(admin).Error; err != nil {
		zap.S().Warnf("管理员账号创建失败: %v", err)
		return
	}
	zap.S().Infof("默认管理员已创建: %s", username)
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies) *task.RepairTask {
	repairTask := task.NewRepairTask(deps.Services.Repair, cfg.RepairCron)
	repairTask.Start()
	return repairTask
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		zap.S().Infof("服务启动，监听 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("收到退出信号，开始优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorf("关闭异常: %v", err)
	}
	zap.S().Info("服务已退出")
}

// getEnv 读取环境变量，不存在时返回默认值
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
