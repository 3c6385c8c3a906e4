package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"smallbiz-backend/internal/config"
	infraCache "smallbiz-backend/internal/infrastructure/cache"
	"smallbiz-backend/internal/infrastructure/database"
	"smallbiz-backend/pkg/cache"
	"smallbiz-backend/pkg/jwt"

	billHandler "smallbiz-backend/internal/domains/bill/handler"
	billRepo "smallbiz-backend/internal/domains/bill/repository"
	billService "smallbiz-backend/internal/domains/bill/service"
	businessRepo "smallbiz-backend/internal/domains/business/repository"
	customerHandler "smallbiz-backend/internal/domains/customer/handler"
	customerRepo "smallbiz-backend/internal/domains/customer/repository"
	customerService "smallbiz-backend/internal/domains/customer/service"
	discountHandler "smallbiz-backend/internal/domains/discount/handler"
	discountRepo "smallbiz-backend/internal/domains/discount/repository"
	discountService "smallbiz-backend/internal/domains/discount/service"
	importHandler "smallbiz-backend/internal/domains/importer/handler"
	importRepo "smallbiz-backend/internal/domains/importer/repository"
	importService "smallbiz-backend/internal/domains/importer/service"
	productHandler "smallbiz-backend/internal/domains/product/handler"
	productRepo "smallbiz-backend/internal/domains/product/repository"
	productService "smallbiz-backend/internal/domains/product/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order: config, then
// infrastructure, then repositories, services and handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	BusinessRepo businessRepo.RepositoryInterface
	ProductRepo  productRepo.RepositoryInterface
	BillRepo     billRepo.RepositoryInterface
	CustomerRepo customerRepo.RepositoryInterface
	ImportRepo   importRepo.RepositoryInterface
	DiscountRepo discountRepo.RepositoryInterface

	ImportProcessor importService.ProcessorInterface
	DiscountService discountService.ServiceInterface
	ProductService  productService.ServiceInterface
	BillService     billService.ServiceInterface
	CustomerService customerService.ServiceInterface

	ImportHandler   *importHandler.ImportHandler
	DiscountHandler *discountHandler.DiscountHandler
	ProductHandler  *productHandler.ProductHandler
	BillHandler     *billHandler.BillHandler
	CustomerHandler *customerHandler.CustomerHandler

	redis *infraCache.RedisCache
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	c.DB = database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	c.redis = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.Cache = c.redis
	if err := c.Cache.Ping(ctx); err != nil {
		// Redis only backs the rule cache; a miss on startup is not fatal.
		log.Warn().Err(err).Msg("Redis unavailable, rule cache degraded")
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	pool := c.DB.Pool
	c.BusinessRepo = businessRepo.NewBusinessRepository(pool)
	c.ProductRepo = productRepo.NewProductRepository(pool)
	c.BillRepo = billRepo.NewBillRepository(pool)
	c.CustomerRepo = customerRepo.NewCustomerRepository(pool)
	c.ImportRepo = importRepo.NewImportRepository(pool)
	c.DiscountRepo = discountRepo.NewDiscountRepository(pool)

	c.ImportProcessor = importService.NewProcessor(
		importService.NewValidator(),
		c.ImportRepo,
		c.BusinessRepo,
		c.ProductRepo,
		c.BillRepo,
		c.CustomerRepo,
		importService.DefaultInsertPolicy(),
	)
	c.DiscountService = discountService.NewDiscountService(
		c.DiscountRepo,
		c.BusinessRepo,
		discountService.NewEvaluator(),
		c.Cache,
	)
	c.ProductService = productService.NewProductService(c.ProductRepo, c.BusinessRepo)
	c.BillService = billService.NewBillService(c.BillRepo, c.BusinessRepo)
	c.CustomerService = customerService.NewCustomerService(c.CustomerRepo, c.BusinessRepo)

	c.ImportHandler = importHandler.NewImportHandler(c.ImportProcessor)
	c.DiscountHandler = discountHandler.NewDiscountHandler(c.DiscountService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.BillHandler = billHandler.NewBillHandler(c.BillService)
	c.CustomerHandler = customerHandler.NewCustomerHandler(c.CustomerService)

	log.Info().Msg("Container initialized")
	return c, nil
}

// Close releases infrastructure resources in reverse order.
func (c *Container) Close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
