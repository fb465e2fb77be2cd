package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/guardianauth/domain"
	"github.com/you/guardianauth/internal/config"
	"github.com/you/guardianauth/internal/http/handlers"
	"github.com/you/guardianauth/internal/http/middleware"
	"github.com/you/guardianauth/internal/infrastructure/audit"
	"github.com/you/guardianauth/internal/infrastructure/auth"
	"github.com/you/guardianauth/internal/infrastructure/database"
	"github.com/you/guardianauth/internal/infrastructure/notifications"
	"github.com/you/guardianauth/internal/infrastructure/repositories"
	"github.com/you/guardianauth/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories and stores
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository
	OTPStore    domain.OTPStore

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	Audit           domain.AuditLogger
	AuthSvc         domain.AuthService
	OTPSvc          domain.OTPService
	PolicySvc       domain.PolicyService

	// HTTP layer
	AuthHandlers   *handlers.AuthHandlers
	UserHandlers   *handlers.UserHandlers
	PolicyHandlers *handlers.PolicyHandlers
	AuthMW         *middleware.AuthMW
	CasbinMW       *middleware.CasbinMW
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHTTP()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas

	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient)
	c.OTPStore = repositories.NewOTPStore(c.RedisClient)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService(0)
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTRefreshSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.NotificationSvc = notifications.NewNotifier(
		notifications.SMTPConfig{
			Host:     c.Config.SMTPHost,
			Port:     c.Config.SMTPPort,
			From:     c.Config.SMTPFrom,
			Username: c.Config.SMTPUsername,
			Password: c.Config.SMTPPassword,
		},
		notifications.TwilioConfig{
			AccountSID: c.Config.TwilioSID,
			AuthToken:  c.Config.TwilioToken,
			FromNumber: c.Config.TwilioFrom,
		},
		c.Logger,
	)
	c.Audit = audit.NewZapAuditLogger(c.Logger)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.NotificationSvc,
		c.Audit,
		c.Logger,
		services.AuthConfig{
			FrontendURL:     c.Config.FrontendURL,
			VerificationTTL: c.Config.VerificationTTL,
			ResetTTL:        c.Config.ResetTTL,
		},
	)
	c.OTPSvc = services.NewOTPService(
		c.OTPStore,
		c.UserRepo,
		c.SessionRepo,
		c.TokenSvc,
		c.NotificationSvc,
		c.Audit,
		c.Logger,
		services.OTPConfig{
			Length: c.Config.OTPLength,
			TTL:    c.Config.OTPTTL,
		},
	)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

func (c *Container) initHTTP() {
	c.AuthHandlers = handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc)
	c.UserHandlers = handlers.NewUserHandlers(c.AuthSvc, c.UserRepo)
	c.PolicyHandlers = handlers.NewPolicyHandlers(c.PolicySvc)
	c.AuthMW = middleware.NewAuthMW(c.TokenSvc)
	c.CasbinMW = middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(c.Casbin.E))
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
