package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/database"
	emails "go-court/internal/email"
	"go-court/internal/features/audit"
	"go-court/internal/features/auth"
	"go-court/internal/features/cases"
	cron_feature "go-court/internal/features/cron"
	"go-court/internal/features/export"
	"go-court/internal/features/notification"
	"go-court/internal/features/report"
	"go-court/internal/features/rule"
	"go-court/internal/features/system"
	"go-court/internal/features/user"
	"go-court/internal/features/workflow"
	"go-court/internal/logger"
	"go-court/internal/middleware"
	"go-court/internal/oracle"
	"go-court/internal/signcare"
	"go-court/pkg/utils"

	_ "go-court/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024, // submissions carry base64 PDFs
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, userRepo user.UserRepository, caseRepo cases.CaseRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure user indexes: %v", err)
				}
				if err := caseRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure case indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// NewRegistryClient builds the optional county registry connection.
// Without a DSN the export endpoint reports the registry unavailable.
func NewRegistryClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) export.RegistryClient {
	if cfg.RegistryDSN == "" {
		logger.Info("county registry export disabled: no DSN configured")
		return nil
	}

	client, err := export.NewPostgresRegistry(cfg.RegistryDSN)
	if err != nil {
		logger.Warn("county registry unavailable", zap.Error(err))
		return nil
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

// @title           County Court Filing Portal API
// @version         1.0
// @description     Incident-report filing backend: rule-based routing, e-signature workflow tracking and case administration.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// External clients
			signcare.NewClient,
			oracle.NewClient,
			NewRegistryClient,

			// Initialize Repository
			audit.NewAuditRepository,
			user.NewUserRepository,
			rule.NewRuleRepository,
			workflow.NewStepRepository,
			cases.NewCaseRepository,
			notification.NewNotificationRepository,
			emails.NewRepository,
			cron_feature.NewSweepRepository,

			audit.NewAuditService,
			user.NewUserService,
			auth.NewAuthService,
			rule.NewRuleService,
			workflow.NewWorkflowService,
			cases.NewCaseService,
			emails.NewService,
			notification.NewNotificationService,
			cron_feature.NewCronService,
			report.NewReportService,
			export.NewExportService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },
			func(r user.UserRepository) workflow.UserDirectory { return r },
			func(r cases.CaseRepository) workflow.CaseStore { return r },
			func(c *system.WebSocketController) workflow.Broadcaster { return c },
			func(s notification.NotificationService) workflow.Notifier { return s },
			func(c oracle.Client) rule.RuleSelector {
				return rule.NewOracleSelector(c, rule.NewDeterministicSelector())
			},

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			audit.NewAuditController,
			rule.NewRuleController,
			workflow.NewWorkflowController,
			cases.NewCaseController,
			notification.NewNotificationController,
			cron_feature.NewCronController,
			report.NewReportController,
			export.NewExportController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(rule.NewRuleApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(cases.NewCaseApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(report.NewReportApi),
			AsRoute(export.NewExportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.StartScheduler()
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
