package main

import (
	"context"
	"log"
	"time"

	common_models "go-court/internal/common/models"
	"go-court/internal/config"
	"go-court/internal/database"
	"go-court/internal/features/audit"
	"go-court/internal/features/rule"
	"go-court/internal/features/user"
	"go-court/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var demoUsers = []struct {
	Name  string
	Email string
	Phone string
	Role  common_models.UserRole
}{
	{"Portal Admin", "admin@sfcourt.local", "5550100", common_models.RoleAdmin},
	{"Dana Whitfield", "dana.whitfield@sfcourt.local", "5550101", common_models.RoleReviewer},
	{"Marcus Obi", "marcus.obi@sfcourt.local", "5550102", common_models.RoleSigner},
	{"Priya Raman", "priya.raman@sfcourt.local", "5550103", common_models.RoleReviewer},
	{"Tomás Herrera", "tomas.herrera@sfcourt.local", "5550104", common_models.RoleSigner},
}

var demoRules = []rule.Rule{
	{
		Name:          "Theft routing",
		Category:      "property",
		IncidentType:  "Theft",
		Priority:      rule.PriorityHigh,
		Status:        rule.StatusActive,
		ReviewerEmail: "dana.whitfield@sfcourt.local",
		SignerEmail:   "marcus.obi@sfcourt.local",
	},
	{
		Name:          "Vandalism routing",
		Category:      "property",
		IncidentType:  "Vandalism",
		Priority:      rule.PriorityMedium,
		Status:        rule.StatusActive,
		ReviewerEmail: "priya.raman@sfcourt.local",
		SignerEmail:   "tomas.herrera@sfcourt.local",
	},
	{
		Name:          "General intake",
		Category:      "general",
		IncidentType:  "",
		Condition:     "",
		Priority:      rule.PriorityLow,
		Status:        rule.StatusActive,
		ReviewerEmail: "dana.whitfield@sfcourt.local",
		SignerEmail:   "marcus.obi@sfcourt.local",
	},
	{
		Name:          "Weekend incidents pilot",
		Category:      "general",
		IncidentType:  "",
		Condition:     `type_of_incident == "Assault"`,
		Priority:      rule.PriorityHigh,
		Status:        rule.StatusTesting,
		ReviewerEmail: "priya.raman@sfcourt.local",
		SignerEmail:   "tomas.herrera@sfcourt.local",
	},
}

// Seed runs the database seeding
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	ruleRepo rule.RuleRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
				if err != nil {
					logger.Error("Failed to hash demo password", zap.Error(err))
					return
				}

				for _, seed := range demoUsers {
					existing, err := userRepo.FindByEmail(ctx, seed.Email)
					if err != nil {
						logger.Error("User lookup failed", zap.String("email", seed.Email), zap.Error(err))
						continue
					}
					if existing != nil {
						logger.Info("User exists, skipping", zap.String("email", seed.Email))
						continue
					}

					u := common_models.User{
						ID:        primitive.NewObjectID(),
						Name:      seed.Name,
						Email:     seed.Email,
						Phone:     seed.Phone,
						Password:  string(hash),
						Role:      seed.Role,
						Status:    "active",
						CreatedAt: time.Now(),
						UpdatedAt: time.Now(),
					}
					if err := userRepo.Create(ctx, &u); err != nil {
						logger.Error("Failed to create user", zap.String("email", seed.Email), zap.Error(err))
					} else {
						logger.Info("User created", zap.String("email", seed.Email), zap.String("role", string(seed.Role)))
					}
				}

				existingRules, err := ruleRepo.List(ctx, map[string]interface{}{})
				if err != nil {
					logger.Error("Rule lookup failed", zap.Error(err))
					return
				}
				if len(existingRules) > 0 {
					logger.Info("Rules exist, skipping rule seed", zap.Int("count", len(existingRules)))
					logger.Info("Seeding complete")
					return
				}

				for _, r := range demoRules {
					r.ID = primitive.NewObjectID()
					r.CreatedAt = time.Now()
					r.UpdatedAt = time.Now()
					if err := ruleRepo.Create(ctx, r); err != nil {
						logger.Error("Failed to create rule", zap.String("rule", r.Name), zap.Error(err))
					} else {
						logger.Info("Rule created", zap.String("rule", r.Name), zap.String("status", string(r.Status)))
					}
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			fx.Annotate(
				user.NewUserRepository,
				fx.As(new(audit.UserFinder)),
			),
			rule.NewRuleRepository,
			audit.NewAuditRepository,
			audit.NewAuditService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
