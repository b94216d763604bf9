package app

import (
	"database/sql"

	"go-shiftly/internal/auth"
	"go-shiftly/internal/availability"
	"go-shiftly/internal/company"
	"go-shiftly/internal/coverbid"
	"go-shiftly/internal/messaging/kafka"
	"go-shiftly/internal/notify"
	"go-shiftly/internal/rbac"
	"go-shiftly/internal/shift"
	"go-shiftly/internal/swap"
	"go-shiftly/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	outboxRepo := kafka.NewOutboxRepository(db)
	shiftRepo := shift.NewRepository(gormDB, db)
	swapRepo := swap.NewRepository(gormDB, db)
	coverbidRepo := coverbid.NewRepository(gormDB, db)
	availabilityRepo := availability.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Fan-out ---
	sink := notify.NewRedisSink(rdb)
	mailer := notify.NewOutboxMailer(outboxRepo)

	// --- Services ---
	shiftService := shift.NewService(db, shiftRepo, outboxRepo, sink, mailer)
	swapService := swap.NewService(db, swapRepo, shiftRepo, sink, mailer)
	coverbidService := coverbid.NewService(db, coverbidRepo, swapRepo, shiftRepo, sink, mailer)
	availabilityService := availability.NewService(availabilityRepo)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, companyRepo)
	companyService := company.NewService(companyRepo)

	// --- Handlers ---
	shiftHandler := shift.NewHandler(shiftService)
	swapHandler := swap.NewHandler(swapService)
	coverbidHandler := coverbid.NewHandler(coverbidService)
	availabilityHandler := availability.NewHandler(availabilityService)
	userHandler := user.NewHandler(userService)
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		shift.RegisterRoutes(api, shiftHandler, enforcer, rdb)
		swap.RegisterRoutes(api, swapHandler, enforcer, rdb)
		coverbid.RegisterRoutes(api, coverbidHandler, enforcer, rdb)
		availability.RegisterRoutes(api, availabilityHandler, enforcer)
		user.RegisterRoutes(api, userHandler, enforcer)
		company.RegisterRoutes(api, companyHandler, enforcer)
	}

	return nil
}
