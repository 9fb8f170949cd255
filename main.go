package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/rollbar/rollbar-go"
	"github.com/sirupsen/logrus"

	"schoolms_backend/internals/configs"
	database "schoolms_backend/internals/databases"
	deviceService "schoolms_backend/internals/features/attendance/device_settings/service"
	holidayService "schoolms_backend/internals/features/attendance/holidays/service"
	feeService "schoolms_backend/internals/features/finance/fee_collections/service"
	authService "schoolms_backend/internals/features/users/auth/service"
	"schoolms_backend/internals/middlewares"
	routes "schoolms_backend/internals/route"
	"schoolms_backend/internals/seeds"
	"schoolms_backend/internals/services/mail"
	"schoolms_backend/internals/services/scheduler"
)

func main() {
	cfg := configs.LoadEnv()
	configs.SetupLogger(cfg)
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	if cfg.RollbarToken != "" {
		rollbar.SetToken(cfg.RollbarToken)
		rollbar.SetEnvironment(cfg.Env)
		rollbar.SetServerRoot("schoolms_backend")
		defer rollbar.Close()
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          middlewares.ErrorHandler,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})
	middlewares.SetupMiddlewares(app, cfg)

	// DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}
	database.TunePool(db)
	database.WarmUp(db)

	if cfg.DBAutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logrus.WithError(err).Fatal("auto migrate failed")
		}
		if err := seeds.RunAllSeeds(db); err != nil {
			logrus.WithError(err).Fatal("seeding failed")
		}
	}

	settings := deviceService.NewDeviceSettingService(
		deviceService.NewGormRepository(db),
		holidayService.NewCalendar(db),
	)

	var gateway feeService.Gateway
	if cfg.MidtransServerKey != "" {
		gateway = feeService.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransUseProd)
	}

	// scheduler once the DB is ready
	crons, err := scheduler.Start(&scheduler.Jobs{
		DB:       db,
		Config:   cfg,
		Mailer:   mail.New(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromEmail),
		Settings: settings,
	})
	if err != nil {
		logrus.WithError(err).Fatal("scheduler failed to start")
	}

	routes.SetupRoutes(app, routes.Deps{
		DB:                db,
		JWTSecret:         cfg.JWTSecret,
		Tokens:            authService.NewTokenService(cfg.JWTSecret, cfg.JWTTTL),
		Gateway:           gateway,
		DeviceSettings:    settings,
		LibraryFinePerDay: cfg.LibraryFinePerDay,
	})

	go func() {
		logrus.Infof("listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown: stop cron, drain HTTP, close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")

	<-crons.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	database.Close(db)
}
