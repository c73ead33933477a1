package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"library_backend/internals/configs"
	database "library_backend/internals/databases"
	bookService "library_backend/internals/features/library/books/service"
	"library_backend/internals/features/library/receipts/scheduler"
	receiptService "library_backend/internals/features/library/receipts/service"
	studentService "library_backend/internals/features/library/students/service"
	helper "library_backend/internals/helpers"
	middlewares "library_backend/internals/middlewares"
	routes "library_backend/internals/route"
	routeDetails "library_backend/internals/route/details"
	"library_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	// DB connect + pool + schema
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("[DB] %v", err)
	}
	database.TunePool(db)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("[DB] %v", err)
	}

	if cfg.SeedOnStart {
		if err := seeds.RunAllSeeds(db); err != nil {
			log.Fatalf("[SEED] %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.FiberErrorHandler,
		BodyLimit:             10 * 1024 * 1024,
	})

	middlewares.SetupMiddlewares(app, cfg)

	receipts := receiptService.NewReceiptsService(db, receiptService.Options{
		DebtorsDays:            cfg.DebtorsDays,
		DebtorsOutstandingOnly: cfg.DebtorsOutstandingOnly,
		Location:               cfg.Timezone,
	})

	routes.SetupRoutes(app, db, routeDetails.LibraryServices{
		Books:        bookService.NewBooksService(db),
		Students:     studentService.NewStudentsService(db),
		Receipts:     receipts,
		Validator:    helper.NewValidator(),
		UploadDir:    cfg.UploadDir,
		UploadGuards: []fiber.Handler{middlewares.UploadRateLimiter()},
	})

	// scheduler after the DB is ready
	cron, err := scheduler.StartDebtorsReportScheduler(cfg.DebtorsReportCron, receipts)
	if err != nil {
		log.Fatalf("[CRON] %v", err)
	}

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + close DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if cron != nil {
		<-cron.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.Close(db)
}
