package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"bookwise/config"
	"bookwise/cron"
	"bookwise/database"
	bookingRepo "bookwise/database/repository/booking"
	providerRepo "bookwise/database/repository/provider"
	serviceRepo "bookwise/database/repository/service"
	"bookwise/handlers"
	"bookwise/middleware"
	"bookwise/routes"
	"bookwise/services/availability"
	"bookwise/services/booking"
	"bookwise/services/calendar"
	"bookwise/services/tasks"
	"bookwise/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitCache()

	// Repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	providers := providerRepo.NewMongoProviderRepo()
	services := serviceRepo.NewMongoServiceRepo()

	for _, ensure := range []func() error{bookings.EnsureIndexes, providers.EnsureIndexes, services.EnsureIndexes} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// External calendar client and the async sync pipeline.
	calendarClient := calendar.NewHTTPClient()
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	cron.InitCalendarSyncWorker(&cron.CalendarSyncWorker{
		Bookings:  bookings,
		Providers: providers,
		Calendar:  calendarClient,
	})

	// Services.
	availabilityCache := utils.NewAvailabilityCache(utils.GetCacheClient())
	availabilitySvc := &availability.DefaultService{
		Providers: providers,
		Services:  services,
		Bookings:  bookings,
		Calendar:  calendarClient,
	}
	bookingEngine := &booking.DefaultEngine{
		Bookings:     bookings,
		Services:     services,
		Providers:    providers,
		Availability: availabilitySvc,
		Dispatcher:   &tasks.AsynqDispatcher{Client: asynqClient},
		Cache:        availabilityCache,
	}

	// Handlers.
	availabilityHandler := handlers.NewAvailabilityHandler(availabilitySvc, availabilityCache)
	bookingHandler := handlers.NewBookingHandler(bookingEngine)
	providerHandler := handlers.NewProviderHandler(providers, services)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, availabilityHandler, bookingHandler, providerHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
}
