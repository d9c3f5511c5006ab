package main

import (
	accounthandler "homecare/internal/accounts/handler"
	accountrepo "homecare/internal/accounts/repository"
	accountservice "homecare/internal/accounts/service"
	accountvalidator "homecare/internal/accounts/validator"
	availabilityhandler "homecare/internal/availability/handler"
	availabilityservice "homecare/internal/availability/service"
	bookinghandler "homecare/internal/bookings/handler"
	bookingrepo "homecare/internal/bookings/repository"
	bookingservice "homecare/internal/bookings/service"
	bookingvalidator "homecare/internal/bookings/validator"
	favoritehandler "homecare/internal/favorites/handler"
	favoriterepo "homecare/internal/favorites/repository"
	favoriteservice "homecare/internal/favorites/service"
	"homecare/internal/notify"
	schedulehandler "homecare/internal/schedules/handler"
	schedulerepo "homecare/internal/schedules/repository"
	scheduleservice "homecare/internal/schedules/service"
	schedulevalidator "homecare/internal/schedules/validator"
	"homecare/pkg/app"
	"homecare/pkg/config"
	"homecare/pkg/contracts"
	"homecare/pkg/jwt"
	"homecare/pkg/kafka"
	"homecare/pkg/middleware"
	kafkaconfig "homecare/pkg/kafka/config"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	dispatcher := initDispatcher(cfg)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			cfg.Log.Warn("Failed to close notification dispatcher", "error", err)
		}
	}()

	cfg.Log.Info("Starting homecare server")
	apiHandler := initHandlers(cfg, dispatcher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, apiHandler)
	serverApp.Run()
}

func initDispatcher(cfg *config.Config) notify.Dispatcher {
	if cfg.NotifyTopic == "" {
		cfg.Log.Info("Notification topic not configured, notifications disabled")
		return notify.NopDispatcher{}
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.NotifyTopic, cfg.NotifyDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create notification producer", "error", err)
	}
	return notify.NewKafkaDispatcher(producer, cfg.Log)
}

func initHandlers(cfg *config.Config, dispatcher notify.Dispatcher) contracts.Handler {
	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	guard := middleware.NewGuard(jwtService)

	scheduleRepository := schedulerepo.NewMongoScheduleRepository(cfg)
	scheduleService := scheduleservice.NewScheduleService(
		scheduleRepository,
		schedulevalidator.NewScheduleValidator(cfg.Log),
		cfg,
	)

	accountRepository := accountrepo.NewMongoAccountRepository(cfg)
	accountService := accountservice.NewAccountService(
		accountRepository,
		accountvalidator.NewAccountValidator(cfg.Log),
		scheduleService,
		jwtService,
		dispatcher,
		cfg,
	)

	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewSlotLockRepository(cfg),
		bookingvalidator.NewBookingValidator(cfg.Log),
		accountService,
		dispatcher,
		cfg,
	)

	favoriteService := favoriteservice.NewFavoriteService(
		favoriterepo.NewMongoFavoriteRepository(cfg),
		cfg,
	)

	availabilityService := availabilityservice.NewAvailabilityService(
		accountRepository,
		scheduleService,
		favoriteService,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return contracts.Compose(
		accounthandler.NewAccountHandler(accountService, guard, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, guard, cfg.Log),
		schedulehandler.NewScheduleHandler(scheduleService, guard, cfg.Log),
		favoritehandler.NewFavoriteHandler(favoriteService, guard, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, guard, cfg.Log),
	)
}
