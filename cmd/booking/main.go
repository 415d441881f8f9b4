package main

import (
	"context"
	"time"

	bookinghandler "eventbooking/internal/bookings/handler"
	bookingrepo "eventbooking/internal/bookings/repository"
	bookingservice "eventbooking/internal/bookings/service"
	bookingvalidator "eventbooking/internal/bookings/validator"
	cataloghandler "eventbooking/internal/catalog/handler"
	catalogrepo "eventbooking/internal/catalog/repository"
	catalogservice "eventbooking/internal/catalog/service"
	catalogvalidator "eventbooking/internal/catalog/validator"
	slotshandler "eventbooking/internal/slots/handler"
	slotsrepo "eventbooking/internal/slots/repository"
	slotsservice "eventbooking/internal/slots/service"
	"eventbooking/pkg/app"
	"eventbooking/pkg/config"
	mongodb "eventbooking/pkg/db/mongo"
	"eventbooking/pkg/kafka"
	kafkaconfig "eventbooking/pkg/kafka/config"
)

const ServiceName = "booking"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting booking service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	bookingHandler, catalogHandler, availabilityHandler := initHandlers(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, bookingHandler, catalogHandler, availabilityHandler)
	serverApp.Run()
}

func initHandlers(cfg *config.Config) (*bookinghandler.BookingHandler, *cataloghandler.CatalogHandler, *slotshandler.AvailabilityHandler) {
	slotRegistry := slotsrepo.NewMongoSlotRegistry(cfg)
	slotLocker := slotsrepo.NewMongoSlotLocker(cfg)
	bookingLedger := bookingrepo.NewMongoBookingLedger(cfg)
	categoryRepo := catalogrepo.NewMongoCategoryRepository(cfg)
	timeWindowRepo := catalogrepo.NewMongoTimeWindowRepository(cfg)

	txManager := mongodb.NewTransactionManager(cfg.Client.Mongo)

	publisher := initPublisher(cfg)

	coordinator := bookingservice.NewBookingCoordinator(
		slotRegistry,
		slotLocker,
		bookingLedger,
		categoryRepo,
		timeWindowRepo,
		txManager,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg.Log,
	)

	catalogSvc := catalogservice.NewCatalogService(
		categoryRepo,
		timeWindowRepo,
		slotRegistry,
		bookingLedger,
		catalogvalidator.NewCatalogValidator(cfg.Log),
		cfg.Log,
	)

	availabilitySvc := slotsservice.NewAvailabilityService(
		slotRegistry,
		bookingLedger,
		categoryRepo,
		timeWindowRepo,
		cfg.Log,
	)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := catalogSvc.EnsureDefaultTimeWindows(seedCtx); err != nil {
		cfg.Log.Fatal("Failed to seed default time windows", "error", err)
	}

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)

	return bookinghandler.NewBookingHandler(coordinator, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogSvc, cfg.Log),
		slotshandler.NewAvailabilityHandler(availabilitySvc, cfg.Log)
}

func initPublisher(cfg *config.Config) bookingservice.EventPublisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return bookingservice.NewNoopEventPublisher()
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.BookingEventTopic, cfg.BookingEventDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Booking events enabled",
		"topic", cfg.BookingEventTopic,
		"dlq_topic", cfg.BookingEventDLQ)
	return bookingservice.NewKafkaEventPublisher(producer, cfg.Log)
}
