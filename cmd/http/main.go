package main

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/drivers/messaging"
	"medibook-service/internal/app/drivers/storage"
	"medibook-service/internal/app/services/core/appointments"
	"medibook-service/internal/app/services/core/payments"
	"medibook-service/internal/app/services/core/providers"
	"medibook-service/internal/app/services/core/scheduler"
	"medibook-service/internal/app/services/shared/jwtmanager"
	"medibook-service/internal/app/services/shared/locker"
	"medibook-service/internal/app/services/shared/notification"
	paymentgateway "medibook-service/internal/app/services/shared/payment_gateway"
	redisrepo "medibook-service/internal/app/services/shared/redis"
	storagesvc "medibook-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	bootstrapLog := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		bootstrapLog.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	log := logger.NewZapLogger(driverConfig, internalConfig)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	bootstrapingTheApp(bootstrap, minioClient)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			bootstrapLog.Fatalf("Server failed to start: %v", err)
		}
	}()
	bootstrapLog.Printf("Server listening on %s", internalConfig.App.Port)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	bootstrapLog.Println("Waiting for pending requests to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		bootstrapLog.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		bootstrapLog.Fatalf("Error during dependency shutdown: %v", err)
	}

	bootstrapLog.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, minioClient *minio.Client) {
	// Shared services
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	notificationService := notification.NewNotificationService(bootstrap.RabbitMQ, bootstrap.InternalConfig, bootstrap.Logger)
	storageService := storagesvc.NewMinioStorage(minioClient, bootstrap.DriverConfig)
	gatewayService := paymentgateway.NewCheckoutService(bootstrap.InternalConfig, bootstrap.Logger)
	jwtManager := jwtmanager.NewJWTManager(bootstrap.InternalConfig)

	// Middlewares
	mw := middlewares.NewMiddlewares(bootstrap.Logger, jwtManager, bootstrap.InternalConfig)

	// Providers
	providerRepository := providers.NewProviderMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	providerUsecase := providers.NewProviderUsecase(providerRepository, storageService, bootstrap.Logger)

	// Appointments and scheduling
	appointmentRepository := appointments.NewAppointmentMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	schedulerUsecase := scheduler.NewSchedulerUsecase(providerRepository, appointmentRepository, bootstrap.InternalConfig, bootstrap.Logger)
	appointmentUsecase := appointments.NewAppointmentUsecase(appointmentRepository, schedulerUsecase, notificationService, bootstrap.Logger)

	// Payments
	paymentUsecase := payments.NewPaymentUsecase(appointmentRepository, providerRepository, gatewayService, notificationService, bootstrap.InternalConfig, bootstrap.Logger)

	// Pending payment expiry sweeper
	sweeper := appointments.NewSweeper(bootstrap.Logger, bootstrap.InternalConfig, lockerService, appointmentRepository, schedulerUsecase, notificationService)
	sweeper.Start()
	bootstrap.SweeperStop = sweeper.Stop

	// Controllers
	providerController := controllers.NewProviderController(bootstrap.Logger, providerUsecase, schedulerUsecase)
	appointmentController := controllers.NewAppointmentController(bootstrap.Logger, schedulerUsecase, appointmentUsecase)
	paymentController := controllers.NewPaymentController(bootstrap.Logger, paymentUsecase)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, paymentUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		mw,
		providerController,
		appointmentController,
		paymentController,
		webhookController,
	)
}
