package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"travelbooking/internal/database"
	"travelbooking/internal/middleware"
	"travelbooking/internal/modules/auth"
	"travelbooking/internal/modules/availability"
	"travelbooking/internal/modules/booking"
	"travelbooking/internal/modules/dispute"
	"travelbooking/internal/modules/pricing"
	"travelbooking/internal/notification"
	"travelbooking/internal/payment"
	jwtsvc "travelbooking/internal/pkg/jwt"
	"travelbooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	accommodationRepo := repository.NewAccommodationRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	feeConfigRepo := repository.NewFeeConfigRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}
	notifier, err := notification.NewPublisher(brokers, os.Getenv("KAFKA_NOTIFICATION_TOPIC"))
	if err != nil {
		log.Fatal(err)
	}
	defer notifier.Close()

	hub := availability.NewHub()
	defer hub.Close()

	gateway := payment.NewProvider()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	pricingService := pricing.NewService(feeConfigRepo)
	pricingHandler := pricing.NewHandler(pricingService)

	bookingService := booking.NewService(
		bookingRepo,
		paymentRepo,
		accommodationRepo,
		userRepo,
		pricingService,
		gateway,
		notifier,
		hub,
	)
	bookingHandler := booking.NewHandler(bookingService)

	disputeService := dispute.NewService(disputeRepo, bookingRepo, accommodationRepo, userRepo)
	disputeHandler := dispute.NewHandler(disputeService)

	availabilityHandler := availability.NewHandler(hub, j)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			disputeHandler.RegisterRoutes(protected)
		}

		// admin
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			pricingHandler.RegisterAdminRoutes(admin)
			disputeHandler.RegisterAdminRoutes(admin)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
