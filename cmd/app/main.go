package main

import (
	"log"
	"os"

	"github.com/DhanaNugraha/ruparawi-backend/external/resend"
	"github.com/DhanaNugraha/ruparawi-backend/internal/db"
	"github.com/DhanaNugraha/ruparawi-backend/internal/repository"
	"github.com/DhanaNugraha/ruparawi-backend/internal/services"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type requestValidator struct {
	validate *validatorv10.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func main() {
	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	var mailer services.Mailer
	if os.Getenv("RESEND_API_KEY") != "" {
		mailer, err = resend.NewResendMailer("Ruparawi<orders@ruparawi.com>")
		if err != nil {
			log.Fatal(err)
		}
	}

	// ======================
	// REPOSITORIES
	// ======================
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	promotionRepo := repository.NewPromotionRepository(pool)

	// ======================
	// SERVICES
	// ======================
	cartSvc := services.NewCartService(cartRepo, productRepo)
	promotionSvc := services.NewPromotionService(promotionRepo)
	checkoutSvc := services.NewCheckoutService(cartRepo, productRepo, orderRepo, promotionSvc, mailer)
	orderSvc := services.NewOrderService(orderRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Validator = &requestValidator{validate: validatorv10.New()}

	api := e.Group("/api/v1")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	orderGroup := api.Group("/order")
	registerCartRoutes(orderGroup, cartSvc)
	registerOrderRoutes(orderGroup, checkoutSvc, orderSvc)
	registerPromotionRoutes(api, promotionSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
