package main

import (
	"net/http"

	"github.com/DhanaNugraha/ruparawi-backend/internal/middleware"
	"github.com/DhanaNugraha/ruparawi-backend/internal/services"

	"github.com/labstack/echo/v4"
)

type checkoutRequest struct {
	ShippingAddressID int64   `json:"shipping_address_id" validate:"min=0"`
	BillingAddressID  *int64  `json:"billing_address_id" validate:"omitempty,min=0"`
	PaymentMethodID   int64   `json:"payment_method_id" validate:"min=0"`
	Notes             *string `json:"notes"`
	PromotionCode     string  `json:"promotion_code"`
}

type preCheckoutRequest struct {
	PromotionCode string `json:"promotion_code"`
}

type updateOrderStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

func registerOrderRoutes(g *echo.Group, cks *services.CheckoutService, osvc *services.OrderService) {
	p := g.Group("")
	p.Use(middleware.JWTMiddleware())

	// CHECKOUT: atomic cart -> order conversion
	p.POST("/checkout", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(checkoutRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "checkout request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "checkout request validation")
		}

		order, applied, err := cks.Checkout(c.Request().Context(), claims.UserID, claims.Email, services.CheckoutRequest{
			ShippingAddressID: req.ShippingAddressID,
			BillingAddressID:  req.BillingAddressID,
			PaymentMethodID:   req.PaymentMethodID,
			Notes:             req.Notes,
			PromotionCode:     req.PromotionCode,
		})
		if err != nil {
			return businessError(c, err, "checkout order")
		}

		appliedBody := interface{}(map[string]interface{}{})
		if applied != nil {
			appliedBody = applied
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"order":             order,
			"applied_promotion": appliedBody,
			"success":           true,
		})
	})

	// PRE-CHECKOUT: read-only preview, business-rule rejections are still 200
	p.POST("/pre-checkout", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(preCheckoutRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "pre-checkout request validation")
		}

		preview, err := cks.PreCheckout(c.Request().Context(), claims.UserID, req.PromotionCode)
		if err != nil {
			return businessError(c, err, "pre-checkout order")
		}

		body := map[string]interface{}{
			"promotion": map[string]interface{}{
				"title":              preview.Title,
				"total_price":        preview.TotalPrice,
				"discount":           preview.Discount,
				"eligible_items_ids": preview.EligibleItemIDs,
			},
			"success": true,
		}
		if preview.Message != "" {
			body["message"] = preview.Message
		}
		return c.JSON(http.StatusOK, body)
	})

	// LIST orders
	p.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		orders, err := osvc.List(c.Request().Context(), claims.UserID)
		if err != nil {
			return businessError(c, err, "get all orders")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"orders":  orders,
			"success": true,
		})
	})

	// GET order by number (owner scoped)
	p.GET("/:order_number", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		order, err := osvc.Get(c.Request().Context(), claims.UserID, c.Param("order_number"))
		if err != nil {
			return businessError(c, err, "get order")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"order":   order,
			"success": true,
		})
	})

	// UPDATE order status (appends one history row)
	p.PUT("/:order_number", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(updateOrderStatusRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "update order status request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "update order status request validation")
		}
		order, err := osvc.UpdateStatus(c.Request().Context(), claims.UserID, c.Param("order_number"), req.Status, req.Notes)
		if err != nil {
			return businessError(c, err, "update order status")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Order status updated successfully",
			"order":   order,
			"success": true,
		})
	})
}
