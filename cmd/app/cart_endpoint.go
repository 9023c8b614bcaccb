package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DhanaNugraha/ruparawi-backend/internal/errs"
	"github.com/DhanaNugraha/ruparawi-backend/internal/middleware"
	"github.com/DhanaNugraha/ruparawi-backend/internal/services"

	"github.com/labstack/echo/v4"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// businessError maps the engine's error classes to HTTP responses. Every
// failure body carries success=false and the failing stage in "location".
func businessError(c echo.Context, err error, location string) error {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": ve.Message, "success": false, "location": location,
		})
	}
	var se *errs.StockError
	if errors.As(err, &se) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": se.Issue, "issue": se.Issue, "product_id": se.ProductID,
			"success": false, "location": location,
		})
	}
	var pe *errs.PromotionError
	if errors.As(err, &pe) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": pe.Message, "success": false, "location": location,
		})
	}
	if errors.Is(err, errs.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"message": err.Error(), "success": false, "location": location,
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"message": err.Error(), "success": false, "location": location,
	})
}

func validationError(c echo.Context, err error, location string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"message": err.Error(), "success": false, "location": location,
	})
}

func registerCartRoutes(g *echo.Group, cs *services.CartService) {
	p := g.Group("/cart")
	p.Use(middleware.JWTMiddleware())

	// GET cart
	p.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		cart, err := cs.Get(c.Request().Context(), claims.UserID)
		if err != nil {
			return businessError(c, err, "get shopping cart")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"cart":       map[string]interface{}{"id": cart.CartID},
			"cart_items": cart.Items,
			"total":      cart.Total,
			"success":    true,
		})
	})

	// ADD item (merges into the existing line on duplicate product)
	p.POST("/item", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(addCartItemRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "add item to cart request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "add item to cart request validation")
		}
		item, err := cs.AddItem(c.Request().Context(), claims.UserID, req.ProductID, req.Quantity)
		if err != nil {
			return businessError(c, err, "add item to cart")
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"message":   "Item added to cart successfully",
			"cart_item": item,
			"success":   true,
		})
	})

	// UPDATE quantity
	p.PUT("/item/:product_id", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
		if err != nil {
			return validationError(c, err, "update item in cart request validation")
		}
		req := new(updateCartItemRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "update item in cart request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "update item in cart request validation")
		}
		item, err := cs.UpdateItemQuantity(c.Request().Context(), claims.UserID, productID, req.Quantity)
		if err != nil {
			return businessError(c, err, "update item in cart")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":   "Cart item updated successfully",
			"cart_item": item,
			"success":   true,
		})
	})

	// REMOVE item
	p.DELETE("/item/:product_id", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
		if err != nil {
			return validationError(c, err, "delete item in cart request validation")
		}
		if err := cs.RemoveItem(c.Request().Context(), claims.UserID, productID); err != nil {
			return businessError(c, err, "delete item in cart")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Cart item deleted successfully",
			"success": true,
		})
	})
}
