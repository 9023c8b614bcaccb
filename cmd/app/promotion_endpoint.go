package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DhanaNugraha/ruparawi-backend/internal/middleware"
	"github.com/DhanaNugraha/ruparawi-backend/internal/model"
	"github.com/DhanaNugraha/ruparawi-backend/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type promotionRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   *string  `json:"description"`
	PromoCode     string   `json:"promo_code" validate:"required,max=20"`
	DiscountValue string   `json:"discount_value" validate:"required"`
	PromotionType string   `json:"promotion_type" validate:"required"`
	StartDate     string   `json:"start_date" validate:"required"`
	EndDate       string   `json:"end_date" validate:"required"`
	ImageURL      *string  `json:"image_url"`
	MaxDiscount   *string  `json:"max_discount"`
	UsageLimit    *int     `json:"usage_limit" validate:"omitempty,min=0"`
	ProductIDs    []int64  `json:"product_ids"`
	CategoryNames []string `json:"category_names"`
}

func (r *promotionRequest) toModel(adminID int64) (*model.Promotion, error) {
	value, err := decimal.NewFromString(r.DiscountValue)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return nil, err
	}
	p := &model.Promotion{
		Title:         r.Title,
		Description:   r.Description,
		PromoCode:     r.PromoCode,
		DiscountValue: value,
		PromotionType: r.PromotionType,
		StartDate:     start,
		EndDate:       end,
		AdminID:       adminID,
		ImageURL:      r.ImageURL,
		UsageLimit:    r.UsageLimit,
	}
	if r.MaxDiscount != nil {
		md, err := decimal.NewFromString(*r.MaxDiscount)
		if err != nil {
			return nil, err
		}
		p.MaxDiscount = &md
	}
	return p, nil
}

type attachProductsRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1"`
}

type attachCategoriesRequest struct {
	CategoryNames []string `json:"category_names" validate:"required,min=1"`
}

func registerPromotionRoutes(api *echo.Group, ps *services.PromotionService) {
	// public
	pub := api.Group("/promotions")

	pub.GET("", func(c echo.Context) error {
		promotions, err := ps.ListActive(c.Request().Context())
		if err != nil {
			return businessError(c, err, "get all promotions")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":    "Promotions fetched successfully",
			"promotions": promotions,
			"success":    true,
		})
	})

	pub.GET("/:promotion_id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("promotion_id"), 10, 64)
		if err != nil {
			return validationError(c, err, "get promotion detail request validation")
		}
		promotion, err := ps.Get(c.Request().Context(), id)
		if err != nil {
			return businessError(c, err, "get promotion detail")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":   "Promotion fetched successfully",
			"promotion": promotion,
			"success":   true,
		})
	})

	// administration
	adm := api.Group("/admin/promotions")
	adm.Use(middleware.JWTMiddleware())
	adm.Use(middleware.AdminOnly)

	adm.POST("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(promotionRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "create promotion request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "create promotion request validation")
		}
		promotion, err := req.toModel(claims.UserID)
		if err != nil {
			return validationError(c, err, "create promotion request validation")
		}

		id, err := ps.Create(c.Request().Context(), promotion)
		if err != nil {
			return businessError(c, err, "create promotion")
		}
		promotion.PromotionID = id

		if len(req.ProductIDs) > 0 {
			if err := ps.AddProducts(c.Request().Context(), id, req.ProductIDs); err != nil {
				return businessError(c, err, "create promotion products")
			}
		}
		if len(req.CategoryNames) > 0 {
			if err := ps.AddCategories(c.Request().Context(), id, req.CategoryNames); err != nil {
				return businessError(c, err, "create promotion categories")
			}
		}

		return c.JSON(http.StatusCreated, map[string]interface{}{
			"message":   "Promotion created successfully",
			"promotion": promotion,
			"success":   true,
		})
	})

	adm.PUT("/:promotion_id", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := strconv.ParseInt(c.Param("promotion_id"), 10, 64)
		if err != nil {
			return validationError(c, err, "update promotion request validation")
		}
		req := new(promotionRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "update promotion request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "update promotion request validation")
		}
		promotion, err := req.toModel(claims.UserID)
		if err != nil {
			return validationError(c, err, "update promotion request validation")
		}
		promotion.PromotionID = id

		if err := ps.Update(c.Request().Context(), promotion); err != nil {
			return businessError(c, err, "update promotion")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":   "Promotion updated successfully",
			"promotion": promotion,
			"success":   true,
		})
	})

	adm.POST("/:promotion_id/products", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("promotion_id"), 10, 64)
		if err != nil {
			return validationError(c, err, "add promotion products request validation")
		}
		req := new(attachProductsRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "add promotion products request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "add promotion products request validation")
		}
		if err := ps.AddProducts(c.Request().Context(), id, req.ProductIDs); err != nil {
			return businessError(c, err, "add promotion products")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Products added to promotion successfully",
			"success": true,
		})
	})

	adm.POST("/:promotion_id/categories", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("promotion_id"), 10, 64)
		if err != nil {
			return validationError(c, err, "add promotion categories request validation")
		}
		req := new(attachCategoriesRequest)
		if err := c.Bind(req); err != nil {
			return validationError(c, err, "add promotion categories request validation")
		}
		if err := c.Validate(req); err != nil {
			return validationError(c, err, "add promotion categories request validation")
		}
		if err := ps.AddCategories(c.Request().Context(), id, req.CategoryNames); err != nil {
			return businessError(c, err, "add promotion categories")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Categories added to promotion successfully",
			"success": true,
		})
	})
}
