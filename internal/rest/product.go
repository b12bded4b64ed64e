package rest

import (
	"context"
	"errors"
	"lookFeed/domain"
	"lookFeed/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	LikeProduct(ctx context.Context, userID, id string) (int64, error)
	UnlikeProduct(ctx context.Context, userID, id string) (int64, error)
}

type ProductHandler struct {
	productService ProductService
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		timeout:        10 * time.Second,
	}
}

type LikeCountResponse struct {
	ProductID string `json:"product_id"`
	LikeCount int64  `json:"like_count"`
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productID := c.Param("id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

func (h *ProductHandler) LikeProduct(c echo.Context) error {
	return h.adjustLike(c, true)
}

func (h *ProductHandler) UnlikeProduct(c echo.Context) error {
	return h.adjustLike(c, false)
}

func (h *ProductHandler) adjustLike(c echo.Context, like bool) error {
	productID := c.Param("id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing product id"})
	}

	userID := c.QueryParam("user_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var count int64
	var err error
	if like {
		count, err = h.productService.LikeProduct(ctx, userID, productID)
	} else {
		count, err = h.productService.UnlikeProduct(ctx, userID, productID)
	}
	if err != nil {
		logger.Error("Failed to adjust like count", "product_id", productID, "error", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(LikeCountResponse{
		ProductID: productID,
		LikeCount: count,
	}))
}
