package rest

import (
	"context"
	"errors"
	"lookFeed/domain"
	"lookFeed/pkg/logger"
	"lookFeed/pkg/metrics"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	FeedHandler struct {
		validate    *validator.Validate
		feedService FeedService
		timeout     time.Duration
		defaultSize int
		maxSize     int
	}

	FeedService interface {
		AssembleFeed(ctx context.Context, userID, device string, categories []string, n int) (domain.FeedResult, error)
	}

	FeedQuery struct {
		UserID     string   `query:"user_id" validate:"required"`
		Device     string   `query:"device"`
		N          int      `query:"n" validate:"gte=0"`
		Categories []string `query:"cat"`
	}
)

func NewFeedHandler(svc FeedService, defaultSize, maxSize int) *FeedHandler {
	return &FeedHandler{
		validate:    validator.New(),
		feedService: svc,
		timeout:     10 * time.Second,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

// GET /api/v1/feed?user_id=...&device=...&n=...&cat=...
func (h *FeedHandler) GetDiverseFeed(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.FeedAssemblyLatency)
	defer timer.ObserveDuration()
	metrics.FeedRequests.Inc()

	var q FeedQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if q.N == 0 {
		q.N = h.defaultSize
	}
	if q.N < 1 || q.N > h.maxSize {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "n out of range"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.feedService.AssembleFeed(ctx, q.UserID, q.Device, q.Categories, q.N)
	if err != nil {
		logger.Error("Failed to assemble feed", "user_id", q.UserID, "error", err)
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: "catalog unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}
