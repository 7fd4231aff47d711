package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"toll-ops-service/internal/config"
	"toll-ops-service/internal/service"
)

type Handler struct {
	trafficService *service.TrafficService
	config         *config.Config
	log            zerolog.Logger
}

func NewHandler(trafficService *service.TrafficService, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		trafficService: trafficService,
		config:         cfg,
		log:            log,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/plazas", h.listPlazas)
		api.GET("/congestion", h.congestionTable)
		api.GET("/plazas/:plaza/status", h.plazaStatus)
		api.GET("/plazas/:plaza/lanes", h.laneAdvice)
		api.GET("/plazas/:plaza/pricing", h.priceSchedule)
		api.GET("/plazas/:plaza/reroute", h.reroute)
		api.GET("/dataset", h.datasetInfo)
		api.POST("/dataset/reload", h.reloadDataset)
	}
}

func (h *Handler) listPlazas(c *gin.Context) {
	plazas, err := h.trafficService.Plazas()
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(plazas))
}

func (h *Handler) congestionTable(c *gin.Context) {
	var hour *int
	if raw := strings.TrimSpace(c.Query("hour")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("hour must be an integer"))
			return
		}
		hour = &parsed
	}

	buckets, err := h.trafficService.CongestionTable(hour)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(buckets))
}

func (h *Handler) plazaStatus(c *gin.Context) {
	hour, ok := h.hourParam(c)
	if !ok {
		return
	}

	status, err := h.trafficService.PlazaStatus(c.Param("plaza"), hour)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(status))
}

func (h *Handler) laneAdvice(c *gin.Context) {
	hour, ok := h.hourParam(c)
	if !ok {
		return
	}

	totalLanes := 0
	if raw := strings.TrimSpace(c.Query("total_lanes")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("total_lanes must be an integer"))
			return
		}
		totalLanes = parsed
	}

	advice, err := h.trafficService.LaneAdvice(c.Param("plaza"), hour, totalLanes)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(advice))
}

func (h *Handler) priceSchedule(c *gin.Context) {
	surge := 0.0
	if raw := strings.TrimSpace(c.Query("surge")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("surge must be a number"))
			return
		}
		surge = parsed
	}

	schedule, err := h.trafficService.PriceSchedule(c.Param("plaza"), surge)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(schedule))
}

func (h *Handler) reroute(c *gin.Context) {
	hour, ok := h.hourParam(c)
	if !ok {
		return
	}

	radius := 0.0
	if raw := strings.TrimSpace(c.Query("radius_km")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("radius_km must be a number"))
			return
		}
		radius = parsed
	}

	view, err := h.trafficService.Reroute(c.Param("plaza"), hour, radius)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) datasetInfo(c *gin.Context) {
	info, err := h.trafficService.Snapshot()
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(info))
}

func (h *Handler) reloadDataset(c *gin.Context) {
	info, err := h.trafficService.Reload(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to reload dataset")
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Str("snapshot_id", info.ID).
		Str("path", h.config.Data.Path).
		Int("records", info.Records).
		Msg("dataset reloaded via API")

	c.JSON(http.StatusOK, successResponse(info))
}

// hourParam parses the required hour query parameter. -1 selects the
// unknown-hour bucket.
func (h *Handler) hourParam(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("hour"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, errorResponse("hour parameter is required"))
		return 0, false
	}
	hour, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("hour must be an integer"))
		return 0, false
	}
	return hour, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNoSnapshot):
		c.JSON(http.StatusServiceUnavailable, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{"status": "ok", "data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"status": "error", "error": message}
}
