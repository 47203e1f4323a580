package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/internal/dto"
	"github.com/Amitro123/EventPulse/internal/service"
	"github.com/Amitro123/EventPulse/pkg/logger"
	"github.com/Amitro123/EventPulse/pkg/response"
)

// EventHandler handles event search and package requests
type EventHandler struct {
	eventService   service.EventService
	defaultCountry string
	log            *logger.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService, defaultCountry string, log *logger.Logger) *EventHandler {
	if log == nil {
		log = logger.Get()
	}
	return &EventHandler{
		eventService:   eventService,
		defaultCountry: defaultCountry,
		log:            log,
	}
}

// Search handles GET /api/events - events on a date, optionally filtered by city and category
func (h *EventHandler) Search(c *gin.Context) {
	var req dto.SearchEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.eventService.SearchEvents(c.Request.Context(), req.ToQuery(h.defaultCountry))
	if err != nil {
		h.handleError(c, err, "Failed to search events")
		return
	}

	writeSearchResult(c, res)
}

// ByArtist handles GET /api/events/by-artist - events for a performer
func (h *EventHandler) ByArtist(c *gin.Context) {
	var req dto.ArtistSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.eventService.SearchByArtist(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.handleError(c, err, "Failed to search events by artist")
		return
	}

	writeSearchResult(c, res)
}

// Package handles GET /api/events/:id/package - ticket and hotel links for an event
func (h *EventHandler) Package(c *gin.Context) {
	id := c.Param("id")

	pkg, err := h.eventService.GetPackage(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "Failed to build event package")
		return
	}

	response.Success(c, pkg)
}

func (h *EventHandler) handleError(c *gin.Context, err error, message string) {
	if isValidationError(err) {
		response.BadRequest(c, err.Error())
		return
	}
	h.log.Error(message, zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	response.InternalError(c, errors.New(message))
}

func isValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidDate,
		domain.ErrInvalidLimit,
		domain.ErrInvalidPage,
		domain.ErrArtistRequired,
		domain.ErrInvalidDateRange,
		domain.ErrInvalidEventID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeSearchResult(c *gin.Context, res *service.SearchResult) {
	events := res.Events
	if events == nil {
		events = []*domain.Event{}
	}
	response.Paginated(c, events, response.PageMeta{
		Page:    res.Page,
		PerPage: res.Limit,
		Total:   res.Total,
		HasMore: res.HasMore,
	})
}
