package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/repository"
	"github.com/chorushq/chorus-api/internal/service"
	"github.com/chorushq/chorus-api/internal/utils"
)

// EventHandler wires schedule and attendance HTTP routes.
type EventHandler struct {
	service service.EventService
	logger  zerolog.Logger
}

// NewEventHandler constructs the handler.
func NewEventHandler(service service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register attaches schedule endpoints to the router group.
func (h *EventHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/upcoming", h.upcoming)
	router.Get("/:id", h.get)
	router.Post("", requireContentManager, h.create)
	router.Patch("/:id", requireContentManager, h.update)
	router.Delete("/:id", requireContentManager, h.delete)

	router.Post("/:id/attendance", requireContentManager, h.markAttendance)
	router.Get("/:id/attendance", requireContentManager, h.listAttendance)
	router.Get("/attendance/members/:memberId", h.memberStats)
}

func (h *EventHandler) list(c *fiber.Ctx) error {
	productionID, err := parseQueryUint(c, "productionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid production id")
	}

	filter := repository.EventFilter{
		EventType:    c.Query("type"),
		ProductionID: productionID,
	}

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid from timestamp")
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid to timestamp")
		}
		filter.To = &parsed
	}

	events, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "events retrieved", events)
}

func (h *EventHandler) upcoming(c *fiber.Ctx) error {
	events, err := h.service.ListUpcoming(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "upcoming events retrieved", events)
}

func (h *EventHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	event, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event retrieved", event)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event scheduled", event)
}

func (h *EventHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EventUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event updated", event)
}

func (h *EventHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event deleted", fiber.Map{"id": id})
}

func (h *EventHandler) markAttendance(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MarkAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record, err := h.service.MarkAttendance(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance marked", record)
}

func (h *EventHandler) listAttendance(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.ListAttendance(c.Context(), actorFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}

func (h *EventHandler) memberStats(c *fiber.Ctx) error {
	memberID, err := parseUintParam(c, "memberId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.service.MemberStats(c.Context(), memberID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance statistics computed", stats)
}

func (h *EventHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "permission denied")
	case errors.Is(err, service.ErrInvalidWindow):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.As(err, new(*time.ParseError)):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("event operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "event operation failed")
	}
}
