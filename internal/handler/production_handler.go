package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/service"
	"github.com/chorushq/chorus-api/internal/utils"
)

// ProductionHandler wires production HTTP routes.
type ProductionHandler struct {
	service service.ProductionService
	logger  zerolog.Logger
}

// NewProductionHandler constructs the handler.
func NewProductionHandler(service service.ProductionService, logger zerolog.Logger) *ProductionHandler {
	return &ProductionHandler{
		service: service,
		logger:  logger.With().Str("component", "production_handler").Logger(),
	}
}

// Register attaches production endpoints to the router group.
func (h *ProductionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", requireContentManager, h.create)
	router.Patch("/:id", requireContentManager, h.update)
	router.Delete("/:id", requireContentManager, h.delete)
}

func (h *ProductionHandler) list(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active")

	productions, err := h.service.List(c.Context(), activeOnly)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "productions retrieved", productions)
}

func (h *ProductionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	production, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "production retrieved", production)
}

func (h *ProductionHandler) create(c *fiber.Ctx) error {
	var payload dto.ProductionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	production, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "production created", production)
}

func (h *ProductionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProductionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	production, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "production updated", production)
}

func (h *ProductionHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "production deleted", fiber.Map{"id": id})
}

func (h *ProductionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrProductionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "production not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "permission denied")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.As(err, new(*time.ParseError)):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("production operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "production operation failed")
	}
}
