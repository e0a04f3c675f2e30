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

// AuditionHandler wires audition and casting HTTP routes.
type AuditionHandler struct {
	service service.AuditionService
	logger  zerolog.Logger
}

// NewAuditionHandler constructs the handler.
func NewAuditionHandler(service service.AuditionService, logger zerolog.Logger) *AuditionHandler {
	return &AuditionHandler{
		service: service,
		logger:  logger.With().Str("component", "audition_handler").Logger(),
	}
}

// Register attaches audition endpoints to the router group.
func (h *AuditionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", requireContentManager, h.create)
	router.Patch("/:id", requireContentManager, h.update)
	router.Delete("/:id", requireContentManager, h.delete)

	router.Post("/:id/signups", h.signUp)
	router.Get("/:id/signups", requireContentManager, h.listSignups)
}

// RegisterCasting attaches cast-role endpoints to a separate router group.
func (h *AuditionHandler) RegisterCasting(router fiber.Router) {
	router.Get("", h.listCastRoles)
	router.Post("", requireContentManager, h.assignCastRole)
	router.Delete("/:id", requireContentManager, h.removeCastRole)
}

func (h *AuditionHandler) list(c *fiber.Ctx) error {
	productionID, err := parseQueryUint(c, "productionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid production id")
	}

	auditions, err := h.service.List(c.Context(), productionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "auditions retrieved", auditions)
}

func (h *AuditionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	audition, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "audition retrieved", audition)
}

func (h *AuditionHandler) create(c *fiber.Ctx) error {
	var payload dto.AuditionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	audition, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "audition opened", audition)
}

func (h *AuditionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AuditionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	audition, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "audition updated", audition)
}

func (h *AuditionHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "audition deleted", fiber.Map{"id": id})
}

func (h *AuditionHandler) signUp(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AuditionSignupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	signup, err := h.service.SignUp(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "signed up for audition", signup)
}

func (h *AuditionHandler) listSignups(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	signups, err := h.service.ListSignups(c.Context(), actorFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "signups retrieved", signups)
}

func (h *AuditionHandler) listCastRoles(c *fiber.Ctx) error {
	productionID, err := parseQueryUint(c, "productionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid production id")
	}

	roles, err := h.service.ListCastRoles(c.Context(), productionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "cast roles retrieved", roles)
}

func (h *AuditionHandler) assignCastRole(c *fiber.Ctx) error {
	var payload dto.CastRoleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	role, err := h.service.AssignCastRole(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "cast role assigned", role)
}

func (h *AuditionHandler) removeCastRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveCastRole(c.Context(), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "cast role removed", fiber.Map{"id": id})
}

func (h *AuditionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAuditionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "audition not found")
	case errors.Is(err, service.ErrProductionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "production not found")
	case errors.Is(err, service.ErrCastRoleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "cast role not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "permission denied")
	case errors.Is(err, service.ErrAlreadySignedUp):
		return utils.SendError(c, fiber.StatusConflict, "already signed up for this audition")
	case errors.Is(err, service.ErrAuditionClosed):
		return utils.SendError(c, fiber.StatusConflict, "audition is not accepting signups")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.As(err, new(*time.ParseError)):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("audition operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "audition operation failed")
	}
}
