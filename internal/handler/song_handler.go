package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/repository"
	"github.com/chorushq/chorus-api/internal/service"
	"github.com/chorushq/chorus-api/internal/utils"
)

// SongHandler wires repertoire HTTP routes.
type SongHandler struct {
	service service.SongService
	logger  zerolog.Logger
}

// NewSongHandler constructs the handler.
func NewSongHandler(service service.SongService, logger zerolog.Logger) *SongHandler {
	return &SongHandler{
		service: service,
		logger:  logger.With().Str("component", "song_handler").Logger(),
	}
}

// Register attaches repertoire endpoints to the router group.
func (h *SongHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", requireContentManager, h.create)
	router.Patch("/:id", requireContentManager, h.update)
	router.Delete("/:id", requireContentManager, h.delete)
	router.Post("/:id/assets/:category", requireContentManager, h.uploadAsset)
}

func (h *SongHandler) list(c *fiber.Ctx) error {
	productionID, err := parseQueryUint(c, "productionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid production id")
	}

	filter := repository.SongFilter{
		Search:       c.Query("search"),
		Genre:        c.Query("genre"),
		ProductionID: productionID,
	}

	songs, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "songs retrieved", songs)
}

func (h *SongHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	song, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "song retrieved", song)
}

func (h *SongHandler) create(c *fiber.Ctx) error {
	var payload dto.SongCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	song, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "song created", song)
}

func (h *SongHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SongUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	song, err := h.service.Update(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "song updated", song)
}

func (h *SongHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "song deleted", fiber.Map{"id": id})
}

func (h *SongHandler) uploadAsset(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	category := c.Params("category")

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	song, err := h.service.UploadAsset(c.Context(), actorFromContext(c), id, category, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "asset uploaded", song)
}

func (h *SongHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSongNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "song not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "permission denied")
	case errors.Is(err, service.ErrUnknownAssetCategory):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown asset category")
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "file type not allowed")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("song operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "song operation failed")
	}
}
