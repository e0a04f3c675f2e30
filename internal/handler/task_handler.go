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

// TaskHandler wires creative board and meeting-note HTTP routes.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches board endpoints to the router group.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("", h.listTasks)
	router.Post("", requireContentManager, h.createTask)
	router.Patch("/:id", requireContentManager, h.updateTask)
	router.Put("/:id/position", requireContentManager, h.moveTask)
	router.Delete("/:id", requireContentManager, h.deleteTask)
}

// RegisterNotes attaches meeting-note endpoints to the router group.
func (h *TaskHandler) RegisterNotes(router fiber.Router) {
	router.Get("", h.listNotes)
	router.Post("", requireContentManager, h.createNote)
	router.Patch("/:id", requireContentManager, h.updateNote)
	router.Delete("/:id", requireContentManager, h.deleteNote)
}

func (h *TaskHandler) listTasks(c *fiber.Ctx) error {
	productionID, err := parseQueryUint(c, "productionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid production id")
	}

	tasks, err := h.service.ListTasks(c.Context(), productionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) createTask(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.CreateTask(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", task)
}

func (h *TaskHandler) updateTask(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TaskUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.UpdateTask(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task updated", task)
}

func (h *TaskHandler) moveTask(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TaskMoveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.MoveTask(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task moved", task)
}

func (h *TaskHandler) deleteTask(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteTask(c.Context(), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task deleted", fiber.Map{"id": id})
}

func (h *TaskHandler) listNotes(c *fiber.Ctx) error {
	productionID, err := parseQueryUint(c, "productionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid production id")
	}

	notes, err := h.service.ListNotes(c.Context(), productionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "meeting notes retrieved", notes)
}

func (h *TaskHandler) createNote(c *fiber.Ctx) error {
	var payload dto.MeetingNoteCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	note, err := h.service.CreateNote(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "meeting note recorded", note)
}

func (h *TaskHandler) updateNote(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MeetingNoteUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	note, err := h.service.UpdateNote(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "meeting note updated", note)
}

func (h *TaskHandler) deleteNote(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteNote(c.Context(), actorFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "meeting note deleted", fiber.Map{"id": id})
}

func (h *TaskHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "task not found")
	case errors.Is(err, service.ErrNoteNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "meeting note not found")
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "permission denied")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.As(err, new(*time.ParseError)):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("board operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "board operation failed")
	}
}
