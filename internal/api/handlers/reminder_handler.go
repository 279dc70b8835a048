package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/internal/api/presenters"
	"github.com/leaflens/leaflens-api/pkg/reminder"
)

type (
	ReminderHandler interface {
		CreateReminder(c *fiber.Ctx) error
		GetReminders(c *fiber.Ctx) error
		CompleteReminder(c *fiber.Ctx) error
		DeleteReminder(c *fiber.Ctx) error
		CheckDue(c *fiber.Ctx) error
		GetSettings(c *fiber.Ctx) error
		UpdateSetting(c *fiber.Ctx) error
	}

	reminderHandler struct {
		reminderService reminder.ReminderService
		validator       *validator.Validate
	}
)

func NewReminderHandler(reminderService reminder.ReminderService, validator *validator.Validate) ReminderHandler {
	return &reminderHandler{
		reminderService: reminderService,
		validator:       validator,
	}
}

func (h *reminderHandler) CreateReminder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateReminderRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateReminder, err)
	}

	res, err := h.reminderService.Create(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrJournalEntryNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCreateReminder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateReminder, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateReminder)
}

func (h *reminderHandler) GetReminders(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.reminderService.List(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetReminders, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"reminders": res}, fiber.StatusOK, domain.MessageSuccessGetReminders)
}

func (h *reminderHandler) CompleteReminder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	reminderID := c.Params("id")

	res, err := h.reminderService.Complete(c.Context(), reminderID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrReminderNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCompleteReminder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteReminder, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCompleteReminder)
}

func (h *reminderHandler) DeleteReminder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	reminderID := c.Params("id")

	if err := h.reminderService.Delete(c.Context(), reminderID, userID); err != nil {
		if errors.Is(err, domain.ErrReminderNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteReminder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteReminder, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteReminder)
}

func (h *reminderHandler) CheckDue(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.reminderService.CheckDueForUser(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDueReminder, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDueReminder)
}

func (h *reminderHandler) GetSettings(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.reminderService.GetSettings(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSettings, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSettings)
}

func (h *reminderHandler) UpdateSetting(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateSettingRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSettings, err)
	}

	res, err := h.reminderService.UpdateSetting(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateSettings, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateSettings)
}
