package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/internal/api/presenters"
	"github.com/leaflens/leaflens-api/pkg/journal"
)

type (
	JournalHandler interface {
		GetJournal(c *fiber.Ctx) error
		GetJournalEntry(c *fiber.Ctx) error
		ResetJournal(c *fiber.Ctx) error
	}

	journalHandler struct {
		journalService journal.JournalService
	}
)

func NewJournalHandler(journalService journal.JournalService) JournalHandler {
	return &journalHandler{journalService: journalService}
}

func (h *journalHandler) GetJournal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.journalService.List(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetJournal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetJournal)
}

func (h *journalHandler) GetJournalEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entryID := c.Params("id")

	res, err := h.journalService.Get(c.Context(), entryID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrJournalEntryNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetJournalEntry, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetJournalEntry, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetJournalEntry)
}

func (h *journalHandler) ResetJournal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.journalService.Reset(c.Context(), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResetJournal, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessResetJournal)
}
