package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/internal/api/presenters"
	"github.com/leaflens/leaflens-api/internal/utils/storage"
	"github.com/leaflens/leaflens-api/pkg/identify"
	"github.com/leaflens/leaflens-api/pkg/journal"
)

type (
	PlantHandler interface {
		IdentifyPlant(c *fiber.Ctx) error
		DiagnosePlant(c *fiber.Ctx) error
		GenerateReferenceImage(c *fiber.Ctx) error
		FindNearbyShops(c *fiber.Ctx) error
	}

	plantHandler struct {
		journalService  journal.JournalService
		identifyService identify.IdentifyService
		s3              storage.AwsS3
		validator       *validator.Validate
	}
)

func NewPlantHandler(journalService journal.JournalService, identifyService identify.IdentifyService, s3 storage.AwsS3, validator *validator.Validate) PlantHandler {
	return &plantHandler{
		journalService:  journalService,
		identifyService: identifyService,
		s3:              s3,
		validator:       validator,
	}
}

func (h *plantHandler) IdentifyPlant(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.IdentifyPlantRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIdentifyPlant, err)
	}

	res, err := h.journalService.IdentifyAndRecord(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrGeminiProcessingFailed) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedIdentifyPlant, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIdentifyPlant, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessIdentifyPlant)
}

func (h *plantHandler) DiagnosePlant(c *fiber.Ctx) error {
	req := new(domain.DiagnosePlantRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDiagnosePlant, err)
	}

	res, err := h.identifyService.DiagnosePlant(c.Context(), req.Image, req.Notes)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedDiagnosePlant, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessDiagnosePlant)
}

func (h *plantHandler) GenerateReferenceImage(c *fiber.Ctx) error {
	req := new(domain.ReferenceImageRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReferenceImage, err)
	}

	data, contentType, err := h.identifyService.GenerateReferenceImage(c.Context(), req.PlantName)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedReferenceImage, err)
	}

	fileName := fmt.Sprintf("reference-%s", uuid.New().String())
	objectKey, err := h.s3.UploadBuffer(fileName, data, contentType, "reference")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReferenceImage, err)
	}

	res := domain.ReferenceImageResponse{
		ImageURL: h.s3.GetPublicLinkKey(objectKey),
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessReferenceImage)
}

func (h *plantHandler) FindNearbyShops(c *fiber.Ctx) error {
	req := new(domain.NearbyShopsRequest)

	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNearbyShops, err)
	}

	shops, err := h.identifyService.FindNearbyShops(c.Context(), req.Latitude, req.Longitude)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedNearbyShops, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"shops": shops}, fiber.StatusOK, domain.MessageSuccessNearbyShops)
}
