package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessIdentifyPlant  = "plant identified successfully"
	MessageSuccessDiagnosePlant  = "plant diagnosed successfully"
	MessageSuccessReferenceImage = "reference image generated successfully"
	MessageSuccessNearbyShops    = "nearby plant shops retrieved successfully"

	MessageFailedIdentifyPlant  = "failed to analyze plant image"
	MessageFailedDiagnosePlant  = "failed to diagnose plant"
	MessageFailedReferenceImage = "failed to generate reference image"
	MessageFailedNearbyShops    = "failed to find nearby plant shops"

	ErrGeminiProcessingFailed = errors.New("gemini processing failed")
	ErrInvalidImageFormat     = errors.New("invalid image format")
	ErrNoReferenceImage       = errors.New("no reference image returned")
)

type (
	// CareGuide mirrors the care-guide sub-record of an identification.
	CareGuide struct {
		Watering    string `json:"watering"`
		Light       string `json:"light"`
		Soil        string `json:"soil"`
		Temperature string `json:"temperature"`
		Humidity    string `json:"humidity"`
		Fertilizing string `json:"fertilizing"`
	}

	// PlantReport is the validated structured record returned by the
	// identification call.
	PlantReport struct {
		Name            string    `json:"name"`
		ScientificName  string    `json:"scientificName"`
		Family          string    `json:"family"`
		Description     string    `json:"description"`
		Facts           []string  `json:"facts"`
		IsToxic         bool      `json:"isToxic"`
		ToxicityDetails string    `json:"toxicityDetails,omitempty"`
		IsWeed          bool      `json:"isWeed"`
		Confidence      float64   `json:"confidence"`
		CareGuide       CareGuide `json:"careGuide"`
	}

	IdentifyPlantRequest struct {
		Image     *multipart.FileHeader `json:"image" form:"image" validate:"required"`
		Latitude  float64               `json:"latitude" form:"latitude" validate:"omitempty,min=-90,max=90"`
		Longitude float64               `json:"longitude" form:"longitude" validate:"omitempty,min=-180,max=180"`
		Notes     string                `json:"notes" form:"notes" validate:"omitempty,max=500"`
	}

	IdentifyPlantResponse struct {
		EntryID  string      `json:"entry_id"`
		ImageURL string      `json:"image_url"`
		Report   PlantReport `json:"report"`
	}

	DiagnosePlantRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
		Notes string                `json:"notes" form:"notes" validate:"omitempty,max=500"`
	}

	HealthReport struct {
		IsHealthy  bool     `json:"isHealthy"`
		PlantName  string   `json:"plantName"`
		Diagnosis  string   `json:"diagnosis"`
		Issues     []string `json:"issues"`
		Treatment  []string `json:"treatment"`
		Prevention []string `json:"prevention"`
	}

	ReferenceImageRequest struct {
		PlantName string `json:"plant_name" validate:"required,min=2"`
	}

	ReferenceImageResponse struct {
		ImageURL string `json:"image_url"`
	}

	NearbyShopsRequest struct {
		Latitude  float64 `json:"latitude" query:"latitude" validate:"required,min=-90,max=90"`
		Longitude float64 `json:"longitude" query:"longitude" validate:"required,min=-180,max=180"`
	}

	// PlaceRef is a titled/linked place reference passed through opaquely.
	PlaceRef struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	}
)
