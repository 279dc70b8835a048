package identify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/leaflens/leaflens-api/domain"
	"github.com/leaflens/leaflens-api/internal/utils"
)

// geminiTimeout bounds every remote call; there is no retry contract, a
// failed or slow call surfaces as a terminal error for that action.
const geminiTimeout = 30 * time.Second

type (
	// IdentifyService is the boundary to the hosted multimodal model. All
	// calls are black-box and possibly failing; callers persist nothing on
	// failure.
	IdentifyService interface {
		IdentifyPlant(ctx context.Context, image *multipart.FileHeader, hints IdentifyHints) (domain.PlantReport, error)
		DiagnosePlant(ctx context.Context, image *multipart.FileHeader, notes string) (domain.HealthReport, error)
		GenerateReferenceImage(ctx context.Context, plantName string) ([]byte, string, error)
		FindNearbyShops(ctx context.Context, lat, lng float64) ([]domain.PlaceRef, error)
	}

	IdentifyHints struct {
		Latitude  float64
		Longitude float64
		Notes     string
	}

	identifyService struct {
		httpClient *http.Client
	}
)

func NewIdentifyService() IdentifyService {
	return &identifyService{
		httpClient: &http.Client{Timeout: geminiTimeout},
	}
}

func (s *identifyService) IdentifyPlant(ctx context.Context, image *multipart.FileHeader, hints IdentifyHints) (domain.PlantReport, error) {
	base64Image, mimeType, err := readImagePayload(image)
	if err != nil {
		return domain.PlantReport{}, err
	}

	prompt := "Identify the plant in this photo and respond ONLY with a valid JSON object containing exactly these fields: " +
		"'name' (string, common name), 'scientificName' (string), 'family' (string), " +
		"'description' (string, 2-3 sentences), 'facts' (array of 3-5 short strings), " +
		"'isToxic' (boolean, toxic to humans or pets), 'toxicityDetails' (string, empty when not toxic), " +
		"'isWeed' (boolean), 'confidence' (number between 0 and 1), and 'careGuide' " +
		"(object with string fields 'watering', 'light', 'soil', 'temperature', 'humidity', 'fertilizing'). " +
		"Do not include any explanations, markdown formatting, or extra text."
	if hints.Latitude != 0 || hints.Longitude != 0 {
		prompt += fmt.Sprintf(" The photo was taken near latitude %.4f, longitude %.4f; consider the local flora.", hints.Latitude, hints.Longitude)
	}
	if hints.Notes != "" {
		prompt += fmt.Sprintf(" User observations: %s", hints.Notes)
	}

	responseText, err := s.callGemini(ctx, utils.GetConfig("GEMINI_MODEL"), map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64Image,
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	})
	if err != nil {
		return domain.PlantReport{}, err
	}

	var report domain.PlantReport
	if err := json.Unmarshal([]byte(extractJSONObject(responseText)), &report); err != nil {
		return domain.PlantReport{}, fmt.Errorf("failed to parse identification response: %v - Raw response: %s", err, responseText)
	}

	return clampPlantReport(report), nil
}

func (s *identifyService) DiagnosePlant(ctx context.Context, image *multipart.FileHeader, notes string) (domain.HealthReport, error) {
	base64Image, mimeType, err := readImagePayload(image)
	if err != nil {
		return domain.HealthReport{}, err
	}

	prompt := "Examine this plant photo for signs of disease, pests, or care problems and respond ONLY with a valid JSON object " +
		"containing exactly these fields: 'isHealthy' (boolean), 'plantName' (string), 'diagnosis' (string, 2-3 sentences), " +
		"'issues' (array of short strings, empty when healthy), 'treatment' (array of actionable steps), " +
		"'prevention' (array of short tips). " +
		"Do not include any explanations, markdown formatting, or extra text."
	if notes != "" {
		prompt += fmt.Sprintf(" User observations: %s", notes)
	}

	responseText, err := s.callGemini(ctx, utils.GetConfig("GEMINI_MODEL"), map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64Image,
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	})
	if err != nil {
		return domain.HealthReport{}, err
	}

	var report domain.HealthReport
	if err := json.Unmarshal([]byte(extractJSONObject(responseText)), &report); err != nil {
		return domain.HealthReport{}, fmt.Errorf("failed to parse diagnosis response: %v - Raw response: %s", err, responseText)
	}

	if report.Diagnosis == "" {
		return domain.HealthReport{}, domain.ErrGeminiProcessingFailed
	}

	return report, nil
}

func (s *identifyService) GenerateReferenceImage(ctx context.Context, plantName string) ([]byte, string, error) {
	model := utils.GetConfig("GEMINI_IMAGE_MODEL")
	if model == "" {
		return nil, "", fmt.Errorf("GEMINI_IMAGE_MODEL environment variable not set")
	}

	prompt := fmt.Sprintf(
		"Generate a clean botanical reference photograph of a healthy %s plant on a plain light background.",
		plantName,
	)

	resp, err := s.postGemini(ctx, model, map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"TEXT", "IMAGE"},
		},
	})
	if err != nil {
		return nil, "", err
	}

	for _, part := range resp.candidateParts() {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, "", err
		}
		mimeType := part.InlineData.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		return data, mimeType, nil
	}

	return nil, "", domain.ErrNoReferenceImage
}

func (s *identifyService) FindNearbyShops(ctx context.Context, lat, lng float64) ([]domain.PlaceRef, error) {
	prompt := fmt.Sprintf(
		"List plant nurseries and garden centers near latitude %.4f, longitude %.4f. "+
			"Respond ONLY with a valid JSON array of objects with exactly these fields: "+
			"'title' (string, shop name) and 'link' (string, website or maps URL). "+
			"Do not include any explanations, markdown formatting, or extra text.",
		lat, lng,
	)

	resp, err := s.postGemini(ctx, utils.GetConfig("GEMINI_MODEL"), map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"tools": []map[string]interface{}{
			{"google_search": map[string]interface{}{}},
		},
	})
	if err != nil {
		return nil, err
	}

	// Grounding chunks carry titled source links; pass them through opaquely.
	if places := resp.groundingPlaces(); len(places) > 0 {
		return places, nil
	}

	responseText, err := resp.firstText()
	if err != nil {
		return nil, err
	}

	var places []domain.PlaceRef
	if err := json.Unmarshal([]byte(extractJSONArray(responseText)), &places); err != nil {
		return nil, fmt.Errorf("failed to parse nearby shops response: %v - Raw response: %s", err, responseText)
	}

	return places, nil
}

// callGemini posts a generateContent request and returns the first candidate
// text, or an error when the response carries no usable candidate.
func (s *identifyService) callGemini(ctx context.Context, model string, requestBody map[string]interface{}) (string, error) {
	resp, err := s.postGemini(ctx, model, requestBody)
	if err != nil {
		return "", err
	}
	return resp.firstText()
}

func (s *identifyService) postGemini(ctx context.Context, model string, requestBody map[string]interface{}) (*geminiResponse, error) {
	geminiAPIKey := utils.GetConfig("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if model == "" {
		return nil, fmt.Errorf("GEMINI_MODEL environment variable not set")
	}

	geminiURL := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", model, geminiAPIKey)

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", geminiURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, err
	}

	return &geminiResp, nil
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

type geminiPart struct {
	Text       string `json:"text"`
	InlineData *struct {
		MimeType string `json:"mimeType"`
		Data     string `json:"data"`
	} `json:"inlineData"`
}

func (g *geminiResponse) candidateParts() []geminiPart {
	if len(g.Candidates) == 0 {
		return nil
	}
	return g.Candidates[0].Content.Parts
}

func (g *geminiResponse) firstText() (string, error) {
	for _, part := range g.candidateParts() {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", domain.ErrGeminiProcessingFailed
}

func (g *geminiResponse) groundingPlaces() []domain.PlaceRef {
	if len(g.Candidates) == 0 || g.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var places []domain.PlaceRef
	for _, chunk := range g.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.Title == "" {
			continue
		}
		places = append(places, domain.PlaceRef{
			Title: chunk.Web.Title,
			Link:  chunk.Web.URI,
		})
	}
	return places
}

func readImagePayload(imageFile *multipart.FileHeader) (string, string, error) {
	file, err := imageFile.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}

	mimeType := imageFile.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"

		ext := strings.ToLower(filepath.Ext(imageFile.Filename))
		switch ext {
		case ".png":
			mimeType = "image/png"
		case ".jpg", ".jpeg":
			mimeType = "image/jpeg"
		case ".gif":
			mimeType = "image/gif"
		case ".webp":
			mimeType = "image/webp"
		}
	}

	return base64.StdEncoding.EncodeToString(fileData), mimeType, nil
}

func clampPlantReport(report domain.PlantReport) domain.PlantReport {
	if report.Name == "" {
		report.Name = "Unknown Plant"
	}

	if report.Facts == nil {
		report.Facts = []string{}
	}

	if !report.IsToxic {
		report.ToxicityDetails = ""
	}

	if report.Confidence < 0 || report.Confidence > 1 {
		report.Confidence = 0.5
	}

	return report
}
