// handlers.go - HTTP handlers for the analysis endpoints

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrilens/nutrilens-api/configs"
	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/catalog"
	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/pipeline"
	"github.com/nutrilens/nutrilens-api/internal/placeholder"
	"github.com/nutrilens/nutrilens-api/internal/processor"
	"github.com/nutrilens/nutrilens-api/internal/storage"
)

const (
	sourceVisionAI    = "vision_ai"
	sourcePlaceholder = "placeholder"
)

var (
	mealPipeline  *pipeline.Pipeline
	chatProvider  ai.ChatProvider
	chatFallback  ai.ChatProvider
	catalogClient *catalog.Client
)

// InitHandlers wires the providers, pipeline and catalog client. Must run
// after configs.LoadConfig.
func InitHandlers() error {
	primary, fallback, err := ai.CreateChatProviderWithFallback()
	if err != nil {
		return err
	}

	chatProvider = primary
	chatFallback = fallback
	if fallback != nil {
		mealPipeline = pipeline.NewWithFallback(primary, fallback)
	} else {
		mealPipeline = pipeline.New(primary)
	}

	catalogClient = catalog.NewClient(configs.OFF_BASE_URL, time.Duration(configs.CATALOG_TIMEOUT)*time.Second)

	RegisterValidators()
	return nil
}

// mealResponse flattens the nutrition record into the top-level body.
type mealResponse struct {
	pipeline.NutritionRecord
	AISummary string                 `json:"ai_summary"`
	AIFoods   []pipeline.FoodItem    `json:"ai_foods"`
	Kind      string                 `json:"kind"`
	Source    string                 `json:"source"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// AnalyzeMealHandler runs the meal pipeline for POST /api/v1/analyze-meal.
func AnalyzeMealHandler(c *gin.Context) {
	var req AnalyzeMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg := req.Validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	uid := currentUserID(c)
	reqCtx := common.NewRequestContext(uid)

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(configs.ANALYZE_TIMEOUT)*time.Second)
	defer cancel()

	result, err := mealPipeline.Analyze(ctx, pipeline.Request{
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Language:    req.Language,
	}, reqCtx)
	if err != nil {
		reqCtx.LogError("meal analysis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "analysis failed",
			"metadata": reqCtx.GetPartialSummary(),
		})
		return
	}

	persistAnalysis(reqCtx, uid, "meal", sourceVisionAI, req, result)

	c.JSON(http.StatusOK, mealResponse{
		NutritionRecord: result.Nutrition,
		AISummary:       result.Summary,
		AIFoods:         result.Foods,
		Kind:            result.Classification.Kind,
		Source:          sourceVisionAI,
		Metadata:        reqCtx.GetSummary(),
	})
}

// AnalyzeFaceHandler serves POST /api/v1/analyze-face. The vision call is
// attempted first; the deterministic placeholder generator is the final
// fallback so the endpoint never fails outright.
func AnalyzeFaceHandler(c *gin.Context) {
	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	uid := currentUserID(c)
	reqCtx := common.NewRequestContext(uid)
	dayKey := storage.DayKey(time.Now())

	healthRecord := loadHealthRecord(reqCtx, uid, dayKey, req.Context)
	healthScore := deriveHealthScore(healthRecord)

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(configs.ANALYZE_TIMEOUT)*time.Second)
	defer cancel()

	source := sourceVisionAI
	analysis, ok := visionFaceAnalysis(ctx, req, reqCtx)
	if !ok {
		source = sourcePlaceholder
		analysis = placeholder.BuildFaceAnalysis(uid, req.ImageURL, dayKey, req.History, healthRecord, healthScore)
	}

	persistAnalysis(reqCtx, uid, "face", source, req, analysis)

	c.JSON(http.StatusOK, gin.H{
		"analysis": analysis,
		"source":   source,
		"metadata": reqCtx.GetSummary(),
	})
}

// AnalyzeBodyHandler serves POST /api/v1/analyze-body, mirroring the face
// endpoint's fallback policy.
func AnalyzeBodyHandler(c *gin.Context) {
	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	uid := currentUserID(c)
	reqCtx := common.NewRequestContext(uid)
	dayKey := storage.DayKey(time.Now())

	healthRecord := loadHealthRecord(reqCtx, uid, dayKey, req.Context)
	healthScore := deriveHealthScore(healthRecord)

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(configs.ANALYZE_TIMEOUT)*time.Second)
	defer cancel()

	source := sourceVisionAI
	analysis, ok := visionBodyAnalysis(ctx, req, reqCtx)
	if !ok {
		source = sourcePlaceholder
		analysis = placeholder.BuildBodyAnalysis(uid, req.ImageURL, dayKey, req.History, healthRecord, healthScore)
	}

	persistAnalysis(reqCtx, uid, "body", source, req, analysis)

	c.JSON(http.StatusOK, gin.H{
		"analysis": analysis,
		"source":   source,
		"metadata": reqCtx.GetSummary(),
	})
}

// ProductLookupHandler serves GET /api/v1/product/:barcode. Non-edible
// products are reported but never persisted.
func ProductLookupHandler(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}

	uid := currentUserID(c)
	reqCtx := common.NewRequestContext(uid)

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(configs.CATALOG_TIMEOUT)*time.Second)
	defer cancel()

	reqCtx.StartStep("catalog_lookup")
	product, err := catalogClient.LookupBarcode(ctx, barcode)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	reqCtx.EndStep("success", nil, nil)

	verdict := catalog.GuardEdible(catalog.SignalsFromProduct(product))
	if verdict.IsEdible {
		persistAnalysis(reqCtx, uid, "barcode", "catalog", gin.H{"barcode": barcode}, product)
	}

	c.JSON(http.StatusOK, gin.H{
		"product":   product,
		"is_edible": verdict.IsEdible,
		"reason":    verdict.Reason,
		"metadata":  reqCtx.GetSummary(),
	})
}

// persistAnalysis writes the day-keyed document. Persistence failures are
// logged and swallowed: the computed result must still reach the caller.
func persistAnalysis(reqCtx *common.RequestContext, uid, kind, source string, request, result interface{}) {
	dayKey := storage.DayKey(time.Now())
	if err := storage.SaveDailyAnalysis(uid, dayKey, kind, source, request, result); err != nil {
		reqCtx.LogWarning("failed to persist %s analysis: %v", kind, err)
		return
	}
	storage.InvalidateHealthRecord(uid, dayKey)
}

// loadHealthRecord reads today's cached health context; failures degrade to
// the caller-provided context so the analysis still runs.
func loadHealthRecord(reqCtx *common.RequestContext, uid, dayKey string, fallback map[string]interface{}) map[string]interface{} {
	record, err := storage.GetOrLoadHealthRecord(uid, dayKey)
	if err != nil {
		reqCtx.LogWarning("failed to load health record: %v", err)
		if fallback != nil {
			return fallback
		}
		return map[string]interface{}{}
	}
	if len(record) == 0 && fallback != nil {
		return fallback
	}
	return record
}

// deriveHealthScore turns the day's health context into the 0-100 score the
// composite placeholder blends use. Discrete and deterministic.
func deriveHealthScore(healthRecord map[string]interface{}) float64 {
	score := 65.0
	if _, ok := healthRecord["meal"]; ok {
		score += 10
	}
	if _, ok := healthRecord["face"]; ok {
		score += 5
	}
	if _, ok := healthRecord["body"]; ok {
		score += 5
	}
	return score
}

// visionFaceAnalysis attempts the vision-model face scoring. Any provider or
// parse failure reports !ok so the placeholder path takes over.
func visionFaceAnalysis(ctx context.Context, req AnalyzeImageRequest, reqCtx *common.RequestContext) (placeholder.FaceAnalysis, bool) {
	contextJSON := serializeContext(req.Context)

	reqCtx.StartStep("vision_face_analysis")
	text, tokens, err := completeWithFallback(ctx, ai.ChatRequest{
		System: ai.FaceAnalysisSystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.FaceAnalysisPrompt(contextJSON), ImageURL: req.ImageURL},
		},
		Temperature: 0.3,
	}, reqCtx)
	if err != nil {
		reqCtx.EndStep("degraded", tokens, err)
		return placeholder.FaceAnalysis{}, false
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		reqCtx.EndStep("degraded", tokens, nil)
		return placeholder.FaceAnalysis{}, false
	}

	analysis := placeholder.FaceAnalysis{
		JawlineIndex:     processor.ToNumber(obj["jawline_index"], 0),
		SkinClarityIndex: processor.ToNumber(obj["skin_clarity_index"], 0),
		SymmetryScore:    processor.ToNumber(obj["symmetry_score"], 0),
		EyeAreaScore:     processor.ToNumber(obj["eye_area_score"], 0),
		CheekboneScore:   processor.ToNumber(obj["cheekbone_score"], 0),
		FaceFatEstimate:  asFatEstimate(obj["face_fat_estimate"]),
		OverallScore:     processor.ToNumber(obj["overall_score"], 0),
		Potential:        processor.ToNumber(obj["potential"], 0),
		Plan:             stringField(obj["plan"]),
	}

	if analysis.OverallScore <= 0 {
		reqCtx.EndStep("degraded", tokens, nil)
		return placeholder.FaceAnalysis{}, false
	}
	if analysis.FaceFatEstimate == "" {
		analysis.FaceFatEstimate = placeholder.FaceFatEstimate((analysis.JawlineIndex + analysis.SkinClarityIndex) / 2)
	}
	if analysis.Plan == "" {
		analysis.Plan = placeholder.BuildFacePlan(analysis.FaceFatEstimate, analysis.JawlineIndex, analysis.SkinClarityIndex)
	}

	reqCtx.EndStep("success", tokens, nil)
	return analysis, true
}

// visionBodyAnalysis mirrors visionFaceAnalysis for the body endpoint.
func visionBodyAnalysis(ctx context.Context, req AnalyzeImageRequest, reqCtx *common.RequestContext) (placeholder.BodyAnalysis, bool) {
	contextJSON := serializeContext(req.Context)

	reqCtx.StartStep("vision_body_analysis")
	text, tokens, err := completeWithFallback(ctx, ai.ChatRequest{
		System: ai.BodyAnalysisSystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.BodyAnalysisPrompt(contextJSON), ImageURL: req.ImageURL},
		},
		Temperature: 0.3,
	}, reqCtx)
	if err != nil {
		reqCtx.EndStep("degraded", tokens, err)
		return placeholder.BodyAnalysis{}, false
	}

	obj := ai.ExtractJSON(text)
	if obj == nil {
		reqCtx.EndStep("degraded", tokens, nil)
		return placeholder.BodyAnalysis{}, false
	}

	analysis := placeholder.BodyAnalysis{
		BodyFatPercent:  processor.ToNumber(obj["body_fat_percent"], 0),
		BodyFatEstimate: asFatEstimate(obj["body_fat_estimate"]),
		MuscleToneScore: processor.ToNumber(obj["muscle_tone_score"], 0),
		PostureScore:    processor.ToNumber(obj["posture_score"], 0),
		SymmetryScore:   processor.ToNumber(obj["symmetry_score"], 0),
		OverallScore:    processor.ToNumber(obj["overall_score"], 0),
		Potential:       processor.ToNumber(obj["potential"], 0),
		Plan:            stringField(obj["plan"]),
	}

	if analysis.OverallScore <= 0 {
		reqCtx.EndStep("degraded", tokens, nil)
		return placeholder.BodyAnalysis{}, false
	}
	if analysis.Plan == "" {
		analysis.Plan = placeholder.BuildBodyPlan(analysis.BodyFatEstimate, analysis.MuscleToneScore)
	}

	reqCtx.EndStep("success", tokens, nil)
	return analysis, true
}

// completeWithFallback mirrors the pipeline's provider fallback for the
// handler-level vision calls.
func completeWithFallback(ctx context.Context, creq ai.ChatRequest, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	text, tokens, err := chatProvider.Complete(ctx, creq, reqCtx)
	if err != nil && chatFallback != nil {
		reqCtx.LogWarning("provider %s failed (%v), trying %s", chatProvider.GetProviderName(), err, chatFallback.GetProviderName())
		text, tokens, err = chatFallback.Complete(ctx, creq, reqCtx)
	}
	return text, tokens, err
}

func serializeContext(ctx map[string]interface{}) string {
	if len(ctx) == 0 {
		return ""
	}
	b, err := json.Marshal(ctx)
	if err != nil {
		return ""
	}
	return string(b)
}

func stringField(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFatEstimate(v interface{}) string {
	switch s, _ := v.(string); s {
	case "low", "medium", "high":
		return s
	default:
		return ""
	}
}
