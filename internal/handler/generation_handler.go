package handler

import (
	"studybuddy-ai/internal/domain"
	"studybuddy-ai/internal/dto"
	"studybuddy-ai/internal/logger"
	"studybuddy-ai/internal/middleware"
	"studybuddy-ai/internal/service"
	"studybuddy-ai/internal/validation"
	"studybuddy-ai/internal/web"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenerationHandler serves the form page and the JSON generation API
type GenerationHandler struct {
	service              service.QAGenerationService
	validator            *validation.Validator
	page                 *web.Page
	envVar               string
	credentialConfigured bool
}

// NewGenerationHandler creates a new GenerationHandler instance.
// envVar names the credential variable shown on the page; credentialConfigured
// is reported by the health endpoint.
func NewGenerationHandler(
	svc service.QAGenerationService,
	v *validation.Validator,
	page *web.Page,
	envVar string,
	credentialConfigured bool,
) *GenerationHandler {
	if v == nil {
		v = validation.NewValidator()
	}
	return &GenerationHandler{
		service:              svc,
		validator:            v,
		page:                 page,
		envVar:               envVar,
		credentialConfigured: credentialConfigured,
	}
}

func (h *GenerationHandler) pageData() web.PageData {
	return web.NewPageData(h.service.ProviderName(), h.envVar)
}

func (h *GenerationHandler) render(c *fiber.Ctx, status int, data web.PageData) error {
	c.Status(status)
	c.Type("html", "utf-8")
	if err := h.page.Render(c.Response().BodyWriter(), data); err != nil {
		logger.Get().Error("Failed to render page",
			zap.String("request_id", middleware.RequestIDFromCtx(c)),
			zap.Error(err))
		return domain.NewInternalError("failed to render page", err)
	}
	return nil
}

// Index renders the form page. Query parameters only prefill the form.
func (h *GenerationHandler) Index(c *fiber.Ctx) error {
	data := h.pageData()
	data.Topic = c.Query("topic")
	if d, err := domain.ParseDifficulty(c.Query("difficulty")); err == nil {
		data.Difficulty = string(d)
	}
	return h.render(c, fiber.StatusOK, data)
}

// Submit handles the form post: one generation run, then the page is re-rendered
// with the output filled in.
func (h *GenerationHandler) Submit(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	data := h.pageData()
	if err := c.BodyParser(&req); err != nil {
		data.Output = domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}.Error()
		return h.render(c, fiber.StatusBadRequest, data)
	}
	data.Topic = req.Topic

	if errs := h.validator.ValidateGenerateRequest(&req); len(errs) > 0 {
		data.Output = errs.Error()
		return h.render(c, fiber.StatusBadRequest, data)
	}

	result := h.generate(c, &req)
	data.Difficulty = string(result.Difficulty)
	data.Output = result.Display()
	return h.render(c, fiber.StatusOK, data)
}

// Generate godoc
// @Summary Generate Q&A pairs
// @Description Generates ten question and answer pairs for a topic. Provider failures are reported in-band with success=false.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Topic and difficulty"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /generate [post]
func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	req, ok := middleware.GenerateRequestFromCtx(c)
	if !ok {
		return domain.NewInternalError("validated request missing from context", nil)
	}

	result := h.generate(c, req)
	return c.JSON(dto.GenerateResponse{
		RequestID:  result.RequestID,
		Topic:      result.Topic,
		Difficulty: string(result.Difficulty),
		Success:    result.Succeeded(),
		ErrorKind:  string(result.Kind),
		Output:     result.Display(),
	})
}

func (h *GenerationHandler) generate(c *fiber.Ctx, req *dto.GenerateRequest) *domain.GenerationResult {
	// Already validated, so the parse cannot fail.
	difficulty, _ := domain.ParseDifficulty(req.Difficulty)
	genReq := domain.NewGenerationRequest(middleware.RequestIDFromCtx(c), req.Topic, difficulty)
	return h.service.Generate(c.UserContext(), genReq)
}

// GetExamples godoc
// @Summary List example inputs
// @Description Returns the canned topic and difficulty pairs shown on the page
// @Tags generation
// @Produce json
// @Success 200 {object} dto.ExamplesResponse
// @Router /examples [get]
func (h *GenerationHandler) GetExamples(c *fiber.Ctx) error {
	examples := make([]dto.ExampleResponse, 0, len(domain.ExamplePairs))
	for _, e := range domain.ExamplePairs {
		examples = append(examples, dto.ExampleResponse{
			Topic:      e.Topic,
			Difficulty: string(e.Difficulty),
		})
	}
	return c.JSON(dto.ExamplesResponse{Examples: examples})
}

// Health godoc
// @Summary Health check
// @Description Reports liveness, the active provider and whether its credential is configured
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *GenerationHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:               "ok",
		Provider:             h.service.ProviderName(),
		CredentialConfigured: h.credentialConfigured,
	})
}
