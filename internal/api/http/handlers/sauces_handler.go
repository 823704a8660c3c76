package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/piiquante/sauce-service/internal/api/dto"
	"github.com/piiquante/sauce-service/internal/auth"
	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/service"
	"github.com/piiquante/sauce-service/internal/storage"
	apperrors "github.com/piiquante/sauce-service/pkg/util/errorutil"
)

// SaucesHandler exposes sauce CRUD and the like endpoint.
type SaucesHandler struct {
	sauces  *service.SauceService
	ratings *service.RatingService
	images  *storage.ImageStore
	logger  *zap.Logger
}

// NewSaucesHandler constructs handler.
func NewSaucesHandler(sauces *service.SauceService, ratings *service.RatingService, images *storage.ImageStore, logger *zap.Logger) *SaucesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaucesHandler{sauces: sauces, ratings: ratings, images: images, logger: logger}
}

// List handles GET /api/sauces.
func (h *SaucesHandler) List(c *fiber.Ctx) error {
	sauces, err := h.sauces.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSauceListResponse(sauces))
}

// Get handles GET /api/sauces/:id.
func (h *SaucesHandler) Get(c *fiber.Ctx) error {
	sauce, err := h.sauces.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSauceResponse(sauce))
}

// Create handles POST /api/sauces with a JSON body or a multipart form
// carrying a "sauce" JSON field and an "image" file.
func (h *SaucesHandler) Create(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	in, imageURL, err := h.parseSauce(c)
	if err != nil {
		return err
	}

	sauce, err := h.sauces.Create(c.UserContext(), accountID, in.ToService(), imageURL)
	if err != nil {
		h.discardImage(imageURL)
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewSauceResponse(sauce))
}

// Update handles PUT /api/sauces/:id. Only the owner may update.
func (h *SaucesHandler) Update(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	in, imageURL, err := h.parseSauce(c)
	if err != nil {
		return err
	}

	sauce, err := h.sauces.Update(c.UserContext(), accountID, c.Params("id"), in.ToService(), imageURL)
	if err != nil {
		h.discardImage(imageURL)
		return err
	}
	return c.JSON(dto.NewSauceResponse(sauce))
}

// Delete handles DELETE /api/sauces/:id. Only the owner may delete.
func (h *SaucesHandler) Delete(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := h.sauces.Delete(c.UserContext(), accountID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "sauce deleted"})
}

// Like handles POST /api/sauces/:id/like.
func (h *SaucesHandler) Like(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	var req dto.LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	res, err := h.ratings.SetOpinion(c.UserContext(), c.Params("id"), accountID, domain.Opinion(*req.Like))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLikeResponse(res))
}

func (h *SaucesHandler) parseSauce(c *fiber.Ctx) (dto.SauceInput, string, error) {
	var in dto.SauceInput
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&in); err != nil {
			return in, "", fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
		return in, "", dto.Validate(in)
	}

	if err := json.Unmarshal([]byte(c.FormValue("sauce")), &in); err != nil {
		return in, "", apperrors.NewValidationError("invalid sauce field", nil)
	}
	if err := dto.Validate(in); err != nil {
		return in, "", err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, "", apperrors.NewValidationError("invalid multipart form", nil)
	}
	files := form.File["image"]
	if len(files) == 0 {
		return in, "", nil
	}
	header := files[0]
	file, err := header.Open()
	if err != nil {
		return in, "", apperrors.NewValidationError("invalid image upload", nil)
	}
	defer file.Close()

	imageURL, err := h.images.Save(c.BaseURL(), header.Filename, file)
	switch {
	case errors.Is(err, storage.ErrUnsupportedImage):
		return in, "", apperrors.NewValidationError("image must be jpg, png or webp", nil)
	case errors.Is(err, storage.ErrImageTooLarge):
		return in, "", apperrors.NewValidationError("image too large", nil)
	case err != nil:
		return in, "", err
	}
	return in, imageURL, nil
}

func (h *SaucesHandler) discardImage(imageURL string) {
	if imageURL == "" {
		return
	}
	if err := h.images.Delete(imageURL); err != nil {
		h.logger.Warn("discard uploaded image failed", zap.Error(err))
	}
}
