package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/middleware"
	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/services"
)

// MaxImagesPerUpload caps the files accepted by one upload request.
const MaxImagesPerUpload = 10

// AdHandler serves public listings, ad detail and the posting workflow.
type AdHandler struct {
	listing    *services.Listing
	submission *services.Submission
	lifecycle  *services.Lifecycle
	log        *zap.Logger
}

// NewAdHandler constructs AdHandler.
func NewAdHandler(listing *services.Listing, submission *services.Submission, lifecycle *services.Lifecycle, log *zap.Logger) *AdHandler {
	return &AdHandler{listing: listing, submission: submission, lifecycle: lifecycle, log: log}
}

// ListAds returns approved ads filtered by category, sort and search. A
// failed fetch yields an empty list rather than an error.
func (h *AdHandler) ListAds(c *fiber.Ctx) error {
	ads, err := h.listing.Browse(c.UserContext(), services.ListingFilters{
		Category: c.Query("category"),
		SortBy:   c.Query("sortBy", services.SortNewest),
		Search:   c.Query("search"),
	})
	return h.publicList(c, "browse", ads, err)
}

// RecentAds returns the home page's newest approved ads.
func (h *AdHandler) RecentAds(c *fiber.Ctx) error {
	ads, err := h.listing.Recent(c.UserContext())
	return h.publicList(c, "recent", ads, err)
}

// FeaturedAds returns the home page's featured ads.
func (h *AdHandler) FeaturedAds(c *fiber.Ctx) error {
	ads, err := h.listing.Featured(c.UserContext())
	return h.publicList(c, "featured", ads, err)
}

func (h *AdHandler) publicList(c *fiber.Ctx, section string, ads []models.Ad, err error) error {
	if err != nil {
		h.log.Warn("public listing failed", zap.String("section", section), zap.Error(err))
		ads = []models.Ad{}
	}
	return c.JSON(fiber.Map{"success": true, "data": ads})
}

// GetAd returns one ad; non-approved ads only reach their owner and admins.
func (h *AdHandler) GetAd(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ad, err := h.listing.Detail(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": ad})
}

// NewAdForm reports whether the caller may post, with the categories for the form.
func (h *AdHandler) NewAdForm(c *fiber.Ctx) error {
	canPost, err := h.submission.CanPost(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	resp := fiber.Map{"can_post": canPost}
	if canPost {
		categories, err := h.listing.Categories(c.UserContext())
		if err != nil {
			return err
		}
		resp["categories"] = categories
	} else {
		resp["message"] = services.ErrAccountNotApproved.Error()
	}

	return c.JSON(fiber.Map{"success": true, "data": resp})
}

// UploadImages stores the multipart "images" files and returns their URLs.
func (h *AdHandler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no images provided")
	}
	if len(headers) > MaxImagesPerUpload {
		return fiber.NewError(fiber.StatusBadRequest, "too many images")
	}

	files := make([]services.ImageFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readImage(fh)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read "+fh.Filename)
		}
		files = append(files, file)
	}

	urls, err := h.submission.UploadImages(c.UserContext(), middleware.CurrentSession(c), files)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": urls})
}

// CreateAd submits a new ad for review.
func (h *AdHandler) CreateAd(c *fiber.Ctx) error {
	var req services.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ad, err := h.submission.Submit(c.UserContext(), middleware.CurrentSession(c), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"data":     ad,
		"message":  "Your ad has been submitted for review.",
		"redirect": "/dashboard",
	})
}

// DeleteAd removes one of the caller's ads.
func (h *AdHandler) DeleteAd(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if _, err := h.lifecycle.Delete(c.UserContext(), middleware.CurrentSession(c), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// Dashboard lists the caller's ads in every state with totals.
func (h *AdHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.listing.MyAds(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": dash})
}

func readImage(fh *multipart.FileHeader) (services.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return services.ImageFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return services.ImageFile{}, err
	}

	return services.ImageFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
