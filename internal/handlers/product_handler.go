package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"heavymachines/internal/config"
	"heavymachines/internal/models"
	"heavymachines/internal/repository"
)

type ProductHandler struct {
	repo     repository.ProductRepository
	s3Config *config.S3Config
	v        *validator.Validate
}

func NewProductHandler(db *sql.DB, s3Config *config.S3Config) *ProductHandler {
	return &ProductHandler{
		repo:     repository.NewProductRepository(db),
		s3Config: s3Config,
		v:        validator.New(),
	}
}

// ListByCategory returns the products in a category as a bare JSON array.
// An unknown category is an empty array, not an error.
// @Tags Products
// @Summary List products by category
// @Produce json
// @Param category path string true "Product category"
// @Success 200 {array} models.Product
// @Router /products/{category} [get]
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.repo.ListByCategory(r.Context(), category)
	if err != nil {
		log.Printf("Failed to list products for category %s: %v", category, err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list products")
		return
	}
	if len(products) == 0 {
		log.Printf("No products found for category: %s", category)
	}

	writeJSON(w, http.StatusOK, products)
}

// Create adds a catalog row. It accepts either a JSON body or a multipart
// form with an optional image file; the file is stored in S3 when S3 is
// configured.
// @Tags Products
// @Summary Create a product
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		parsed, err := h.parseMultipartProduct(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		req = *parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
			return
		}
	}

	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	p := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		log.Printf("Failed to create product: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to create product")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) parseMultipartProduct(r *http.Request) (*models.CreateProductRequest, error) {
	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, errFailedToParseForm
	}

	req := &models.CreateProductRequest{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Category: r.FormValue("category"),
	}
	if v := r.FormValue("description"); v != "" {
		req.Description = &v
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return req, nil
	}
	if err != nil {
		return nil, errFailedToParseForm
	}
	defer file.Close()

	imageURL, err := h.uploadImage(r, file, header)
	if err != nil {
		return nil, err
	}
	req.Image = &imageURL
	return req, nil
}

func (h *ProductHandler) uploadImage(r *http.Request, file multipart.File, header *multipart.FileHeader) (string, error) {
	if h.s3Config == nil || h.s3Config.Client == nil {
		return "", errImageStorageUnavailable
	}

	key := "products/" + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploader := manager.NewUploader(h.s3Config.Client)
	_, err := uploader.Upload(r.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(h.s3Config.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Failed to upload product image: %v", err)
		return "", errImageUploadFailed
	}

	if h.s3Config.PublicBaseURL != "" {
		return strings.TrimRight(h.s3Config.PublicBaseURL, "/") + "/" + key, nil
	}
	return "s3://" + h.s3Config.Bucket + "/" + key, nil
}

var (
	errFailedToParseForm       = &handlerError{"Failed to parse form"}
	errImageStorageUnavailable = &handlerError{"Image storage is not configured"}
	errImageUploadFailed       = &handlerError{"Failed to upload image"}
)

type handlerError struct{ s string }

func (e *handlerError) Error() string { return e.s }
