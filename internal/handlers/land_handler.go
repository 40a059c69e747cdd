package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arsavista/teklif-api/internal/middleware"
	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/repository"
	"github.com/arsavista/teklif-api/internal/services"
	"github.com/arsavista/teklif-api/internal/storage"
)

type LandHandler struct {
	landService   *services.LandService
	exportService *services.ExportService
	imageService  *services.ImageService
}

func NewLandHandler(landService *services.LandService, exportService *services.ExportService, imageService *services.ImageService) *LandHandler {
	return &LandHandler{
		landService:   landService,
		exportService: exportService,
		imageService:  imageService,
	}
}

// @Summary List Lands
// @Description Get a paginated list of lands from the catalog
// @Tags Lands
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param installment query bool false "Only installment-eligible lands"
// @Success 200 {object} map[string]interface{}
// @Router /lands [get]
func (h *LandHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["installment"] = c.Query("installment")
	query.Filters["location"] = c.Query("location")

	lands, total, err := h.landService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.LandResponse, 0, len(lands))
	for _, land := range lands {
		responses = append(responses, land.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"lands": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Land
// @Description Get a land by ID
// @Tags Lands
// @Produce json
// @Param land_id path int true "Land ID"
// @Success 200 {object} models.LandResponse
// @Failure 404 {object} map[string]string
// @Router /lands/{land_id} [get]
func (h *LandHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("land_id"), 10, 32)
	land, err := h.landService.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Arsa bulunamadı"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"land": land.ToResponse()})
}

// @Summary Create Land
// @Description Add a land to the catalog (Admin)
// @Tags Lands
// @Accept json
// @Produce json
// @Param request body models.Land true "Land Data"
// @Success 201 {object} models.LandResponse
// @Security BearerAuth
// @Router /lands [post]
func (h *LandHandler) Create(c *gin.Context) {
	var land models.Land
	if err := BindNestedOrFlat(c, "land", &land); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.landService.Create(c.Request.Context(), &land, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"land": land.ToResponse()})
}

// @Summary Update Land
// @Description Update a catalog land (Admin)
// @Tags Lands
// @Accept json
// @Produce json
// @Param land_id path int true "Land ID"
// @Param request body models.Land true "Land Data"
// @Success 200 {object} models.LandResponse
// @Security BearerAuth
// @Router /lands/{land_id} [put]
func (h *LandHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("land_id"), 10, 32)
	var land models.Land
	if err := BindNestedOrFlat(c, "land", &land); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	land.ID = uint(id)

	if err := h.landService.Update(c.Request.Context(), &land, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Arsa bulunamadı"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"land": land.ToResponse()})
}

// @Summary Delete Land
// @Description Remove a land from the catalog (Admin)
// @Tags Lands
// @Produce json
// @Param land_id path int true "Land ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /lands/{land_id} [delete]
func (h *LandHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("land_id"), 10, 32)
	if err := h.landService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Arsa bulunamadı"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Arsa silindi"})
}

// @Summary Export Lands
// @Description Download the catalog as XLSX or CSV (Admin)
// @Tags Lands
// @Produce application/octet-stream
// @Param format query string false "xlsx or csv" default(xlsx)
// @Security BearerAuth
// @Router /lands/export [get]
func (h *LandHandler) Export(c *gin.Context) {
	var (
		data     []byte
		filename string
		err      error
	)

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context())
	default:
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// @Summary Import Lands
// @Description Upload an XLSX file in the export layout (Admin)
// @Tags Lands
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX file"
// @Success 200 {object} services.ImportResult
// @Security BearerAuth
// @Router /lands/import [post]
func (h *LandHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dosya gerekli"})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dosya çok büyük (en fazla 10MB)"})
		return
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" && !storage.IsValidContentType(ct) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Desteklenmeyen dosya türü"})
		return
	}

	result, err := h.exportService.ImportXLSX(c.Request.Context(), file, header, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Upload Land Photo
// @Description Upload a catalog photo for a land (Admin)
// @Tags Lands
// @Accept multipart/form-data
// @Produce json
// @Param land_id path int true "Land ID"
// @Param image formData file true "Image file (JPG/PNG)"
// @Success 200 {object} models.LandResponse
// @Security BearerAuth
// @Router /lands/{land_id}/image [post]
func (h *LandHandler) UploadImage(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("land_id"), 10, 32)
	land, err := h.landService.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Arsa bulunamadı"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Görsel gerekli"})
		return
	}
	defer file.Close()

	original, _, err := h.imageService.SaveLandPhoto(file, header)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	land.ImageURL = original
	if err := h.landService.Update(c.Request.Context(), land, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"land": land.ToResponse()})
}
