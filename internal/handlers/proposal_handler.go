package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arsavista/teklif-api/internal/middleware"
	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/services"
)

type ProposalHandler struct {
	proposalService *services.ProposalService
	reportService   *services.ReportService
}

func NewProposalHandler(proposalService *services.ProposalService, reportService *services.ReportService) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		reportService:   reportService,
	}
}

type NewDraftRequest struct {
	LandIDs []uint `json:"land_ids"`
}

// @Summary New Draft
// @Description Start a proposal draft, optionally pre-filled with catalog lands
// @Tags Proposals
// @Accept json
// @Produce json
// @Param request body NewDraftRequest true "Initial lands"
// @Success 200 {object} models.Draft
// @Security BearerAuth
// @Router /proposals/draft [post]
func (h *ProposalHandler) Draft(c *gin.Context) {
	var req NewDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.proposalService.NewDraft(c.Request.Context(), middleware.GetUsername(c), req.LandIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft, "total_value": draft.TotalValue()})
}

// DraftEditRequest applies one builder operation to a client-held draft
type DraftEditRequest struct {
	Draft  models.Draft `json:"draft" binding:"required"`
	Op     string       `json:"op" binding:"required"`
	Index  int          `json:"index"`
	LandID uint         `json:"land_id"`
	Price  float64      `json:"price"`
	Option int          `json:"option"`
	Field  string       `json:"field"`
	Value  float64      `json:"value"`
}

// @Summary Edit Draft
// @Description Apply a builder operation (add_item, set_price, set_option, reset_options, remove_item) to a draft
// @Tags Proposals
// @Accept json
// @Produce json
// @Param request body DraftEditRequest true "Operation"
// @Success 200 {object} models.Draft
// @Security BearerAuth
// @Router /proposals/draft/edit [post]
func (h *ProposalHandler) EditDraft(c *gin.Context) {
	var req DraftEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := req.Draft
	var err error

	switch req.Op {
	case "add_item":
		var land *models.Land
		land, err = h.proposalService.LandForItem(c.Request.Context(), req.LandID)
		if err == nil {
			h.proposalService.AddItem(&draft, land)
		}
	case "set_price":
		err = h.proposalService.UpdateCashPrice(&draft, req.Index, req.Price)
	case "set_option":
		err = h.proposalService.UpdateOptionField(&draft, req.Index, req.Option, req.Field, req.Value)
	case "reset_options":
		err = h.proposalService.ResetOptions(&draft, req.Index)
	case "remove_item":
		err = h.proposalService.RemoveItem(&draft, req.Index)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "bilinmeyen işlem: " + req.Op})
		return
	}

	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft, "total_value": draft.TotalValue()})
}

// @Summary Save Proposal
// @Description Persist a draft as an immutable proposal with a share link
// @Tags Proposals
// @Accept json
// @Produce json
// @Param request body models.Draft true "Draft"
// @Success 201 {object} models.ProposalResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /proposals [post]
func (h *ProposalHandler) Create(c *gin.Context) {
	var draft models.Draft
	if err := BindNestedOrFlat(c, "proposal", &draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft.CreatedBy = middleware.GetUsername(c)

	proposal, err := h.proposalService.Save(c.Request.Context(), &draft, middleware.GetUserID(c))
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, services.ErrInvalidState) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"proposal": proposal.ToResponse(time.Now())})
}

// @Summary List Proposals
// @Description List proposals visible to the current user, newest first
// @Tags Proposals
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /proposals [get]
func (h *ProposalHandler) Index(c *gin.Context) {
	proposals, err := h.proposalService.List(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	responses := make([]models.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, proposals[i].ToResponse(now))
	}

	c.JSON(http.StatusOK, gin.H{"proposals": responses, "total": len(responses)})
}

// @Summary Show Proposal
// @Description Get a proposal by its share token. Public: the token is the credential.
// @Tags Proposals
// @Produce json
// @Param proposal_id path string true "Share token"
// @Success 200 {object} models.ProposalResponse
// @Failure 404 {object} map[string]string
// @Router /proposals/{proposal_id} [get]
func (h *ProposalHandler) Show(c *gin.Context) {
	proposal, err := h.proposalService.Get(c.Request.Context(), c.Param("proposal_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teklif bulunamadı"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": proposal.ToResponse(time.Now())})
}

// @Summary Proposal PDF
// @Description Download a proposal as PDF. Public, same access rule as Show.
// @Tags Proposals
// @Produce application/pdf
// @Param proposal_id path string true "Share token"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /proposals/{proposal_id}/pdf [get]
func (h *ProposalHandler) PDF(c *gin.Context) {
	proposal, err := h.proposalService.Get(c.Request.Context(), c.Param("proposal_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teklif bulunamadı"})
		return
	}

	data, filename, err := h.reportService.GenerateProposalPDF(c.Request.Context(), proposal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Expired Count
// @Description Count saved proposals past their validity date (Admin)
// @Tags Proposals
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /proposals/expired/count [get]
func (h *ProposalHandler) ExpiredCount(c *gin.Context) {
	count, err := h.proposalService.CountExpired(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": count})
}
