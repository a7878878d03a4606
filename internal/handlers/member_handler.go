package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/services"
)

// MemberHandler handles member-related requests.
type MemberHandler struct {
	memberService services.MemberServicer
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService services.MemberServicer) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMemberRequest represents the request payload for adding a member.
type CreateMemberRequest struct {
	DatasetID string `json:"dataset_id" binding:"required"`
	Name      string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateMemberRequest represents the request payload for renaming a member.
type UpdateMemberRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ListMembers handles listing the members of a dataset.
// @Summary     List members
// @Tags        members
// @Produce     json
// @Param       dataset_id query string true "Dataset ID"
// @Success     200 {object} map[string]interface{} "Members"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	datasetID, err := requireDatasetQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	members, err := h.memberService.ListMembers(datasetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// CreateMember handles adding a member to a dataset.
// @Summary     Add a member
// @Tags        members
// @Accept      json
// @Produce     json
// @Param       request body CreateMemberRequest true "Member details"
// @Success     201 {object} models.Member "Member created"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.memberService.CreateMember(req.DatasetID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// UpdateMember handles renaming a member. Purchases keep the name they
// were recorded with.
// @Summary     Rename a member
// @Tags        members
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Member ID"
// @Param       request body UpdateMemberRequest true "New name"
// @Success     200 {object} models.Member "Updated member"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id} [put]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.memberService.UpdateMember(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// DeleteMember handles removing a member without touching purchases.
// @Summary     Remove a member
// @Tags        members
// @Produce     json
// @Param       id path string true "Member ID"
// @Success     200 {object} MessageResponse "Member deleted"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.memberService.DeleteMember(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}
