package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cvlab-ar/cvgen-service/internal/api/dto"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

// ListSubmissions handles GET /api/v1/admin/cv-submissions
// Lists CV submissions with optional status filtering and cursor pagination
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var req dto.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid query parameters",
		})
		return
	}

	if req.Status != "" && !submission.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid status filter",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeSubmissionCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid cursor",
		})
		return
	}

	subs, err := h.submissions.List(c.Request.Context(), submission.Filter{
		Status:   req.Status,
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		h.logger.Error("Failed to list submissions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to list submissions",
		})
		return
	}

	hasMore := len(subs) > req.PageSize
	if hasMore {
		subs = subs[:req.PageSize]
	}

	subDTOs := make([]dto.SubmissionDTO, len(subs))
	for i, sub := range subs {
		subDTOs[i] = toSubmissionDTO(sub)
	}

	var nextCursor string
	if hasMore {
		last := subs[len(subs)-1]
		nextCursor = EncodeSubmissionCursor(&submission.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	c.JSON(http.StatusOK, dto.ListSubmissionsResponse{
		Success:     true,
		Submissions: subDTOs,
		NextCursor:  nextCursor,
	})
}

// GetSubmission handles GET /api/v1/admin/cv-submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := c.Param("id")

	sub, err := h.submissions.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, submission.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Submission not found",
			})
			return
		}
		h.logger.Error("Failed to get submission", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get submission",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": toSubmissionDTO(*sub),
	})
}

// UpdateSubmissionStatus handles PUT /api/v1/admin/cv-submissions/:id/status
func (h *SubmissionHandler) UpdateSubmissionStatus(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateSubmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	if !submission.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid status. Must be one of: PENDING, IN_REVIEW, COMPLETED, DELIVERED",
		})
		return
	}

	if err := h.submissions.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, submission.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Submission not found",
			})
			return
		}
		h.logger.Error("Failed to update submission status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update submission status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Submission updated to %s", req.Status),
	})
}

func toSubmissionDTO(sub submission.Submission) dto.SubmissionDTO {
	return dto.SubmissionDTO{
		ID:         sub.ID,
		FullName:   sub.FullName,
		Email:      sub.Email,
		Phone:      sub.Phone,
		City:       sub.City,
		LinkedIn:   sub.LinkedIn,
		Experience: sub.Experience,
		Education:  sub.Education,
		HardSkills: sub.HardSkills,
		SoftSkills: sub.SoftSkills,
		Languages:  sub.Languages,
		Status:     sub.Status,
		CreatedAt:  sub.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  sub.UpdatedAt.Format(time.RFC3339),
	}
}
