package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListStudents handles GET /api/students.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.svc.ListStudents(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		resp = append(resp, h.toStudentResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

// ImportStudents handles POST /api/students/import. The multipart field
// "file" holds the roster CSV; it replaces every stored student.
func (h *Handler) ImportStudents(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload is too large"})
			return
		}
		h.respondError(c, fmt.Errorf("%w: missing file field: %v", errBadRequest, err))
		return
	}

	if header.Size == 0 {
		h.respondError(c, fmt.Errorf("%w: uploaded file is empty", errBadRequest))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	n, err := h.svc.ImportStudents(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": n})
}

type siblingSlotRequest struct {
	Slot string `json:"slot" binding:"required"`
}

// AddSiblingSlot handles POST /api/students/:id/siblings.
func (h *Handler) AddSiblingSlot(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req siblingSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.parseInstant(req.Slot)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.svc.AddSiblingSlot(c.Request.Context(), id, slot); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveSiblingLink handles DELETE /api/students/:id/siblings.
func (h *Handler) RemoveSiblingLink(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.RemoveSiblingLink(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
