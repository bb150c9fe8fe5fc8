package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSchedule handles GET /api/schedule.
func (h *Handler) GetSchedule(c *gin.Context) {
	view, err := h.svc.DefaultView(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toViewResponse(view))
}

// GetSlotSchedule handles GET /api/schedule/slots/:time.
func (h *Handler) GetSlotSchedule(c *gin.Context) {
	t, err := h.parseInstant(c.Param("time"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	view, err := h.svc.SlotView(c.Request.Context(), t)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toViewResponse(view))
}

// GetStudentSchedule handles GET /api/schedule/students/:id.
func (h *Handler) GetStudentSchedule(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	view, err := h.svc.StudentView(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toViewResponse(view))
}

type clearSlotRequest struct {
	Slot string `json:"slot" binding:"required"`
}

// ClearSlot handles POST /api/schedule/clear.
func (h *Handler) ClearSlot(c *gin.Context) {
	var req clearSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.parseInstant(req.Slot)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.ClearSlot(c.Request.Context(), slot); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondDefaultView(c)
}

// StudentID is a pointer so that id 0 passes the required check.
type assignRequest struct {
	StudentID *int64 `json:"student_id" binding:"required"`
	Slot      string `json:"slot" binding:"required"`
}

// AssignStudent handles POST /api/schedule/assign.
func (h *Handler) AssignStudent(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.parseInstant(req.Slot)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.Assign(c.Request.Context(), *req.StudentID, slot); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondDefaultView(c)
}

type swapRequest struct {
	SelectedSlot string `json:"selected_slot" binding:"required"`
	TargetSlot   string `json:"target_slot" binding:"required"`
}

// SwapSlots handles POST /api/schedule/swap.
func (h *Handler) SwapSlots(c *gin.Context) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	selected, err := h.parseInstant(req.SelectedSlot)
	if err != nil {
		h.respondError(c, err)
		return
	}
	target, err := h.parseInstant(req.TargetSlot)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.Swap(c.Request.Context(), selected, target); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondDefaultView(c)
}

// respondDefaultView re-reads the board after a write.
func (h *Handler) respondDefaultView(c *gin.Context) {
	view, err := h.svc.DefaultView(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toViewResponse(view))
}
