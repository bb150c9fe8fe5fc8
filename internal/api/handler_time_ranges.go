package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-scheduler-backend/internal/schedule"
)

// ListTimeRanges handles GET /api/time-ranges.
func (h *Handler) ListTimeRanges(c *gin.Context) {
	h.respondTimeRanges(c, http.StatusOK)
}

type createTimeRangeRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// CreateTimeRange handles POST /api/time-ranges.
func (h *Handler) CreateTimeRange(c *gin.Context) {
	var req createTimeRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := h.parseInstant(req.StartTime)
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := h.parseInstant(req.EndTime)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.svc.AddTimeRange(c.Request.Context(), schedule.TimeRange{Start: start, End: end}); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondTimeRanges(c, http.StatusCreated)
}

// DeleteTimeRange handles DELETE /api/time-ranges/:start.
func (h *Handler) DeleteTimeRange(c *gin.Context) {
	start, err := h.parseInstant(c.Param("start"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.DeleteTimeRange(c.Request.Context(), start); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondTimeRanges(c *gin.Context, status int) {
	ranges, universe, err := h.svc.ListTimeRanges(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := TimeRangesResponse{
		Ranges: make([]timeRangeResponse, 0, len(ranges)),
		Slots:  h.inZone(universe.Sorted()),
	}
	for _, r := range ranges {
		resp.Ranges = append(resp.Ranges, timeRangeResponse{
			StartTime: r.Start.In(h.loc),
			EndTime:   r.End.In(h.loc),
		})
	}
	c.JSON(status, resp)
}
