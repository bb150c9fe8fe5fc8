package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interview-scheduler-backend/internal/parse"
	"interview-scheduler-backend/internal/schedule"
	"interview-scheduler-backend/internal/service"
	"interview-scheduler-backend/internal/store"
)

// errBadRequest marks malformed path or body parameters.
var errBadRequest = errors.New("bad request")

// instantLayouts are tried in order for times without an explicit offset.
var instantLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc       *service.Service
	loc       *time.Location
	maxUpload int64
	log       *zap.Logger
}

// NewHandler creates a new API handler. Times without an offset are read in
// loc and every time in a response is rendered in loc.
func NewHandler(svc *service.Service, loc *time.Location, maxUpload int64, log *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, loc: loc, maxUpload: maxUpload, log: log}
}

// parseInstant accepts RFC 3339 or a local date-time in the handler's zone.
func (h *Handler) parseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, raw, h.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid time %q", errBadRequest, raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid student id %q", errBadRequest, raw)
	}
	return id, nil
}

// respondError maps domain and storage errors to HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidSiblingSlot),
		errors.Is(err, parse.ErrMalformedRow),
		errors.Is(err, parse.ErrEmptyRoster):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrSlotEmpty),
		errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrRangeExists),
		errors.Is(err, store.ErrSlotTaken):
		status = http.StatusConflict
	default:
		c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
