package audit

import (
	"net/http"
	"strconv"
	"time"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EntryResponse struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Table     string `json:"table"`
	RecordID  string `json:"record_id"`
	Actor     string `json:"actor"`
	Payload   any    `json:"payload,omitempty"`
	CreatedAt string `json:"created_at"`
}

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("audit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.handler")
	}
	return &Handler{repo: repo, logger: l}
}

// Search is read-only and open to every authenticated role.
func (h *Handler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	q := Query{
		Actor:  c.Query("actor"),
		Table:  c.Query("table"),
		Action: c.Query("action"),
		Limit:  limit,
	}

	entries, err := h.repo.Search(c.Request.Context(), q)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("audit search failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = EntryResponse{
			ID:        e.ID.String(),
			Action:    e.Action,
			Table:     e.EntityTable,
			RecordID:  e.RecordID,
			Actor:     e.Actor,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}
