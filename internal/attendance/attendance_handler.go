package attendance

import (
	"fmt"
	"net/http"
	"strconv"

	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/middleware"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func recordKeyFromParams(c *gin.Context) (RecordKey, error) {
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return RecordKey{}, attendanceerrors.ErrInvalidPeriod
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return RecordKey{}, attendanceerrors.ErrInvalidPeriod
	}
	return RecordKey{WorkerID: c.Param("workerId"), Month: month, Year: year}, nil
}

func periodFromQuery(c *gin.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, attendanceerrors.ErrInvalidPeriod
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, attendanceerrors.ErrInvalidPeriod
	}
	return month, year, nil
}

func (h *Handler) Save(c *gin.Context) {
	actor := middleware.ExtractActor(c)

	var req SaveRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Save(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	actor := middleware.ExtractActor(c)

	month, year, err := periodFromQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListForPeriod(c.Request.Context(), actor, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByKey(c *gin.Context) {
	actor := middleware.ExtractActor(c)

	key, err := recordKeyFromParams(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetByKey(c.Request.Context(), actor, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	actor := middleware.ExtractActor(c)

	key, err := recordKeyFromParams(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), actor, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	actor := middleware.ExtractActor(c)

	key, err := recordKeyFromParams(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// The rejection note is optional, so an empty body is fine.
	var req RejectRecordRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.Reject(c.Request.Context(), actor, key, req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reopen(c *gin.Context) {
	actor := middleware.ExtractActor(c)

	key, err := recordKeyFromParams(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Reopen(c.Request.Context(), actor, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	actor := middleware.ExtractActor(c)

	month, year, err := periodFromQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	data, err := h.service.ExportCSV(c.Request.Context(), actor, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%04d-%02d.csv", year, month)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
