package handler

import (
	"math"
	"strconv"
	"strings"

	"temple-receipt-service/internal/adapter/http/dto"
	"temple-receipt-service/internal/adapter/http/middleware"
	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"
	"temple-receipt-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// RecordHandler handles record lookup and the admin surface.
type RecordHandler struct {
	recordSvc ports.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordSvc ports.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// GetRecord handles GET /api/v1/records/:receiptNumber.
func (h *RecordHandler) GetRecord(c *gin.Context) {
	var uri dto.RecordLookupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("malformed receipt number"))
		return
	}
	rec, err := h.recordSvc.GetByReceiptCode(c.Request.Context(), uri.ReceiptNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toRecordResponse(rec))
}

// ListRecords handles GET /api/v1/admin/records.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.RecordListParams{
		Page:     page,
		PageSize: pageSize,
	}

	if s := c.Query("category"); s != "" {
		category := domain.Category(strings.ToUpper(s))
		if !category.Valid() {
			response.Error(c, apperror.Validation("unknown category filter"))
			return
		}
		params.Category = &category
	}
	if s := c.Query("status"); s != "" {
		status := domain.RecordStatus(strings.ToUpper(s))
		params.Status = &status
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	records, total, err := h.recordSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		items = append(items, toRecordResponse(&records[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.RecordListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// OverrideStatus handles PATCH /api/v1/admin/records/:receiptNumber/status.
func (h *RecordHandler) OverrideStatus(c *gin.Context) {
	var uri dto.RecordLookupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("malformed receipt number"))
		return
	}

	var req dto.StatusOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	actor := c.GetString(middleware.CtxActor)
	if actor == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	next := domain.RecordStatus(strings.ToUpper(req.Status))

	rec, err := h.recordSvc.OverrideStatus(c.Request.Context(), actor, uri.ReceiptNumber, next, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toRecordResponse(rec))
}
