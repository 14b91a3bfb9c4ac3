package handler

import (
	"net/http"
	"strconv"

	"inventra/internal/dto"
	"inventra/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuditorHandler struct{ svc service.AuditService }

func NewAuditorHandler(svc service.AuditService) *AuditorHandler {
	return &AuditorHandler{svc: svc}
}

// AuditInventory godoc
// @Summary Run an audit over the whole catalog now
// @Tags auditor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AuditInventoryRequest false "Audit"
// @Success 201 {object} dto.AuditSummaryResponse
// @Router /api/auditor/auditInventory [post]
func (h *AuditorHandler) AuditInventory(c *gin.Context) {
	var req dto.AuditInventoryRequest
	// The body is optional; an empty request gets a generated title.
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateNewAudit(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, resp)
}

// ScheduleAudit godoc
// @Summary Schedule an audit for a future date
// @Tags auditor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ScheduleAuditRequest true "Schedule"
// @Success 201 {object} dto.AuditResponse
// @Router /api/auditor/scheduleAudit [post]
func (h *AuditorHandler) ScheduleAudit(c *gin.Context) {
	var req dto.ScheduleAuditRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ScheduleAudit(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *AuditorHandler) Reports(c *gin.Context) {
	resp, err := h.svc.ListAudits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *AuditorHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetAudit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *AuditorHandler) Start(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.StartAudit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *AuditorHandler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CompleteAuditRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CompleteAudit(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// ExportReport godoc
// @Summary Download an audit report
// @Description Without auditId the most recent audit is exported.
// @Tags auditor
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv | pdf | xlsx"
// @Param auditId query string false "Audit id"
// @Success 200 {file} file
// @Router /api/auditor/exportReport [get]
func (h *AuditorHandler) ExportReport(c *gin.Context) {
	var auditID *uuid.UUID
	if raw := c.Query("auditId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, &service.ValidationError{Message: "invalid auditId"})
			return
		}
		auditID = &id
	}
	file, err := h.svc.ExportReport(c.Request.Context(), c.Query("format"), auditID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(file.Body)))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
