package prescription

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/mediconnect-code/internal/handler"
	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/role"
	"github.com/apper-apps/mediconnect-code/internal/service/prescription"
	apperrors "github.com/apper-apps/mediconnect-code/pkg/errors"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	manage := middleware.Require(role.ManagePrescriptions)

	prescriptions := r.Group("/prescriptions", middleware.Require(role.ViewPrescriptions))
	{
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/templates", h.ListTemplates)
		prescriptions.GET("/templates/:key", h.GetTemplate)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.GET("/:id/pdf", h.DownloadPDF)
		prescriptions.POST("", manage, h.CreatePrescription)
		prescriptions.PUT("/:id", manage, h.UpdatePrescription)
		prescriptions.DELETE("/:id", manage, h.DeletePrescription)
	}
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	items, err := h.service.ListPrescriptions(c.Request.Context(), c.Query("search"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	httputil.RespondWithSuccess(c, prescription.Templates())
}

func (h *Handler) GetTemplate(c *gin.Context) {
	key := c.Param("key")
	tmpl, ok := prescription.Template(key)
	if !ok {
		httputil.RespondWithError(c, apperrors.NewNotFound(fmt.Sprintf("template %q", key), nil))
		return
	}

	httputil.RespondWithSuccess(c, tmpl)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) DownloadPDF(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	p, pdf, err := h.service.RenderPDF(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", prescription.FileName(p)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreatePrescription(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, p)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePrescriptionRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdatePrescription(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePrescription(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
