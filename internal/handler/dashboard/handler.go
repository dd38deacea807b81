package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/service/dashboard"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.GetDashboard)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.RoleFrom(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, view)
}
