package calendar

import (
	"github.com/gin-gonic/gin"

	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/service/calendar"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
)

type Handler struct {
	service *calendar.Service
}

func NewHandler(service *calendar.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/calendar", h.GetMonth)
}

// GetMonth renders ?month=YYYY-MM with an optional ?selected=YYYY-MM-DD.
func (h *Handler) GetMonth(c *gin.Context) {
	view, err := h.service.Month(c.Request.Context(), calendar.MonthQuery{
		Month:    c.Query("month"),
		Selected: c.Query("selected"),
		Role:     middleware.RoleFrom(c),
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, view)
}
