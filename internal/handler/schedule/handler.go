package schedule

import (
	"github.com/gin-gonic/gin"

	"github.com/apper-apps/mediconnect-code/internal/handler"
	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/role"
	"github.com/apper-apps/mediconnect-code/internal/service/schedule"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	manage := middleware.Require(role.ManageSchedule)

	sched := r.Group("/schedule")
	{
		sched.GET("", h.GetWeek)
		sched.PUT("", manage, h.SaveWeek)
		sched.PATCH("/:day", manage, h.SetHours)
		sched.POST("/:day/toggle", manage, h.ToggleDay)
		sched.POST("/:day/slots/:slot/toggle", manage, h.ToggleSlot)
	}
}

func day(c *gin.Context) model.Weekday {
	return model.Weekday(c.Param("day"))
}

func (h *Handler) GetWeek(c *gin.Context) {
	week, err := h.service.GetWeek(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, week)
}

func (h *Handler) SaveWeek(c *gin.Context) {
	var req model.SaveScheduleRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	week, err := h.service.SaveWeek(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, week)
}

func (h *Handler) SetHours(c *gin.Context) {
	var req model.SetHoursRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	d, err := h.service.SetHours(c.Request.Context(), day(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) ToggleDay(c *gin.Context) {
	d, err := h.service.ToggleDay(c.Request.Context(), day(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, d)
}

// ToggleSlot takes the slot as HH:mm; the colon may be URL-encoded.
func (h *Handler) ToggleSlot(c *gin.Context) {
	d, err := h.service.ToggleSlot(c.Request.Context(), day(c), c.Param("slot"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, d)
}
