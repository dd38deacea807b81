package role

import (
	"github.com/gin-gonic/gin"

	"github.com/apper-apps/mediconnect-code/internal/handler"
	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/preference"
	"github.com/apper-apps/mediconnect-code/internal/role"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
)

type Response struct {
	Role         model.Role        `json:"role"`
	Capabilities []role.Capability `json:"capabilities"`
}

type Handler struct {
	resolver *preference.Resolver
}

func NewHandler(resolver *preference.Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	me := r.Group("/me")
	{
		me.GET("/role", h.GetRole)
		me.PUT("/role", h.SetRole)
	}
}

func (h *Handler) GetRole(c *gin.Context) {
	r := middleware.RoleFrom(c)
	httputil.RespondWithSuccess(c, Response{Role: r, Capabilities: role.Capabilities(r)})
}

// SetRole switches the remembered role of the calling client.
func (h *Handler) SetRole(c *gin.Context) {
	var req model.SetRoleRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if err := h.resolver.Save(c.Request.Context(), middleware.ClientID(c), req.Role); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, Response{Role: req.Role, Capabilities: role.Capabilities(req.Role)})
}
