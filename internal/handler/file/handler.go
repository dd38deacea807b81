package file

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/mediconnect-code/internal/handler"
	"github.com/apper-apps/mediconnect-code/internal/middleware"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/role"
	"github.com/apper-apps/mediconnect-code/internal/service/file"
	apperrors "github.com/apper-apps/mediconnect-code/pkg/errors"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
)

// FormField carries the uploaded files in a multipart request.
const FormField = "files"

type UploadResult struct {
	Files    []model.FileRecord `json:"files"`
	Rejected []file.Rejection   `json:"rejected"`
}

type Handler struct {
	service *file.Service
}

func NewHandler(service *file.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.GET("", h.ListFiles)
		files.GET("/stats", h.GetStats)
		files.GET("/:id", h.GetFile)
		files.GET("/:id/download", h.DownloadFile)
		files.POST("", middleware.Require(role.UploadFiles), h.UploadFiles)
		files.DELETE("/:id", middleware.Require(role.ManageFiles), h.DeleteFile)
	}
}

func (h *Handler) ListFiles(c *gin.Context) {
	var filters model.FileFilters
	if !handler.BindQuery(c, &filters) {
		return
	}

	files, err := h.service.ListFiles(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, files)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) GetFile(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.GetFile(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, rec)
}

func (h *Handler) DownloadFile(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	rec, data, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName))
	c.Data(http.StatusOK, rec.FileType, data)
}

// UploadFiles accepts several files under the "files" field. The optional
// category, patient_id and patient_name fields apply to all of them.
func (h *Handler) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("expected a multipart form", err))
		return
	}
	headers := form.File[FormField]
	if len(headers) == 0 {
		httputil.RespondWithError(c, apperrors.NewBadRequest("no files uploaded", nil))
		return
	}

	owner := file.Owner{Name: c.PostForm("patient_name")}
	if raw := c.PostForm("patient_id"); raw != "" {
		owner.ID, err = strconv.Atoi(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid patient_id", err))
			return
		}
	}
	category := model.FileCategory(c.PostForm("category"))

	uploads := make([]file.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("failed to read "+fh.Filename, err))
			return
		}
		uploads = append(uploads, file.Upload{
			FileName: fh.Filename,
			Category: category,
			Owner:    owner,
			Data:     data,
			Size:     fh.Size,
		})
	}

	created, rejected, err := h.service.UploadFiles(c.Request.Context(), uploads)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, UploadResult{Files: created, Rejected: rejected})
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > file.MaxSize {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) DeleteFile(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteFile(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
