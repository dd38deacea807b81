package file

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/apper-apps/mediconnect-code/internal/filter"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
)

// MaxSize is the largest accepted upload.
const MaxSize = 10 * 1024 * 1024

// AcceptedExtensions lists the upload types the portal accepts.
var AcceptedExtensions = []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png", ".txt"}

// Owner is the patient a file belongs to.
type Owner struct {
	ID   int
	Name string
}

type Upload struct {
	FileName string
	Category model.FileCategory
	Owner    Owner
	Data     []byte
	// Size is the declared size when Data was not read in full.
	Size int64
}

func (u Upload) size() int64 {
	if n := int64(len(u.Data)); n >= u.Size {
		return n
	}
	return u.Size
}

// Rejection explains why one upload was skipped.
type Rejection struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

type Service struct {
	repo         *store.Collection[model.FileRecord]
	blobs        *cache.Cache
	defaultOwner Owner
	now          func() time.Time
}

func NewService(repo *store.Collection[model.FileRecord], defaultOwner Owner) *Service {
	return &Service{
		repo:         repo,
		blobs:        cache.New(cache.NoExpiration, 0),
		defaultOwner: defaultOwner,
		now:          time.Now,
	}
}

func (s *Service) ListFiles(ctx context.Context, filters *model.FileFilters) ([]model.FileRecord, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if filters == nil {
		return all, nil
	}
	return filter.Files(all, filters.Search, filters.Category), nil
}

func (s *Service) GetFile(ctx context.Context, id int) (model.FileRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// UploadFiles stores every acceptable upload and reports the rest. It fails
// only when nothing could be stored.
func (s *Service) UploadFiles(ctx context.Context, uploads []Upload) ([]model.FileRecord, []Rejection, error) {
	created := make([]model.FileRecord, 0, len(uploads))
	rejected := make([]Rejection, 0)

	for _, u := range uploads {
		if reason := Check(u.FileName, u.size()); reason != "" {
			rejected = append(rejected, Rejection{FileName: u.FileName, Reason: reason})
			continue
		}
		category := u.Category
		if category == "" || category == filter.All {
			category = model.FileCategoryOther
		}
		if !category.Valid() {
			rejected = append(rejected, Rejection{FileName: u.FileName, Reason: fmt.Sprintf("unknown category %q", category)})
			continue
		}

		owner := u.Owner
		if owner.ID == 0 {
			owner = s.defaultOwner
		}

		key := uuid.NewString()
		s.blobs.Set(key, append([]byte(nil), u.Data...), cache.NoExpiration)

		rec, err := s.repo.Create(ctx, model.FileRecord{
			FileName:    filepath.Base(u.FileName),
			FileType:    mimetype.Detect(u.Data).String(),
			Category:    category,
			Size:        int64(len(u.Data)),
			PatientID:   owner.ID,
			PatientName: owner.Name,
			StorageKey:  key,
		})
		if err != nil {
			s.blobs.Delete(key)
			return created, rejected, err
		}
		created = append(created, rec)
	}

	if len(created) == 0 {
		return nil, rejected, errors.NewBadRequest("Please select valid files with correct format and size.", nil)
	}
	return created, rejected, nil
}

// Check returns why a file cannot be uploaded, or "" when it can.
func Check(fileName string, size int64) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	accepted := false
	for _, a := range AcceptedExtensions {
		if ext == a {
			accepted = true
			break
		}
	}
	switch {
	case !accepted:
		return fmt.Sprintf("file type %q is not accepted", ext)
	case size == 0:
		return "file is empty"
	case size > MaxSize:
		return fmt.Sprintf("file exceeds maximum size of %s", FormatSize(MaxSize))
	}
	return ""
}

// Download returns the record and its content. Seeded records have no content.
func (s *Service) Download(ctx context.Context, id int) (model.FileRecord, []byte, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.FileRecord{}, nil, err
	}
	v, ok := s.blobs.Get(rec.StorageKey)
	if rec.StorageKey == "" || !ok {
		return model.FileRecord{}, nil, errors.NewNotFound("file content", nil)
	}
	return rec, v.([]byte), nil
}

func (s *Service) DeleteFile(ctx context.Context, id int) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if rec.StorageKey != "" {
		s.blobs.Delete(rec.StorageKey)
	}
	return nil
}

func (s *Service) GetStats(ctx context.Context) (model.FileStats, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return model.FileStats{}, err
	}
	return Stats(all, s.now()), nil
}

// Stats summarizes files; "this month" is relative to now.
func Stats(files []model.FileRecord, now time.Time) model.FileStats {
	stats := model.FileStats{TotalFiles: len(files)}
	categories := make(map[model.FileCategory]struct{})
	for _, f := range files {
		stats.TotalSize += f.Size
		categories[f.Category] = struct{}{}
		up := f.UploadDate.In(now.Location())
		if up.Year() == now.Year() && up.Month() == now.Month() {
			stats.ThisMonth++
		}
	}
	stats.Categories = len(categories)
	stats.TotalSizeHuman = FormatSize(stats.TotalSize)
	return stats
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders bytes in 1024-based units with at most two decimals.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
