package model

import "time"

type FileCategory string

const (
	FileCategoryLabResults    FileCategory = "lab_results"
	FileCategoryPrescriptions FileCategory = "prescriptions"
	FileCategoryReports       FileCategory = "reports"
	FileCategoryImages        FileCategory = "images"
	FileCategoryOther         FileCategory = "other"
)

var FileCategories = []FileCategory{
	FileCategoryLabResults,
	FileCategoryPrescriptions,
	FileCategoryReports,
	FileCategoryImages,
	FileCategoryOther,
}

func (c FileCategory) Valid() bool {
	for _, known := range FileCategories {
		if c == known {
			return true
		}
	}
	return false
}

type FileRecord struct {
	ID          int          `json:"id"`
	FileName    string       `json:"file_name"`
	FileType    string       `json:"file_type"`
	Category    FileCategory `json:"category"`
	UploadDate  time.Time    `json:"upload_date"`
	Size        int64        `json:"size"`
	PatientID   int          `json:"patient_id"`
	PatientName string       `json:"patient_name"`
	StorageKey  string       `json:"-"`
}

func (f FileRecord) GetID() int { return f.ID }

func (f FileRecord) WithID(id int) FileRecord {
	f.ID = id
	return f
}

func (f FileRecord) Clone() FileRecord { return f }

func (f FileRecord) OnCreate(now time.Time) FileRecord {
	f.UploadDate = now
	return f
}

type FileFilters struct {
	Category FileCategory `form:"category"`
	Search   string       `form:"search"`
}

type FileStats struct {
	TotalFiles     int    `json:"total_files"`
	ThisMonth      int    `json:"this_month"`
	TotalSize      int64  `json:"total_size"`
	TotalSizeHuman string `json:"total_size_human"`
	Categories     int    `json:"categories"`
}
