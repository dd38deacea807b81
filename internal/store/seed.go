package store

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

//go:embed seed/*.json
var seedFS embed.FS

// Seed is the initial content of every collection.
type Seed struct {
	Appointments  []model.Appointment
	Prescriptions []model.Prescription
	Patients      []model.Patient
	Files         []model.FileRecord
	Schedule      []model.ScheduleDay
	Profiles      []model.Profile
}

// LoadSeed decodes the embedded demo fixtures.
func LoadSeed() (*Seed, error) {
	seed := &Seed{}
	files := []struct {
		name string
		dst  interface{}
	}{
		{"appointments.json", &seed.Appointments},
		{"prescriptions.json", &seed.Prescriptions},
		{"patients.json", &seed.Patients},
		{"files.json", &seed.Files},
		{"schedule.json", &seed.Schedule},
		{"profiles.json", &seed.Profiles},
	}
	for _, f := range files {
		data, err := seedFS.ReadFile("seed/" + f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("failed to decode seed %s: %w", f.name, err)
		}
	}
	return seed, nil
}
