package store

import (
	"github.com/apper-apps/mediconnect-code/internal/model"
)

// Collection names, also used in NotFound messages and metric labels.
const (
	EntityAppointment  = "appointment"
	EntityPrescription = "prescription"
	EntityPatient      = "patient"
	EntityFile         = "file"
	EntitySchedule     = "schedule day"
	EntityProfile      = "profile"
)

// Store bundles one collection per entity.
type Store struct {
	Appointments  *Collection[model.Appointment]
	Prescriptions *Collection[model.Prescription]
	Patients      *Collection[model.Patient]
	Files         *Collection[model.FileRecord]
	Schedule      *Collection[model.ScheduleDay]
	Profiles      *Collection[model.Profile]
}

// New builds a store populated from seed.
func New(seed *Seed, opts Options) *Store {
	if seed == nil {
		seed = &Seed{}
	}
	return &Store{
		Appointments:  NewCollection(EntityAppointment, seed.Appointments, opts),
		Prescriptions: NewCollection(EntityPrescription, seed.Prescriptions, opts),
		Patients:      NewCollection(EntityPatient, seed.Patients, opts),
		Files:         NewCollection(EntityFile, seed.Files, opts),
		Schedule:      NewCollection(EntitySchedule, seed.Schedule, opts),
		Profiles:      NewCollection(EntityProfile, seed.Profiles, opts),
	}
}
