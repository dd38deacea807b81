// Package role maps portal roles to the actions they may perform.
package role

import (
	"strings"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

type Capability string

const (
	BookAppointment     Capability = "book_appointment"
	ApproveAppointment  Capability = "approve_appointment"
	ViewAllAppointments Capability = "view_all_appointments"
	ManagePrescriptions Capability = "manage_prescriptions"
	ViewPrescriptions   Capability = "view_prescriptions"
	ManageSchedule      Capability = "manage_schedule"
	ViewPatients        Capability = "view_patients"
	UploadFiles         Capability = "upload_files"
	ManageFiles         Capability = "manage_files"
	EditProfile         Capability = "edit_profile"
)

// Default is the role used when nothing else is known.
const Default = model.RolePatient

var capabilities = map[model.Role]map[Capability]bool{
	model.RolePatient: {
		BookAppointment:   true,
		ViewPrescriptions: true,
		UploadFiles:       true,
		EditProfile:       true,
	},
	model.RoleDoctor: {
		ApproveAppointment:  true,
		ViewAllAppointments: true,
		ManagePrescriptions: true,
		ViewPrescriptions:   true,
		ManageSchedule:      true,
		ViewPatients:        true,
		UploadFiles:         true,
		ManageFiles:         true,
		EditProfile:         true,
	},
}

// Can reports whether r holds capability c.
func Can(r model.Role, c Capability) bool {
	return capabilities[r][c]
}

// Capabilities lists what r may do, in a stable order.
func Capabilities(r model.Role) []Capability {
	out := make([]Capability, 0)
	for _, c := range All() {
		if Can(r, c) {
			out = append(out, c)
		}
	}
	return out
}

func All() []Capability {
	return []Capability{
		BookAppointment, ApproveAppointment, ViewAllAppointments,
		ManagePrescriptions, ViewPrescriptions, ManageSchedule,
		ViewPatients, UploadFiles, ManageFiles, EditProfile,
	}
}

// Parse accepts a role name in any case. ok is false for unknown roles.
func Parse(s string) (model.Role, bool) {
	r := model.Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}
