package model

// Role is the viewer role selected in the portal.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

type SetRoleRequest struct {
	Role Role `json:"role" binding:"required,role"`
}
