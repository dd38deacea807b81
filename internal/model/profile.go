package model

type Profile struct {
	ID          int    `json:"id"`
	Role        Role   `json:"role"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender,omitempty"`

	Specialization string `json:"specialization,omitempty"`
	License        string `json:"license,omitempty"`
	Experience     string `json:"experience,omitempty"`

	EmergencyContact  string `json:"emergency_contact,omitempty"`
	InsuranceProvider string `json:"insurance_provider,omitempty"`
	Allergies         string `json:"allergies,omitempty"`
	MedicalHistory    string `json:"medical_history,omitempty"`
}

func (p Profile) GetID() int { return p.ID }

func (p Profile) WithID(id int) Profile {
	p.ID = id
	return p
}

func (p Profile) Clone() Profile { return p }

type UpdateProfileRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	DateOfBirth       *string `json:"date_of_birth"`
	Gender            *string `json:"gender"`
	Specialization    *string `json:"specialization"`
	License           *string `json:"license"`
	Experience        *string `json:"experience"`
	EmergencyContact  *string `json:"emergency_contact"`
	InsuranceProvider *string `json:"insurance_provider"`
	Allergies         *string `json:"allergies"`
	MedicalHistory    *string `json:"medical_history"`
}

// Apply merges the request into p. Fields that belong to the other role are ignored.
func (r *UpdateProfileRequest) Apply(p *Profile) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, r.Name)
	set(&p.Email, r.Email)
	set(&p.Phone, r.Phone)
	set(&p.Address, r.Address)
	set(&p.DateOfBirth, r.DateOfBirth)
	set(&p.Gender, r.Gender)

	switch p.Role {
	case RoleDoctor:
		set(&p.Specialization, r.Specialization)
		set(&p.License, r.License)
		set(&p.Experience, r.Experience)
	case RolePatient:
		set(&p.EmergencyContact, r.EmergencyContact)
		set(&p.InsuranceProvider, r.InsuranceProvider)
		set(&p.Allergies, r.Allergies)
		set(&p.MedicalHistory, r.MedicalHistory)
	}
}
