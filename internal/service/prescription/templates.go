package prescription

import (
	"github.com/apper-apps/mediconnect-code/internal/model"
)

var templates = []model.PrescriptionTemplate{
	{
		Key:   "cold_flu",
		Label: "Cold & Flu",
		Medications: []model.Medication{
			{Name: "Paracetamol", Dosage: "500mg", Frequency: "Twice daily", Duration: "5 days"},
			{Name: "Cough Syrup", Dosage: "10ml", Frequency: "Three times daily", Duration: "7 days"},
		},
		Instructions: "Take with food. Rest and drink plenty of fluids.",
	},
	{
		Key:   "hypertension",
		Label: "Hypertension",
		Medications: []model.Medication{
			{Name: "Amlodipine", Dosage: "5mg", Frequency: "Once daily", Duration: "30 days"},
			{Name: "Metoprolol", Dosage: "25mg", Frequency: "Twice daily", Duration: "30 days"},
		},
		Instructions: "Take at the same time each day. Monitor blood pressure regularly.",
	},
	{
		Key:   "diabetes",
		Label: "Diabetes",
		Medications: []model.Medication{
			{Name: "Metformin", Dosage: "500mg", Frequency: "Twice daily", Duration: "30 days"},
			{Name: "Glipizide", Dosage: "5mg", Frequency: "Once daily", Duration: "30 days"},
		},
		Instructions: "Take with meals. Monitor blood sugar levels regularly.",
	},
	{
		Key:   "antibiotics",
		Label: "Antibiotics",
		Medications: []model.Medication{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "Three times daily", Duration: "7 days"},
			{Name: "Probiotics", Dosage: "1 capsule", Frequency: "Once daily", Duration: "14 days"},
		},
		Instructions: "Complete the full course. Take probiotics to maintain gut health.",
	},
	{
		Key:   "pain_relief",
		Label: "Pain Relief",
		Medications: []model.Medication{
			{Name: "Ibuprofen", Dosage: "400mg", Frequency: "Three times daily", Duration: "5 days"},
			{Name: "Muscle Relaxant", Dosage: "10mg", Frequency: "Twice daily", Duration: "7 days"},
		},
		Instructions: "Take with food. Apply ice/heat as needed. Avoid driving if drowsy.",
	},
}

// Templates returns a copy of the template catalog.
func Templates() []model.PrescriptionTemplate {
	out := make([]model.PrescriptionTemplate, len(templates))
	for i, t := range templates {
		out[i] = copyTemplate(t)
	}
	return out
}

// Template looks a template up by key.
func Template(key string) (model.PrescriptionTemplate, bool) {
	for _, t := range templates {
		if t.Key == key {
			return copyTemplate(t), true
		}
	}
	return model.PrescriptionTemplate{}, false
}

func copyTemplate(t model.PrescriptionTemplate) model.PrescriptionTemplate {
	t.Medications = append([]model.Medication(nil), t.Medications...)
	return t
}
