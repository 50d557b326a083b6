package clinic

import "time"

// CreatePatientParams carries the caller-supplied fields for registration.
// Identity, patient number, registration time, and status are generated by
// the store.
type CreatePatientParams struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	DateOfBirth       string
	Gender            Gender
	Address           string
	EmergencyContact  string
	BloodGroup        string
	Allergies         string
	Medications       string
	InsuranceProvider string
	InsuranceNumber   string
}

// UpdatePatientParams is a partial update: nil fields keep their current
// value, set fields overwrite.
type UpdatePatientParams struct {
	FirstName         *string
	LastName          *string
	Email             *string
	Phone             *string
	DateOfBirth       *string
	Gender            *Gender
	Address           *string
	EmergencyContact  *string
	BloodGroup        *string
	Allergies         *string
	Medications       *string
	InsuranceProvider *string
	InsuranceNumber   *string
	LastVisit         *time.Time
	Status            *PatientStatus
}

func (u UpdatePatientParams) apply(p *Patient) {
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = *u.DateOfBirth
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.EmergencyContact != nil {
		p.EmergencyContact = *u.EmergencyContact
	}
	if u.BloodGroup != nil {
		p.BloodGroup = *u.BloodGroup
	}
	if u.Allergies != nil {
		p.Allergies = *u.Allergies
	}
	if u.Medications != nil {
		p.Medications = *u.Medications
	}
	if u.InsuranceProvider != nil {
		p.InsuranceProvider = *u.InsuranceProvider
	}
	if u.InsuranceNumber != nil {
		p.InsuranceNumber = *u.InsuranceNumber
	}
	if u.LastVisit != nil {
		p.LastVisit = u.LastVisit
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
}

// CreateAppointmentParams carries scheduling input. The referenced patient
// must exist; the store fills the PatientName snapshot from it.
type CreateAppointmentParams struct {
	PatientID  string
	DoctorName string
	Date       string // YYYY-MM-DD
	Time       string
	Type       AppointmentType
	Status     AppointmentStatus
	Notes      string
}

// UpdateAppointmentParams is a partial update with the same semantics as
// UpdatePatientParams.
type UpdateAppointmentParams struct {
	DoctorName *string
	Date       *string
	Time       *string
	Type       *AppointmentType
	Status     *AppointmentStatus
	Notes      *string
}

func (u UpdateAppointmentParams) apply(a *Appointment) {
	if u.DoctorName != nil {
		a.DoctorName = *u.DoctorName
	}
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.Time != nil {
		a.Time = *u.Time
	}
	if u.Type != nil {
		a.Type = *u.Type
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
}

// CreateMedicalRecordParams carries record-entry input. The referenced
// patient must exist; the store fills the PatientName snapshot from it.
type CreateMedicalRecordParams struct {
	PatientID   string
	Type        RecordType
	Title       string
	Description string
	Diagnosis   string
	Treatment   string
	DoctorName  string
	Date        string // YYYY-MM-DD
	Attachments []string
}
