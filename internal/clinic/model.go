// Package clinic implements the record store behind the clinic console:
// four persisted collections (patients, appointments, medical records,
// recent activity) over a key-value substrate, plus derived dashboard
// statistics.
package clinic

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type PatientStatus string

const (
	PatientActive   PatientStatus = "active"
	PatientInactive PatientStatus = "inactive"
)

type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentCheckup      AppointmentType = "checkup"
	AppointmentFollowup     AppointmentType = "followup"
	AppointmentEmergency    AppointmentType = "emergency"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentOngoing   AppointmentStatus = "ongoing"
)

type RecordType string

const (
	RecordConsultation RecordType = "consultation"
	RecordLab          RecordType = "lab"
	RecordImaging      RecordType = "imaging"
	RecordPrescription RecordType = "prescription"
	RecordSurgery      RecordType = "surgery"
)

type ActivityType string

const (
	ActivityAppointment ActivityType = "appointment"
	ActivityPatient     ActivityType = "patient"
	ActivityRecord      ActivityType = "record"
	ActivityCheckup     ActivityType = "checkup"
)

type ActivityStatus string

const (
	ActivityCompleted ActivityStatus = "completed"
	ActivityPending   ActivityStatus = "pending"
	ActivityScheduled ActivityStatus = "scheduled"
)

// Patient is a registered patient. PatientID is the human-facing number
// shown on cards and labels; ID is the internal identity everything else
// references.
type Patient struct {
	ID                string        `json:"id"`
	PatientID         string        `json:"patientId"`
	FirstName         string        `json:"firstName"`
	LastName          string        `json:"lastName"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	DateOfBirth       string        `json:"dateOfBirth"`
	Gender            Gender        `json:"gender"`
	Address           string        `json:"address"`
	EmergencyContact  string        `json:"emergencyContact"`
	BloodGroup        string        `json:"bloodGroup"`
	Allergies         string        `json:"allergies,omitempty"`
	Medications       string        `json:"medications,omitempty"`
	InsuranceProvider string        `json:"insuranceProvider,omitempty"`
	InsuranceNumber   string        `json:"insuranceNumber,omitempty"`
	RegisteredAt      time.Time     `json:"registeredAt"`
	LastVisit         *time.Time    `json:"lastVisit,omitempty"`
	Status            PatientStatus `json:"status"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Appointment carries a denormalized PatientName snapshot taken at
// creation time; renaming the patient later does not rewrite it.
type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	DoctorName  string            `json:"doctorName"`
	Date        string            `json:"date"` // YYYY-MM-DD
	Time        string            `json:"time"` // slot, e.g. "09:00"
	Type        AppointmentType   `json:"type"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// MedicalRecord is append-only: entries are never updated or deleted.
type MedicalRecord struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patientId"`
	PatientName string     `json:"patientName"`
	Type        RecordType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Diagnosis   string     `json:"diagnosis,omitempty"`
	Treatment   string     `json:"treatment,omitempty"`
	DoctorName  string     `json:"doctorName"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Attachments []string   `json:"attachments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Activity is one entry in the recent-activity feed, emitted as a side
// effect of writes. The feed holds at most the 20 newest entries.
type Activity struct {
	ID          string         `json:"id"`
	Type        ActivityType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Time        string         `json:"time"` // display string, e.g. "Just now"
	PatientID   string         `json:"patientId,omitempty"`
	PatientName string         `json:"patientName,omitempty"`
	Status      ActivityStatus `json:"status"`
}

// Stats is the dashboard snapshot derived on demand from the collections.
type Stats struct {
	TotalPatients        int `json:"totalPatients"`
	TodayAppointments    int `json:"todayAppointments"`
	CompletedToday       int `json:"completedToday"`
	ActiveCases          int `json:"activeCases"`
	PendingRecords       int `json:"pendingRecords"`
	NewPatientsThisMonth int `json:"newPatientsThisMonth"`
}
