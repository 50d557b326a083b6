package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/caredesk/clinic-console/internal/storage"
)

// Sample dataset written on first run so the console never starts empty.
// IDs are fixed so appointments and records can reference their patients.
var (
	seedPatients = []Patient{
		{
			ID:                "0b4f7a62-90cd-4a1e-8f7e-32c41d2f8b01",
			PatientID:         "SS001234",
			FirstName:         "John",
			LastName:          "Doe",
			Email:             "john.doe@email.com",
			Phone:             "+1-555-0101",
			DateOfBirth:       "1985-03-15",
			Gender:            GenderMale,
			Address:           "123 Main St, City, State 12345",
			EmergencyContact:  "Jane Doe - +1-555-0102",
			BloodGroup:        "A+",
			Allergies:         "Penicillin, Peanuts",
			Medications:       "Aspirin 81mg daily",
			InsuranceProvider: "HealthCare Plus",
			InsuranceNumber:   "HC123456789",
			RegisteredAt:      time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			LastVisit:         timePtr(time.Date(2024, 9, 20, 14, 15, 0, 0, time.UTC)),
			Status:            PatientActive,
		},
		{
			ID:                "6c19e0de-5b35-47f0-9a34-9be4a1c0db02",
			PatientID:         "SS001235",
			FirstName:         "Sarah",
			LastName:          "Wilson",
			Email:             "sarah.wilson@email.com",
			Phone:             "+1-555-0201",
			DateOfBirth:       "1990-07-22",
			Gender:            GenderFemale,
			Address:           "456 Oak Ave, City, State 12345",
			EmergencyContact:  "Mike Wilson - +1-555-0202",
			BloodGroup:        "O+",
			Allergies:         "None known",
			Medications:       "Multivitamin",
			InsuranceProvider: "MediCare Pro",
			InsuranceNumber:   "MP987654321",
			RegisteredAt:      time.Date(2024, 2, 10, 9, 45, 0, 0, time.UTC),
			LastVisit:         timePtr(time.Date(2024, 9, 18, 11, 30, 0, 0, time.UTC)),
			Status:            PatientActive,
		},
		{
			ID:                "e2ad4c3b-77c8-4f4d-b1d0-57f06f1cfa03",
			PatientID:         "SS001236",
			FirstName:         "Mike",
			LastName:          "Johnson",
			Email:             "mike.johnson@email.com",
			Phone:             "+1-555-0301",
			DateOfBirth:       "1978-11-08",
			Gender:            GenderMale,
			Address:           "789 Pine St, City, State 12345",
			EmergencyContact:  "Lisa Johnson - +1-555-0302",
			BloodGroup:        "B+",
			Allergies:         "Shellfish",
			Medications:       "Lisinopril 10mg daily",
			InsuranceProvider: "Blue Shield",
			InsuranceNumber:   "BS456789123",
			RegisteredAt:      time.Date(2024, 1, 28, 16, 20, 0, 0, time.UTC),
			LastVisit:         timePtr(time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)),
			Status:            PatientActive,
		},
	}

	seedAppointments = []Appointment{
		{
			ID:          "a1f3c9e4-1f2b-4f89-9a0d-8a4be12c4a11",
			PatientID:   seedPatients[0].ID,
			PatientName: "John Doe",
			DoctorName:  "Dr. Smith",
			Date:        "2024-09-25",
			Time:        "09:00",
			Type:        AppointmentConsultation,
			Status:      AppointmentScheduled,
			Notes:       "Regular checkup",
			CreatedAt:   time.Date(2024, 9, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "b7e5d2c1-3a4f-42d6-b0c7-91d2ae35fb12",
			PatientID:   seedPatients[1].ID,
			PatientName: "Sarah Wilson",
			DoctorName:  "Dr. Johnson",
			Date:        "2024-09-25",
			Time:        "14:30",
			Type:        AppointmentFollowup,
			Status:      AppointmentScheduled,
			Notes:       "Follow-up on blood work",
			CreatedAt:   time.Date(2024, 9, 22, 11, 15, 0, 0, time.UTC),
		},
		{
			ID:          "c9a8b7d6-5e4f-4c3b-a2d1-f0e9d8c7b613",
			PatientID:   seedPatients[2].ID,
			PatientName: "Mike Johnson",
			DoctorName:  "Dr. Brown",
			Date:        "2024-09-24",
			Time:        "11:00",
			Type:        AppointmentCheckup,
			Status:      AppointmentCompleted,
			Notes:       "Annual physical",
			CreatedAt:   time.Date(2024, 9, 15, 9, 30, 0, 0, time.UTC),
		},
	}

	seedMedicalRecords = []MedicalRecord{
		{
			ID:          "d4c3b2a1-9f8e-4d7c-b6a5-e1f2d3c4b521",
			PatientID:   seedPatients[0].ID,
			PatientName: "John Doe",
			Type:        RecordConsultation,
			Title:       "Annual Physical Examination",
			Description: "Complete physical examination with vital signs assessment",
			Diagnosis:   "Patient in good health, mild hypertension noted",
			Treatment:   "Continue current medications, lifestyle modifications recommended",
			DoctorName:  "Dr. Smith",
			Date:        "2024-09-20",
			CreatedAt:   time.Date(2024, 9, 20, 14, 15, 0, 0, time.UTC),
		},
		{
			ID:          "e5d4c3b2-8a7f-4e6d-c5b4-f2a3e4d5c622",
			PatientID:   seedPatients[1].ID,
			PatientName: "Sarah Wilson",
			Type:        RecordLab,
			Title:       "Blood Work - Complete Panel",
			Description: "Comprehensive metabolic panel and CBC",
			Diagnosis:   "All values within normal range",
			Treatment:   "No treatment needed, continue regular diet",
			DoctorName:  "Dr. Johnson",
			Date:        "2024-09-18",
			CreatedAt:   time.Date(2024, 9, 18, 16, 45, 0, 0, time.UTC),
		},
		{
			ID:          "f6e5d4c3-7b8a-4f5e-d6c5-a3b4f5e6d723",
			PatientID:   seedPatients[2].ID,
			PatientName: "Mike Johnson",
			Type:        RecordPrescription,
			Title:       "Hypertension Management",
			Description: "Blood pressure medication adjustment",
			Diagnosis:   "Controlled hypertension",
			Treatment:   "Lisinopril 10mg daily, follow-up in 3 months",
			DoctorName:  "Dr. Brown",
			Date:        "2024-09-15",
			CreatedAt:   time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC),
		},
	}
)

func timePtr(t time.Time) *time.Time {
	return &t
}

// Bootstrap seeds each collection that has no entry in the substrate yet
// and leaves existing data untouched, so calling it repeatedly against the
// same substrate is a no-op after the first run.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeds := []struct {
		key   string
		value any
	}{
		{keyPatients, seedPatients},
		{keyAppointments, seedAppointments},
		{keyMedicalRecords, seedMedicalRecords},
		{keyActivities, []Activity{}},
	}

	for _, seed := range seeds {
		_, err := s.kv.Read(ctx, seed.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return fmt.Errorf("read %s: %w", seed.key, err)
		}

		raw, err := json.Marshal(seed.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", seed.key, err)
		}
		if err := s.kv.Write(ctx, seed.key, raw); err != nil {
			return fmt.Errorf("write %s: %w", seed.key, err)
		}
	}

	return nil
}
