// Command seed fills the configured substrate with generated demo data,
// writing through the clinic store so activities and statistics behave as
// they would with real usage.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/caredesk/clinic-console/internal/clinic"
	"github.com/caredesk/clinic-console/internal/config"
	"github.com/caredesk/clinic-console/internal/storage"
)

var doctors = []string{
	"Dr. Smith",
	"Dr. Johnson",
	"Dr. Brown",
	"Dr. Patel",
	"Dr. Garcia",
	"Dr. Chen",
}

var bloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logger.Info().Msg("seed starting")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", string(cfg.Backend)).Msg("open storage")
	}
	defer kv.Close()

	store := clinic.NewStore(kv)
	if err := store.Bootstrap(ctx); err != nil {
		logger.Fatal().Err(err).Msg("bootstrap")
	}

	gofakeit.Seed(time.Now().UnixNano())

	patients, err := seedPatients(ctx, store, cfg.SeedPatients)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed patients")
	}
	logger.Info().Int("count", len(patients)).Msg("patients seeded")

	if err := seedAppointments(ctx, store, patients, cfg.SeedAppointments); err != nil {
		logger.Fatal().Err(err).Msg("seed appointments")
	}
	logger.Info().Int("count", cfg.SeedAppointments).Msg("appointments seeded")

	if err := seedRecords(ctx, store, patients, cfg.SeedRecords); err != nil {
		logger.Fatal().Err(err).Msg("seed medical records")
	}
	logger.Info().Int("count", cfg.SeedRecords).Msg("medical records seeded")

	logger.Info().Msg("seed complete")
}

func seedPatients(ctx context.Context, store *clinic.Store, count int) ([]*clinic.Patient, error) {
	patients := make([]*clinic.Patient, 0, count)
	for i := 0; i < count; i++ {
		person := gofakeit.Person()
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
		)

		p, err := store.CreatePatient(ctx, clinic.CreatePatientParams{
			FirstName:        person.FirstName,
			LastName:         person.LastName,
			Email:            gofakeit.Email(),
			Phone:            gofakeit.Phone(),
			DateOfBirth:      dob.Format("2006-01-02"),
			Gender:           randomGender(),
			Address:          gofakeit.Address().Address,
			EmergencyContact: fmt.Sprintf("%s - %s", gofakeit.Name(), gofakeit.Phone()),
			BloodGroup:       bloodGroups[gofakeit.Number(0, len(bloodGroups)-1)],
		})
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, nil
}

func seedAppointments(ctx context.Context, store *clinic.Store, patients []*clinic.Patient, count int) error {
	if len(patients) == 0 {
		return nil
	}

	types := []clinic.AppointmentType{
		clinic.AppointmentConsultation,
		clinic.AppointmentCheckup,
		clinic.AppointmentFollowup,
		clinic.AppointmentEmergency,
	}

	for i := 0; i < count; i++ {
		patient := patients[gofakeit.Number(0, len(patients)-1)]
		date := time.Now().AddDate(0, 0, gofakeit.Number(0, 14))

		_, err := store.CreateAppointment(ctx, clinic.CreateAppointmentParams{
			PatientID:  patient.ID,
			DoctorName: doctors[gofakeit.Number(0, len(doctors)-1)],
			Date:       date.Format("2006-01-02"),
			Time:       fmt.Sprintf("%02d:%02d", gofakeit.Number(8, 17), gofakeit.Number(0, 1)*30),
			Type:       types[gofakeit.Number(0, len(types)-1)],
			Status:     clinic.AppointmentScheduled,
			Notes:      gofakeit.Sentence(6),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedRecords(ctx context.Context, store *clinic.Store, patients []*clinic.Patient, count int) error {
	if len(patients) == 0 {
		return nil
	}

	types := []clinic.RecordType{
		clinic.RecordConsultation,
		clinic.RecordLab,
		clinic.RecordImaging,
		clinic.RecordPrescription,
		clinic.RecordSurgery,
	}

	for i := 0; i < count; i++ {
		patient := patients[gofakeit.Number(0, len(patients)-1)]
		date := time.Now().AddDate(0, 0, -gofakeit.Number(0, 30))

		_, err := store.CreateMedicalRecord(ctx, clinic.CreateMedicalRecordParams{
			PatientID:   patient.ID,
			Type:        types[gofakeit.Number(0, len(types)-1)],
			Title:       gofakeit.Sentence(3),
			Description: gofakeit.Sentence(10),
			Diagnosis:   gofakeit.Sentence(5),
			Treatment:   gofakeit.Sentence(5),
			DoctorName:  doctors[gofakeit.Number(0, len(doctors)-1)],
			Date:        date.Format("2006-01-02"),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func randomGender() clinic.Gender {
	switch gofakeit.Number(0, 2) {
	case 0:
		return clinic.GenderMale
	case 1:
		return clinic.GenderFemale
	default:
		return clinic.GenderOther
	}
}
