// Command console is the interactive terminal front end: a dashboard plus
// patient, appointment, and medical-record management. It is presentation
// glue only; all behavior lives in internal/clinic.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/caredesk/clinic-console/internal/clinic"
	"github.com/caredesk/clinic-console/internal/config"
	"github.com/caredesk/clinic-console/internal/storage"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", string(cfg.Backend)).Msg("open storage")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error().Err(err).Msg("close storage")
		}
	}()

	store := clinic.NewStore(kv)
	if err := store.Bootstrap(ctx); err != nil {
		logger.Fatal().Err(err).Msg("bootstrap")
	}

	logger.Info().Str("env", cfg.Env).Str("backend", string(cfg.Backend)).Msg("clinic console ready")

	app := &consoleApp{
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		logger: logger,
	}
	app.run(ctx)
}

type consoleApp struct {
	store  *clinic.Store
	reader *bufio.Reader
	logger zerolog.Logger
}

func (app *consoleApp) run(ctx context.Context) {
	for {
		fmt.Println()
		fmt.Println("=== Clinic Console ===")
		fmt.Println(" 1) Dashboard")
		fmt.Println(" 2) List patients")
		fmt.Println(" 3) Search patients")
		fmt.Println(" 4) Register patient")
		fmt.Println(" 5) Edit patient")
		fmt.Println(" 6) Delete patient")
		fmt.Println(" 7) Appointments (today)")
		fmt.Println(" 8) Schedule appointment")
		fmt.Println(" 9) Update appointment status")
		fmt.Println("10) Patient medical records")
		fmt.Println("11) Add medical record")
		fmt.Println(" q) Quit")

		choice := app.prompt("Select")
		var err error
		switch choice {
		case "1":
			err = app.showDashboard(ctx)
		case "2":
			err = app.listPatients(ctx)
		case "3":
			err = app.searchPatients(ctx)
		case "4":
			err = app.registerPatient(ctx)
		case "5":
			err = app.editPatient(ctx)
		case "6":
			err = app.deletePatient(ctx)
		case "7":
			err = app.listTodayAppointments(ctx)
		case "8":
			err = app.scheduleAppointment(ctx)
		case "9":
			err = app.updateAppointmentStatus(ctx)
		case "10":
			err = app.listPatientRecords(ctx)
		case "11":
			err = app.addMedicalRecord(ctx)
		case "q", "quit", "exit":
			return
		default:
			fmt.Println("unknown option")
			continue
		}
		if err != nil {
			app.logger.Error().Err(err).Msg("operation failed")
		}
	}
}

func (app *consoleApp) prompt(label string) string {
	fmt.Printf("%s: ", label)
	line, _ := app.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptSet returns a pointer only when the user typed something, so blank
// answers leave the field untouched on updates.
func (app *consoleApp) promptSet(label string) *string {
	v := app.prompt(label + " (blank to keep)")
	if v == "" {
		return nil
	}
	return &v
}

func (app *consoleApp) showDashboard(ctx context.Context) error {
	stats, err := app.store.GetStats(ctx)
	if err != nil {
		return err
	}
	activities, err := app.store.ListActivities(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Active patients:        %d\n", stats.TotalPatients)
	fmt.Printf("Today's appointments:   %d (completed %d)\n", stats.TodayAppointments, stats.CompletedToday)
	fmt.Printf("Active cases:           %d\n", stats.ActiveCases)
	fmt.Printf("Records (last 7 days):  %d\n", stats.PendingRecords)
	fmt.Printf("New patients (30 days): %d\n", stats.NewPatientsThisMonth)

	fmt.Println()
	fmt.Println("Recent activity:")
	if len(activities) == 0 {
		fmt.Println("  (none)")
	}
	for _, a := range activities {
		fmt.Printf("  [%s] %s — %s (%s)\n", a.Type, a.Title, a.Description, a.Status)
	}
	return nil
}

func (app *consoleApp) listPatients(ctx context.Context) error {
	patients, err := app.store.ListPatients(ctx)
	if err != nil {
		return err
	}
	printPatients(patients)
	return nil
}

func (app *consoleApp) searchPatients(ctx context.Context) error {
	query := app.prompt("Search query")
	patients, err := app.store.SearchPatients(ctx, query)
	if err != nil {
		return err
	}
	printPatients(patients)
	return nil
}

func printPatients(patients []clinic.Patient) {
	if len(patients) == 0 {
		fmt.Println("no patients found")
		return
	}
	for _, p := range patients {
		fmt.Printf("%-10s %-25s %-28s %-15s %s\n", p.PatientID, p.FullName(), p.Email, p.Phone, p.Status)
	}
}

func (app *consoleApp) registerPatient(ctx context.Context) error {
	params := clinic.CreatePatientParams{
		FirstName:        app.prompt("First name"),
		LastName:         app.prompt("Last name"),
		Email:            app.prompt("Email"),
		Phone:            app.prompt("Phone"),
		DateOfBirth:      app.prompt("Date of birth (YYYY-MM-DD)"),
		Gender:           clinic.Gender(app.prompt("Gender (male/female/other)")),
		Address:          app.prompt("Address"),
		EmergencyContact: app.prompt("Emergency contact"),
		BloodGroup:       app.prompt("Blood group"),
	}
	if params.FirstName == "" || params.LastName == "" {
		fmt.Println("first and last name are required")
		return nil
	}
	params.Allergies = app.prompt("Allergies (optional)")
	params.Medications = app.prompt("Medications (optional)")
	params.InsuranceProvider = app.prompt("Insurance provider (optional)")
	params.InsuranceNumber = app.prompt("Insurance number (optional)")

	p, err := app.store.CreatePatient(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s as %s\n", p.FullName(), p.PatientID)
	return nil
}

func (app *consoleApp) editPatient(ctx context.Context) error {
	id := app.prompt("Patient id")
	params := clinic.UpdatePatientParams{
		FirstName: app.promptSet("First name"),
		LastName:  app.promptSet("Last name"),
		Email:     app.promptSet("Email"),
		Phone:     app.promptSet("Phone"),
		Address:   app.promptSet("Address"),
	}
	if v := app.promptSet("Status (active/inactive)"); v != nil {
		status := clinic.PatientStatus(*v)
		params.Status = &status
	}

	p, err := app.store.UpdatePatient(ctx, id, params)
	if err != nil {
		if errors.Is(err, clinic.ErrPatientNotFound) {
			fmt.Println("no patient with that id")
			return nil
		}
		return err
	}
	fmt.Printf("updated %s (%s)\n", p.FullName(), p.PatientID)
	return nil
}

func (app *consoleApp) deletePatient(ctx context.Context) error {
	id := app.prompt("Patient id")
	removed, err := app.store.DeletePatient(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Println("no patient with that id")
		return nil
	}
	fmt.Println("patient deleted")
	return nil
}

func (app *consoleApp) listTodayAppointments(ctx context.Context) error {
	appointments, err := app.store.ListTodayAppointments(ctx)
	if err != nil {
		return err
	}
	if len(appointments) == 0 {
		fmt.Println("no appointments today")
		return nil
	}
	for _, a := range appointments {
		fmt.Printf("%s %-8s %-25s %-20s %-12s %s\n", a.Date, a.Time, a.PatientName, a.DoctorName, a.Type, a.Status)
	}
	return nil
}

func (app *consoleApp) scheduleAppointment(ctx context.Context) error {
	params := clinic.CreateAppointmentParams{
		PatientID:  app.prompt("Patient id"),
		DoctorName: app.prompt("Doctor"),
		Date:       app.prompt("Date (YYYY-MM-DD)"),
		Time:       app.prompt("Time (HH:MM)"),
		Type:       clinic.AppointmentType(app.prompt("Type (consultation/checkup/followup/emergency)")),
		Status:     clinic.AppointmentScheduled,
		Notes:      app.prompt("Notes (optional)"),
	}
	if params.Date == "" {
		params.Date = time.Now().Format("2006-01-02")
	}

	a, err := app.store.CreateAppointment(ctx, params)
	if err != nil {
		if errors.Is(err, clinic.ErrPatientNotFound) {
			fmt.Println("no patient with that id; register the patient first")
			return nil
		}
		return err
	}
	fmt.Printf("scheduled %s for %s on %s %s\n", a.Type, a.PatientName, a.Date, a.Time)
	return nil
}

func (app *consoleApp) updateAppointmentStatus(ctx context.Context) error {
	id := app.prompt("Appointment id")
	status := clinic.AppointmentStatus(app.prompt("Status (scheduled/completed/cancelled/ongoing)"))

	a, err := app.store.UpdateAppointment(ctx, id, clinic.UpdateAppointmentParams{Status: &status})
	if err != nil {
		if errors.Is(err, clinic.ErrAppointmentNotFound) {
			fmt.Println("no appointment with that id")
			return nil
		}
		return err
	}
	fmt.Printf("appointment for %s is now %s\n", a.PatientName, a.Status)
	return nil
}

func (app *consoleApp) listPatientRecords(ctx context.Context) error {
	patientID := app.prompt("Patient id")
	records, err := app.store.ListPatientRecords(ctx, patientID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no records for that patient")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s %-14s %-35s %s\n", r.Date, r.Type, r.Title, r.DoctorName)
		if r.Diagnosis != "" {
			fmt.Printf("           diagnosis: %s\n", r.Diagnosis)
		}
		if r.Treatment != "" {
			fmt.Printf("           treatment: %s\n", r.Treatment)
		}
	}
	return nil
}

func (app *consoleApp) addMedicalRecord(ctx context.Context) error {
	params := clinic.CreateMedicalRecordParams{
		PatientID:   app.prompt("Patient id"),
		Type:        clinic.RecordType(app.prompt("Type (consultation/lab/imaging/prescription/surgery)")),
		Title:       app.prompt("Title"),
		Description: app.prompt("Description"),
		Diagnosis:   app.prompt("Diagnosis (optional)"),
		Treatment:   app.prompt("Treatment (optional)"),
		DoctorName:  app.prompt("Doctor"),
		Date:        app.prompt("Date (YYYY-MM-DD)"),
	}
	if params.Date == "" {
		params.Date = time.Now().Format("2006-01-02")
	}

	r, err := app.store.CreateMedicalRecord(ctx, params)
	if err != nil {
		if errors.Is(err, clinic.ErrPatientNotFound) {
			fmt.Println("no patient with that id; register the patient first")
			return nil
		}
		return err
	}
	fmt.Printf("added %s record %q for %s\n", r.Type, r.Title, r.PatientName)
	return nil
}
