package clinic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredesk/clinic-console/internal/storage"
)

var collectionKeys = []string{keyPatients, keyAppointments, keyMedicalRecords, keyActivities}

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	s := NewStore(kv)
	require.NoError(t, s.Bootstrap(context.Background()))
	return s, kv
}

func snapshot(t *testing.T, kv storage.Store) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	for _, key := range collectionKeys {
		raw, err := kv.Read(context.Background(), key)
		require.NoError(t, err)
		snap[key] = string(raw)
	}
	return snap
}

func annLeeParams() CreatePatientParams {
	return CreatePatientParams{
		FirstName:        "Ann",
		LastName:         "Lee",
		Email:            "ann.lee@email.com",
		Phone:            "+1-555-0400",
		DateOfBirth:      "1992-04-02",
		Gender:           GenderFemale,
		Address:          "12 Elm St",
		EmergencyContact: "Bo Lee - +1-555-0401",
		BloodGroup:       "O-",
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	s, kv := newTestStore(t)

	before := snapshot(t, kv)
	require.NoError(t, s.Bootstrap(context.Background()))
	assert.Equal(t, before, snapshot(t, kv))

	patients, err := s.ListPatients(context.Background())
	require.NoError(t, err)
	assert.Len(t, patients, 3)

	activities, err := s.ListActivities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestBootstrapDoesNotClobberUserData(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePatient(ctx, annLeeParams())
	require.NoError(t, err)

	require.NoError(t, s.Bootstrap(ctx))

	got, err := s.GetPatient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.FullName())
}

func TestCreatePatient(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	before, err := s.ListPatients(ctx)
	require.NoError(t, err)

	p, err := s.CreatePatient(ctx, annLeeParams())
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Regexp(t, `^SS\d{6}$`, p.PatientID)
	assert.Equal(t, PatientActive, p.Status)
	assert.False(t, p.RegisteredAt.IsZero())
	assert.Nil(t, p.LastVisit)

	after, err := s.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)

	activities, err := s.ListActivities(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, activities)
	assert.Equal(t, ActivityPatient, activities[0].Type)
	assert.Equal(t, ActivityCompleted, activities[0].Status)
	assert.Equal(t, "New Patient Registered", activities[0].Title)
	assert.Contains(t, activities[0].Description, "Ann Lee")
	assert.Equal(t, p.ID, activities[0].PatientID)
}

func TestPatientNumbersUniqueUnderRapidCreation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		params := annLeeParams()
		params.LastName = fmt.Sprintf("Lee%02d", i)
		p, err := s.CreatePatient(ctx, params)
		require.NoError(t, err)
		assert.False(t, seen[p.PatientID], "patient number %s issued twice", p.PatientID)
		seen[p.PatientID] = true
	}
}

func TestUpdatePatientMergeSemantics(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePatient(ctx, annLeeParams())
	require.NoError(t, err)

	// Re-read the persisted copy so the comparison below is between two
	// decoded snapshots rather than against the in-process timestamp.
	before, err := s.GetPatient(ctx, created.ID)
	require.NoError(t, err)

	phone := "+1-999-0000"
	updated, err := s.UpdatePatient(ctx, created.ID, UpdatePatientParams{Phone: &phone})
	require.NoError(t, err)

	expected := *before
	expected.Phone = phone
	assert.Equal(t, expected, *updated)

	// The persisted copy matches too.
	got, err := s.GetPatient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, *got)
}

func TestUpdatePatientNotFoundLeavesStateUntouched(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	before := snapshot(t, kv)

	email := "x@y.z"
	_, err := s.UpdatePatient(ctx, "nonexistent-id", UpdatePatientParams{Email: &email})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	assert.Equal(t, before, snapshot(t, kv))
}

func TestGetAccessors(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	patients, err := s.ListPatients(ctx)
	require.NoError(t, err)
	got, err := s.GetPatient(ctx, patients[0].ID)
	require.NoError(t, err)
	assert.Equal(t, patients[0], *got)

	_, err = s.GetPatient(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, ErrPatientNotFound)

	appointments, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	gotAppt, err := s.GetAppointment(ctx, appointments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, appointments[0], *gotAppt)

	_, err = s.GetAppointment(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDeletePatient(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	patients, err := s.ListPatients(ctx)
	require.NoError(t, err)
	target := patients[0]

	removed, err := s.DeletePatient(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeletePatient(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	// No cascade: the seeded appointment referencing the patient stays,
	// its name snapshot intact.
	appointments, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	var dangling *Appointment
	for i := range appointments {
		if appointments[i].PatientID == target.ID {
			dangling = &appointments[i]
		}
	}
	require.NotNil(t, dangling)
	assert.Equal(t, target.FullName(), dangling.PatientName)
}

func TestSearchPatients(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	all, err := s.ListPatients(ctx)
	require.NoError(t, err)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"first name, case-insensitive", "SARAH", 1},
		{"last name fragment", "ohns", 1}, // Johnson
		{"email", "john.doe@", 1},
		{"patient number", "SS001236", 1},
		{"patient number, lowercased", "ss0012", 3},
		{"phone", "+1-555-0101", 1},
		{"no match", "zzzz", 0},
		{"empty query matches all", "", len(all)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.SearchPatients(ctx, tc.query)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestCreateAppointmentToday(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	patients, err := s.ListPatients(ctx)
	require.NoError(t, err)
	patient := patients[0]

	statsBefore, err := s.GetStats(ctx)
	require.NoError(t, err)

	today := time.Now().Format(dateLayout)
	a, err := s.CreateAppointment(ctx, CreateAppointmentParams{
		PatientID:  patient.ID,
		DoctorName: "Dr. House",
		Date:       today,
		Time:       "10:30",
		Type:       AppointmentConsultation,
		Status:     AppointmentScheduled,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, patient.FullName(), a.PatientName)
	assert.False(t, a.CreatedAt.IsZero())

	todays, err := s.ListTodayAppointments(ctx)
	require.NoError(t, err)
	found := false
	for _, appt := range todays {
		if appt.ID == a.ID {
			found = true
		}
	}
	assert.True(t, found, "new appointment missing from today's list")

	statsAfter, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, statsBefore.TodayAppointments+1, statsAfter.TodayAppointments)
	assert.Equal(t, statsBefore.ActiveCases+1, statsAfter.ActiveCases)

	activities, err := s.ListActivities(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, activities)
	assert.Equal(t, ActivityAppointment, activities[0].Type)
	assert.Equal(t, ActivityScheduled, activities[0].Status)
	assert.Equal(t, "consultation with Dr. House", activities[0].Description)
}

func TestCreateAppointmentUnknownPatient(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	before := snapshot(t, kv)

	_, err := s.CreateAppointment(ctx, CreateAppointmentParams{
		PatientID:  "nonexistent-id",
		DoctorName: "Dr. House",
		Date:       time.Now().Format(dateLayout),
		Time:       "10:30",
		Type:       AppointmentCheckup,
		Status:     AppointmentScheduled,
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	assert.Equal(t, before, snapshot(t, kv))
}

func TestUpdateAppointment(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	appointments, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	target := appointments[0]

	status := AppointmentCompleted
	updated, err := s.UpdateAppointment(ctx, target.ID, UpdateAppointmentParams{Status: &status})
	require.NoError(t, err)

	expected := target
	expected.Status = AppointmentCompleted
	assert.Equal(t, expected, *updated)

	_, err = s.UpdateAppointment(ctx, "nonexistent-id", UpdateAppointmentParams{Status: &status})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCreateMedicalRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	patients, err := s.ListPatients(ctx)
	require.NoError(t, err)
	patient := patients[1]

	r, err := s.CreateMedicalRecord(ctx, CreateMedicalRecordParams{
		PatientID:   patient.ID,
		Type:        RecordLab,
		Title:       "Lipid Panel",
		Description: "Fasting lipid panel",
		DoctorName:  "Dr. House",
		Date:        time.Now().Format(dateLayout),
	})
	require.NoError(t, err)
	assert.Equal(t, patient.FullName(), r.PatientName)

	records, err := s.ListPatientRecords(ctx, patient.ID)
	require.NoError(t, err)
	found := false
	for _, rec := range records {
		if rec.ID == r.ID {
			found = true
		}
	}
	assert.True(t, found)

	// Records for another patient are not included.
	for _, rec := range records {
		assert.Equal(t, patient.ID, rec.PatientID)
	}

	activities, err := s.ListActivities(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, activities)
	assert.Equal(t, ActivityRecord, activities[0].Type)
	assert.Equal(t, ActivityCompleted, activities[0].Status)
	assert.Equal(t, "Lipid Panel", activities[0].Description)
}

func TestCreateMedicalRecordUnknownPatient(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	before := snapshot(t, kv)

	_, err := s.CreateMedicalRecord(ctx, CreateMedicalRecordParams{
		PatientID: "nonexistent-id",
		Type:      RecordImaging,
		Title:     "Chest X-Ray",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	assert.Equal(t, before, snapshot(t, kv))
}

func TestActivityFeedCapAndOrdering(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		params := annLeeParams()
		params.LastName = fmt.Sprintf("Num%02d", i)
		_, err := s.CreatePatient(ctx, params)
		require.NoError(t, err)

		activities, err := s.ListActivities(ctx)
		require.NoError(t, err)
		assert.Len(t, activities, min(activityFeedCap, i))
		assert.Contains(t, activities[0].Description, fmt.Sprintf("Num%02d", i))
	}

	// After 25 appends the feed holds the 20 newest, newest first.
	activities, err := s.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, activityFeedCap)
	for i, a := range activities {
		assert.Contains(t, a.Description, fmt.Sprintf("Num%02d", 25-i))
	}
}

func TestGetStats(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := NewStore(kv)
	ctx := context.Background()

	// Empty substrate: every count is zero.
	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, *stats)

	p1, err := s.CreatePatient(ctx, annLeeParams())
	require.NoError(t, err)
	params := annLeeParams()
	params.FirstName = "Cal"
	p2, err := s.CreatePatient(ctx, params)
	require.NoError(t, err)

	inactive := PatientInactive
	_, err = s.UpdatePatient(ctx, p2.ID, UpdatePatientParams{Status: &inactive})
	require.NoError(t, err)

	today := time.Now().Format(dateLayout)
	nextWeek := time.Now().AddDate(0, 0, 7).Format(dateLayout)

	_, err = s.CreateAppointment(ctx, CreateAppointmentParams{
		PatientID: p1.ID, DoctorName: "Dr. A", Date: today, Time: "09:00",
		Type: AppointmentCheckup, Status: AppointmentScheduled,
	})
	require.NoError(t, err)
	_, err = s.CreateAppointment(ctx, CreateAppointmentParams{
		PatientID: p1.ID, DoctorName: "Dr. B", Date: today, Time: "11:00",
		Type: AppointmentConsultation, Status: AppointmentCompleted,
	})
	require.NoError(t, err)
	_, err = s.CreateAppointment(ctx, CreateAppointmentParams{
		PatientID: p1.ID, DoctorName: "Dr. C", Date: nextWeek, Time: "14:00",
		Type: AppointmentFollowup, Status: AppointmentScheduled,
	})
	require.NoError(t, err)

	_, err = s.CreateMedicalRecord(ctx, CreateMedicalRecordParams{
		PatientID: p1.ID, Type: RecordLab, Title: "Recent", Date: today,
	})
	require.NoError(t, err)
	_, err = s.CreateMedicalRecord(ctx, CreateMedicalRecordParams{
		PatientID: p1.ID, Type: RecordLab, Title: "Old",
		Date: time.Now().AddDate(0, 0, -10).Format(dateLayout),
	})
	require.NoError(t, err)

	stats, err = s.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalPatients, "inactive patients are excluded")
	assert.Equal(t, 2, stats.TodayAppointments)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 2, stats.ActiveCases, "scheduled backlog counts beyond today")
	assert.Equal(t, 1, stats.PendingRecords, "only records from the trailing 7 days")
	assert.Equal(t, 2, stats.NewPatientsThisMonth, "status does not affect the new-patient count")
}

// failingStore wraps a working substrate and fails writes to one key.
type failingStore struct {
	storage.Store
	failKey string
	err     error
}

func (f *failingStore) Write(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return f.err
	}
	return f.Store.Write(ctx, key, value)
}

func TestStorageFailurePropagates(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	before, err := s.ListPatients(ctx)
	require.NoError(t, err)

	errDiskFull := errors.New("disk full")
	flaky := NewStore(&failingStore{Store: kv, failKey: keyPatients, err: errDiskFull})

	_, err = flaky.CreatePatient(ctx, annLeeParams())
	assert.ErrorIs(t, err, errDiskFull)

	// The failed write left the persisted collection unchanged.
	after, err := s.ListPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
