package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caredesk/clinic-console/internal/storage"
)

// Substrate keys, one full-snapshot JSON array per collection.
const (
	keyPatients       = "clinic:patients"
	keyAppointments   = "clinic:appointments"
	keyMedicalRecords = "clinic:medical_records"
	keyActivities     = "clinic:activities"
)

const (
	dateLayout = "2006-01-02"

	// activityFeedCap bounds the recent-activity feed; appends beyond it
	// evict the oldest entry.
	activityFeedCap = 20
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Store owns the four collections. Every operation is a full
// read-modify-write cycle against the substrate: decode the collection,
// mutate the in-memory copy, encode, write back. A mutex serializes
// operations so two callers in the same process cannot interleave cycles;
// cross-process writers are out of scope.
type Store struct {
	mu  sync.Mutex
	kv  storage.Store
	seq numberSeq
	now func() time.Time
}

func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv, now: time.Now}
}

func loadCollection[T any](ctx context.Context, kv storage.Store, key string) ([]T, error) {
	raw, err := kv.Read(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func saveCollection[T any](ctx context.Context, kv storage.Store, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// --- Patients ---

func (s *Store) ListPatients(ctx context.Context) ([]Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadCollection[Patient](ctx, s.kv, keyPatients)
}

func (s *Store) GetPatient(ctx context.Context, id string) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getPatientLocked(ctx, id)
}

func (s *Store) getPatientLocked(ctx context.Context, id string) (*Patient, error) {
	patients, err := loadCollection[Patient](ctx, s.kv, keyPatients)
	if err != nil {
		return nil, err
	}
	for i := range patients {
		if patients[i].ID == id {
			p := patients[i]
			return &p, nil
		}
	}
	return nil, ErrPatientNotFound
}

// CreatePatient registers a patient: it generates the internal id, the
// SS-prefixed patient number, and the registration timestamp, marks the
// patient active, persists, and emits a feed entry.
func (s *Store) CreatePatient(ctx context.Context, params CreatePatientParams) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := loadCollection[Patient](ctx, s.kv, keyPatients)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := Patient{
		ID:                newEntityID(),
		PatientID:         s.seq.patientNumber(now),
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Email:             params.Email,
		Phone:             params.Phone,
		DateOfBirth:       params.DateOfBirth,
		Gender:            params.Gender,
		Address:           params.Address,
		EmergencyContact:  params.EmergencyContact,
		BloodGroup:        params.BloodGroup,
		Allergies:         params.Allergies,
		Medications:       params.Medications,
		InsuranceProvider: params.InsuranceProvider,
		InsuranceNumber:   params.InsuranceNumber,
		RegisteredAt:      now,
		Status:            PatientActive,
	}

	patients = append(patients, p)
	if err := saveCollection(ctx, s.kv, keyPatients, patients); err != nil {
		return nil, err
	}

	if err := s.appendActivityLocked(ctx, Activity{
		Type:        ActivityPatient,
		Title:       "New Patient Registered",
		Description: fmt.Sprintf("%s registered successfully", p.FullName()),
		Time:        "Just now",
		PatientID:   p.ID,
		PatientName: p.FullName(),
		Status:      ActivityCompleted,
	}); err != nil {
		return nil, err
	}

	return &p, nil
}

// UpdatePatient applies a partial update. It returns ErrPatientNotFound
// without writing anything when the id is unknown.
func (s *Store) UpdatePatient(ctx context.Context, id string, params UpdatePatientParams) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := loadCollection[Patient](ctx, s.kv, keyPatients)
	if err != nil {
		return nil, err
	}

	for i := range patients {
		if patients[i].ID != id {
			continue
		}
		params.apply(&patients[i])
		if err := saveCollection(ctx, s.kv, keyPatients, patients); err != nil {
			return nil, err
		}
		p := patients[i]
		return &p, nil
	}

	return nil, ErrPatientNotFound
}

// DeletePatient removes a patient permanently. It reports whether a
// removal occurred. Appointments and records referencing the patient are
// left in place; their name snapshots keep working for display.
func (s *Store) DeletePatient(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := loadCollection[Patient](ctx, s.kv, keyPatients)
	if err != nil {
		return false, err
	}

	kept := patients[:0:0]
	for _, p := range patients {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(patients) {
		return false, nil
	}

	if err := saveCollection(ctx, s.kv, keyPatients, kept); err != nil {
		return false, err
	}
	return true, nil
}

// SearchPatients filters by case-insensitive substring over first name,
// last name, email, and patient number, and by case-sensitive substring
// over phone. An empty query matches every patient.
func (s *Store) SearchPatients(ctx context.Context, query string) ([]Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := loadCollection[Patient](ctx, s.kv, keyPatients)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	var matched []Patient
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.FirstName), term) ||
			strings.Contains(strings.ToLower(p.LastName), term) ||
			strings.Contains(strings.ToLower(p.Email), term) ||
			strings.Contains(strings.ToLower(p.PatientID), term) ||
			strings.Contains(p.Phone, query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// --- Appointments ---

func (s *Store) ListAppointments(ctx context.Context) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadCollection[Appointment](ctx, s.kv, keyAppointments)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointments, err := loadCollection[Appointment](ctx, s.kv, keyAppointments)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		if appointments[i].ID == id {
			a := appointments[i]
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

// ListTodayAppointments returns appointments whose date equals the current
// local calendar date.
func (s *Store) ListTodayAppointments(ctx context.Context) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointments, err := loadCollection[Appointment](ctx, s.kv, keyAppointments)
	if err != nil {
		return nil, err
	}

	today := s.now().Format(dateLayout)
	var todays []Appointment
	for _, a := range appointments {
		if a.Date == today {
			todays = append(todays, a)
		}
	}
	return todays, nil
}

// CreateAppointment schedules an appointment. The referenced patient must
// exist; the PatientName snapshot is taken from it at creation time.
func (s *Store) CreateAppointment(ctx context.Context, params CreateAppointmentParams) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.getPatientLocked(ctx, params.PatientID)
	if err != nil {
		return nil, err
	}

	appointments, err := loadCollection[Appointment](ctx, s.kv, keyAppointments)
	if err != nil {
		return nil, err
	}

	a := Appointment{
		ID:          newEntityID(),
		PatientID:   patient.ID,
		PatientName: patient.FullName(),
		DoctorName:  params.DoctorName,
		Date:        params.Date,
		Time:        params.Time,
		Type:        params.Type,
		Status:      params.Status,
		Notes:       params.Notes,
		CreatedAt:   s.now(),
	}

	appointments = append(appointments, a)
	if err := saveCollection(ctx, s.kv, keyAppointments, appointments); err != nil {
		return nil, err
	}

	if err := s.appendActivityLocked(ctx, Activity{
		Type:        ActivityAppointment,
		Title:       "Appointment Scheduled",
		Description: fmt.Sprintf("%s with %s", a.Type, a.DoctorName),
		Time:        "Just now",
		PatientID:   a.PatientID,
		PatientName: a.PatientName,
		Status:      ActivityScheduled,
	}); err != nil {
		return nil, err
	}

	return &a, nil
}

// UpdateAppointment applies a partial update with the same semantics as
// UpdatePatient.
func (s *Store) UpdateAppointment(ctx context.Context, id string, params UpdateAppointmentParams) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointments, err := loadCollection[Appointment](ctx, s.kv, keyAppointments)
	if err != nil {
		return nil, err
	}

	for i := range appointments {
		if appointments[i].ID != id {
			continue
		}
		params.apply(&appointments[i])
		if err := saveCollection(ctx, s.kv, keyAppointments, appointments); err != nil {
			return nil, err
		}
		a := appointments[i]
		return &a, nil
	}

	return nil, ErrAppointmentNotFound
}

// --- Medical records ---

func (s *Store) ListMedicalRecords(ctx context.Context) ([]MedicalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadCollection[MedicalRecord](ctx, s.kv, keyMedicalRecords)
}

// ListPatientRecords returns the records whose patientId matches exactly.
func (s *Store) ListPatientRecords(ctx context.Context, patientID string) ([]MedicalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadCollection[MedicalRecord](ctx, s.kv, keyMedicalRecords)
	if err != nil {
		return nil, err
	}

	var matched []MedicalRecord
	for _, r := range records {
		if r.PatientID == patientID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// CreateMedicalRecord appends a record. The referenced patient must exist;
// the PatientName snapshot is taken from it at creation time.
func (s *Store) CreateMedicalRecord(ctx context.Context, params CreateMedicalRecordParams) (*MedicalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.getPatientLocked(ctx, params.PatientID)
	if err != nil {
		return nil, err
	}

	records, err := loadCollection[MedicalRecord](ctx, s.kv, keyMedicalRecords)
	if err != nil {
		return nil, err
	}

	r := MedicalRecord{
		ID:          newEntityID(),
		PatientID:   patient.ID,
		PatientName: patient.FullName(),
		Type:        params.Type,
		Title:       params.Title,
		Description: params.Description,
		Diagnosis:   params.Diagnosis,
		Treatment:   params.Treatment,
		DoctorName:  params.DoctorName,
		Date:        params.Date,
		Attachments: params.Attachments,
		CreatedAt:   s.now(),
	}

	records = append(records, r)
	if err := saveCollection(ctx, s.kv, keyMedicalRecords, records); err != nil {
		return nil, err
	}

	if err := s.appendActivityLocked(ctx, Activity{
		Type:        ActivityRecord,
		Title:       "Medical Record Added",
		Description: r.Title,
		Time:        "Just now",
		PatientID:   r.PatientID,
		PatientName: r.PatientName,
		Status:      ActivityCompleted,
	}); err != nil {
		return nil, err
	}

	return &r, nil
}

// --- Activity feed ---

// ListActivities returns the feed newest-first, at most 20 entries.
func (s *Store) ListActivities(ctx context.Context) ([]Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadCollection[Activity](ctx, s.kv, keyActivities)
}

func (s *Store) appendActivityLocked(ctx context.Context, a Activity) error {
	activities, err := loadCollection[Activity](ctx, s.kv, keyActivities)
	if err != nil {
		return err
	}

	a.ID = newEntityID()
	activities = append([]Activity{a}, activities...)
	if len(activities) > activityFeedCap {
		activities = activities[:activityFeedCap]
	}

	return saveCollection(ctx, s.kv, keyActivities, activities)
}

// --- Statistics ---

// GetStats folds over all collections at call time; nothing is persisted.
// ActiveCases deliberately counts every scheduled appointment, not just
// today's: it tracks the full scheduled backlog.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := loadCollection[Patient](ctx, s.kv, keyPatients)
	if err != nil {
		return nil, err
	}
	appointments, err := loadCollection[Appointment](ctx, s.kv, keyAppointments)
	if err != nil {
		return nil, err
	}
	records, err := loadCollection[MedicalRecord](ctx, s.kv, keyMedicalRecords)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format(dateLayout)
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	var stats Stats
	for _, p := range patients {
		if p.Status == PatientActive {
			stats.TotalPatients++
		}
		if p.RegisteredAt.After(monthAgo) {
			stats.NewPatientsThisMonth++
		}
	}
	for _, a := range appointments {
		if a.Date == today {
			stats.TodayAppointments++
			if a.Status == AppointmentCompleted {
				stats.CompletedToday++
			}
		}
		if a.Status == AppointmentScheduled {
			stats.ActiveCases++
		}
	}
	for _, r := range records {
		if d, err := time.ParseInLocation(dateLayout, r.Date, now.Location()); err == nil && d.After(weekAgo) {
			stats.PendingRecords++
		}
	}

	return &stats, nil
}
