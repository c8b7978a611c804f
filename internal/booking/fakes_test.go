package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/repository"
)

// memStore keeps slots and appointments in maps guarded by one mutex.
type memStore struct {
	mu           sync.Mutex
	slots        map[string]map[string]bool // date -> time -> available
	appointments []model.Appointment
	seedCalls    int
	failCommit   error
}

func newMemStore() *memStore { return &memStore{slots: map[string]map[string]bool{}} }

func (m *memStore) SeedSlots(_ context.Context, slots []model.Slot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seedCalls++
	if len(m.slots) > 0 {
		return 0, nil
	}
	var n int64
	for _, s := range slots {
		day, ok := m.slots[s.Date]
		if !ok {
			day = map[string]bool{}
			m.slots[s.Date] = day
		}
		if _, dup := day[s.Time]; dup {
			continue
		}
		day[s.Time] = s.Available
		n++
	}
	return n, nil
}

func (m *memStore) AvailableTimes(_ context.Context, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for t, ok := range m.slots[date] {
		if ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) FullyBookedDates(_ context.Context, from string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for d, times := range m.slots {
		if d < from {
			continue
		}
		free := false
		for _, ok := range times {
			free = free || ok
		}
		if !free {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) CommitAppointment(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCommit != nil {
		return m.failCommit
	}
	if !m.slots[a.Date][a.Time] {
		return repository.ErrSlotUnavailable
	}
	m.slots[a.Date][a.Time] = false
	a.ID = uint64(len(m.appointments) + 1)
	a.CreatedAt = time.Now()
	m.appointments = append(m.appointments, *a)
	return nil
}

func (m *memStore) appointmentsAt(date, tm string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.appointments {
		if a.Date == date && a.Time == tm {
			n++
		}
	}
	return n
}

type sentCode struct {
	email string
	code  string
}

type fakeNotifier struct {
	mu            sync.Mutex
	codes         []sentCode
	confirmations []uint64
	failCode      bool
	failConfirm   bool
}

func (f *fakeNotifier) SendCode(_ context.Context, b model.Booking, code string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCode {
		return errors.New("smtp down")
	}
	f.codes = append(f.codes, sentCode{email: b.Email, code: code})
	return nil
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, a *model.Appointment, _ string, pdf []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failConfirm {
		return errors.New("smtp down")
	}
	f.confirmations = append(f.confirmations, a.ID)
	return nil
}

func (f *fakeNotifier) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.codes) == 0 {
		return ""
	}
	return f.codes[len(f.codes)-1].code
}

type fakeDocs struct{}

func (fakeDocs) Render(*model.Appointment) ([]byte, error) { return []byte("%PDF-1.3"), nil }

type fakeEvents struct {
	mu        sync.Mutex
	published []uint64
}

func (f *fakeEvents) PublishAppointmentConfirmed(_ context.Context, a *model.Appointment, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, a.ID)
	return nil
}
