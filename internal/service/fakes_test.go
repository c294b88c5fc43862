package service

import (
	"sort"
	"sync"
	"time"

	"nutriagenda/internal/db"
	"nutriagenda/internal/entities"
	"nutriagenda/internal/repository"
)

// fakeSlotRepo mimics the store's concurrency discipline in memory:
// inserts re-check overlap under the lock and the booking flip is a
// compare-and-set, same as the SQL constraints provide.
type fakeSlotRepo struct {
	mu    sync.Mutex
	seq   int
	slots map[int]db.AvailabilitySlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[int]db.AvailabilitySlot)}
}

func (f *fakeSlotRepo) Create(slot *db.AvailabilitySlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.slots {
		if existing.NutritionistID == slot.NutritionistID &&
			existing.StartTime.Before(slot.EndTime) && slot.StartTime.Before(existing.EndTime) {
			return repository.ErrSlotConflict
		}
	}
	f.seq++
	slot.ID = f.seq
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	f.slots[slot.ID] = *slot
	return nil
}

func (f *fakeSlotRepo) GetByID(id int) (*db.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (f *fakeSlotRepo) FindOverlapping(nutritionistID int, day, start, end time.Time) ([]db.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.AvailabilitySlot
	for _, slot := range f.slots {
		if slot.NutritionistID == nutritionistID && slot.Day.Equal(day) &&
			slot.StartTime.Before(end) && start.Before(slot.EndTime) {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListAvailable(nutritionistID int, day time.Time) ([]db.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.AvailabilitySlot
	for _, slot := range f.slots {
		if slot.NutritionistID == nutritionistID && slot.Day.Equal(day) && !slot.IsBooked {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListByNutritionist(nutritionistID int) ([]db.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.AvailabilitySlot
	for _, slot := range f.slots {
		if slot.NutritionistID == nutritionistID {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (f *fakeSlotRepo) DeleteUnbooked(id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok || slot.IsBooked {
		return false, nil
	}
	delete(f.slots, id)
	return true, nil
}

type fakeAppointmentRepo struct {
	slots *fakeSlotRepo
	mu    sync.Mutex
	seq   int
	appts []db.Appointment
}

func newFakeAppointmentRepo(slots *fakeSlotRepo) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{slots: slots}
}

func (f *fakeAppointmentRepo) Book(slotID, clientID int, code string) (*db.Appointment, error) {
	f.slots.mu.Lock()
	defer f.slots.mu.Unlock()
	slot, ok := f.slots.slots[slotID]
	if !ok || slot.IsBooked {
		return nil, repository.ErrSlotTaken
	}
	slot.IsBooked = true
	f.slots.slots[slotID] = slot

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	appointment := db.Appointment{
		ID:        f.seq,
		Code:      code,
		SlotID:    slotID,
		ClientID:  clientID,
		CreatedAt: time.Now(),
	}
	f.appts = append(f.appts, appointment)
	return &appointment, nil
}

func (f *fakeAppointmentRepo) ListByClient(clientID int) ([]entities.AppointmentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.AppointmentResponse
	for _, a := range f.appts {
		if a.ClientID == clientID {
			out = append(out, entities.AppointmentResponse{
				ID: a.ID, Code: a.Code, SlotID: a.SlotID, CreatedAt: a.CreatedAt,
			})
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[int]db.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]db.User)}
}

func (f *fakeUserRepo) add(name, email, role string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.users[f.seq] = db.User{ID: f.seq, Name: name, Email: email, Role: role}
	return f.seq
}

func (f *fakeUserRepo) Create(user *db.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	f.seq++
	user.ID = f.seq
	user.CreatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(id int) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// stubSlotRepo lets single tests script repository behavior, e.g. to
// reproduce the race windows the real store closes with constraints.
type stubSlotRepo struct {
	create          func(*db.AvailabilitySlot) error
	getByID         func(int) (*db.AvailabilitySlot, error)
	findOverlapping func(int, time.Time, time.Time, time.Time) ([]db.AvailabilitySlot, error)
	deleteUnbooked  func(int) (bool, error)
}

func (s *stubSlotRepo) Create(slot *db.AvailabilitySlot) error { return s.create(slot) }
func (s *stubSlotRepo) GetByID(id int) (*db.AvailabilitySlot, error) {
	return s.getByID(id)
}
func (s *stubSlotRepo) FindOverlapping(nutritionistID int, day, start, end time.Time) ([]db.AvailabilitySlot, error) {
	return s.findOverlapping(nutritionistID, day, start, end)
}
func (s *stubSlotRepo) ListAvailable(int, time.Time) ([]db.AvailabilitySlot, error) {
	return nil, nil
}
func (s *stubSlotRepo) ListByNutritionist(int) ([]db.AvailabilitySlot, error) {
	return nil, nil
}
func (s *stubSlotRepo) DeleteUnbooked(id int) (bool, error) { return s.deleteUnbooked(id) }
