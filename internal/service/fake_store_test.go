package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hospital-or-scheduling/internal/apperr"
	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/internal/repository"
)

type fakeState struct {
	rooms         map[uint]models.OperatingRoom
	patients      map[uint]models.Patient
	surgeries     map[uint]models.Surgery
	notifications []models.Notification
	audits        []string
	nextID        uint
	ticks         int
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		rooms:         make(map[uint]models.OperatingRoom, len(s.rooms)),
		patients:      make(map[uint]models.Patient, len(s.patients)),
		surgeries:     make(map[uint]models.Surgery, len(s.surgeries)),
		notifications: append([]models.Notification(nil), s.notifications...),
		audits:        append([]string(nil), s.audits...),
		nextID:        s.nextID,
		ticks:         s.ticks,
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.surgeries {
		c.surgeries[k] = copySurgery(v)
	}
	return c
}

func copySurgery(s models.Surgery) models.Surgery {
	s.Participants = append(models.StringList{}, s.Participants...)
	if s.OperatingRoomID != nil {
		id := *s.OperatingRoomID
		s.OperatingRoomID = &id
	}
	s.Patient = nil
	return s
}

var fakeEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// stamp advances the fake clock that orders writes, like updated_at.
func (s *fakeState) stamp() time.Time {
	s.ticks++
	return fakeEpoch.Add(time.Duration(s.ticks) * time.Second)
}

// fakeStore is an in-memory SchedulingStore. Transactions are serialized,
// which stands in for the room row lock, and roll back on error.
type fakeStore struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	state  *fakeState
	failOn map[string]error
	inTx   bool
}

var _ repository.SchedulingStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		state: &fakeState{
			rooms:     map[uint]models.OperatingRoom{},
			patients:  map[uint]models.Patient{},
			surgeries: map[uint]models.Surgery{},
		},
		failOn: map[string]error{},
	}
}

func (f *fakeStore) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return apperr.Store(op, err)
	}
	return nil
}

func (f *fakeStore) id() uint {
	f.state.nextID++
	return f.state.nextID
}

// fakeTx is the store handed to a transaction callback.
type fakeTx struct {
	*fakeStore
}

func (t fakeTx) Transaction(ctx context.Context, fn func(tx repository.SchedulingStore) error) error {
	return fn(t)
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx repository.SchedulingStore) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snapshot := f.state.clone()
	f.mu.Unlock()

	if err := fn(fakeTx{f}); err != nil {
		f.mu.Lock()
		f.state = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

// seeding helpers

func (f *fakeStore) addRoom(number string) models.OperatingRoom {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := models.OperatingRoom{ID: f.id(), RoomNumber: number, Capacity: 1, Status: models.RoomAvailable}
	f.state.rooms[r.ID] = r
	return r
}

func (f *fakeStore) addPatient(code, first, last string) models.Patient {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.Patient{ID: f.id(), PatientCode: code, FirstName: first, LastName: last, Status: "active"}
	f.state.patients[p.ID] = p
	return p
}

func (f *fakeStore) setRoomStatus(id uint, st models.RoomStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.state.rooms[id]
	r.Status = st
	f.state.rooms[id] = r
}

func (f *fakeStore) room(id uint) models.OperatingRoom {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.rooms[id]
}

func (f *fakeStore) surgery(id uint) models.Surgery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copySurgery(f.state.surgeries[id])
}

func (f *fakeStore) surgeryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.state.surgeries)
}

func (f *fakeStore) notificationsFor(doctorID uint) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.state.notifications {
		if n.DoctorID == doctorID {
			out = append(out, n)
		}
	}
	return out
}

// SchedulingStore

func (f *fakeStore) ListRooms(ctx context.Context) ([]models.OperatingRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListRooms"); err != nil {
		return nil, err
	}
	out := make([]models.OperatingRoom, 0, len(f.state.rooms))
	for _, r := range f.state.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (f *fakeStore) GetRoom(ctx context.Context, id uint) (*models.OperatingRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.state.rooms[id]
	if !ok {
		return nil, apperr.NotFound("operating room not found")
	}
	return &r, nil
}

func (f *fakeStore) LockRoom(ctx context.Context, id uint) (*models.OperatingRoom, error) {
	return f.GetRoom(ctx, id)
}

func (f *fakeStore) CreateRoom(ctx context.Context, room *models.OperatingRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.state.rooms {
		if r.RoomNumber == room.RoomNumber {
			return apperr.Conflict("room number %s already exists", room.RoomNumber)
		}
	}
	room.ID = f.id()
	f.state.rooms[room.ID] = *room
	return nil
}

func (f *fakeStore) UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpdateRoomStatus"); err != nil {
		return err
	}
	r, ok := f.state.rooms[id]
	if !ok {
		return apperr.NotFound("operating room not found")
	}
	r.Status = status
	f.state.rooms[id] = r
	return nil
}

func (f *fakeStore) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.state.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient not found")
	}
	return &p, nil
}

func (f *fakeStore) GetSurgery(ctx context.Context, id uint) (*models.Surgery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.state.surgeries[id]
	if !ok {
		return nil, apperr.NotFound("surgery not found")
	}
	c := copySurgery(s)
	return &c, nil
}

func (f *fakeStore) LockSurgery(ctx context.Context, id uint) (*models.Surgery, error) {
	return f.GetSurgery(ctx, id)
}

func (f *fakeStore) ListSurgeries(ctx context.Context, filter repository.SurgeryFilter) ([]models.Surgery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Surgery
	for _, s := range f.state.surgeries {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Date != nil && s.ScheduledDate.String() != filter.Date.String() {
			continue
		}
		if filter.From != nil && s.ScheduledDate.Before(*filter.From) {
			continue
		}
		if filter.DoctorID != nil && s.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && s.PatientID != *filter.PatientID {
			continue
		}
		out = append(out, copySurgery(s))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch filter.Order {
		case repository.EarliestSlotFirst:
			a, b = b, a
		case repository.RecentlyUpdatedFirst:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
			return a.ID > b.ID
		}
		if !a.ScheduledDate.Equal(b.ScheduledDate.Time) {
			return b.ScheduledDate.Before(a.ScheduledDate)
		}
		return a.ScheduledTime > b.ScheduledTime
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) ListDaySurgeries(ctx context.Context, date models.Date) ([]models.Surgery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListDaySurgeries"); err != nil {
		return nil, err
	}
	var out []models.Surgery
	for _, s := range f.state.surgeries {
		if s.OperatingRoomID == nil || s.ScheduledDate.String() != date.String() {
			continue
		}
		c := copySurgery(s)
		if p, ok := f.state.patients[s.PatientID]; ok {
			c.Patient = &p
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledTime != out[j].ScheduledTime {
			return out[i].ScheduledTime < out[j].ScheduledTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) FindOverlapping(ctx context.Context, q repository.OverlapQuery) ([]models.Surgery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	end := q.Start.Add(q.Duration)
	var out []models.Surgery
	for _, s := range f.state.surgeries {
		if s.ID == q.ExcludeID || !s.HoldsRoom(q.RoomID) || s.ScheduledDate.String() != q.Date.String() {
			continue
		}
		if s.Overlaps(q.Start, end) {
			out = append(out, copySurgery(s))
		}
	}
	return out, nil
}

func (f *fakeStore) CountSurgeriesByDate(ctx context.Context, from, to models.Date) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, s := range f.state.surgeries {
		if s.ScheduledDate.Before(from) || to.Before(s.ScheduledDate) {
			continue
		}
		counts[s.ScheduledDate.String()]++
	}
	return counts, nil
}

func (f *fakeStore) RoomOccupants(ctx context.Context, roomID uint, date models.Date) ([]models.Surgery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Surgery
	for _, s := range f.state.surgeries {
		if !s.HoldsRoom(roomID) {
			continue
		}
		if s.ScheduledDate.String() == date.String() || s.Status == models.SurgeryInProgress {
			out = append(out, copySurgery(s))
		}
	}
	return out, nil
}

func activeSlotKey(s models.Surgery) string {
	if s.OperatingRoomID == nil || !s.Status.IsActive() {
		return ""
	}
	return fmt.Sprintf("%d|%s|%d", *s.OperatingRoomID, s.ScheduledDate, s.ScheduledTime)
}

// checkSlotKey mirrors the unique index on surgeries.active_slot_key.
func (f *fakeStore) checkSlotKey(s models.Surgery) error {
	key := activeSlotKey(s)
	if key == "" {
		return nil
	}
	for _, other := range f.state.surgeries {
		if other.ID != s.ID && activeSlotKey(other) == key {
			return apperr.Conflict("operating room not available at this time")
		}
	}
	return nil
}

func (f *fakeStore) CreateSurgery(ctx context.Context, surgery *models.Surgery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateSurgery"); err != nil {
		return err
	}
	if err := f.checkSlotKey(*surgery); err != nil {
		return err
	}
	surgery.ID = f.id()
	surgery.CreatedAt = f.state.stamp()
	surgery.UpdatedAt = surgery.CreatedAt
	f.state.surgeries[surgery.ID] = copySurgery(*surgery)
	return nil
}

func (f *fakeStore) SaveSurgery(ctx context.Context, surgery *models.Surgery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SaveSurgery"); err != nil {
		return err
	}
	if err := f.checkSlotKey(*surgery); err != nil {
		return err
	}
	surgery.UpdatedAt = f.state.stamp()
	f.state.surgeries[surgery.ID] = copySurgery(*surgery)
	return nil
}

func (f *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateNotification"); err != nil {
		return err
	}
	n.ID = f.id()
	f.state.notifications = append(f.state.notifications, *n)
	return nil
}

func (f *fakeStore) CreateAuditLog(ctx context.Context, doctorID *uint, action string, details string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.audits = append(f.state.audits, action)
	return nil
}
