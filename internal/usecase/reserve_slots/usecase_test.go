package reserve_slots

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	slotRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicSlots/pkg/keylock"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

var (
	room   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	doctor = uuid.MustParse("dddddddd-0000-0000-0000-000000000001")
	today  = domain.NewDate(2025, time.March, 3)
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// memorySlots потокобезопасное хранилище; транзакция откатывается, если fn вернула ошибку
type memorySlots struct {
	mu    sync.Mutex
	byID  map[int64]*domain.Slot
	onGet func()
}

func newMemorySlots(slots ...*domain.Slot) *memorySlots {
	m := &memorySlots{byID: make(map[int64]*domain.Slot)}
	for _, s := range slots {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memorySlots) GetByIDs(_ context.Context, ids []int64) ([]*domain.Slot, error) {
	if m.onGet != nil {
		m.onGet()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Slot, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.byID[id]; ok {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memorySlots) UpdateStatus(_ context.Context, id int64, from, to domain.SlotStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.Status != from {
		return slotRepo.ErrStatusChanged
	}
	s.Status = to
	return nil
}

func (m *memorySlots) status(id int64) domain.SlotStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Status
}

// snapshotTx эмулирует откат: при ошибке статусы возвращаются к состоянию до fn
type snapshotTx struct{ store *memorySlots }

func (tx snapshotTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.store.mu.Lock()
	before := make(map[int64]domain.SlotStatus, len(tx.store.byID))
	for id, s := range tx.store.byID {
		before[id] = s.Status
	}
	tx.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		tx.store.mu.Lock()
		for id, st := range before {
			tx.store.byID[id].Status = st
		}
		tx.store.mu.Unlock()
		return err
	}
	return nil
}

func slotAt(id int64, date time.Time, start string, status domain.SlotStatus) *domain.Slot {
	st := types.MustTimeString(start)
	end, _ := st.AddMinutes(15)
	return &domain.Slot{
		ID: id, RoomID: room, PractitionerID: doctor, Date: date,
		ShiftName: "morning", StartTime: st, EndTime: end, Status: status,
	}
}

func morning(date time.Time) *memorySlots {
	return newMemorySlots(
		slotAt(1, date, "08:00", domain.SlotAvailable),
		slotAt(2, date, "08:15", domain.SlotAvailable),
		slotAt(3, date, "08:30", domain.SlotAvailable),
		slotAt(4, date, "08:45", domain.SlotBooked),
		slotAt(5, date, "09:30", domain.SlotAvailable),
	)
}

func newTestUseCase(store *memorySlots) *UseCase {
	return NewUseCase(store, snapshotTx{store: store}, keylock.New(), nil,
		fixedClock{now: today.Add(7 * time.Hour)}, nopLogger{})
}

func TestExecute_ReservesWholeGroup(t *testing.T) {
	store := morning(today)
	uc := newTestUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{SlotIDs: []int64{3, 1, 2}})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, int64(1), resp.Slots[0].ID)
	assert.Equal(t, int64(3), resp.Slots[2].ID)
	for _, id := range []int64{1, 2, 3} {
		assert.Equal(t, domain.SlotBooked, store.status(id))
	}
}

func TestExecute_StaleSlotRejectsGroup(t *testing.T) {
	store := morning(today)
	uc := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{SlotIDs: []int64{3, 4}})
	require.ErrorIs(t, err, ErrSlotsUnavailable)

	var unavailable *UnavailableSlotsError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, []int64{4}, unavailable.SlotIDs)
	assert.Equal(t, domain.SlotAvailable, store.status(3))
}

func TestExecute_SlotTakenAfterSnapshot(t *testing.T) {
	store := morning(today)
	calls := 0
	// Между первым чтением и транзакцией слот 2 занял другой пациент
	store.onGet = func() {
		calls++
		if calls == 2 {
			store.mu.Lock()
			store.byID[2].Status = domain.SlotBooked
			store.mu.Unlock()
		}
	}
	uc := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{SlotIDs: []int64{1, 2}})
	var unavailable *UnavailableSlotsError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []int64{2}, unavailable.SlotIDs)
	assert.Equal(t, domain.SlotAvailable, store.status(1))
}

func TestExecute_ConcurrentReservationsOfOverlappingGroups(t *testing.T) {
	store := morning(today)
	uc := newTestUseCase(store)

	var wg sync.WaitGroup
	results := make([]error, 2)
	groups := [][]int64{{1, 2}, {2, 3}}
	for i := range groups {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = uc.Execute(context.Background(), &Request{SlotIDs: groups[i]})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotsUnavailable)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, domain.SlotBooked, store.status(2))
}

func TestExecute_Errors(t *testing.T) {
	other := slotAt(10, today, "08:15", domain.SlotAvailable)
	other.RoomID = uuid.New()

	tests := []struct {
		name    string
		store   *memorySlots
		ids     []int64
		wantErr error
	}{
		{"empty", morning(today), nil, ErrInvalidInput},
		{"duplicate", morning(today), []int64{1, 1}, ErrInvalidInput},
		{"missing", morning(today), []int64{1, 99}, ErrSlotNotFound},
		{"gap", morning(today), []int64{3, 5}, ErrNotContiguous},
		{"past", morning(today.AddDate(0, 0, -1)), []int64{1}, ErrSlotInPast},
		{"different rooms", newMemorySlots(slotAt(1, today, "08:00", domain.SlotAvailable), other), []int64{1, 10}, ErrNotContiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestUseCase(tt.store).Execute(context.Background(), &Request{SlotIDs: tt.ids})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_RejectsStartedSlotsToday(t *testing.T) {
	store := morning(today)
	uc := NewUseCase(store, snapshotTx{store: store}, keylock.New(), nil,
		fixedClock{now: today.Add(8*time.Hour + 20*time.Minute)}, nopLogger{})

	// 08:15 уже наступило
	_, err := uc.Execute(context.Background(), &Request{SlotIDs: []int64{2, 3}})
	require.ErrorIs(t, err, ErrSlotInPast)
	assert.Equal(t, domain.SlotAvailable, store.status(2))

	late := NewUseCase(store, snapshotTx{store: store}, keylock.New(), nil,
		fixedClock{now: today.Add(17 * time.Hour)}, nopLogger{})
	_, err = late.Execute(context.Background(), &Request{SlotIDs: []int64{1, 2}})
	require.ErrorIs(t, err, ErrSlotInPast)
	assert.Equal(t, domain.SlotAvailable, store.status(1))

	// Будущий слот того же дня занимается
	resp, err := uc.Execute(context.Background(), &Request{SlotIDs: []int64{5}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Slots[0].ID)
}
