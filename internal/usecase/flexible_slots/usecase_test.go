package flexible_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	slotRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-ClinicSlots/pkg/keylock"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

var (
	roomA   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	roomB   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	doctor  = uuid.MustParse("dddddddd-0000-0000-0000-000000000001")
	day1    = domain.NewDate(2025, time.March, 3)
	day2    = domain.NewDate(2025, time.March, 4)
	unknown = uuid.MustParse("ffffffff-0000-0000-0000-000000000000")
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// memorySlots хранилище слотов; наружу отдаются копии, как из БД
type memorySlots struct {
	byID       map[int64]*domain.Slot
	order      []int64
	afterFind  func()
	failGetIDs map[int64]bool
	updates    int
}

func newMemorySlots(slots ...*domain.Slot) *memorySlots {
	m := &memorySlots{byID: make(map[int64]*domain.Slot), failGetIDs: map[int64]bool{}}
	for _, s := range slots {
		m.byID[s.ID] = s
		m.order = append(m.order, s.ID)
	}
	return m
}

func (m *memorySlots) FindByFilter(_ context.Context, f domain.SlotFilter) ([]*domain.Slot, error) {
	out := make([]*domain.Slot, 0)
	for _, id := range m.order {
		if s := m.byID[id]; f.Matches(s) {
			copied := *s
			out = append(out, &copied)
		}
	}
	if m.afterFind != nil {
		m.afterFind()
	}
	return out, nil
}

func (m *memorySlots) CountByFilter(ctx context.Context, f domain.SlotFilter) (int, error) {
	slots, err := m.FindByFilter(ctx, f)
	return len(slots), err
}

func (m *memorySlots) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	if m.failGetIDs[id] {
		return nil, errors.New("connection reset")
	}
	s, ok := m.byID[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memorySlots) UpdateStatus(_ context.Context, id int64, from, to domain.SlotStatus) error {
	s, ok := m.byID[id]
	if !ok || s.Status != from {
		return slotRepo.ErrStatusChanged
	}
	s.Status = to
	m.updates++
	return nil
}

func (m *memorySlots) statuses() map[int64]domain.SlotStatus {
	out := make(map[int64]domain.SlotStatus, len(m.byID))
	for id, s := range m.byID {
		out[id] = s.Status
	}
	return out
}

type staticSchedule struct{}

func (staticSchedule) GetShiftConfig(context.Context) (*domain.ShiftConfig, error) {
	return &domain.ShiftConfig{
		SlotUnitMinutes: 15,
		Shifts: []domain.Shift{
			{Name: "morning", StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("12:00"), IsActive: true},
			{Name: "afternoon", StartTime: types.MustTimeString("13:00"), EndTime: types.MustTimeString("17:00"), IsActive: true},
		},
	}, nil
}

type knownDirectory struct{}

func (knownDirectory) UnknownRoomIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return filterUnknown(ids, roomA, roomB), nil
}

func (knownDirectory) UnknownPractitionerIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return filterUnknown(ids, doctor), nil
}

func filterUnknown(ids []uuid.UUID, known ...uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0)
	for _, id := range ids {
		found := false
		for _, k := range known {
			if k == id {
				found = true
			}
		}
		if !found {
			out = append(out, id)
		}
	}
	return out
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPartitioner struct{ got []*domain.Slot }

func (p *recordingPartitioner) Partition(_ context.Context, slots []*domain.Slot) *domain.PatientPartition {
	p.got = slots
	return &domain.PatientPartition{
		EmailedPatients:       []domain.AffectedPatientRecord{},
		ManualContactPatients: []domain.AffectedPatientRecord{{SlotIDs: []int64{slots[0].ID}, SlotCount: 1, Bucket: domain.BucketManual}},
	}
}

// pendingMaterializer знает слоты, которых ещё нет в хранилище; Backfill их вставляет, Plan только показывает
type pendingMaterializer struct {
	store   *memorySlots
	pending []*domain.Slot
	calls   int
	plans   int
}

func (m *pendingMaterializer) Backfill(context.Context, *generate_slots.BackfillRequest) (*generate_slots.BackfillResponse, error) {
	m.calls++
	for _, s := range m.pending {
		copied := *s
		m.store.byID[copied.ID] = &copied
		m.store.order = append(m.store.order, copied.ID)
	}
	inserted := len(m.pending)
	m.pending = nil
	return &generate_slots.BackfillResponse{Inserted: inserted}, nil
}

func (m *pendingMaterializer) Plan(context.Context, *generate_slots.BackfillRequest) ([]*domain.Slot, error) {
	m.plans++
	out := make([]*domain.Slot, 0, len(m.pending))
	for _, s := range m.pending {
		copied := *s
		copied.ID = 0
		out = append(out, &copied)
	}
	return out, nil
}

func slot(id int64, room uuid.UUID, date time.Time, shift, start string, status domain.SlotStatus) *domain.Slot {
	st := types.MustTimeString(start)
	end, _ := st.AddMinutes(15)
	return &domain.Slot{
		ID: id, RoomID: room, PractitionerID: doctor, Date: date,
		ShiftName: shift, StartTime: st, EndTime: end, Status: status,
	}
}

// fixture 8 слотов на двух кабинетах и двух днях, в разных статусах
func fixture() *memorySlots {
	return newMemorySlots(
		slot(1, roomA, day1, "morning", "08:00", domain.SlotAvailable),
		slot(2, roomA, day1, "morning", "08:15", domain.SlotBooked),
		slot(3, roomA, day1, "afternoon", "13:00", domain.SlotAvailable),
		slot(4, roomA, day2, "morning", "08:00", domain.SlotDisabled),
		slot(5, roomB, day1, "morning", "08:00", domain.SlotAvailable),
		slot(6, roomB, day2, "morning", "08:00", domain.SlotBooked),
		slot(7, roomB, day2, "afternoon", "13:00", domain.SlotAvailable),
		slot(8, roomB, day2, "afternoon", "13:15", domain.SlotAvailable),
	)
}

func newTestUseCase(store *memorySlots, partitioner PatientPartitioner, materializer SlotMaterializer) *UseCase {
	return NewUseCase(store, staticSchedule{}, knownDirectory{}, materializer, partitioner,
		inlineTx{}, keylock.New(), nil, nopLogger{})
}

func rangeFilter() domain.SlotFilter {
	return domain.SlotFilter{DateFrom: day1, DateTo: day2}
}

func TestPreview_MatchesDisableCount(t *testing.T) {
	filters := map[string]domain.SlotFilter{
		"everything":     rangeFilter(),
		"morning only":   {DateFrom: day1, DateTo: day2, Shifts: []string{"morning"}},
		"room B day 2":   {DateFrom: day2, DateTo: day2, RoomIDs: []uuid.UUID{roomB}},
		"empty rooms":    {DateFrom: day1, DateTo: day2, RoomIDs: []uuid.UUID{}},
		"doctor, day 1":  {DateFrom: day1, DateTo: day1, PractitionerIDs: []uuid.UUID{doctor}},
		"no such shifts": {DateFrom: day1, DateTo: day2, Shifts: []string{}},
	}

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			uc := newTestUseCase(fixture(), &recordingPartitioner{}, nil)

			preview, err := uc.Preview(context.Background(), filter)
			require.NoError(t, err)

			resp, err := uc.Disable(context.Background(), &DisableRequest{Filter: filter})
			require.NoError(t, err)
			assert.Equal(t, preview.Count, resp.AffectedSlotsCount)
		})
	}
}

func TestDisable_KeepsBookedSlotsAndReportsThem(t *testing.T) {
	store := fixture()
	partitioner := &recordingPartitioner{}
	uc := newTestUseCase(store, partitioner, nil)

	resp, err := uc.Disable(context.Background(), &DisableRequest{Filter: rangeFilter(), NotifyPatients: true})
	require.NoError(t, err)

	assert.Equal(t, 7, resp.AffectedSlotsCount)
	assert.ElementsMatch(t, []int64{1, 3, 5, 7, 8}, resp.DisabledSlotIDs)
	assert.ElementsMatch(t, []int64{2, 6}, resp.BookedSlotIDs)
	assert.Empty(t, resp.Conflicts)
	assert.Empty(t, resp.Failures)

	assert.Equal(t, domain.SlotBooked, store.byID[2].Status)
	assert.Equal(t, domain.SlotBooked, store.byID[6].Status)

	require.Len(t, partitioner.got, 2)
	require.NotNil(t, resp.AffectedPatients)
	assert.Equal(t, 1, resp.AffectedPatients.Total())
}

func TestDisable_WithoutNotificationSkipsPartition(t *testing.T) {
	partitioner := &recordingPartitioner{}
	uc := newTestUseCase(fixture(), partitioner, nil)

	resp, err := uc.Disable(context.Background(), &DisableRequest{Filter: rangeFilter()})
	require.NoError(t, err)
	assert.Nil(t, resp.AffectedPatients)
	assert.Nil(t, partitioner.got)
}

func TestDisableEnable_RoundTrip(t *testing.T) {
	store := fixture()
	before := store.statuses()
	uc := newTestUseCase(store, &recordingPartitioner{}, nil)
	filter := domain.SlotFilter{DateFrom: day1, DateTo: day2, Shifts: []string{"morning", "afternoon"}}

	_, err := uc.Disable(context.Background(), &DisableRequest{Filter: filter})
	require.NoError(t, err)

	enabled, err := uc.Enable(context.Background(), &EnableRequest{Filter: filter})
	require.NoError(t, err)
	assert.Equal(t, 6, enabled.AffectedSlotsCount)

	after := store.statuses()
	for id, status := range before {
		switch status {
		case domain.SlotAvailable:
			assert.Equal(t, domain.SlotAvailable, after[id], "slot %d", id)
		case domain.SlotBooked:
			assert.Equal(t, domain.SlotBooked, after[id], "slot %d", id)
		}
	}
}

func TestEnable_NeverTouchesBooked(t *testing.T) {
	store := fixture()
	uc := newTestUseCase(store, &recordingPartitioner{}, nil)

	resp, err := uc.Enable(context.Background(), &EnableRequest{Filter: rangeFilter()})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, resp.EnabledSlotIDs)
	assert.Equal(t, domain.SlotBooked, store.byID[2].Status)
	assert.Equal(t, domain.SlotBooked, store.byID[6].Status)
}

func TestInvalidFilter_HasNoSideEffects(t *testing.T) {
	tests := map[string]domain.SlotFilter{
		"end before start": {DateFrom: day2, DateTo: day1},
		"missing dates":    {},
		"unknown shift":    {DateFrom: day1, DateTo: day2, Shifts: []string{"night"}},
		"unknown room":     {DateFrom: day1, DateTo: day2, RoomIDs: []uuid.UUID{roomA, unknown}},
		"unknown doctor":   {DateFrom: day1, DateTo: day2, PractitionerIDs: []uuid.UUID{unknown}},
		"range too long":   {DateFrom: day1, DateTo: day1.AddDate(2, 0, 0)},
	}

	for name, filter := range tests {
		t.Run(name, func(t *testing.T) {
			store := fixture()
			before := store.statuses()
			materializer := &pendingMaterializer{store: store}
			uc := newTestUseCase(store, &recordingPartitioner{}, materializer)

			_, err := uc.Preview(context.Background(), filter)
			assert.ErrorIs(t, err, ErrInvalidFilter)
			_, err = uc.Disable(context.Background(), &DisableRequest{Filter: filter, NotifyPatients: true})
			assert.ErrorIs(t, err, ErrInvalidFilter)
			_, err = uc.Enable(context.Background(), &EnableRequest{Filter: filter})
			assert.ErrorIs(t, err, ErrInvalidFilter)

			assert.Equal(t, before, store.statuses())
			assert.Zero(t, store.updates)
			assert.Zero(t, materializer.calls)
			assert.Zero(t, materializer.plans)
		})
	}
}

func TestDisable_NilVersusEmptyLists(t *testing.T) {
	uc := newTestUseCase(fixture(), &recordingPartitioner{}, nil)

	none, err := uc.Disable(context.Background(), &DisableRequest{
		Filter: domain.SlotFilter{DateFrom: day1, DateTo: day2, PractitionerIDs: []uuid.UUID{}},
	})
	require.NoError(t, err)
	assert.Zero(t, none.AffectedSlotsCount)

	all, err := uc.Disable(context.Background(), &DisableRequest{
		Filter: domain.SlotFilter{DateFrom: day1, DateTo: day2, PractitionerIDs: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, all.AffectedSlotsCount)
}

func TestDisable_ConcurrentChangeIsReportedPerSlot(t *testing.T) {
	store := fixture()
	// Между выборкой и изменением слот 3 выключили, а слот 5 забронировали
	store.afterFind = func() {
		store.byID[3].Status = domain.SlotDisabled
		store.byID[5].Status = domain.SlotBooked
		store.afterFind = nil
	}
	uc := newTestUseCase(store, &recordingPartitioner{}, nil)

	resp, err := uc.Disable(context.Background(), &DisableRequest{Filter: rangeFilter()})
	require.NoError(t, err)

	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(3), resp.Conflicts[0].SlotID)
	assert.Contains(t, resp.Conflicts[0].Reason, ErrConcurrentModification.Error())

	// Слот 5 перечитан под блокировкой и учтён как занятый, а не выключен
	assert.Contains(t, resp.BookedSlotIDs, int64(5))
	assert.NotContains(t, resp.DisabledSlotIDs, int64(5))
	assert.ElementsMatch(t, []int64{1, 7, 8}, resp.DisabledSlotIDs)
}

func TestDisable_SlotFailureDoesNotAbortBatch(t *testing.T) {
	store := fixture()
	store.failGetIDs[1] = true
	uc := newTestUseCase(store, &recordingPartitioner{}, nil)

	resp, err := uc.Disable(context.Background(), &DisableRequest{Filter: rangeFilter()})
	require.NoError(t, err)

	require.Len(t, resp.Failures, 1)
	assert.Equal(t, int64(1), resp.Failures[0].SlotID)
	assert.ElementsMatch(t, []int64{3, 5, 7, 8}, resp.DisabledSlotIDs)
	assert.Equal(t, domain.SlotAvailable, store.byID[1].Status)
}

func TestDisable_MaterializesRangeFirst(t *testing.T) {
	store := fixture()
	materializer := &pendingMaterializer{store: store}
	uc := newTestUseCase(store, &recordingPartitioner{}, materializer)

	_, err := uc.Disable(context.Background(), &DisableRequest{Filter: rangeFilter()})
	require.NoError(t, err)
	assert.Equal(t, 1, materializer.calls)
}

func TestPreview_CountsUnmaterializedDaysWithoutWriting(t *testing.T) {
	day3 := day2.AddDate(0, 0, 1)
	filters := map[string]domain.SlotFilter{
		"whole range":     {DateFrom: day1, DateTo: day3},
		"afternoon only":  {DateFrom: day1, DateTo: day3, Shifts: []string{"afternoon"}},
		"room A, day 3":   {DateFrom: day3, DateTo: day3, RoomIDs: []uuid.UUID{roomA}},
		"existing days":   {DateFrom: day1, DateTo: day2},
		"empty practices": {DateFrom: day1, DateTo: day3, PractitionerIDs: []uuid.UUID{}},
	}

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			store := fixture()
			materializer := &pendingMaterializer{store: store, pending: []*domain.Slot{
				slot(101, roomA, day3, "morning", "08:00", domain.SlotAvailable),
				slot(102, roomA, day3, "afternoon", "13:00", domain.SlotAvailable),
				slot(103, roomB, day3, "morning", "08:00", domain.SlotAvailable),
			}}
			uc := newTestUseCase(store, &recordingPartitioner{}, materializer)
			before := store.statuses()

			preview, err := uc.Preview(context.Background(), filter)
			require.NoError(t, err)
			assert.Zero(t, materializer.calls)
			assert.Equal(t, before, store.statuses())
			assert.Zero(t, store.updates)

			resp, err := uc.Disable(context.Background(), &DisableRequest{Filter: filter})
			require.NoError(t, err)
			assert.Equal(t, preview.Count, resp.AffectedSlotsCount)
		})
	}
}
