package affected_patients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/ptr"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

var day = domain.NewDate(2025, time.March, 4)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubClient struct {
	appointments []domain.Appointment
	err          error
	calls        int
	gotIDs       []int64
}

func (c *stubClient) GetBySlotIDs(_ context.Context, ids []int64) ([]domain.Appointment, error) {
	c.calls++
	c.gotIDs = ids
	return c.appointments, c.err
}

type bucketMetrics map[string]int

func (m bucketMetrics) ObserveAffectedPatients(bucket string, n int) { m[bucket] += n }

func bookedSlot(id int64, start string) *domain.Slot {
	st := types.MustTimeString(start)
	end, _ := st.AddMinutes(15)
	return &domain.Slot{
		ID: id, RoomID: uuid.New(), PractitionerID: uuid.New(), Date: day,
		ShiftName: "morning", StartTime: st, EndTime: end, Status: domain.SlotBooked,
	}
}

func appointment(id int64, email *string, start, end string, slotIDs ...int64) domain.Appointment {
	return domain.Appointment{
		ID:              id,
		SlotIDs:         slotIDs,
		PatientInfo:     domain.PatientInfo{Name: "Пациент", Email: email, Phone: "+70000000000"},
		AppointmentDate: day,
		StartTime:       types.MustTimeString(start),
		EndTime:         types.MustTimeString(end),
	}
}

func TestPartition_BucketsAreDisjointAndComplete(t *testing.T) {
	slots := []*domain.Slot{
		bookedSlot(1, "08:00"), bookedSlot(2, "08:15"), bookedSlot(3, "08:30"),
		bookedSlot(4, "09:00"), bookedSlot(5, "10:00"),
	}
	client := &stubClient{appointments: []domain.Appointment{
		// Одна запись на три слота, из них под выключение попали два
		appointment(100, ptr.Ptr("anna@example.com"), "08:00", "08:45", 1, 2, 99),
		appointment(101, nil, "08:30", "08:45", 3),
		appointment(102, ptr.Ptr("not-an-email"), "09:00", "09:15", 4),
		appointment(103, ptr.Ptr("   "), "10:00", "10:15", 5),
		// Дубликат ответа сервиса
		appointment(100, ptr.Ptr("anna@example.com"), "08:00", "08:45", 1, 2, 99),
	}}
	metrics := bucketMetrics{}
	svc := NewService(client, metrics, nopLogger{})

	result := svc.Partition(context.Background(), slots)

	require.Len(t, result.EmailedPatients, 1)
	emailed := result.EmailedPatients[0]
	assert.Equal(t, int64(100), *emailed.AppointmentID)
	assert.Equal(t, []int64{1, 2}, emailed.SlotIDs)
	assert.Equal(t, 2, emailed.SlotCount)
	assert.Equal(t, domain.BucketEmailed, emailed.Bucket)

	require.Len(t, result.ManualContactPatients, 3)
	ids := make([]int64, 0)
	for _, r := range result.ManualContactPatients {
		assert.Equal(t, domain.BucketManual, r.Bucket)
		assert.False(t, IsContactableEmail(r.PatientInfo.Email))
		assert.False(t, r.LookupFailed)
		ids = append(ids, *r.AppointmentID)
	}
	assert.Equal(t, []int64{101, 102, 103}, ids)

	assert.Equal(t, 1, metrics["emailed"])
	assert.Equal(t, 3, metrics["manual"])
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, client.gotIDs)
}

func TestPartition_LookupFailureDegradesToManual(t *testing.T) {
	slots := []*domain.Slot{bookedSlot(2, "08:15"), bookedSlot(1, "08:00")}
	svc := NewService(&stubClient{err: errors.New("appointmentservice: lookup failed")}, nil, nopLogger{})

	result := svc.Partition(context.Background(), slots)

	assert.Empty(t, result.EmailedPatients)
	require.Len(t, result.ManualContactPatients, 2)
	for _, r := range result.ManualContactPatients {
		assert.True(t, r.LookupFailed)
		assert.Nil(t, r.AppointmentID)
		assert.Equal(t, 1, r.SlotCount)
	}
	assert.Equal(t, []int64{1}, result.ManualContactPatients[0].SlotIDs)
	assert.Equal(t, "08:00", result.ManualContactPatients[0].StartTime.String())
}

func TestPartition_OrphanSlotIsNotDropped(t *testing.T) {
	slots := []*domain.Slot{bookedSlot(1, "08:00"), bookedSlot(2, "08:15")}
	client := &stubClient{appointments: []domain.Appointment{
		appointment(100, ptr.Ptr("anna@example.com"), "08:00", "08:15", 1),
	}}
	svc := NewService(client, nil, nopLogger{})

	result := svc.Partition(context.Background(), slots)

	assert.Equal(t, 2, result.Total())
	require.Len(t, result.ManualContactPatients, 1)
	assert.True(t, result.ManualContactPatients[0].LookupFailed)
	assert.Equal(t, []int64{2}, result.ManualContactPatients[0].SlotIDs)
}

func TestPartition_NoSlotsSkipsLookup(t *testing.T) {
	client := &stubClient{}
	svc := NewService(client, nil, nopLogger{})

	result := svc.Partition(context.Background(), nil)
	assert.Zero(t, result.Total())
	assert.NotNil(t, result.EmailedPatients)
	assert.Zero(t, client.calls)
}

func TestIsContactableEmail(t *testing.T) {
	tests := []struct {
		email *string
		want  bool
	}{
		{ptr.Ptr("anna@example.com"), true},
		{ptr.Ptr("a.b+tag@mail.clinic.ru"), true},
		{nil, false},
		{ptr.Ptr(""), false},
		{ptr.Ptr("   "), false},
		{ptr.Ptr(" anna@example.com"), false},
		{ptr.Ptr("anna@localhost"), false},
		{ptr.Ptr("anna.example.com"), false},
		{ptr.Ptr("Anna <anna@example.com>"), false},
		{ptr.Ptr("@example.com"), false},
	}

	for _, tt := range tests {
		name := "<nil>"
		if tt.email != nil {
			name = *tt.email
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsContactableEmail(tt.email))
		})
	}
}
