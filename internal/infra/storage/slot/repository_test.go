package slot

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

var (
	testRoom   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	testDoctor = uuid.MustParse("dddddddd-0000-0000-0000-000000000001")
	testDay    = domain.NewDate(2025, time.March, 3)
)

// recordingDB запоминает выполненные запросы; выборки в этих тестах не выполняются
type recordingDB struct {
	queries      []string
	args         [][]interface{}
	rowsAffected int64
}

func (db *recordingDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	db.queries = append(db.queries, query)
	db.args = append(db.args, args)
	return driver.RowsAffected(db.rowsAffected), nil
}

func (db *recordingDB) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	db.queries = append(db.queries, query)
	db.args = append(db.args, args)
	return nil, sql.ErrConnDone
}

func (db *recordingDB) QueryRowContext(_ context.Context, query string, args ...interface{}) *sql.Row {
	db.queries = append(db.queries, query)
	db.args = append(db.args, args)
	return nil
}

func countQuery(t *testing.T, filter domain.SlotFilter) (string, []interface{}) {
	t.Helper()
	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(table), filter).ToSql()
	require.NoError(t, err)
	return query, args
}

func TestApplyFilter_NilListsAddNoConditions(t *testing.T) {
	query, args := countQuery(t, domain.SlotFilter{DateFrom: testDay, DateTo: testDay.AddDate(0, 0, 6)})

	assert.Equal(t, "SELECT COUNT(*) FROM slots WHERE slot_date >= $1 AND slot_date <= $2", query)
	require.Len(t, args, 2)
	assert.Equal(t, testDay, args[0])
	assert.Equal(t, testDay.AddDate(0, 0, 6), args[1])
}

func TestApplyFilter_ListsBecomeInClauses(t *testing.T) {
	filter := domain.SlotFilter{
		DateFrom:        testDay,
		DateTo:          testDay,
		Shifts:          []string{"morning", "afternoon"},
		RoomIDs:         []uuid.UUID{testRoom},
		PractitionerIDs: []uuid.UUID{testDoctor},
	}.WithStatuses(domain.SlotAvailable, domain.SlotBooked)

	query, args := countQuery(t, filter)

	assert.Equal(t, "SELECT COUNT(*) FROM slots WHERE slot_date >= $1 AND slot_date <= $2"+
		" AND shift_name IN ($3,$4) AND room_id IN ($5) AND practitioner_id IN ($6) AND status IN ($7,$8)", query)
	// UUID передаются строками, а не байтами
	assert.Equal(t, []interface{}{
		testDay, testDay,
		"morning", "afternoon",
		testRoom.String(),
		testDoctor.String(),
		"available", "booked",
	}, args)
}

func TestFilterQueries_EmptyListSkipsDatabase(t *testing.T) {
	db := &recordingDB{}
	repo := NewRepository(db)
	filter := domain.SlotFilter{DateFrom: testDay, DateTo: testDay, RoomIDs: []uuid.UUID{}}

	slots, err := repo.FindByFilter(context.Background(), filter)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)

	count, err := repo.CountByFilter(context.Background(), filter)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Empty(t, db.queries)
}

func TestInsertMissing_IgnoresExistingIdentity(t *testing.T) {
	db := &recordingDB{rowsAffected: 1}
	repo := NewRepository(db)

	slots := []*domain.Slot{
		{
			RoomID: testRoom, PractitionerID: testDoctor, Date: testDay.Add(15 * time.Hour),
			ShiftName: "morning", StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("08:15"),
			Status: domain.SlotAvailable,
		},
		{
			RoomID: testRoom, PractitionerID: testDoctor, Date: testDay,
			ShiftName: "morning", StartTime: types.MustTimeString("08:15"), EndTime: types.MustTimeString("08:30"),
			Status: domain.SlotAvailable,
		},
	}

	inserted, err := repo.InsertMissing(context.Background(), slots)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	require.Len(t, db.queries, 1)
	assert.Equal(t, "INSERT INTO slots (room_id,practitioner_id,slot_date,shift_name,start_time,end_time,status)"+
		" VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)"+
		" ON CONFLICT ON CONSTRAINT slots_identity_uniq DO NOTHING", db.queries[0])

	args := db.args[0]
	require.Len(t, args, 14)
	assert.Equal(t, testRoom.String(), args[0])
	assert.Equal(t, testDoctor.String(), args[1])
	// Дата слота хранится без времени суток
	assert.Equal(t, testDay, args[2])
	assert.Equal(t, "available", args[6])
}

func TestInsertMissing_NothingToInsert(t *testing.T) {
	db := &recordingDB{}

	inserted, err := NewRepository(db).InsertMissing(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Empty(t, db.queries)
}

func TestUpdateStatus_ComparesCurrentStatus(t *testing.T) {
	db := &recordingDB{rowsAffected: 1}
	repo := NewRepository(db)

	require.NoError(t, repo.UpdateStatus(context.Background(), 42, domain.SlotAvailable, domain.SlotDisabled))
	require.Len(t, db.queries, 1)
	assert.Equal(t, "UPDATE slots SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3", db.queries[0])
	assert.Equal(t, []interface{}{"disabled", int64(42), "available"}, db.args[0])

	db.rowsAffected = 0
	err := repo.UpdateStatus(context.Background(), 42, domain.SlotAvailable, domain.SlotDisabled)
	assert.ErrorIs(t, err, ErrStatusChanged)

	err = repo.UpdateStatus(context.Background(), 42, domain.SlotAvailable, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Len(t, db.queries, 2)
}
