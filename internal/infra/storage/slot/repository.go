package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicSlots/pkg/psqlbuilder"
)

const table = "slots"

// Уникальный ключ слота; повторная генерация дня не создаёт дублей
const onConflictIdentity = "ON CONFLICT ON CONSTRAINT slots_identity_uniq DO NOTHING"

var columns = []string{
	"id",
	"room_id",
	"practitioner_id",
	"slot_date",
	"shift_name",
	"start_time",
	"end_time",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertMissing вставляет слоты, которых ещё нет (по уникальному ключу), и возвращает число вставленных
// Существующие слоты не трогаются: их статус остаётся прежним
func (r *Repository) InsertMissing(ctx context.Context, slots []*domain.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).
		Columns("room_id", "practitioner_id", "slot_date", "shift_name", "start_time", "end_time", "status")

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(
			s.RoomID.String(),
			s.PractitionerID.String(),
			domain.DateOf(s.Date),
			s.ShiftName,
			s.StartTime,
			s.EndTime,
			string(s.Status),
		)
	}

	query, args, err := insertBuilder.Suffix(onConflictIdentity).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMissing - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMissing - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMissing - get rows affected: %v", ErrExecQuery, err)
	}

	return int(inserted), nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetByIDs получает слоты по списку ID, упорядоченные по дате и времени начала
// Внутри транзакции строки блокируются (FOR UPDATE); отсутствующие ID просто не попадают в результат
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error) {
	if len(ids) == 0 {
		return []*domain.Slot{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("slot_date ASC", "start_time ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByKey получает все слоты кабинета и врача на дату, упорядоченные по времени начала
func (r *Repository) GetByKey(ctx context.Context, key domain.SlotKey) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"room_id":         key.RoomID.String(),
			"practitioner_id": key.PractitionerID.String(),
			"slot_date":       domain.DateOf(key.Date),
		}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// FindByFilter получает слоты по фильтру массовой операции
// Для списков nil означает "все значения", пустой слайс - "ни одного"
//
// Примеры использования:
//
// 1. Все слоты за неделю:
//    filter := domain.SlotFilter{DateFrom: monday, DateTo: sunday}
//
// 2. Утренняя смена в двух кабинетах:
//    filter := domain.SlotFilter{DateFrom: d, DateTo: d, Shifts: []string{"morning"}, RoomIDs: []uuid.UUID{a, b}}
//
// 3. Только свободные и занятые (выборка для выключения):
//    filter = filter.WithStatuses(domain.SlotAvailable, domain.SlotBooked)
func (r *Repository) FindByFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	if filter.MatchesNothing() {
		return []*domain.Slot{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(psqlbuilder.Select(columns...).From(table), filter).
		OrderBy("slot_date ASC", "room_id ASC", "practitioner_id ASC", "start_time ASC", "id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// CountByFilter считает слоты по фильтру без их загрузки
func (r *Repository) CountByFilter(ctx context.Context, filter domain.SlotFilter) (int, error) {
	if filter.MatchesNothing() {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(table), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByFilter - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByFilter - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus переводит слот из статуса from в статус to (compare-and-swap)
// Возвращает ErrStatusChanged, если текущий статус уже не from
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.SlotStatus) error {
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, from, to)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

// applyFilter добавляет условия фильтра к запросу
// uuid.UUID - массив байт, squirrel развернул бы его в IN, поэтому передаём строки
func applyFilter(b squirrel.SelectBuilder, filter domain.SlotFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.GtOrEq{"slot_date": domain.DateOf(filter.DateFrom)}).
		Where(squirrel.LtOrEq{"slot_date": domain.DateOf(filter.DateTo)})

	if filter.Shifts != nil {
		b = b.Where(squirrel.Eq{"shift_name": filter.Shifts})
	}
	if filter.RoomIDs != nil {
		b = b.Where(squirrel.Eq{"room_id": uuidStrings(filter.RoomIDs)})
	}
	if filter.PractitionerIDs != nil {
		b = b.Where(squirrel.Eq{"practitioner_id": uuidStrings(filter.PractitionerIDs)})
	}
	if filter.Statuses != nil {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		b = b.Where(squirrel.Eq{"status": statuses})
	}
	return b
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var status string
	var slotDate time.Time
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.RoomID,
		&s.PractitionerID,
		&slotDate,
		&s.ShiftName,
		&s.StartTime,
		&s.EndTime,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Date = domain.DateOf(slotDate)
	s.Status = domain.SlotStatus(status)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
