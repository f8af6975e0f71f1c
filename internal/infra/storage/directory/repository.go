package directory

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicSlots/pkg/psqlbuilder"
)

// Repository справочник кабинетов, врачей и их назначений
// Сами справочники ведёт внешний CRUD, здесь только чтение
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UnknownRoomIDs возвращает те ID из списка, для которых нет кабинета
func (r *Repository) UnknownRoomIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.unknownIDs(ctx, "rooms", ids)
}

// UnknownPractitionerIDs возвращает те ID из списка, для которых нет врача
func (r *Repository) UnknownPractitionerIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.unknownIDs(ctx, "practitioners", ids)
}

// AssignmentExists проверяет, что врач принимает в кабинете (оба активны)
func (r *Repository) AssignmentExists(ctx context.Context, roomID, practitionerID uuid.UUID) (bool, error) {
	assignments, err := r.ListAssignments(ctx, []uuid.UUID{roomID}, []uuid.UUID{practitionerID})
	if err != nil {
		return false, err
	}
	return len(assignments) > 0, nil
}

// ListAssignments получает назначения активных врачей в активные кабинеты
// nil в фильтре означает "все", пустой слайс - "ни одного"
func (r *Repository) ListAssignments(ctx context.Context, roomIDs, practitionerIDs []uuid.UUID) ([]domain.Assignment, error) {
	if (roomIDs != nil && len(roomIDs) == 0) || (practitionerIDs != nil && len(practitionerIDs) == 0) {
		return []domain.Assignment{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("ra.room_id", "ra.practitioner_id").
		From("room_assignments ra").
		Join("rooms r ON r.id = ra.room_id").
		Join("practitioners p ON p.id = ra.practitioner_id").
		Where(squirrel.Eq{"r.is_active": true, "p.is_active": true}).
		OrderBy("ra.room_id ASC", "ra.practitioner_id ASC")

	if roomIDs != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ra.room_id": uuidStrings(roomIDs)})
	}
	if practitionerIDs != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ra.practitioner_id": uuidStrings(practitionerIDs)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAssignments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAssignments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	assignments := make([]domain.Assignment, 0)
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.RoomID, &a.PractitionerID); err != nil {
			return nil, fmt.Errorf("%w: ListAssignments - scan row: %v", ErrScanRow, err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAssignments - rows error: %v", ErrScanRow, err)
	}

	return assignments, nil
}

func (r *Repository) unknownIDs(ctx context.Context, table string, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(table).
		Where(squirrel.Eq{"id": uuidStrings(ids)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: unknownIDs(%s) - build select query: %v", ErrBuildQuery, table, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: unknownIDs(%s) - execute query: %v", ErrExecQuery, table, err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]struct{}, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: unknownIDs(%s) - scan row: %v", ErrScanRow, table, err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: unknownIDs(%s) - rows error: %v", ErrScanRow, table, err)
	}

	unknown := make([]uuid.UUID, 0)
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
