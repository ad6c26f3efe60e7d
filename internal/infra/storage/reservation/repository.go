package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

const (
	tableName = "reservations"

	// occupiedSlotIndex частичный уникальный индекс (room_id, slot_date, slot_id) по занимающим статусам
	occupiedSlotIndex = "reservations_occupied_slot_uniq"

	codeUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"user_id",
	"room_id",
	"room_name",
	"room_code",
	"slot_id",
	"slot_date",
	"start_at",
	"end_at",
	"status",
	"number_of_people",
	"accessories",
	"note",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование.
// Если слот уже занят другим бронированием в занимающем статусе, возвращает ErrSlotOccupied
// (срабатывает частичный уникальный индекс, даже если проверка в usecase проиграла гонку).
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	accessories := res.Accessories
	if accessories == nil {
		accessories = []string{}
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"user_id",
			"room_id",
			"room_name",
			"room_code",
			"slot_id",
			"slot_date",
			"start_at",
			"end_at",
			"status",
			"number_of_people",
			"accessories",
			"note",
		).
		Values(
			res.UserID,
			res.RoomID,
			res.RoomName,
			res.RoomCode,
			res.SlotID,
			res.SlotDate,
			res.StartAt,
			res.EndAt,
			res.Status,
			res.NumberOfPeople,
			pq.Array(accessories),
			res.Note,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if isOccupiedSlotViolation(err) {
			return nil, ErrSlotOccupied
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.Accessories = accessories
	return res, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до конца транзакции.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// LockKeys берет транзакционные advisory-блокировки по ключам в переданном порядке.
// Блокировки снимаются при commit/rollback. Вызывающий отвечает за единый порядок ключей.
func (r *Repository) LockKeys(ctx context.Context, keys ...string) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, key := range keys {
		if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
			return fmt.Errorf("%w: LockKeys - lock %q: %w", ErrExecQuery, key, err)
		}
	}
	return nil
}

// GetOccupyingBySlot бронирования, занимающие слот комнаты в указанный день
func (r *Repository) GetOccupyingBySlot(ctx context.Context, roomID int64, date types.Date, slotID domain.SlotID) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"room_id":   roomID,
			"slot_date": date,
			"slot_id":   slotID,
			"status":    statusStrings(domain.OccupyingStatuses),
		})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupyingBySlot - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetOccupyingBySlot", query, args)
}

// CountActiveByUser количество бронирований пользователя в занимающих статусах, которые ещё не закончились
func (r *Repository) CountActiveByUser(ctx context.Context, userID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{
			"user_id": userID,
			"status":  statusStrings(domain.OccupyingStatuses),
		}).
		Where(squirrel.Gt{"end_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUser - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUser - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// GetActiveByUser активные бронирования пользователя по времени начала
func (r *Repository) GetActiveByUser(ctx context.Context, userID int64, now time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"user_id": userID,
			"status":  statusStrings(domain.OccupyingStatuses),
		}).
		Where(squirrel.Gt{"end_at": now}).
		OrderBy("start_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUser - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetActiveByUser", query, args)
}

// GetByUser история бронирований пользователя (сначала новые), опционально по статусу
func (r *Repository) GetByUser(ctx context.Context, filter domain.UserReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("start_at DESC", "id DESC")

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetByUser", query, args)
}

// GetWithFilter бронирования всех пользователей по фильтру, по времени начала
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("start_at ASC", "id ASC")

	if filter.RoomID != nil {
		builder = builder.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"slot_date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"slot_date": *filter.To})
	}

	// Без статуса и неактивных остаются только занимающие слот
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(domain.OccupyingStatuses)})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetWithFilter", query, args)
}

// GetOccupyingByRoomsAndDate занимающие бронирования нескольких комнат за день (для сетки доступности)
func (r *Repository) GetOccupyingByRoomsAndDate(ctx context.Context, roomIDs []int64, date types.Date) ([]*domain.Reservation, error) {
	if len(roomIDs) == 0 {
		return []*domain.Reservation{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"room_id":   roomIDs,
			"slot_date": date,
			"status":    statusStrings(domain.OccupyingStatuses),
		}).
		OrderBy("room_id ASC", "start_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupyingByRoomsAndDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetOccupyingByRoomsAndDate", query, args)
}

// GetExpired страница закончившихся бронирований в статусе filter.Status,
// упорядоченная по (end_at, id). Следующая страница запрашивается с After = ключ последней строки.
func (r *Repository) GetExpired(ctx context.Context, filter domain.ExpiredFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": filter.Status}).
		Where(squirrel.LtOrEq{"end_at": filter.EndsBy})

	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.RoomID != nil {
		builder = builder.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.After != nil {
		builder = builder.Where(squirrel.Expr("(end_at, id) > (?, ?)", filter.After.EndAt, filter.After.ID))
	}

	builder = builder.OrderBy("end_at ASC", "id ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetExpired - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetExpired", query, args)
}

// UpdateStatus условно меняет статус и возвращает обновлённое бронирование.
// Если строка уже не в статусе upd.From (или ещё не закончилась при заданном EndsBy),
// ничего не меняет и возвращает ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, upd domain.StatusUpdate) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(tableName).
		Set("status", upd.To).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": upd.ID, "status": upd.From})

	if upd.EndsBy != nil {
		builder = builder.Where(squirrel.LtOrEq{"end_at": *upd.EndsBy})
	}

	query, args, err := builder.
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return res, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op string, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return reservations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var note sql.NullString

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.RoomID,
		&res.RoomName,
		&res.RoomCode,
		&res.SlotID,
		&res.SlotDate,
		&res.StartAt,
		&res.EndAt,
		&res.Status,
		&res.NumberOfPeople,
		pq.Array(&res.Accessories),
		&note,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if note.Valid {
		res.Note = &note.String
	}
	if res.Accessories == nil {
		res.Accessories = []string{}
	}

	return &res, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func isOccupiedSlotViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeUniqueViolation && pqErr.Constraint == occupiedSlotIndex
}
