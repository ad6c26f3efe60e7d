package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/psqlbuilder"
)

const tableName = "notifications"

var columns = []string{
	"id",
	"user_id",
	"reservation_id",
	"kind",
	"title",
	"description",
	"is_read",
	"room_name",
	"room_code",
	"slot_start",
	"slot_end",
	"status",
	"created_at",
}

// Repository лента уведомлений пользователей (append-only, кроме флага прочтения)
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет уведомление. Внутри транзакции пишет в неё же,
// поэтому смена статуса и уведомление о ней фиксируются вместе.
func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var reservationID sql.NullInt64
	if n.ReservationID > 0 {
		reservationID = sql.NullInt64{Int64: n.ReservationID, Valid: true}
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"user_id",
			"reservation_id",
			"kind",
			"title",
			"description",
			"is_read",
			"room_name",
			"room_code",
			"slot_start",
			"slot_end",
			"status",
		).
		Values(
			n.UserID,
			reservationID,
			n.Kind,
			n.Title,
			n.Description,
			n.Read,
			n.RoomName,
			n.RoomCode,
			nullTime(n.SlotStart),
			nullTime(n.SlotEnd),
			n.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return n, nil
}

// GetByUser уведомления пользователя, сначала новые.
// beforeID > 0 - курсор: только уведомления с id < beforeID.
func (r *Repository) GetByUser(ctx context.Context, userID int64, beforeID int64, limit uint64) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id DESC").
		Limit(limit)

	if beforeID > 0 {
		builder = builder.Where(squirrel.Lt{"id": beforeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Notification, 0)
	for rows.Next() {
		var (
			n             domain.Notification
			reservationID sql.NullInt64
			start, end    sql.NullTime
		)
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&reservationID,
			&n.Kind,
			&n.Title,
			&n.Description,
			&n.Read,
			&n.RoomName,
			&n.RoomCode,
			&start,
			&end,
			&n.Status,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByUser - scan row: %w", ErrScanRow, err)
		}
		n.ReservationID = reservationID.Int64
		n.SlotStart = start.Time
		n.SlotEnd = end.Time
		result = append(result, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByUser - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// MarkRead помечает уведомление пользователя прочитанным
func (r *Repository) MarkRead(ctx context.Context, userID int64, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead помечает прочитанными все уведомления пользователя, возвращает количество
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_read", true).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkAllRead - execute update: %w", ErrExecQuery, err)
	}

	return result.RowsAffected()
}

// CountUnread количество непрочитанных уведомлений пользователя
func (r *Repository) CountUnread(ctx context.Context, userID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUnread - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
