package unit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
	"github.com/apartmani-bj/booking-service/pkg/dbmetrics"
	"github.com/apartmani-bj/booking-service/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для чтения апартаментов.
// Ядро бронирования апартаменты не изменяет, поэтому только выборки.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория апартаментов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var unitColumns = []string{
	"id", "name", "type", "capacity", "base_price_eur", "created_at", "updated_at",
}

// GetByID получает апартамент по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(unitColumns...).
		From("units").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	u, err := scanUnit(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan unit: %v", ErrScanRow, err)
	}
	return u, nil
}

// ListAvailable получает апартаменты без пересекающихся активных бронирований
// в заданном диапазоне дат. Анти-джойн вычисляется на стороне БД.
func (r *Repository) ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]*domain.Unit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(unitColumns...).
		From("units").
		Where(squirrel.Expr(
			`NOT EXISTS (
				SELECT 1 FROM reservations
				WHERE reservations.unit_id = units.id
				  AND reservations.status <> 'cancelled'
				  AND reservations.check_in < ?
				  AND reservations.check_out > ?
			)`, checkOut, checkIn)).
		OrderBy("base_price_eur ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	units := make([]*domain.Unit, 0)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAvailable - scan row: %v", ErrScanRow, err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - rows error: %v", ErrScanRow, err)
	}

	return units, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUnit(row rowScanner) (*domain.Unit, error) {
	var u domain.Unit
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Type,
		&u.Capacity,
		&u.BasePriceEUR,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}
