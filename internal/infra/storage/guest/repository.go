package guest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/apartmani-bj/booking-service/internal/domain"
	"github.com/apartmani-bj/booking-service/pkg/dbmetrics"
	"github.com/apartmani-bj/booking-service/pkg/i18n"
	"github.com/apartmani-bj/booking-service/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с гостями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория гостей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// upsertQuery идентичность гостя определяется email. Повторное бронирование
// с тем же email переиспользует запись, обновляя имя и телефон
// (last-write-wins, телефон не затирается пустым значением).
const upsertQuery = `
INSERT INTO guests (id, full_name, email, phone, language)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET full_name = EXCLUDED.full_name,
    phone = COALESCE(EXCLUDED.phone, guests.phone),
    language = EXCLUDED.language,
    updated_at = NOW()
RETURNING id, full_name, email, phone, language, created_at, updated_at`

// UpsertByEmail создает гостя или обновляет существующего по email.
// Email после создания неизменяем. Один оператор, без read-then-write.
func (r *Repository) UpsertByEmail(ctx context.Context, fullName, email string, phone *string, language i18n.Locale) (*domain.Guest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var g domain.Guest
	var createdAt, updatedAt sql.NullTime

	err := executor.QueryRowContext(ctx, upsertQuery, uuid.New(), fullName, email, phone, language).Scan(
		&g.ID,
		&g.FullName,
		&g.Email,
		&g.Phone,
		&g.Language,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByEmail - execute upsert: %v", ErrExecQuery, err)
	}

	g.CreatedAt = createdAt.Time
	g.UpdatedAt = updatedAt.Time
	return &g, nil
}

// GetByID получает гостя по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Guest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "full_name", "email", "phone", "language", "created_at", "updated_at",
	).
		From("guests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var g domain.Guest
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&g.ID,
		&g.FullName,
		&g.Email,
		&g.Phone,
		&g.Language,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan guest: %v", ErrScanRow, err)
	}

	g.CreatedAt = createdAt.Time
	g.UpdatedAt = updatedAt.Time
	return &g, nil
}

// UpdatePartial обновляет только поля, присутствующие в патче (имя, телефон).
// Email неизменяем и патчем не затрагивается.
func (r *Repository) UpdatePartial(ctx context.Context, id uuid.UUID, patch domain.GuestPatch) error {
	if patch.Name == nil && patch.Phone == nil {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("guests").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if patch.Name != nil {
		updateBuilder = updateBuilder.Set("full_name", *patch.Name)
	}
	if patch.Phone != nil {
		updateBuilder = updateBuilder.Set("phone", *patch.Phone)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePartial - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePartial - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePartial - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrGuestNotFound
	}
	return nil
}
