package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/apartmani-bj/booking-service/internal/domain"
	"github.com/apartmani-bj/booking-service/pkg/dbmetrics"
	"github.com/apartmani-bj/booking-service/pkg/i18n"
	"github.com/apartmani-bj/booking-service/pkg/psqlbuilder"
)

// Details бронирование вместе с данными апартамента и гостя.
// Джойн нормализуется в одну плоскую структуру на границе адаптера,
// выше этого слоя форма строки всегда одинакова.
type Details struct {
	domain.Reservation

	UnitName      i18n.MultiLanguageText
	GuestName     string
	GuestEmail    string
	GuestPhone    *string
	GuestLanguage i18n.Locale
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// createQuery атомарная вставка с проверкой пересечения дат на стороне БД.
// INSERT и проверка выполняются одним оператором: при конкурентных запросах
// на пересекающиеся даты одного апартамента вставится максимум один.
// Статус 'cancelled' освобождает диапазон, поэтому исключается из проверки.
const createQuery = `
INSERT INTO reservations (
	id, reservation_number, unit_id, guest_id, check_in, check_out,
	price_per_night, total_price, status,
	extra_bed, parking, early_check_in, late_check_out,
	note, source, language,
	ip_address, user_agent, fingerprint, consent_given, consent_timestamp,
	requested_at
)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
WHERE NOT EXISTS (
	SELECT 1 FROM reservations
	WHERE unit_id = $3
	  AND status <> 'cancelled'
	  AND check_in < $6
	  AND check_out > $5
)
RETURNING created_at, updated_at`

// Create создает новое бронирование с атомарной проверкой доступности дат.
// Возвращает ErrDatesConflict, если диапазон занят. При коллизии номера
// бронирования (уникальный индекс) генерирует новый номер и повторяет один раз.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if err := r.create(ctx, res); err != nil {
		if isUniqueViolation(err, "reservations_reservation_number_key") {
			res.ReservationNumber = domain.GenerateReservationNumber(time.Now())
			return res, r.create(ctx, res)
		}
		return nil, err
	}
	return res, nil
}

func (r *Repository) create(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var createdAt, updatedAt sql.NullTime
	err := executor.QueryRowContext(ctx, createQuery,
		res.ID,
		res.ReservationNumber,
		res.UnitID,
		res.GuestID,
		res.CheckIn,
		res.CheckOut,
		res.PricePerNight,
		res.TotalPrice,
		res.Status,
		res.Options.ExtraBed,
		res.Options.Parking,
		res.Options.EarlyCheckIn,
		res.Options.LateCheckOut,
		res.Note,
		res.Source,
		res.Language,
		res.Security.IPAddress,
		res.Security.UserAgent,
		res.Security.Fingerprint,
		res.Security.ConsentGiven,
		res.Security.ConsentTimestamp,
		res.RequestedAt,
	).Scan(&createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrDatesConflict
	}
	if isExclusionViolation(err) {
		// Страховочный EXCLUDE-констрейнт сработал раньше предиката
		return ErrDatesConflict
	}
	if err != nil {
		if isUniqueViolation(err, "reservations_reservation_number_key") {
			return err
		}
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return nil
}

// CheckAvailability проверяет доступность диапазона дат для апартамента.
// Предикат пересечения вычисляется на стороне БД одним запросом.
// При обновлении существующего бронирования его собственная строка
// исключается через excludeID.
func (r *Repository) CheckAvailability(ctx context.Context, unitID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"unit_id": unitID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"check_in": checkOut}).
		Where(squirrel.Gt{"check_out": checkIn})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CheckAvailability - build select query: %v", ErrBuildQuery, err)
	}

	var conflicts int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&conflicts); err != nil {
		return false, fmt.Errorf("%w: CheckAvailability - scan count: %v", ErrExecQuery, err)
	}

	return conflicts == 0, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется через FOR UPDATE.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}
	return res, nil
}

// GetDetailsByID получает бронирование вместе с данными апартамента и гостя
func (r *Repository) GetDetailsByID(ctx context.Context, id uuid.UUID) (*Details, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByID - build select query: %v", ErrBuildQuery, err)
	}

	details, err := scanDetails(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByID - scan reservation: %v", ErrScanRow, err)
	}
	return details, nil
}

// ListWithFilter получает страницу бронирований с фильтрацией и общее число строк.
// Фильтр по периоду трактуется как пересечение диапазонов: попадают бронирования,
// чей [check_in, check_out) пересекается с [StartDate, EndDate).
// Сортировка: сначала последние созданные.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*Details, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countBuilder := applyFilter(psqlbuilder.Select("COUNT(*)").
		From("reservations r").
		Join("guests g ON g.id = r.guest_id"), filter)

	query, args, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - scan count: %v", ErrExecQuery, err)
	}

	pageBuilder := applyFilter(detailsSelect(), filter).
		OrderBy("r.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset()))

	query, args, err = pageBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*Details, 0)
	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: ListWithFilter - scan row: %v", ErrScanRow, err)
		}
		items = append(items, details)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - rows error: %v", ErrScanRow, err)
	}

	return items, total, nil
}

// UpdateStatus обновляет статус бронирования и проставляет timestamp вехи
// ровно для выполняемого перехода
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus, stampedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", stampedAt).
		Where(squirrel.Eq{"id": id})

	if column, ok := milestoneColumn(status); ok {
		updateBuilder = updateBuilder.Set(column, stampedAt)
	}

	query, args, err := updateBuilder.ToSql()
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
		return ErrReservationNotFound
	}
	return nil
}

// updateDatesQuery атомарный перенос дат: пересечение с другими активными
// бронированиями проверяется тем же оператором UPDATE, собственная строка
// исключается из проверки.
const updateDatesQuery = `
UPDATE reservations r
SET check_in = $2, check_out = $3, price_per_night = $4, total_price = $5, updated_at = NOW()
WHERE r.id = $1
  AND NOT EXISTS (
	SELECT 1 FROM reservations o
	WHERE o.unit_id = r.unit_id
	  AND o.id <> r.id
	  AND o.status <> 'cancelled'
	  AND o.check_in < $3
	  AND o.check_out > $2
)`

// UpdateDates переносит бронирование на новые даты с пересчитанной ценой.
// Возвращает ErrDatesConflict, если новые даты заняты, ErrReservationNotFound,
// если бронирования нет.
func (r *Repository) UpdateDates(ctx context.Context, id uuid.UUID, checkIn, checkOut time.Time, pricePerNight, totalPrice float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, updateDatesQuery, id, checkIn, checkOut, pricePerNight, totalPrice)
	if isExclusionViolation(err) {
		return ErrDatesConflict
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateDates - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDates - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		// Либо бронирования нет, либо даты заняты - различаем по наличию строки
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return ErrReservationNotFound
		}
		return ErrDatesConflict
	}
	return nil
}

// UpdateOptions обновляет опции и заметку бронирования
func (r *Repository) UpdateOptions(ctx context.Context, id uuid.UUID, opts domain.ReservationOptions, note *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("extra_bed", opts.ExtraBed).
		Set("parking", opts.Parking).
		Set("early_check_in", opts.EarlyCheckIn).
		Set("late_check_out", opts.LateCheckOut).
		Set("note", note).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateOptions - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateOptions - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateOptions - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// Delete физически удаляет бронирование (административная коррекция).
// Для отмены со стороны гостя использовать смену статуса на cancelled.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// Вспомогательные функции

var reservationColumns = []string{
	"id",
	"reservation_number",
	"unit_id",
	"guest_id",
	"check_in",
	"check_out",
	"price_per_night",
	"total_price",
	"status",
	"extra_bed",
	"parking",
	"early_check_in",
	"late_check_out",
	"note",
	"source",
	"language",
	"ip_address",
	"user_agent",
	"fingerprint",
	"consent_given",
	"consent_timestamp",
	"requested_at",
	"confirmed_at",
	"checked_in_at",
	"checked_out_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

func detailsSelect() squirrel.SelectBuilder {
	columns := make([]string, 0, len(reservationColumns)+5)
	for _, c := range reservationColumns {
		columns = append(columns, "r."+c)
	}
	columns = append(columns,
		"u.name AS unit_name",
		"g.full_name AS guest_name",
		"g.email AS guest_email",
		"g.phone AS guest_phone",
		"g.language AS guest_language",
	)

	return psqlbuilder.Select(columns...).
		From("reservations r").
		Join("units u ON u.id = r.unit_id").
		Join("guests g ON g.id = r.guest_id")
}

func applyFilter(builder squirrel.SelectBuilder, filter domain.ReservationFilter) squirrel.SelectBuilder {
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.Gt{"r.check_out": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.Lt{"r.check_in": *filter.EndDate})
	}
	if filter.UnitID != nil {
		builder = builder.Where(squirrel.Eq{"r.unit_id": *filter.UnitID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"r.status": *filter.Status})
	}
	if filter.GuestID != nil {
		builder = builder.Where(squirrel.Eq{"r.guest_id": *filter.GuestID})
	}
	if filter.GuestEmail != nil {
		builder = builder.Where(squirrel.Eq{"g.email": *filter.GuestEmail})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.ReservationNumber,
		&res.UnitID,
		&res.GuestID,
		&res.CheckIn,
		&res.CheckOut,
		&res.PricePerNight,
		&res.TotalPrice,
		&res.Status,
		&res.Options.ExtraBed,
		&res.Options.Parking,
		&res.Options.EarlyCheckIn,
		&res.Options.LateCheckOut,
		&res.Note,
		&res.Source,
		&res.Language,
		&res.Security.IPAddress,
		&res.Security.UserAgent,
		&res.Security.Fingerprint,
		&res.Security.ConsentGiven,
		&res.Security.ConsentTimestamp,
		&res.RequestedAt,
		&res.ConfirmedAt,
		&res.CheckedInAt,
		&res.CheckedOutAt,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}

func scanDetails(row rowScanner) (*Details, error) {
	var d Details
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&d.ID,
		&d.ReservationNumber,
		&d.UnitID,
		&d.GuestID,
		&d.CheckIn,
		&d.CheckOut,
		&d.PricePerNight,
		&d.TotalPrice,
		&d.Status,
		&d.Options.ExtraBed,
		&d.Options.Parking,
		&d.Options.EarlyCheckIn,
		&d.Options.LateCheckOut,
		&d.Note,
		&d.Source,
		&d.Language,
		&d.Security.IPAddress,
		&d.Security.UserAgent,
		&d.Security.Fingerprint,
		&d.Security.ConsentGiven,
		&d.Security.ConsentTimestamp,
		&d.RequestedAt,
		&d.ConfirmedAt,
		&d.CheckedInAt,
		&d.CheckedOutAt,
		&d.CancelledAt,
		&createdAt,
		&updatedAt,
		&d.UnitName,
		&d.GuestName,
		&d.GuestEmail,
		&d.GuestPhone,
		&d.GuestLanguage,
	)
	if err != nil {
		return nil, err
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time
	return &d, nil
}

func milestoneColumn(status domain.ReservationStatus) (string, bool) {
	switch status {
	case domain.StatusConfirmed:
		return "confirmed_at", true
	case domain.StatusCheckedIn:
		return "checked_in_at", true
	case domain.StatusCheckedOut:
		return "checked_out_at", true
	case domain.StatusCancelled:
		return "cancelled_at", true
	default:
		return "", false
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23P01"
}
