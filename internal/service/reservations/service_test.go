package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apartmani-bj/booking-service/internal/domain"
	reservationRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/reservation"
	"github.com/apartmani-bj/booking-service/internal/integrations/notifier"
	"github.com/apartmani-bj/booking-service/internal/service/reservations/models"
	"github.com/apartmani-bj/booking-service/pkg/i18n"
	"github.com/apartmani-bj/booking-service/pkg/ptr"
)

var testNow = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

// Фейки зависимостей

type fakeReservationRepo struct {
	reservation *domain.Reservation
	unitName    i18n.MultiLanguageText

	statusUpdates []domain.ReservationStatus
	dateUpdates   int
	lastDates     struct {
		checkIn, checkOut time.Time
		rate, total       float64
	}
	optionUpdates  int
	lastOptions    domain.ReservationOptions
	lastNote       *string
	deleted        int
	updateDatesErr error

	listItems  []*reservationRepo.Details
	listTotal  int
	lastFilter domain.ReservationFilter
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Reservation, error) {
	if f.reservation == nil || f.reservation.ID != id {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *f.reservation
	return &copied, nil
}

func (f *fakeReservationRepo) GetDetailsByID(_ context.Context, id uuid.UUID) (*reservationRepo.Details, error) {
	if f.reservation == nil || f.reservation.ID != id {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return &reservationRepo.Details{
		Reservation:   *f.reservation,
		UnitName:      f.unitName,
		GuestName:     "Ana Petrović",
		GuestEmail:    "ana@example.com",
		GuestLanguage: f.reservation.Language,
	}, nil
}

func (f *fakeReservationRepo) ListWithFilter(_ context.Context, filter domain.ReservationFilter) ([]*reservationRepo.Details, int, error) {
	f.lastFilter = filter
	return f.listItems, f.listTotal, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ReservationStatus, stampedAt time.Time) error {
	if f.reservation == nil || f.reservation.ID != id {
		return reservationRepo.ErrReservationNotFound
	}
	f.statusUpdates = append(f.statusUpdates, status)
	f.reservation.Status = status
	f.reservation.UpdatedAt = stampedAt
	return nil
}

func (f *fakeReservationRepo) UpdateDates(_ context.Context, id uuid.UUID, checkIn, checkOut time.Time, rate, total float64) error {
	if f.updateDatesErr != nil {
		return f.updateDatesErr
	}
	if f.reservation == nil || f.reservation.ID != id {
		return reservationRepo.ErrReservationNotFound
	}
	f.dateUpdates++
	f.lastDates.checkIn = checkIn
	f.lastDates.checkOut = checkOut
	f.lastDates.rate = rate
	f.lastDates.total = total
	f.reservation.CheckIn = checkIn
	f.reservation.CheckOut = checkOut
	f.reservation.PricePerNight = rate
	f.reservation.TotalPrice = total
	return nil
}

func (f *fakeReservationRepo) UpdateOptions(_ context.Context, id uuid.UUID, opts domain.ReservationOptions, note *string) error {
	if f.reservation == nil || f.reservation.ID != id {
		return reservationRepo.ErrReservationNotFound
	}
	f.optionUpdates++
	f.lastOptions = opts
	f.lastNote = note
	f.reservation.Options = opts
	f.reservation.Note = note
	return nil
}

func (f *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.reservation == nil || f.reservation.ID != id {
		return reservationRepo.ErrReservationNotFound
	}
	f.deleted++
	f.reservation = nil
	return nil
}

type fakeGuestRepo struct {
	patches []domain.GuestPatch
}

func (f *fakeGuestRepo) UpdatePartial(_ context.Context, _ uuid.UUID, patch domain.GuestPatch) error {
	f.patches = append(f.patches, patch)
	return nil
}

type fakeUnitRepo struct {
	unit *domain.Unit
}

func (f *fakeUnitRepo) GetByID(context.Context, uuid.UUID) (*domain.Unit, error) {
	return f.unit, nil
}

type fakeNotifier struct {
	confirmed chan notifier.ReservationInfo
	reviews   chan notifier.ReservationInfo
}

func (f *fakeNotifier) NotifyReservationConfirmed(_ context.Context, info notifier.ReservationInfo) error {
	f.confirmed <- info
	return nil
}

func (f *fakeNotifier) NotifyReviewRequested(_ context.Context, info notifier.ReservationInfo) error {
	f.reviews <- info
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Сборка сервиса с фейками

type fixture struct {
	svc          *Service
	reservations *fakeReservationRepo
	guests       *fakeGuestRepo
	units        *fakeUnitRepo
	notify       *fakeNotifier
}

func newFixture(status domain.ReservationStatus) *fixture {
	reservation := &domain.Reservation{
		ID:                uuid.New(),
		ReservationNumber: "BJ-2025-A1B2",
		UnitID:            uuid.New(),
		GuestID:           uuid.New(),
		CheckIn:           time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		CheckOut:          time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC),
		PricePerNight:     80,
		TotalPrice:        320,
		Status:            status,
		Language:          i18n.LocaleEN,
		RequestedAt:       testNow,
	}

	f := &fixture{
		reservations: &fakeReservationRepo{
			reservation: reservation,
			unitName:    i18n.MultiLanguageText{"sr": "Апартман 1", "en": "Apartment 1"},
		},
		guests: &fakeGuestRepo{},
		units: &fakeUnitRepo{unit: &domain.Unit{
			ID:           reservation.UnitID,
			BasePriceEUR: 100,
		}},
		notify: &fakeNotifier{
			confirmed: make(chan notifier.ReservationInfo, 1),
			reviews:   make(chan notifier.ReservationInfo, 1),
		},
	}

	f.svc = NewService(f.reservations, f.guests, f.units, f.notify, fakeTxManager{}, fixedTime{now: testNow}, nopLogger{})
	return f
}

func TestUpdateStatusTransition(t *testing.T) {
	f := newFixture(domain.StatusPending)
	id := f.reservations.reservation.ID

	resp, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusConfirmed}, f.reservations.statusUpdates)

	select {
	case info := <-f.notify.confirmed:
		assert.Equal(t, "BJ-2025-A1B2", info.ReservationNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation notification was not dispatched")
	}
}

func TestUpdateSameStatusIsNoop(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)
	id := f.reservations.reservation.ID

	resp, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Empty(t, f.reservations.statusUpdates, "same-status update must not touch the store")

	select {
	case <-f.notify.confirmed:
		t.Fatal("no notification for an idempotent update")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUpdateInvalidTransition(t *testing.T) {
	f := newFixture(domain.StatusCheckedOut)
	id := f.reservations.reservation.ID

	_, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		Status: ptr.Ptr("checked_in"),
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "checked_out")
	assert.Contains(t, err.Error(), "checked_in")
	assert.Empty(t, f.reservations.statusUpdates)
}

func TestUpdateCheckOutDispatchesReviewRequest(t *testing.T) {
	f := newFixture(domain.StatusCheckedIn)
	id := f.reservations.reservation.ID

	_, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		Status: ptr.Ptr("checked_out"),
	})
	require.NoError(t, err)

	select {
	case info := <-f.notify.reviews:
		assert.Equal(t, "BJ-2025-A1B2", info.ReservationNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("review request was not dispatched")
	}
}

func TestUpdateDatesRecomputesPrice(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.reservations.reservation.Options = domain.ReservationOptions{Parking: true}
	id := f.reservations.reservation.ID

	resp, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		CheckIn:  ptr.Ptr("2025-08-01"),
		CheckOut: ptr.Ptr("2025-08-06"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.reservations.dateUpdates)
	// 5 ночей x 100 (текущий тариф) + 5 x 5 (parking)
	assert.Equal(t, 100.0, f.reservations.lastDates.rate)
	assert.Equal(t, 525.0, f.reservations.lastDates.total)
	assert.Equal(t, 525.0, resp.TotalPrice)
}

func TestUpdateDatesWithOptionsUsesPatchedOptions(t *testing.T) {
	f := newFixture(domain.StatusPending)
	id := f.reservations.reservation.ID

	_, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		CheckIn:  ptr.Ptr("2025-08-01"),
		CheckOut: ptr.Ptr("2025-08-06"),
		Options:  &models.OptionsPatchRequest{ExtraBed: ptr.Ptr(true)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.reservations.optionUpdates)
	assert.True(t, f.reservations.lastOptions.ExtraBed)
	// 5 ночей x 100 + 5 x 10 (extra bed по обновленным опциям)
	assert.Equal(t, 550.0, f.reservations.lastDates.total)
}

func TestUpdateOptionsOnlyKeepsPrice(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)
	id := f.reservations.reservation.ID

	resp, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		Options: &models.OptionsPatchRequest{Parking: ptr.Ptr(true), Note: ptr.Ptr("late arrival")},
	})
	require.NoError(t, err)

	assert.Zero(t, f.reservations.dateUpdates, "options-only update must not reprice")
	assert.Equal(t, 320.0, resp.TotalPrice, "agreed price survives an options patch")
	assert.True(t, f.reservations.lastOptions.Parking)
	require.NotNil(t, f.reservations.lastNote)
	assert.Equal(t, "late arrival", *f.reservations.lastNote)
}

func TestUpdateDatesRejectsPastCheckIn(t *testing.T) {
	f := newFixture(domain.StatusPending)
	id := f.reservations.reservation.ID

	_, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		CheckIn:  ptr.Ptr("2025-06-01"),
		CheckOut: ptr.Ptr("2025-06-05"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.reservations.dateUpdates)
}

func TestUpdateCheckOutOnlyExtendsCurrentStay(t *testing.T) {
	// Заезд в прошлом, гость продлевает проживание: двигается только выезд
	f := newFixture(domain.StatusCheckedIn)
	f.reservations.reservation.CheckIn = time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)
	f.reservations.reservation.CheckOut = time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	id := f.reservations.reservation.ID

	_, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		CheckOut: ptr.Ptr("2025-07-04"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.reservations.dateUpdates)
	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), f.reservations.lastDates.checkOut)
}

func TestUpdateDatesConflict(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.reservations.updateDatesErr = reservationRepo.ErrDatesConflict
	id := f.reservations.reservation.ID

	_, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		CheckIn:  ptr.Ptr("2025-08-01"),
		CheckOut: ptr.Ptr("2025-08-06"),
	})
	assert.ErrorIs(t, err, ErrDatesConflict)
}

func TestUpdateGuestPatch(t *testing.T) {
	f := newFixture(domain.StatusPending)
	id := f.reservations.reservation.ID

	_, err := f.svc.Update(context.Background(), id, &models.UpdateReservationRequest{
		Guest: &models.GuestPatchRequest{Name: ptr.Ptr("Ana Kovač")},
	})
	require.NoError(t, err)

	require.Len(t, f.guests.patches, 1)
	require.NotNil(t, f.guests.patches[0].Name)
	assert.Equal(t, "Ana Kovač", *f.guests.patches[0].Name)
}

func TestUpdateNotFound(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.Update(context.Background(), uuid.New(), &models.UpdateReservationRequest{
		Status: ptr.Ptr("confirmed"),
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancel(t *testing.T) {
	f := newFixture(domain.StatusPending)
	id := f.reservations.reservation.ID

	require.NoError(t, f.svc.Cancel(context.Background(), id))
	assert.Equal(t, []domain.ReservationStatus{domain.StatusCancelled}, f.reservations.statusUpdates)
}

func TestCancelRejectedAfterCheckIn(t *testing.T) {
	f := newFixture(domain.StatusCheckedIn)
	id := f.reservations.reservation.ID

	err := f.svc.Cancel(context.Background(), id)
	require.ErrorIs(t, err, ErrCannotCancel)
	assert.Contains(t, err.Error(), "checked_in", "error names the current status")
}

func TestDelete(t *testing.T) {
	f := newFixture(domain.StatusPending)
	id := f.reservations.reservation.ID

	require.NoError(t, f.svc.Delete(context.Background(), id))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), id), ErrReservationNotFound)
}

func TestListPaginationEnvelope(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.reservations.listItems = []*reservationRepo.Details{
		{Reservation: *f.reservations.reservation, UnitName: f.reservations.unitName, GuestName: "Ana", GuestEmail: "ana@example.com"},
	}
	f.reservations.listTotal = 41

	resp, err := f.svc.List(context.Background(), &models.ListReservationsRequest{Page: 2, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, resp.Reservations, 1)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 41, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestListFiltersByGuestID(t *testing.T) {
	f := newFixture(domain.StatusPending)
	guestID := f.reservations.reservation.GuestID

	_, err := f.svc.List(context.Background(), &models.ListReservationsRequest{
		GuestID: ptr.Ptr(guestID.String()),
	})
	require.NoError(t, err)

	require.NotNil(t, f.reservations.lastFilter.GuestID)
	assert.Equal(t, guestID, *f.reservations.lastFilter.GuestID)
}

func TestListInvalidGuestID(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.List(context.Background(), &models.ListReservationsRequest{
		GuestID: ptr.Ptr("not-a-uuid"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListInvalidFilter(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.List(context.Background(), &models.ListReservationsRequest{
		Status: ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByIDNotFound(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
