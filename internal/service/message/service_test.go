package message

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
	"github.com/CelestialBrain/sms-scheduler/internal/poller"
	custrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/customer"
	msgrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/message"
	"github.com/CelestialBrain/sms-scheduler/internal/stream"
	"github.com/CelestialBrain/sms-scheduler/internal/validation"
)

type stubWaker struct {
	wakes []uuid.UUID
}

func (w *stubWaker) WakeSoon(id uuid.UUID) error {
	w.wakes = append(w.wakes, id)
	return nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) SetWithRetry(_ context.Context, _ retry.Strategy, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) GetWithRetry(_ context.Context, _ retry.Strategy, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

type okSender struct{}

func (okSender) Send(context.Context, model.ScheduledMessage) error { return nil }

type fixture struct {
	store     *msgrepo.MemoryStore
	customers *custrepo.MemoryStore
	waker     *stubWaker
	events    *[]stream.Event
	svc       *Service
}

func newFixture(t *testing.T, soonSpan time.Duration) *fixture {
	t.Helper()

	store := msgrepo.NewMemoryStore()
	customers := custrepo.NewMemoryStore()
	waker := &stubWaker{}
	st := stream.New()

	events := &[]stream.Event{}
	st.Subscribe(func(e stream.Event) { *events = append(*events, e) })

	svc := NewService(store, st, Options{
		Customers: customers,
		Waker:     waker,
		SoonSpan:  soonSpan,
	})

	return &fixture{store: store, customers: customers, waker: waker, events: events, svc: svc}
}

func validInput() ScheduleInput {
	return ScheduleInput{
		Recipient:   "09171234567",
		Body:        "hello",
		ScheduledAt: time.Now().UTC().Add(time.Hour),
	}
}

func TestService_Schedule(t *testing.T) {
	f := newFixture(t, 0)

	msg, err := f.svc.Schedule(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, model.StatusPending, msg.Status)
	assert.True(t, msg.Active)
	assert.Equal(t, model.PriorityDefault, msg.Priority)
	assert.Equal(t, 0, msg.RetryCount)

	stored, err := f.store.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, stored.ID)

	require.Len(t, *f.events, 1)
	assert.Equal(t, stream.EventScheduled, (*f.events)[0].Kind)
}

func TestService_Schedule_Validations(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	in := validInput()
	in.ScheduledAt = time.Now().UTC().Add(-time.Minute)
	_, err := f.svc.Schedule(ctx, in)
	assert.ErrorIs(t, err, ErrPastSchedule)

	in = validInput()
	in.ScheduledAt = time.Now().UTC()
	_, err = f.svc.Schedule(ctx, in)
	assert.ErrorIs(t, err, ErrPastSchedule)

	in = validInput()
	in.Body = "   "
	_, err = f.svc.Schedule(ctx, in)
	assert.ErrorIs(t, err, ErrEmptyBody)

	in = validInput()
	in.Recipient = "12345"
	_, err = f.svc.Schedule(ctx, in)
	assert.ErrorIs(t, err, validation.ErrInvalidPhone)

	assert.Empty(t, *f.events)
}

func TestService_Schedule_FillsCustomerDetails(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	customer := model.Customer{
		ID:          uuid.New(),
		Name:        "Juan dela Cruz",
		PhoneNumber: "09171234567",
		Active:      true,
	}
	require.NoError(t, f.customers.Insert(ctx, customer))

	in := validInput()
	in.Recipient = "" // fall back to the customer's phone
	in.CustomerID = &customer.ID

	msg, err := f.svc.Schedule(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "09171234567", msg.Recipient)
	assert.Equal(t, "Juan dela Cruz", msg.CustomerName)
}

func TestService_Schedule_OrphanCustomerTolerated(t *testing.T) {
	f := newFixture(t, 0)

	orphan := uuid.New()
	in := validInput()
	in.CustomerID = &orphan

	msg, err := f.svc.Schedule(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, &orphan, msg.CustomerID)
	assert.Empty(t, msg.CustomerName)
}

func TestService_Schedule_RequestsWakeWhenSoon(t *testing.T) {
	f := newFixture(t, 30*time.Minute)
	ctx := context.Background()

	in := validInput()
	in.ScheduledAt = time.Now().UTC().Add(10 * time.Minute)

	msg, err := f.svc.Schedule(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{msg.ID}, f.waker.wakes)

	in = validInput()
	in.ScheduledAt = time.Now().UTC().Add(2 * time.Hour)

	_, err = f.svc.Schedule(ctx, in)
	require.NoError(t, err)
	assert.Len(t, f.waker.wakes, 1)
}

func TestService_Update(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	msg, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, msg.ID, UpdateInput{
		Recipient:   "09181234567",
		Body:        "changed",
		ScheduledAt: time.Now().UTC().Add(2 * time.Hour),
		Priority:    model.PriorityMax,
	})
	require.NoError(t, err)
	assert.Equal(t, "09181234567", updated.Recipient)
	assert.Equal(t, "changed", updated.Body)
	assert.Equal(t, model.PriorityMax, updated.Priority)
	assert.Equal(t, model.StatusPending, updated.Status)
	assert.True(t, updated.UpdatedAt.After(msg.UpdatedAt) || updated.UpdatedAt.Equal(msg.UpdatedAt))

	last := (*f.events)[len(*f.events)-1]
	assert.Equal(t, stream.EventUpdated, last.Kind)

	_, err = f.svc.Update(ctx, uuid.New(), UpdateInput{Recipient: "09171234567", Body: "x"})
	assert.ErrorIs(t, err, msgrepo.ErrMessageNotFound)
}

func TestService_Cancel(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	msg, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	last := (*f.events)[len(*f.events)-1]
	assert.Equal(t, stream.EventCancelled, last.Kind)

	_, err = f.svc.Cancel(ctx, msg.ID)
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
}

func TestService_SetActive(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	msg, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	disabled, err := f.svc.SetActive(ctx, msg.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.Active)
	assert.Equal(t, stream.EventDisabled, (*f.events)[len(*f.events)-1].Kind)

	enabled, err := f.svc.SetActive(ctx, msg.ID, true)
	require.NoError(t, err)
	assert.True(t, enabled.Active)
	assert.Equal(t, stream.EventEnabled, (*f.events)[len(*f.events)-1].Kind)
}

func TestService_Reschedule(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	msg, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	// Only failed messages can be rescheduled.
	_, err = f.svc.Reschedule(ctx, msg.ID, time.Now().UTC().Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFailed)

	errText := "gateway timeout"
	_, err = f.store.SetStatus(ctx, msg.ID, model.StatusFailed, msgrepo.SetStatusOpts{ErrorMessage: &errText})
	require.NoError(t, err)

	_, err = f.svc.Reschedule(ctx, msg.ID, time.Now().UTC().Add(-time.Hour))
	assert.ErrorIs(t, err, ErrPastSchedule)

	at := time.Now().UTC().Add(time.Hour)
	rescheduled, err := f.svc.Reschedule(ctx, msg.ID, at)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, rescheduled.Status)
	assert.Equal(t, at, rescheduled.ScheduledAt)
	// The retry count survives as delivery history.
	assert.Equal(t, 1, rescheduled.RetryCount)
}

func TestService_GetStatus_FallsBackToStore(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	msg, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	status, err := f.svc.GetStatus(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)

	_, err = f.svc.GetStatus(ctx, uuid.New())
	assert.ErrorIs(t, err, msgrepo.ErrMessageNotFound)
}

func TestService_GetStatus_SeesPollerTransitions(t *testing.T) {
	ctx := context.Background()

	store := msgrepo.NewMemoryStore()
	cache := newFakeCache()
	st := stream.New()

	svc := NewService(store, st, Options{Cache: cache})
	st.Subscribe(svc.CacheRefresher(ctx))

	msg, err := svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, status)

	// Pull the scheduled time into the past so the next tick delivers it.
	msg.ScheduledAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, store.Update(ctx, msg))

	p := poller.New(store, okSender{}, st, time.Hour, nil)
	p.Tick(ctx)

	stored, err := store.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusSent, stored.Status)

	// The cached status must follow the delivery, not stay pending.
	status, err = svc.GetStatus(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, status)
}

func TestService_ListByStatus(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	pending, err := f.svc.ListByStatus(ctx, model.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = f.svc.ListByStatus(ctx, model.Status("bogus"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_ListForCustomer(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	customer := model.Customer{
		ID:          uuid.New(),
		Name:        "Juan",
		PhoneNumber: "09171234567",
		Active:      true,
	}
	require.NoError(t, f.customers.Insert(ctx, customer))

	in := validInput()
	in.CustomerID = &customer.ID
	mine, err := f.svc.Schedule(ctx, in)
	require.NoError(t, err)

	other := validInput()
	other.Recipient = "09181234567"
	_, err = f.svc.Schedule(ctx, other)
	require.NoError(t, err)

	got, err := f.svc.ListForCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}

func TestService_List(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	first, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	second, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	_, err = f.svc.SetActive(ctx, second.ID, false)
	require.NoError(t, err)

	all, err := f.svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)
}

func TestService_Delete(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	msg, err := f.svc.Schedule(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, msg.ID))

	_, err = f.svc.Get(ctx, msg.ID)
	assert.ErrorIs(t, err, msgrepo.ErrMessageNotFound)
}
