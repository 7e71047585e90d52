package fulfillment

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	fulfilled map[string]bool // claim code -> already fulfilled
	orders    map[string]bool // claim code -> exists
	lastStaff string
	err       error
}

func (m *mockRepo) Fulfill(_ context.Context, claimCode, staffID string) (*Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.orders[claimCode] {
		return nil, ErrOrderNotFound
	}
	if m.fulfilled[claimCode] {
		return nil, ErrAlreadyFulfilled
	}
	m.fulfilled[claimCode] = true
	m.lastStaff = staffID
	return &Record{OrderID: "o1", StaffID: staffID, ProcessedAt: time.Now()}, nil
}

func (m *mockRepo) ListFulfilled(_ context.Context) ([]FulfilledOrder, error) {
	return nil, m.err
}

func newMockRepo(codes ...string) *mockRepo {
	orders := make(map[string]bool, len(codes))
	for _, c := range codes {
		orders[c] = true
	}
	return &mockRepo{orders: orders, fulfilled: map[string]bool{}}
}

func TestFulfill_Success(t *testing.T) {
	repo := newMockRepo("CODE1234")
	svc := NewService(repo)

	rec, err := svc.Fulfill(context.Background(), "staff-1", "CODE1234")

	require.NoError(t, err)
	assert.Equal(t, "staff-1", rec.StaffID)
	assert.Equal(t, "staff-1", repo.lastStaff)
}

func TestFulfill_SecondCallIsAlreadyFulfilled(t *testing.T) {
	svc := NewService(newMockRepo("CODE1234"))

	_, err := svc.Fulfill(context.Background(), "staff-1", "CODE1234")
	require.NoError(t, err)

	_, err = svc.Fulfill(context.Background(), "staff-2", "CODE1234")
	require.ErrorIs(t, err, ErrAlreadyFulfilled)
}

func TestFulfill_UnknownCode(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Fulfill(context.Background(), "staff-1", "NOPE")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFulfill_EmptyCode(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("should not be reached")
	svc := NewService(repo)

	_, err := svc.Fulfill(context.Background(), "staff-1", "")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestFulfill_StorageErrorWrapped(t *testing.T) {
	repo := newMockRepo("CODE1234")
	repo.err = errors.New("connection reset")
	svc := NewService(repo)

	_, err := svc.Fulfill(context.Background(), "staff-1", "CODE1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fulfill order")
}
