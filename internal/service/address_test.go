package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/phonebook/internal/domain"
	apperrors "github.com/utafrali/phonebook/pkg/errors"
	"github.com/utafrali/phonebook/pkg/logger"
)

const (
	testPhone   = "+79061112233"
	testAddress = "Lavochkina"
)

// --- Mocks ---

type mockAddressRepository struct {
	mock.Mock
}

func (m *mockAddressRepository) Get(ctx context.Context, phone string) (string, bool, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockAddressRepository) Set(ctx context.Context, phone, address string) error {
	args := m.Called(ctx, phone, address)
	return args.Error(0)
}

func (m *mockAddressRepository) SetIfAbsent(ctx context.Context, phone, address string) (bool, error) {
	args := m.Called(ctx, phone, address)
	return args.Bool(0), args.Error(1)
}

func (m *mockAddressRepository) Delete(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishAddressCreated(ctx context.Context, addr *domain.Address) error {
	return m.Called(ctx, addr).Error(0)
}

func (m *mockPublisher) PublishAddressUpdated(ctx context.Context, addr *domain.Address) error {
	return m.Called(ctx, addr).Error(0)
}

func (m *mockPublisher) PublishAddressDeleted(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(repo *mockAddressRepository, pub *mockPublisher) *AddressService {
	return NewAddressService(repo, pub, newTestLogger())
}

func storeErr() error {
	return apperrors.Store("redis connection failure", errors.New("dial tcp: connection refused"))
}

func requireAppErrorType(t *testing.T, err error, errType string) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errType, appErr.Type)
	return appErr
}

// --- Lookup ---

func TestLookup_Found(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return(testAddress, true, nil)

	addr, err := newTestService(repo, pub).Lookup(context.Background(), testPhone)

	require.NoError(t, err)
	assert.Equal(t, &domain.Address{PhoneNumber: testPhone, Address: testAddress}, addr)
	repo.AssertExpectations(t)
	pub.AssertNotCalled(t, "PublishAddressCreated", mock.Anything, mock.Anything)
}

func TestLookup_NormalizesInput(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return(testAddress, true, nil)

	addr, err := newTestService(repo, pub).Lookup(context.Background(), "+7 (906) 111-22-33")

	require.NoError(t, err)
	assert.Equal(t, testPhone, addr.PhoneNumber)
}

func TestLookup_NotFound(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return("", false, nil)

	_, err := newTestService(repo, pub).Lookup(context.Background(), testPhone)

	appErr := requireAppErrorType(t, err, apperrors.TypeNotFound)
	assert.Contains(t, appErr.Message, testPhone)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestLookup_StoreError(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return("", false, storeErr())

	_, err := newTestService(repo, pub).Lookup(context.Background(), testPhone)

	requireAppErrorType(t, err, apperrors.TypeStore)
	assert.True(t, errors.Is(err, apperrors.ErrStore))
	assert.True(t, strings.HasPrefix(err.Error(), "lookup address: "), err.Error())
}

func TestInvalidPhone_NeverReachesStore(t *testing.T) {
	ctx := context.Background()
	for _, input := range []string{"12345", "phone123", "79061112233abc", "96061112233", ""} {
		t.Run(input, func(t *testing.T) {
			repo, pub := new(mockAddressRepository), new(mockPublisher)
			svc := newTestService(repo, pub)

			_, err := svc.Lookup(ctx, input)
			appErr := requireAppErrorType(t, err, apperrors.TypeValidation)
			assert.Contains(t, appErr.Data, "phone_number")

			_, err = svc.Create(ctx, input, testAddress)
			requireAppErrorType(t, err, apperrors.TypeValidation)

			_, err = svc.Update(ctx, input, testAddress)
			requireAppErrorType(t, err, apperrors.TypeValidation)

			requireAppErrorType(t, svc.Delete(ctx, input), apperrors.TypeValidation)

			repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "SetIfAbsent", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("SetIfAbsent", mock.Anything, testPhone, testAddress).Return(true, nil)
	pub.On("PublishAddressCreated", mock.Anything, &domain.Address{PhoneNumber: testPhone, Address: testAddress}).Return(nil)

	addr, err := newTestService(repo, pub).Create(context.Background(), "+7-906-111-22-33", testAddress)

	require.NoError(t, err)
	assert.Equal(t, testPhone, addr.PhoneNumber)
	assert.Equal(t, testAddress, addr.Address)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreate_Conflict(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("SetIfAbsent", mock.Anything, testPhone, "Sovetskaya").Return(false, nil)

	_, err := newTestService(repo, pub).Create(context.Background(), testPhone, "Sovetskaya")

	appErr := requireAppErrorType(t, err, apperrors.TypeConflict)
	assert.Equal(t, testPhone, appErr.Data["phone_number"])
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "PublishAddressCreated", mock.Anything, mock.Anything)
}

func TestCreate_StoreError(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("SetIfAbsent", mock.Anything, testPhone, testAddress).Return(false, storeErr())

	_, err := newTestService(repo, pub).Create(context.Background(), testPhone, testAddress)

	requireAppErrorType(t, err, apperrors.TypeStore)
	pub.AssertNotCalled(t, "PublishAddressCreated", mock.Anything, mock.Anything)
}

func TestCreate_PublishFailureIsLoggedNotReturned(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("SetIfAbsent", mock.Anything, testPhone, testAddress).Return(true, nil)
	pub.On("PublishAddressCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	var buf bytes.Buffer
	svc := NewAddressService(repo, pub, logger.NewWithWriter("phonebook-test", "info", &buf))

	addr, err := svc.Create(context.Background(), testPhone, testAddress)

	require.NoError(t, err)
	assert.Equal(t, testAddress, addr.Address)
	assert.Contains(t, buf.String(), "address created")
	assert.Contains(t, buf.String(), "failed to publish address event")
	assert.Contains(t, buf.String(), "broker down")
}

// --- Update ---

func TestUpdate_Success(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return(testAddress, true, nil)
	repo.On("Set", mock.Anything, testPhone, "Sovetskaya").Return(nil)
	pub.On("PublishAddressUpdated", mock.Anything, &domain.Address{PhoneNumber: testPhone, Address: "Sovetskaya"}).Return(nil)

	addr, err := newTestService(repo, pub).Update(context.Background(), testPhone, "Sovetskaya")

	require.NoError(t, err)
	assert.Equal(t, "Sovetskaya", addr.Address)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return("", false, nil)

	_, err := newTestService(repo, pub).Update(context.Background(), testPhone, "Sovetskaya")

	requireAppErrorType(t, err, apperrors.TypeNotFound)
	repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "PublishAddressUpdated", mock.Anything, mock.Anything)
}

func TestUpdate_StoreErrorOnGet(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return("", false, storeErr())

	_, err := newTestService(repo, pub).Update(context.Background(), testPhone, "Sovetskaya")

	requireAppErrorType(t, err, apperrors.TypeStore)
	repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_StoreErrorOnSet(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Get", mock.Anything, testPhone).Return(testAddress, true, nil)
	repo.On("Set", mock.Anything, testPhone, "Sovetskaya").Return(storeErr())

	_, err := newTestService(repo, pub).Update(context.Background(), testPhone, "Sovetskaya")

	requireAppErrorType(t, err, apperrors.TypeStore)
	pub.AssertNotCalled(t, "PublishAddressUpdated", mock.Anything, mock.Anything)
}

// --- Delete ---

func TestDelete_Success(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Delete", mock.Anything, testPhone).Return(true, nil)
	pub.On("PublishAddressDeleted", mock.Anything, testPhone).Return(nil)

	err := newTestService(repo, pub).Delete(context.Background(), testPhone)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Delete", mock.Anything, testPhone).Return(false, nil)

	err := newTestService(repo, pub).Delete(context.Background(), testPhone)

	requireAppErrorType(t, err, apperrors.TypeNotFound)
	pub.AssertNotCalled(t, "PublishAddressDeleted", mock.Anything, mock.Anything)
}

func TestDelete_StoreError(t *testing.T) {
	repo, pub := new(mockAddressRepository), new(mockPublisher)
	repo.On("Delete", mock.Anything, testPhone).Return(false, storeErr())

	err := newTestService(repo, pub).Delete(context.Background(), testPhone)

	requireAppErrorType(t, err, apperrors.TypeStore)
}

func TestNewAddressService_NilPublisher(t *testing.T) {
	repo := new(mockAddressRepository)
	repo.On("Delete", mock.Anything, testPhone).Return(true, nil)

	svc := NewAddressService(repo, nil, newTestLogger())

	assert.NoError(t, svc.Delete(context.Background(), testPhone))
}
