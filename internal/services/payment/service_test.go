package payment

import (
	"context"
	"sort"
	"testing"
	"time"

	domainerrors "github.com/sohamgherwada/PayQI/internal/errors"
	"github.com/sohamgherwada/PayQI/internal/models"
	"github.com/sohamgherwada/PayQI/internal/repositories"
	"github.com/sohamgherwada/PayQI/internal/services/gateway"
	"github.com/sohamgherwada/PayQI/internal/services/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePaymentRepo is an in-memory PaymentRepository. It mimics the row
// semantics the engine relies on: assigned ids, newest-first listing and
// save counting so tests can prove idempotent redelivery writes nothing.
type fakePaymentRepo struct {
	rows      map[uint]*models.Payment
	nextID    uint
	saveCount int
	clock     time.Time
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		rows:   make(map[uint]*models.Payment),
		nextID: 1,
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	p.ID = f.nextID
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	p.CreatedAt = f.clock
	p.UpdatedAt = f.clock
	clone := *p
	f.rows[p.ID] = &clone
	return nil
}

func (f *fakePaymentRepo) Update(_ context.Context, p *models.Payment) error {
	f.saveCount++
	f.clock = f.clock.Add(time.Second)
	p.UpdatedAt = f.clock
	clone := *p
	f.rows[p.ID] = &clone
	return nil
}

func (f *fakePaymentRepo) GetByIDForMerchant(_ context.Context, id, merchantID uint) (*models.Payment, error) {
	p, ok := f.rows[id]
	if !ok || p.MerchantID != merchantID {
		return nil, repositories.ErrPaymentNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) ListByMerchant(_ context.Context, merchantID uint, offset, limit int) ([]models.Payment, error) {
	var all []models.Payment
	for _, p := range f.rows {
		if p.MerchantID == merchantID {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakePaymentRepo) UpdateWithLock(_ context.Context, providerInvoiceID string, fn func(p *models.Payment) error) error {
	for _, p := range f.rows {
		if p.ProviderInvoiceID != nil && *p.ProviderInvoiceID == providerInvoiceID {
			if err := fn(p); err != nil {
				if err == repositories.ErrNoUpdate {
					return nil
				}
				return err
			}
			f.saveCount++
			f.clock = f.clock.Add(time.Second)
			p.UpdatedAt = f.clock
			return nil
		}
	}
	return repositories.ErrPaymentNotFound
}

type MockAllocator struct{ mock.Mock }

func (m *MockAllocator) Allocate(merchantID, paymentID uint) (ledger.Allocation, error) {
	args := m.Called(merchantID, paymentID)
	return args.Get(0).(ledger.Allocation), args.Error(1)
}

type MockConverter struct{ mock.Mock }

func (m *MockConverter) Convert(ctx context.Context, usdAmount decimal.Decimal) decimal.Decimal {
	args := m.Called(ctx, usdAmount)
	return args.Get(0).(decimal.Decimal)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateInvoice(ctx context.Context, amountUSD decimal.Decimal, currency string, merchantID uint) (*gateway.Invoice, error) {
	args := m.Called(ctx, amountUSD, currency, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Invoice), args.Error(1)
}

func newTestService(repo *fakePaymentRepo, alloc *MockAllocator, conv *MockConverter, gw *MockGateway) Service {
	return NewService(repo, alloc, conv, gw, &NoopMetricsCollector{}, zap.NewNop())
}

func TestCreatePayment_LedgerCurrency(t *testing.T) {
	repo := newFakePaymentRepo()
	alloc := new(MockAllocator)
	conv := new(MockConverter)
	gw := new(MockGateway)

	alloc.On("Allocate", uint(1), uint(1)).Return(ledger.Allocation{
		Address: "rSharedWallet",
		Tag:     uint32(1_000_001),
	}, nil)
	conv.On("Convert", mock.Anything, decimal.NewFromInt(10)).Return(decimal.NewFromInt(20))

	s := newTestService(repo, alloc, conv, gw)

	result, err := s.CreatePayment(context.Background(), 1, decimal.NewFromInt(10), "XRP")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPending, result.Status)
	require.NotNil(t, result.PayAddress)
	assert.Equal(t, "rSharedWallet", *result.PayAddress)
	require.NotNil(t, result.ProviderInvoiceID)
	assert.Equal(t, "xrp_1_1000001", *result.ProviderInvoiceID)
	assert.Nil(t, result.CheckoutURL)

	row := repo.rows[result.PaymentID]
	require.NotNil(t, row)
	assert.Equal(t, models.ProviderLedger, row.Provider)
	assert.Equal(t, "XRP", row.Currency)
	assert.Contains(t, row.RawPayload, `"amount_xrp":"20"`)
	assert.Contains(t, row.RawPayload, `"destination_tag":1000001`)

	gw.AssertNotCalled(t, "CreateInvoice")
}

func TestCreatePayment_GatewayCurrency(t *testing.T) {
	repo := newFakePaymentRepo()
	alloc := new(MockAllocator)
	conv := new(MockConverter)
	gw := new(MockGateway)

	gw.On("CreateInvoice", mock.Anything, decimal.NewFromInt(50), "BTC", uint(9)).Return(&gateway.Invoice{
		PaymentID:   "inv-123",
		PayAddress:  "bc1qdeposit",
		CheckoutURL: "https://pay.example/inv-123",
		Raw:         []byte(`{"payment_id":"inv-123"}`),
	}, nil)

	s := newTestService(repo, alloc, conv, gw)

	result, err := s.CreatePayment(context.Background(), 9, decimal.NewFromInt(50), "btc")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPending, result.Status)
	require.NotNil(t, result.CheckoutURL)
	assert.Equal(t, "https://pay.example/inv-123", *result.CheckoutURL)

	row := repo.rows[result.PaymentID]
	assert.Equal(t, models.ProviderGateway, row.Provider)
	assert.Equal(t, "BTC", row.Currency)
	assert.Equal(t, `{"payment_id":"inv-123"}`, row.RawPayload)

	alloc.AssertNotCalled(t, "Allocate")
}

func TestCreatePayment_CurrencyCaseInsensitive(t *testing.T) {
	for _, input := range []string{"XRP", "xrp", "Xrp"} {
		t.Run(input, func(t *testing.T) {
			repo := newFakePaymentRepo()
			alloc := new(MockAllocator)
			conv := new(MockConverter)
			alloc.On("Allocate", mock.Anything, mock.Anything).Return(ledger.Allocation{Address: "r1", Tag: 5}, nil)
			conv.On("Convert", mock.Anything, mock.Anything).Return(decimal.NewFromInt(1))

			s := newTestService(repo, alloc, conv, new(MockGateway))

			result, err := s.CreatePayment(context.Background(), 2, decimal.NewFromInt(1), input)
			require.NoError(t, err)
			assert.Equal(t, "XRP", repo.rows[result.PaymentID].Currency)
			assert.Equal(t, models.ProviderLedger, repo.rows[result.PaymentID].Provider)
		})
	}
}

func TestCreatePayment_RejectedBeforePersist(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency string
		wantErr  error
	}{
		{"unsupported currency", decimal.NewFromInt(5), "XMR", domainerrors.ErrUnsupportedCurrency},
		{"zero amount", decimal.Zero, "BTC", domainerrors.ErrInvalidAmount},
		{"negative amount", decimal.NewFromInt(-1), "XRP", domainerrors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakePaymentRepo()
			s := newTestService(repo, new(MockAllocator), new(MockConverter), new(MockGateway))

			_, err := s.CreatePayment(context.Background(), 1, tt.amount, tt.currency)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.rows, "rejected request must leave zero rows")
		})
	}
}

func TestCreatePayment_EnrichmentFailureMarksFailed(t *testing.T) {
	t.Run("missing wallet config", func(t *testing.T) {
		repo := newFakePaymentRepo()
		alloc := new(MockAllocator)
		alloc.On("Allocate", mock.Anything, mock.Anything).Return(ledger.Allocation{}, domainerrors.ErrWalletNotConfigured)

		s := newTestService(repo, alloc, new(MockConverter), new(MockGateway))

		_, err := s.CreatePayment(context.Background(), 1, decimal.NewFromInt(10), "XRP")
		assert.ErrorIs(t, err, domainerrors.ErrWalletNotConfigured)

		require.Len(t, repo.rows, 1, "the pending row must survive as the audit trail")
		assert.Equal(t, models.PaymentStatusFailed, repo.rows[1].Status)
	})

	t.Run("gateway rejection", func(t *testing.T) {
		repo := newFakePaymentRepo()
		gw := new(MockGateway)
		gw.On("CreateInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrInvoiceCreation)

		s := newTestService(repo, new(MockAllocator), new(MockConverter), gw)

		_, err := s.CreatePayment(context.Background(), 1, decimal.NewFromInt(10), "ETH")
		assert.ErrorIs(t, err, domainerrors.ErrInvoiceCreation)

		require.Len(t, repo.rows, 1)
		assert.Equal(t, models.PaymentStatusFailed, repo.rows[1].Status)
	})
}

func TestGetPayment_ScopedToOwner(t *testing.T) {
	repo := newFakePaymentRepo()
	_ = repo.Create(context.Background(), &models.Payment{MerchantID: 1, Currency: "BTC", Status: models.PaymentStatusPending})

	s := newTestService(repo, new(MockAllocator), new(MockConverter), new(MockGateway))

	got, err := s.GetPayment(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.MerchantID)

	// Another merchant sees not-found, same as a nonexistent payment.
	_, err = s.GetPayment(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotFound)
	_, err = s.GetPayment(context.Background(), 99, 1)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotFound)
}

func TestListPayments_NewestFirstPaginated(t *testing.T) {
	repo := newFakePaymentRepo()
	for i := 0; i < 5; i++ {
		_ = repo.Create(context.Background(), &models.Payment{MerchantID: 1, Currency: "BTC"})
	}
	_ = repo.Create(context.Background(), &models.Payment{MerchantID: 2, Currency: "BTC"})

	s := newTestService(repo, new(MockAllocator), new(MockConverter), new(MockGateway))

	first, err := s.ListPayments(context.Background(), 1, 0, 2)
	require.NoError(t, err)
	second, err := s.ListPayments(context.Background(), 1, 2, 2)
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, []uint{5, 4}, []uint{first[0].ID, first[1].ID})
	assert.Equal(t, []uint{3, 2}, []uint{second[0].ID, second[1].ID})

	for _, p := range append(first, second...) {
		assert.Equal(t, uint(1), p.MerchantID)
	}
}

func webhookFixture(t *testing.T) (*fakePaymentRepo, Service) {
	t.Helper()
	repo := newFakePaymentRepo()
	invoiceID := "inv-1"
	p := &models.Payment{
		MerchantID:        1,
		Currency:          "BTC",
		Status:            models.PaymentStatusPending,
		Provider:          models.ProviderGateway,
		ProviderInvoiceID: &invoiceID,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return repo, newTestService(repo, new(MockAllocator), new(MockConverter), new(MockGateway))
}

func TestApplyWebhookOutcome_Transition(t *testing.T) {
	repo, s := webhookFixture(t)

	err := s.ApplyWebhookOutcome(context.Background(), "inv-1", Outcome{
		Status: models.PaymentStatusCompleted,
		TxHash: "0xabc",
		Raw:    `{"payment_status":"finished"}`,
	})
	require.NoError(t, err)

	row := repo.rows[1]
	assert.Equal(t, models.PaymentStatusCompleted, row.Status)
	require.NotNil(t, row.TxHash)
	assert.Equal(t, "0xabc", *row.TxHash)
	assert.Equal(t, `{"payment_status":"finished"}`, row.RawPayload)
}

func TestApplyWebhookOutcome_IdempotentRedelivery(t *testing.T) {
	repo, s := webhookFixture(t)

	outcome := Outcome{Status: models.PaymentStatusCompleted, TxHash: "0xabc", Raw: "{}"}
	require.NoError(t, s.ApplyWebhookOutcome(context.Background(), "inv-1", outcome))

	firstWrite := *repo.rows[1]
	saves := repo.saveCount

	require.NoError(t, s.ApplyWebhookOutcome(context.Background(), "inv-1", outcome))

	assert.Equal(t, firstWrite, *repo.rows[1], "redelivery must not change stored fields")
	assert.Equal(t, saves, repo.saveCount, "redelivery must not write")
}

func TestApplyWebhookOutcome_ConflictingTerminalOutcome(t *testing.T) {
	repo, s := webhookFixture(t)

	require.NoError(t, s.ApplyWebhookOutcome(context.Background(), "inv-1", Outcome{
		Status: models.PaymentStatusCompleted,
		TxHash: "0xabc",
	}))

	err := s.ApplyWebhookOutcome(context.Background(), "inv-1", Outcome{
		Status: models.PaymentStatusFailed,
	})
	assert.ErrorIs(t, err, ErrOutcomeConflict)
	assert.Equal(t, models.PaymentStatusCompleted, repo.rows[1].Status)
}

func TestApplyWebhookOutcome_UnknownInvoice(t *testing.T) {
	_, s := webhookFixture(t)

	err := s.ApplyWebhookOutcome(context.Background(), "no-such-invoice", Outcome{
		Status: models.PaymentStatusCompleted,
	})
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotFound)
}
