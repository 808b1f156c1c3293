package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpHandler "ticket-box-office/internal/adapter/http/handler"
	redisStorage "ticket-box-office/internal/adapter/storage/redis"
	"ticket-box-office/internal/core/domain"
	"ticket-box-office/internal/core/ports"
	"ticket-box-office/internal/service"
	"ticket-box-office/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack over in-memory storage: real
// HTTP layer, middleware, handlers, and services, with miniredis backing
// the trade cache and rate limit store and in-memory postgres repos.
type testApp struct {
	router    http.Handler
	buyerRepo *inMemoryBuyerRepo
	allocRepo *inMemoryAllocationRepo
	ledger    *inMemoryLedgerRepo
	proceeds  *inMemoryProceedsRepo
	mr        *miniredis.Miniredis
}

func newTestApp(t *testing.T, items map[string]domain.ItemClass) *testApp {
	return buildTestApp(t, items, true)
}

func buildTestApp(t *testing.T, items map[string]domain.ItemClass, rateLimited bool) *testApp {
	t.Helper()

	inventory, err := domain.NewInventory(items)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	buyerRepo := newInMemoryBuyerRepo()
	allocRepo := newInMemoryAllocationRepo()
	ledgerRepo := newInMemoryLedgerRepo()
	proceedsRepo := newInMemoryProceedsRepo()
	transactor := newInMemoryTransactor()

	require.NoError(t, allocRepo.Seed(context.Background(), inventory.InitialAllocation()))

	log := logger.New("error", false)

	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService("integration-test-secret-key-0001", time.Hour, "ticket-box-office")
	authSvc := service.NewAuthService(buyerRepo, hashSvc, tokenSvc)
	tradeSvc := service.NewTradeService(
		inventory,
		allocRepo,
		ledgerRepo,
		proceedsRepo,
		redisStorage.NewTradeCache(rdb),
		transactor,
		log,
	)

	var rateLimitStore *redisStorage.RateLimitStore
	if rateLimited {
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		TradeSvc:       tradeSvc,
		TokenSvc:       tokenSvc,
		Currency:       inventory.Currency(),
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})

	return &testApp{
		router:    router,
		buyerRepo: buyerRepo,
		allocRepo: allocRepo,
		ledger:    ledgerRepo,
		proceeds:  proceedsRepo,
		mr:        mr,
	}
}

func ticketInventory() map[string]domain.ItemClass {
	return map[string]domain.ItemClass{
		"frontRow": {UnitPrice: 3, MaxQuantity: 3, Currency: "IST"},
		"balcony":  {UnitPrice: 5, MaxQuantity: 5, Currency: "IST"},
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates a buyer and returns a valid bearer token.
func (a *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":     username,
		"password":     "correct-horse-battery",
		"display_name": "Test Buyer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)
	return env.Data.Token
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.ErrorCode
}

type tradeResult struct {
	ID            string           `json:"id"`
	ReferenceID   string           `json:"reference_id"`
	Items         map[string]int64 `json:"items"`
	TotalPrice    int64            `json:"total_price"`
	ChargedAmount int64            `json:"charged_amount"`
	Credit        int64            `json:"credit"`
	Currency      string           `json:"currency"`
	Status        string           `json:"status"`
}

func tradeBody(referenceID string, amount int64, items map[string]int64) map[string]any {
	return map[string]any{
		"reference_id": referenceID,
		"payment":      map[string]any{"amount": amount, "currency": "IST"},
		"items":        items,
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, ticketInventory())

	rec := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis")
}

func TestFullTradeLifecycle(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "alice")

	// Two front-row tickets at 3 each: listed 6, surcharge truncates back
	// to 6, payment of 7 leaves no credit.
	rec := app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("order-001", 7, map[string]int64{"frontRow": 2}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trade tradeResult
	decodeData(t, rec, &trade)
	assert.Equal(t, int64(6), trade.TotalPrice)
	assert.Equal(t, int64(6), trade.ChargedAmount)
	assert.Equal(t, int64(0), trade.Credit)
	assert.Equal(t, "SETTLED", trade.Status)
	assert.Equal(t, "IST", trade.Currency)

	// One front-row ticket left.
	rec = app.do(t, http.MethodGet, "/api/v1/inventory", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inv struct {
		Currency string `json:"currency"`
		Items    []struct {
			Class     string `json:"class"`
			Remaining int64  `json:"remaining"`
		} `json:"items"`
	}
	decodeData(t, rec, &inv)
	remaining := map[string]int64{}
	for _, it := range inv.Items {
		remaining[it.Class] = it.Remaining
	}
	assert.Equal(t, int64(1), remaining["frontRow"])
	assert.Equal(t, int64(5), remaining["balcony"])

	// Purchase history holds the settled bag.
	rec = app.do(t, http.MethodGet, "/api/v1/buyers/me/purchases", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var purchases []struct {
		Items map[string]int64 `json:"items"`
	}
	decodeData(t, rec, &purchases)
	require.Len(t, purchases, 1)
	assert.Equal(t, int64(2), purchases[0].Items["frontRow"])

	// Proceeds received the charged amount.
	total, err := app.proceeds.Total(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
}

func TestTradeRejectedWhenInventoryShort(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "bob")

	// Only 3 front-row tickets exist.
	rec := app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("order-big", 100, map[string]int64{"frontRow": 4}))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "TRD_001", errorCode(t, rec))

	// Rejection left every ledger untouched.
	alloc, err := app.allocRepo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), alloc["frontRow"])

	total, err := app.proceeds.Total(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	rec = app.do(t, http.MethodGet, "/api/v1/buyers/me/purchases", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var purchases []json.RawMessage
	decodeData(t, rec, &purchases)
	assert.Empty(t, purchases)
}

func TestTradeRejectedWhenPaymentShort(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "carol")

	// Required payment for 2 front-row is 6; offer 5.
	rec := app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("order-cheap", 5, map[string]int64{"frontRow": 2}))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "TRD_002", errorCode(t, rec))

	alloc, err := app.allocRepo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), alloc["frontRow"])
}

func TestTradeCurrencyMismatch(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "dave")

	body := tradeBody("order-usd", 10, map[string]int64{"frontRow": 1})
	body["payment"] = map[string]any{"amount": int64(10), "currency": "USD"}

	rec := app.do(t, http.MethodPost, "/api/v1/trades", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TRD_005", errorCode(t, rec))
}

func TestTradeReplayReturnsOriginalAcknowledgment(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "erin")

	body := tradeBody("order-replay", 7, map[string]int64{"frontRow": 1})

	rec := app.do(t, http.MethodPost, "/api/v1/trades", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first tradeResult
	decodeData(t, rec, &first)

	rec = app.do(t, http.MethodPost, "/api/v1/trades", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var second tradeResult
	decodeData(t, rec, &second)

	assert.Equal(t, first.ID, second.ID)

	// The replay did not touch the allocation again.
	alloc, err := app.allocRepo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), alloc["frontRow"])
}

func TestSurchargeOverpaymentCreditsBalance(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "frank")

	// Two balcony tickets: listed 10, surcharge lifts required to 11.
	// Payment 20 still credits only 11 - 10 = 1.
	rec := app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("order-balcony", 20, map[string]int64{"balcony": 2}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trade tradeResult
	decodeData(t, rec, &trade)
	assert.Equal(t, int64(10), trade.TotalPrice)
	assert.Equal(t, int64(11), trade.ChargedAmount)
	assert.Equal(t, int64(1), trade.Credit)

	rec = app.do(t, http.MethodGet, "/api/v1/buyers/me/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Balance int64 `json:"balance"`
		Present bool  `json:"present"`
	}
	decodeData(t, rec, &balance)
	assert.True(t, balance.Present)
	assert.Equal(t, int64(1), balance.Balance)
}

func TestCreditOverwrittenByNextTrade(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "grace")

	// First trade leaves credit 1.
	rec := app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("order-1", 11, map[string]int64{"balcony": 2}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var trade tradeResult
	decodeData(t, rec, &trade)
	require.Equal(t, int64(1), trade.Credit)

	// Second trade has no overpayment; the stored credit is overwritten
	// to 0, not accumulated.
	rec = app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("order-2", 6, map[string]int64{"frontRow": 2}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/buyers/me/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Balance int64 `json:"balance"`
		Present bool  `json:"present"`
	}
	decodeData(t, rec, &balance)
	assert.True(t, balance.Present)
	assert.Equal(t, int64(0), balance.Balance)
}

func TestDrawBalance(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "heidi")

	// Leave a credit of 5: balcony pair costs 11, pay 15... credit is
	// required - total = 1, so seed a larger credit directly instead.
	buyer, err := app.buyerRepo.GetByUsername(context.Background(), "heidi")
	require.NoError(t, err)
	require.NoError(t, app.ledger.SetCredit(context.Background(), nil, buyer.ID, 5))

	// Draw strictly below the balance succeeds.
	rec := app.do(t, http.MethodPost, "/api/v1/buyers/me/balance/draw", token,
		map[string]any{"amount": int64(3)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var draw struct {
		Balance int64 `json:"balance"`
	}
	decodeData(t, rec, &draw)
	assert.Equal(t, int64(2), draw.Balance)

	// An exact-equal draw is rejected.
	rec = app.do(t, http.MethodPost, "/api/v1/buyers/me/balance/draw", token,
		map[string]any{"amount": int64(2)})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "TRD_004", errorCode(t, rec))
}

func TestTradeRequiresAuthentication(t *testing.T) {
	app := newTestApp(t, ticketInventory())

	rec := app.do(t, http.MethodPost, "/api/v1/trades", "",
		tradeBody("order-noauth", 7, map[string]int64{"frontRow": 1}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_003", errorCode(t, rec))

	rec = app.do(t, http.MethodPost, "/api/v1/trades", "not-a-jwt",
		tradeBody("order-badtoken", 7, map[string]int64{"frontRow": 1}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	app.registerAndLogin(t, "ivan")

	rec := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":     "ivan",
		"password":     "another-password-1",
		"display_name": "Ivan Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "AUTH_002", errorCode(t, rec))
}

func TestSellOutSequence(t *testing.T) {
	app := newTestApp(t, ticketInventory())
	token := app.registerAndLogin(t, "judy")

	// Drain all three front-row tickets one at a time.
	for i := 0; i < 3; i++ {
		rec := app.do(t, http.MethodPost, "/api/v1/trades", token,
			tradeBody(fmt.Sprintf("seat-%d", i), 4, map[string]int64{"frontRow": 1}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	// The class is sold out; further trades reject.
	rec := app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("seat-late", 4, map[string]int64{"frontRow": 1}))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "TRD_001", errorCode(t, rec))

	// Other classes are still on sale.
	rec = app.do(t, http.MethodPost, "/api/v1/trades", token,
		tradeBody("balcony-1", 6, map[string]int64{"balcony": 1}))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// History shows all four settled trades in order.
	rec = app.do(t, http.MethodGet, "/api/v1/buyers/me/purchases", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var purchases []struct {
		Items map[string]int64 `json:"items"`
	}
	decodeData(t, rec, &purchases)
	require.Len(t, purchases, 4)
	assert.Equal(t, int64(1), purchases[3].Items["balcony"])
}
