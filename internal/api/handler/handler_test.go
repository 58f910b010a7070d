package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SULDev2024/ICPAIR/internal/config"
	"github.com/SULDev2024/ICPAIR/internal/push"
	"github.com/SULDev2024/ICPAIR/internal/subscription"
)

// fakeGateway lets tests control the push outcome.
type fakeGateway struct {
	invalid []string
	err     error
	sends   int
}

func (f *fakeGateway) SendBulk(_ context.Context, tokens []string, _, _ string, _ map[string]string) (*push.Report, error) {
	f.sends++
	if f.err != nil {
		return nil, f.err
	}
	return &push.Report{
		SuccessCount:  len(tokens) - len(f.invalid),
		FailureCount:  len(f.invalid),
		InvalidTokens: f.invalid,
	}, nil
}

type testEnv struct {
	handler *Handler
	mock    pgxmock.PgxPoolIface
	gateway *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := &fakeGateway{}
	cfg := &config.Config{
		Districts:            config.DefaultDistricts,
		SendTimeout:          time.Second,
		StaleSubscriptionAge: 6 * 30 * 24 * time.Hour,
	}
	h := New(Deps{
		Config:   cfg,
		Registry: subscription.NewRegistry(mock, logger),
		Gateway:  gw,
		Logger:   logger,
	})
	return &testEnv{handler: h, mock: mock, gateway: gw}
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSubscribe_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := postJSON(t, env.handler.Subscribe, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, env.handler.Subscribe, `{"address":"tok-a"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, env.handler.Subscribe, `{"address":"tok-a","scope":"Gotham"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Equal(t, "Gotham", errObj["detail"])
}

func TestSubscribe_OK(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	env.mock.ExpectQuery("upsert_subscription").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "tok-a", "Turksib").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "owner", "fcm_token", "district", "enabled", "created_at", "updated_at"}).
			AddRow(uuid.New(), (*string)(nil), "tok-a", "Turksib", true, now, now))

	rec := postJSON(t, env.handler.Subscribe, `{"address":"tok-a","scope":"Turksib"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["subscriptionId"])
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUnsubscribe_UnknownAddressSucceeds(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectExec("disable_subscription").
		WithArgs("tok-missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	rec := postJSON(t, env.handler.Unsubscribe, `{"address":"tok-missing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestPreferences_NotSubscribed(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("find_subscription").
		WithArgs("tok-x").
		WillReturnError(pgx.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/?address=tok-x", nil)
	rec := httptest.NewRecorder()
	env.handler.Preferences(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["subscribed"])
}

func TestSendAlert_Validation(t *testing.T) {
	env := newTestEnv(t)

	// pm10 missing: zero values must not be confused with absent fields.
	rec := postJSON(t, env.handler.SendAlert, `{"scope":"Turksib","pm25":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.gateway.sends)
}

func TestSendAlert_OK(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("find_subscribers_by_district").
		WithArgs("Turksib").
		WillReturnRows(pgxmock.NewRows([]string{"fcm_token"}).
			AddRow("tok-a").AddRow("tok-b"))

	rec := postJSON(t, env.handler.SendAlert, `{"scope":"Turksib","pm25":130,"pm10":210}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["sent"])
	assert.Equal(t, float64(0), body["failed"])
	assert.Equal(t, 1, env.gateway.sends)
}

func TestSendAlert_NoSubscribers(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("find_subscribers_by_district").
		WithArgs("Medeu").
		WillReturnRows(pgxmock.NewRows([]string{"fcm_token"}))

	rec := postJSON(t, env.handler.SendAlert, `{"scope":"Medeu","pm25":80,"pm10":90}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["sent"])
	assert.Zero(t, env.gateway.sends, "no delivery attempt without recipients")
}

func TestSendAlert_DeliveryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.err = errors.New("fcm unreachable")

	env.mock.ExpectQuery("find_subscribers_by_district").
		WithArgs("Turksib").
		WillReturnRows(pgxmock.NewRows([]string{"fcm_token"}).AddRow("tok-a"))

	rec := postJSON(t, env.handler.SendAlert, `{"scope":"Turksib","pm25":130,"pm10":210}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	errObj := decodeBody(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "DELIVERY_FAILED", errObj["code"])
}
