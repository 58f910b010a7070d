package alert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SULDev2024/ICPAIR/internal/push"
)

// fakeReadings serves canned readings per district.
type fakeReadings struct {
	data  map[string]*Reading
	errs  map[string]error
	calls int
}

func (f *fakeReadings) Latest(_ context.Context, district string) (*Reading, error) {
	f.calls++
	if err, ok := f.errs[district]; ok {
		return nil, err
	}
	return f.data[district], nil
}

// fakeSubs tracks tokens per district and records deletions.
type fakeSubs struct {
	tokens  map[string][]string
	deleted []string
}

func (f *fakeSubs) FindByScope(_ context.Context, scope string) ([]string, error) {
	return f.tokens[scope], nil
}

func (f *fakeSubs) DeleteMany(_ context.Context, addresses []string) (int64, error) {
	f.deleted = append(f.deleted, addresses...)
	for district, toks := range f.tokens {
		var kept []string
		for _, tok := range toks {
			drop := false
			for _, dead := range addresses {
				if tok == dead {
					drop = true
					break
				}
			}
			if !drop {
				kept = append(kept, tok)
			}
		}
		f.tokens[district] = kept
	}
	return int64(len(addresses)), nil
}

type pushCall struct {
	tokens []string
	title  string
	body   string
	data   map[string]string
}

// fakeGateway records sends and reports configurable invalid tokens.
type fakeGateway struct {
	sends   int
	last    pushCall
	invalid []string
	err     error
}

func (f *fakeGateway) SendBulk(_ context.Context, tokens []string, title, body string, data map[string]string) (*push.Report, error) {
	f.sends++
	f.last = pushCall{tokens: tokens, title: title, body: body, data: data}
	if f.err != nil {
		return nil, f.err
	}
	invalid := f.invalid
	return &push.Report{
		SuccessCount:  len(tokens) - len(invalid),
		FailureCount:  len(invalid),
		InvalidTokens: invalid,
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEvaluator(readings *fakeReadings, subs *fakeSubs, gw *fakeGateway, districts []string) (*Evaluator, *MemoryLedger) {
	ledger := NewMemoryLedger(time.Hour)
	return NewEvaluator(readings, subs, ledger, gw, districts, time.Second, testLogger()), ledger
}

func TestEvaluateDistrict_SendsAndSuppresses(t *testing.T) {
	ctx := context.Background()
	readings := &fakeReadings{data: map[string]*Reading{
		"Turksib": {District: "Turksib", PM25: 120, PM10: 200, ObservedAt: time.Now()},
	}}
	subs := &fakeSubs{tokens: map[string][]string{
		"Turksib": {"tok-a", "tok-b", "tok-c"},
	}}
	gw := &fakeGateway{}
	eval, ledger := newTestEvaluator(readings, subs, gw, []string{"Turksib"})

	ev, err := eval.EvaluateDistrict(ctx, "Turksib")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, LevelUnhealthy, ev.Level)
	assert.Equal(t, 3, ev.Recipients)
	assert.Equal(t, 3, ev.Delivered)
	assert.Equal(t, 1, gw.sends)
	assert.Equal(t, "🔴 Air Quality Alert - Turksib", gw.last.title)
	assert.Equal(t, "PM2.5: 120 µg/m³ (Unhealthy). Limit outdoor activities.", gw.last.body)

	suppressed, err := ledger.IsSuppressed(ctx, "Turksib", time.Now())
	require.NoError(t, err)
	assert.True(t, suppressed, "cooldown recorded after delivery")

	// Second pass inside the window: no gateway call.
	ev, err = eval.EvaluateDistrict(ctx, "Turksib")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Equal(t, 1, gw.sends)
}

func TestEvaluateDistrict_AcceptableAirIsQuiet(t *testing.T) {
	ctx := context.Background()
	readings := &fakeReadings{data: map[string]*Reading{
		"Medeu": {District: "Medeu", PM25: 40, PM10: 60},
	}}
	subs := &fakeSubs{tokens: map[string][]string{"Medeu": {"tok-a"}}}
	gw := &fakeGateway{}
	eval, ledger := newTestEvaluator(readings, subs, gw, []string{"Medeu"})

	ev, err := eval.EvaluateDistrict(ctx, "Medeu")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Zero(t, gw.sends)

	suppressed, _ := ledger.IsSuppressed(ctx, "Medeu", time.Now())
	assert.False(t, suppressed, "no cooldown recorded without an alert")
}

func TestEvaluateDistrict_NoDataNoSubscribers(t *testing.T) {
	ctx := context.Background()
	readings := &fakeReadings{data: map[string]*Reading{
		"Alatau": {District: "Alatau", PM25: 160, PM10: 100},
	}}
	subs := &fakeSubs{tokens: map[string][]string{}}
	gw := &fakeGateway{}
	eval, _ := newTestEvaluator(readings, subs, gw, []string{"Alatau", "Almaly"})

	// Severe reading but nobody subscribed.
	ev, err := eval.EvaluateDistrict(ctx, "Alatau")
	require.NoError(t, err)
	assert.Nil(t, ev)

	// No reading at all.
	ev, err = eval.EvaluateDistrict(ctx, "Almaly")
	require.NoError(t, err)
	assert.Nil(t, ev)

	assert.Zero(t, gw.sends)
}

func TestEvaluateDistrict_ReclaimsInvalidTokens(t *testing.T) {
	ctx := context.Background()
	readings := &fakeReadings{data: map[string]*Reading{
		"Turksib": {District: "Turksib", PM25: 120, PM10: 200},
	}}
	subs := &fakeSubs{tokens: map[string][]string{
		"Turksib": {"tok-a", "tok-dead", "tok-c"},
	}}
	gw := &fakeGateway{invalid: []string{"tok-dead"}}
	eval, ledger := newTestEvaluator(readings, subs, gw, []string{"Turksib"})

	ev, err := eval.EvaluateDistrict(ctx, "Turksib")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, []string{"tok-dead"}, ev.InvalidTokens)
	assert.Equal(t, 2, ev.Delivered)
	assert.Equal(t, 1, ev.Failed)

	assert.Equal(t, []string{"tok-dead"}, subs.deleted)
	assert.Equal(t, []string{"tok-a", "tok-c"}, subs.tokens["Turksib"])

	// Partial failure still records the cooldown.
	suppressed, _ := ledger.IsSuppressed(ctx, "Turksib", time.Now())
	assert.True(t, suppressed)
}

func TestEvaluateDistrict_BatchFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	readings := &fakeReadings{data: map[string]*Reading{
		"Turksib": {District: "Turksib", PM25: 120, PM10: 200},
	}}
	subs := &fakeSubs{tokens: map[string][]string{
		"Turksib": {"tok-a", "tok-b"},
	}}
	gw := &fakeGateway{err: errors.New("fcm unreachable")}
	eval, ledger := newTestEvaluator(readings, subs, gw, []string{"Turksib"})

	ev, err := eval.EvaluateDistrict(ctx, "Turksib")
	require.Error(t, err)
	assert.Nil(t, ev)

	suppressed, _ := ledger.IsSuppressed(ctx, "Turksib", time.Now())
	assert.False(t, suppressed, "whole-batch failure must not start the cooldown")
	assert.Empty(t, subs.deleted)
	assert.Len(t, subs.tokens["Turksib"], 2)
}

func TestEvaluateAll_ContainsPerDistrictFailures(t *testing.T) {
	ctx := context.Background()
	readings := &fakeReadings{
		data: map[string]*Reading{
			"Turksib": {District: "Turksib", PM25: 120, PM10: 200},
		},
		errs: map[string]error{
			"Medeu": errors.New("query timeout"),
		},
	}
	subs := &fakeSubs{tokens: map[string][]string{
		"Turksib": {"tok-a"},
	}}
	gw := &fakeGateway{}
	eval, _ := newTestEvaluator(readings, subs, gw, []string{"Medeu", "Turksib"})

	events := eval.EvaluateAll(ctx)
	require.Len(t, events, 1, "failure in one district must not stop the others")
	assert.Equal(t, "Turksib", events[0].District)
	assert.Equal(t, 1, gw.sends)
}
