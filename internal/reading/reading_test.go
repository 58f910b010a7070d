package reading

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Latest_NoData(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("latest_reading").
		WithArgs("Nauryzbay").
		WillReturnError(pgx.ErrNoRows)

	r, err := NewStore(mock).Latest(context.Background(), "Nauryzbay")
	require.NoError(t, err, "missing data is a gap, not an error")
	assert.Nil(t, r)
}

func TestStore_Latest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	observed := time.Now().Add(-10 * time.Minute)
	mock.ExpectQuery("latest_reading").
		WithArgs("Turksib").
		WillReturnRows(pgxmock.NewRows([]string{"pm25", "pm10", "observed_at"}).
			AddRow(120.0, 200.0, observed))

	r, err := NewStore(mock).Latest(context.Background(), "Turksib")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "Turksib", r.District)
	assert.Equal(t, 120.0, r.PM25)
	assert.Equal(t, 200.0, r.PM10)
	assert.Equal(t, observed, r.ObservedAt)
}

func TestStore_Insert_NotifiesListeners(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("insert_reading").
		WithArgs("Turksib", 120.0, 200.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("pg_notify").
		WithArgs(NotifyChannel, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	err = NewStore(mock).Insert(context.Background(), "Turksib", 120, 200, time.Time{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
