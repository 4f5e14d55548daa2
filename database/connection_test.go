package database_test

import (
	"context"
	"testing"

	"botoclock/database"
	"botoclock/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_InvalidURL(t *testing.T) {
	db, err := database.NewConnection(context.Background(), "postgres://%zz")
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to parse database URL")
}

func TestNewConnection_SessionTimezoneIsUTC(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	var tz string
	require.NoError(t, testDB.DB.QueryRow(context.Background(), `SHOW timezone`).Scan(&tz))
	assert.Equal(t, "UTC", tz)
}
