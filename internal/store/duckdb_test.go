package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafbio/consist/internal/testutil"
)

func TestLoadJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	loader := New(db, testutil.NewTestLogger(t))
	defer loader.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE OR REPLACE TABLE "drugs" AS SELECT * FROM read_json_auto(?)`)).
		WithArgs("out/drugbank_5.1_2024-03-14.jsonl").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "drugs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17431))

	rows, err := loader.LoadJSON(context.Background(), "drugs", "out/drugbank_5.1_2024-03-14.jsonl")
	require.NoError(t, err)
	assert.Equal(t, int64(17431), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadJSON_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	loader := New(db, nil)
	defer loader.Close()

	mock.ExpectExec("CREATE OR REPLACE TABLE").
		WillReturnError(assert.AnError)

	_, err = loader.LoadJSON(context.Background(), "drugs", "missing.jsonl")
	require.Error(t, err)
}

func TestLoadJSON_RejectsBadTableNames(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	loader := New(db, nil)
	defer loader.Close()

	for _, table := range []string{"", "drop table", `x"y`, "a;b"} {
		_, err := loader.LoadJSON(context.Background(), table, "f.jsonl")
		assert.Error(t, err, "table %q", table)
	}
}
