package datasource

import (
	"testing"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const createPatients = `CREATE TABLE patients (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email VARCHAR(255),
	age INTEGER,
	weight REAL,
	active BOOLEAN,
	birth_date DATE
)`

const insertPatients = `INSERT INTO patients (id, name, email, age, weight, active, birth_date) VALUES
	(1, 'Anne', 'anne@example.org', 34, 61.5, 1, '1990-03-14'),
	(2, 'Bram', 'bram@example.org', 52, 84, 1, '1972-07-01'),
	(3, 'Carla', NULL, 71, 70.2, 0, '1953-11-23'),
	(4, 'Daan', 'daan@example.com', 19, NULL, 1, '2005-05-30'),
	(5, 'Eva', 'eva@example.com', 45, 66, 0, '1979-09-09'),
	(6, 'Joanne', 'joanne@example.com', 28, 58, 1, '1996-01-20')`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec(createPatients)
	db.MustExec(insertPatients)
	return db
}

func rowNames(rows []types.Row) []string {
	result := make([]string, 0, len(rows))
	for _, row := range rows {
		result = append(result, row["name"].(string))
	}
	return result
}
