package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb"
)

const ScheduleState = `
	CREATE TABLE IF NOT EXISTS schedule_state (
		ledger VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		error VARCHAR NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_run_at TIMESTAMP NULL,
		PRIMARY KEY (ledger)
	);
`
const TransactionsSchema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id VARCHAR NOT NULL,
		ledger VARCHAR NOT NULL,
		booked_at TIMESTAMP NOT NULL,
		amount VARCHAR NOT NULL,
		category VARCHAR,
		counterparty VARCHAR,
		source_document VARCHAR,
		PRIMARY KEY (ledger, id)
	);
`
const AnalysisRunsSchema = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id VARCHAR NOT NULL,
		ledger VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL,
		granularity VARCHAR NOT NULL,
		horizon INTEGER NOT NULL,
		floor VARCHAR NOT NULL,
		payload JSON,
		PRIMARY KEY (ledger, id)
	);
`

var bootQueries = []string{
	ScheduleState,
	TransactionsSchema,
	AnalysisRunsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
