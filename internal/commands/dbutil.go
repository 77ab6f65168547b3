package commands

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/taskmill/taskmill/internal/app"
	"github.com/taskmill/taskmill/internal/models"
	"github.com/taskmill/taskmill/internal/output"
	"github.com/taskmill/taskmill/internal/store"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

func openDB() (*DB, func(), error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.InitDBWithPath(dbPath)
	if err != nil {
		return nil, nil, err
	}

	return db, func() { _ = db.Close() }, nil
}

func withDB(fn func(db *DB) error) error {
	db, closeDB, err := openDB()
	if err != nil {
		return cmdErr(err)
	}
	defer closeDB()

	if err := fn(db); err != nil {
		return cmdErr(err)
	}
	return nil
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	var de models.DomainError
	if errors.As(err, &de) {
		attrs = append(attrs, "code", de.ErrorCode())
		for k, v := range de.Context() {
			attrs = append(attrs, k, v)
		}
	}
	slog.Error("command error", attrs...)
	if printErr := output.PrintError(err); printErr != nil {
		slog.Error("failed to print error response", "error", printErr.Error())
	}
	return printedError{err: err}
}
