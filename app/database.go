package main

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Database is the opaque handle returned by Open: the validated header,
// a page source over the backing file, and the schema loaded eagerly at
// open time (sqlite_schema is always small relative to the rest of the
// file, so there is no benefit to deferring it).
type Database struct {
	header      *Header
	pages       *PageSource
	objects     []ObjectInformation
	usableSize  uint32
	visitBudget uint32
	config      DatabaseConfig
	file        io.Closer
	log         *logrus.Entry
}

// Open validates and loads a SQLite file at path according to opts.
func Open(path string, opts ...DatabaseOption) (*Database, error) {
	cfg := DefaultDatabaseConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.Logger.WithField("component", "database")

	f, err := os.Open(path)
	if err != nil {
		return nil, wrapErr("open", ErrShortRead, map[string]interface{}{"path": path, "error": err.Error()})
	}

	db, err := openFile(f, *cfg, log)
	if err != nil {
		f.Close()
		return nil, err
	}
	return db, nil
}

// openFile is the Open continuation split out so tests can exercise it
// against an in-memory fixture without touching the filesystem.
func openFile(f interface {
	io.ReaderAt
	io.Closer
}, cfg DatabaseConfig, log *logrus.Entry) (*Database, error) {
	headerBuf := make([]byte, headerSize)
	if _, err := f.ReadAt(headerBuf, 0); err != nil {
		return nil, wrapErr("open", ErrShortRead, map[string]interface{}{"stage": "header", "error": err.Error()})
	}

	header, err := parseHeader(headerBuf, cfg.Validation)
	if err != nil {
		return nil, err
	}
	log.WithField("page_size", header.PageSize).Debug("parsed database header")

	usableSize := header.PageSize - uint32(header.ReservedSpace)
	visitBudget := header.DBSizeInPages
	if visitBudget == 0 {
		visitBudget = 1 << 20
	}

	pages := newPageSource(f, header.PageSize)

	objects, err := readSchema(pages, usableSize, visitBudget)
	if err != nil {
		return nil, wrapErr("open", ErrCorruptTree, map[string]interface{}{"stage": "schema", "error": err.Error()})
	}
	log.WithField("object_count", len(objects)).Debug("loaded schema")

	return &Database{
		header:      header,
		pages:       pages,
		objects:     objects,
		usableSize:  usableSize,
		visitBudget: visitBudget,
		config:      cfg,
		file:        f,
		log:         log,
	}, nil
}

func (db *Database) Close() error {
	if db.file == nil {
		return nil
	}
	return db.file.Close()
}

// DBInfo returns the summary the `.dbinfo` command reports.
func (db *Database) DBInfo() (*Header, int) {
	count := len(tableNames(db.objects))
	return db.header, count
}

// Tables returns every user table name in the schema.
func (db *Database) Tables() []string {
	return tableNames(db.objects)
}

// Query parses and executes a SELECT statement against the database,
// bounded by the configured read timeout.
func (db *Database) Query(ctx context.Context, sql string) (*QueryResult, error) {
	if db.config.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.config.ReadTimeout)
		defer cancel()
	}

	q, err := parseQuery(sql)
	if err != nil {
		return nil, err
	}

	type queryOutcome struct {
		result *QueryResult
		err    error
	}
	done := make(chan queryOutcome, 1)
	go func() {
		result, err := executeQuery(db, q)
		done <- queryOutcome{result, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctxErr("query", ErrShortRead, "reason", "read timeout exceeded")
	case outcome := <-done:
		return outcome.result, outcome.err
	}
}
