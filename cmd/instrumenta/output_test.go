package main

import (
	"bytes"
	"context"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mmcdole/instrumenta/internal/domain"
)

type fakeHealth struct {
	server    domain.ServerHealth
	serverErr error
	db        domain.DatabaseHealth
	dbErr     error
}

func (f fakeHealth) ServerHealth(context.Context) (domain.ServerHealth, error) {
	return f.server, f.serverErr
}

func (f fakeHealth) DatabaseHealth(context.Context) (domain.DatabaseHealth, error) {
	return f.db, f.dbErr
}

func (f fakeHealth) TestConnection(context.Context) bool { return f.serverErr == nil }

func TestPrintHealth(t *testing.T) {
	var buf bytes.Buffer
	err := printHealth(context.Background(), &buf, fakeHealth{
		server: domain.ServerHealth{Status: "OK", Uptime: 42},
		db:     domain.DatabaseHealth{Status: "OK", Database: "neo4j"},
	})
	assert.NilError(t, err)
	assert.Check(t, is.Contains(buf.String(), "server:   OK (uptime 42s)"))
	assert.Check(t, is.Contains(buf.String(), "database: OK neo4j"))
}

func TestPrintHealthReportsOutage(t *testing.T) {
	var buf bytes.Buffer
	dbErr := &domain.APIError{Status: 503, Message: "database unreachable"}
	err := printHealth(context.Background(), &buf, fakeHealth{
		server: domain.ServerHealth{Status: "OK"},
		dbErr:  dbErr,
	})
	assert.ErrorIs(t, err, dbErr)
	assert.Check(t, is.Contains(buf.String(), "database: down (database unreachable)"))
}
