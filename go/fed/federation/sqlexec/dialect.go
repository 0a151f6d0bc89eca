/*
Copyright 2026 The Fedgate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sqlexec

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"fedgate.io/fedgate/go/fed/federation/metadata"
	"fedgate.io/fedgate/go/fed/federrors"
	"fedgate.io/fedgate/go/fed/fedrpc"
	"fedgate.io/fedgate/go/sqlescape"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

// Dialect renders the parts of a scan query that differ between
// databases.
type Dialect struct {
	// Name is the database/sql driver name.
	Name        string
	quote       func(string) string
	placeholder func(n int) string
	normalize   func(dsn string) (string, error)
}

var (
	MySQL = Dialect{
		Name:        "mysql",
		quote:       sqlescape.Backtick.EscapeID,
		placeholder: questionMark,
		normalize:   normalizeMySQLDSN,
	}
	PostgreSQL = Dialect{
		Name:        "postgres",
		quote:       pq.QuoteIdentifier,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		normalize:   normalizePostgresDSN,
	}
	SQLite = Dialect{
		Name:        "sqlite",
		quote:       sqlescape.DoubleQuote.EscapeID,
		placeholder: questionMark,
		normalize:   func(dsn string) (string, error) { return dsn, nil },
	}
)

// DialectFor returns the dialect of a data source driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pq":
		return PostgreSQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, federrors.Errorf(fedrpc.Code_INVALID_ARGUMENT, "unsupported data source driver %q", driver)
}

// QuoteIdentifier quotes a table or column name.
func (d Dialect) QuoteIdentifier(name string) string { return d.quote(name) }

// Placeholder returns the marker of the n-th argument, counting from 1.
func (d Dialect) Placeholder(n int) string { return d.placeholder(n) }

// NormalizeDSN rewrites dsn into the form the planner expects: MySQL
// connections parse times in UTC, PostgreSQL URLs become key/value
// connection strings.
func (d Dialect) NormalizeDSN(dsn string) (string, error) {
	return d.normalize(dsn)
}

// Open opens the database of a data source. It does not connect.
func Open(ds *metadata.DataSource) (*sql.DB, Dialect, error) {
	d, err := DialectFor(ds.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	dsn, err := d.NormalizeDSN(ds.DSN)
	if err != nil {
		return nil, Dialect{}, federrors.Wrapf(err, "invalid %s data source", d.Name)
	}
	db, err := sql.Open(d.Name, dsn)
	if err != nil {
		return nil, Dialect{}, err
	}
	return db, d, nil
}

func questionMark(int) string { return "?" }

func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.Loc = time.UTC
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func normalizePostgresDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return pq.ParseURL(dsn)
	}
	return dsn, nil
}
