package store

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

// Location is a parsed store URI.
type Location struct {
	URI     string
	dialect dialect
	// Path is the database file for sqlite stores and empty otherwise.
	Path string
	dsn  string
}

// IsFile reports whether the store lives in a local database file.
func (l Location) IsFile() bool { return l.dialect == dialectSQLite }

// ParseURI accepts sqlite://<path>, postgres://… and postgresql://….
func ParseURI(uri string) (Location, error) {
	switch {
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return Location{}, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedScheme)
		}
		dsn, err := sqliteDSN(path)
		if err != nil {
			return Location{}, err
		}
		return Location{URI: uri, dialect: dialectSQLite, Path: path, dsn: dsn}, nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return Location{URI: uri, dialect: dialectPostgres, dsn: uri}, nil
	}
	return Location{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, uri)
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// sqliteDSN builds a file: URI for path. The path is made absolute and
// percent-encoded so that '?', '#' and '%' in file names reach SQLite intact.
func sqliteDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve sqlite path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: sqlitePragmas}
	return u.String(), nil
}

// HasScheme reports whether s already names a supported store URI.
func HasScheme(s string) bool {
	for _, p := range []string{"sqlite://", "postgres://", "postgresql://"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func (d dialect) driver() string {
	if d == dialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders into $n for postgres.
func (d dialect) rebind(q string) string {
	if d != dialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
