package executor

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Driver names registered with database/sql
const (
	ProviderPostgres = "postgres"
	ProviderMySQL    = "mysql"
	ProviderSQLite   = "sqlite3"
)

// NormalizeProvider maps provider aliases to database/sql driver names.
// PostgreSQL's driver is "postgres" and SQLite's is "sqlite3".
func NormalizeProvider(provider string) string {
	switch strings.ToLower(provider) {
	case "postgresql", "postgres":
		return ProviderPostgres
	case "sqlite", "sqlite3":
		return ProviderSQLite
	case "mysql":
		return ProviderMySQL
	default:
		return provider
	}
}

// DetectProvider guesses the provider from a connection string. URL schemes
// win over the substring heuristics applied to bare DSNs and paths.
func DetectProvider(connStr string) string {
	lower := strings.ToLower(connStr)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return ProviderPostgres
	case strings.HasPrefix(lower, "mysql://"):
		return ProviderMySQL
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "sqlite3://"),
		strings.HasPrefix(lower, "sqlite:"), strings.HasPrefix(lower, "file:"):
		return ProviderSQLite
	}

	if strings.Contains(lower, "://") {
		return ProviderPostgres
	}
	if strings.Contains(lower, "mysql") || strings.Contains(lower, "@tcp(") {
		return ProviderMySQL
	}
	if strings.Contains(lower, "sqlite") || lower == ":memory:" || strings.HasSuffix(lower, ".db") {
		return ProviderSQLite
	}
	return ProviderPostgres
}

// DataSourceName converts a connection URL into the form the driver expects
func DataSourceName(provider, connStr string) (string, error) {
	switch NormalizeProvider(provider) {
	case ProviderSQLite:
		for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite:"} {
			if strings.HasPrefix(connStr, prefix) {
				return strings.TrimPrefix(connStr, prefix), nil
			}
		}
		return connStr, nil

	case ProviderPostgres:
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			if _, err := pq.ParseURL(connStr); err != nil {
				return "", fmt.Errorf("invalid postgres url: %w", err)
			}
		}
		return connStr, nil

	case ProviderMySQL:
		if !strings.HasPrefix(connStr, "mysql://") {
			if _, err := mysql.ParseDSN(connStr); err != nil {
				return "", fmt.Errorf("invalid mysql dsn: %w", err)
			}
			return connStr, nil
		}
		return mysqlDSNFromURL(connStr)

	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

func mysqlDSNFromURL(connStr string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	query := u.Query()
	if len(query) > 0 {
		cfg.Params = make(map[string]string, len(query))
		for key := range query {
			cfg.Params[key] = query.Get(key)
		}
	}
	return cfg.FormatDSN(), nil
}

// Open connects to the database at connStr. An empty provider is detected
// from the connection string.
func Open(ctx context.Context, provider, connStr string) (*Executor, error) {
	if connStr == "" {
		return nil, fmt.Errorf("no database url configured")
	}
	if provider == "" {
		provider = DetectProvider(connStr)
	}
	driver := NormalizeProvider(provider)

	dsn, err := DataSourceName(driver, connStr)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory SQLite databases alive and shared
	if driver == ProviderSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewExecutor(db, driver), nil
}
