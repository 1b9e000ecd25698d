package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func NewConfig(host, user, password, port, dbname, sslmode string) Config {
	return Config{
		host:     host,
		user:     user,
		password: password,
		port:     port,
		dbname:   dbname,
		sslmode:  sslmode,
	}
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "sensormaster"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	p, err := pgxpool.New(ctx, config.ConnStr())
	if err != nil {
		return nil, err
	}

	err = p.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return p, nil
}

var (
	ErrNoRows         = errors.New("no rows in result set")
	ErrAlreadyExist   = errors.New("row already exists")
	ErrAlreadySettled = errors.New("entry is already in a terminal state")
	ErrNoID           = errors.New("data contains no id")
	ErrConflict       = errors.New("transaction conflict")
	ErrQueryRow       = errors.New("could not execute query")
	ErrStoreFailed    = errors.New("could not store data")
)

func isDuplicateKeyErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // duplicate key value violates unique constraint
	}
	return false
}

func isSerializationErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

type Storage struct {
	pool *pgxpool.Pool
}

func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func New(ctx context.Context, config Config) (*Storage, error) {
	pool, err := NewPool(ctx, config)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) Initialize(ctx context.Context) error {
	return s.createTables(ctx)
}

func (s *Storage) createTables(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS devices (
			sensor_id     TEXT PRIMARY KEY,
			sensor_type   TEXT NOT NULL DEFAULT '',
			sensor_name   TEXT NOT NULL DEFAULT '',
			hardware_info TEXT NOT NULL DEFAULT '',
			firmware_version TEXT NOT NULL DEFAULT '',
			ip_address    TEXT NOT NULL DEFAULT '',
			mac_address   TEXT NOT NULL DEFAULT '',
			capabilities  JSONB NOT NULL DEFAULT '[]',
			last_check_in timestamp with time zone NULL,
			last_config_hash TEXT NOT NULL DEFAULT '',
			last_script_execution timestamp with time zone NULL,
			last_reported_script_version TEXT NOT NULL DEFAULT '',
			last_reported_script_id BIGINT NOT NULL DEFAULT 0,
			created_on    timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_on   timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS config_templates (
			id           BIGSERIAL PRIMARY KEY,
			config_name  TEXT NOT NULL,
			config_data  JSONB NOT NULL,
			priority     INT NOT NULL DEFAULT 100,
			is_active    BOOLEAN NOT NULL DEFAULT TRUE,
			version      INT NOT NULL DEFAULT 1,
			sensor_id    TEXT NULL,
			sensor_type  TEXT NULL,
			created_on   timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			modified_on  timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS command_queue (
			id           BIGSERIAL PRIMARY KEY,
			sensor_id    TEXT NOT NULL REFERENCES devices (sensor_id) ON DELETE CASCADE,
			command_type TEXT NOT NULL,
			command_data JSONB NOT NULL DEFAULT '{}',
			priority     INT NOT NULL DEFAULT 100,
			status       TEXT NOT NULL DEFAULT 'pending',
			created_at   timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			delivered_at timestamp with time zone NULL,
			completed_at timestamp with time zone NULL,
			expires_at   timestamp with time zone NULL,
			result_message TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_command_queue_delivery
			ON command_queue (sensor_id, status, priority, created_at);`,
		`CREATE TABLE IF NOT EXISTS scripts (
			id             BIGSERIAL PRIMARY KEY,
			sensor_id      TEXT NOT NULL REFERENCES devices (sensor_id) ON DELETE CASCADE,
			script_content TEXT NOT NULL,
			script_version TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			is_current     BOOLEAN NOT NULL DEFAULT TRUE,
			uploaded_at    timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_scripts_current
			ON scripts (sensor_id) WHERE is_current;`,
	}

	for _, stmt := range ddl {
		_, err := s.pool.Exec(ctx, stmt)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

type txContextKey struct{}

// querier is satisfied by both pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Storage) querier(ctx context.Context) querier {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// WithTx runs fn inside a single transaction. Accessors called with the
// context passed to fn share that transaction, so a protocol endpoint can
// combine any number of reads and writes atomically. Serialization failures
// surface as ErrConflict so callers can retry after a re-read.
func (s *Storage) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}

	err = fn(context.WithValue(ctx, txContextKey{}, tx))
	if err != nil {
		tx.Rollback(ctx)
		if isSerializationErr(err) {
			return ErrConflict
		}
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		if isSerializationErr(err) {
			return ErrConflict
		}
		return err
	}

	return nil
}
