package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"
)

// DefaultTable is the table sessions are stored in unless configured otherwise
const DefaultTable = "console_sessions"

// PostgresStore persists sessions in Postgres. Passwords are sealed before
// they are written.
type PostgresStore struct {
	pool   *pgxpool.Pool
	sealer *Sealer
	table  string
}

// NewPostgresStore creates a store writing to table (quoted as an identifier).
func NewPostgresStore(pool *pgxpool.Pool, sealer *Sealer, table string) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{
		pool:   pool,
		sealer: sealer,
		table:  pq.QuoteIdentifier(table),
	}
}

// EnsureSchema creates the sessions table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id          UUID PRIMARY KEY,
	username    TEXT NOT NULL,
	password    TEXT NOT NULL,
	remote_addr INET,
	created_at  TIMESTAMPTZ NOT NULL,
	expires_at  TIMESTAMPTZ
)`, p.table)

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	sealed, err := p.sealer.Seal(s.Credentials.Password)
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, username, password, remote_addr, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	username = EXCLUDED.username,
	password = EXCLUDED.password,
	remote_addr = EXCLUDED.remote_addr,
	expires_at = EXCLUDED.expires_at`, p.table)

	_, err = p.pool.Exec(ctx, query,
		s.ID,
		s.Credentials.Username,
		sealed,
		inetFromAddr(s.RemoteAddr),
		s.CreatedAt,
		s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := fmt.Sprintf(`SELECT id, username, password, remote_addr, created_at, expires_at
FROM %s WHERE id = $1`, p.table)

	var (
		s          Session
		sealed     string
		remoteAddr pqtype.Inet
		expiresAt  *time.Time
	)
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Credentials.Username,
		&sealed,
		&remoteAddr,
		&s.CreatedAt,
		&expiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	password, err := p.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open password: %w", err)
	}
	s.Credentials.Password = password
	s.ExpiresAt = expiresAt
	if remoteAddr.Valid {
		s.RemoteAddr = remoteAddr.IPNet.IP.String()
	}
	return &s, nil
}

func (p *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, p.table)

	tag, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes every session whose expiry is before now.
func (p *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at <= $1`, p.table)

	tag, err := p.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// inetFromAddr converts "host:port" or a bare host into an inet value. Hosts
// that are not IP literals are stored as NULL.
func inetFromAddr(addr string) pqtype.Inet {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return pqtype.Inet{}
	}
	bits := 128
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		bits = 32
	}
	return pqtype.Inet{
		IPNet: net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)},
		Valid: true,
	}
}
