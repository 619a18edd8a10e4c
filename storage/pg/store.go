package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Stat metrics tracked per user.
const (
	MetricGenerated      = "generated"
	MetricViewStateless  = "view_stateless"
	MetricViewPersistent = "view_persistent"
)

var (
	// ErrAppNotFound indicates no saved app matches the user and slug.
	ErrAppNotFound = errors.New("app not found")

	// ErrUserNotFound indicates no user matches the given key or id.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateKey indicates the user key is already taken.
	ErrDuplicateKey = errors.New("user key already exists")
)

// User is an account that can sign links and own saved apps.
type User struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats aggregates per-user usage counters.
type Stats struct {
	Generated      int64 `json:"generated"`
	ViewStateless  int64 `json:"view_stateless"`
	ViewPersistent int64 `json:"view_persistent"`
	AppsCount      int64 `json:"apps_count"`
}

// UserWithStats is a user joined with its usage counters.
type UserWithStats struct {
	User
	Stats Stats `json:"stats"`
}

// App is a persistently saved application.
type App struct {
	UserID      int64     `json:"user_id"`
	Slug        string    `json:"slug"`
	HTMLContent string    `json:"html_content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store provides typed access to runner persistence. Safe for concurrent use;
// all methods go through the underlying pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureAdmin guarantees an account carrying the current server key exists
// and returns it. The admin is whichever user holds the server key: if a row
// already has it, that row wins regardless of id, so rotating SECRET_KEY to a
// key some user already registered promotes that user instead of corrupting
// the unique key constraint. Only when no row holds the key does the oldest
// account adopt it, or get created on first boot. Called once at startup,
// after migrations.
func (s *Store) EnsureAdmin(ctx context.Context, key string) (*User, error) {
	holder, err := s.UserByKey(ctx, key)
	if err == nil {
		return holder, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("look up server key holder: %w", err)
	}

	var u User
	err = s.pool.QueryRow(ctx,
		`SELECT id, key, comment, created_at FROM users ORDER BY id LIMIT 1`,
	).Scan(&u.ID, &u.Key, &u.Comment, &u.CreatedAt)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = s.pool.QueryRow(ctx,
			`INSERT INTO users (key, comment) VALUES ($1, 'Admin')
			 RETURNING id, key, comment, created_at`,
			key,
		).Scan(&u.ID, &u.Key, &u.Comment, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("create admin user: %w", err)
		}
		return &u, nil

	case err != nil:
		return nil, fmt.Errorf("look up admin user: %w", err)
	}

	// The server key rotated to a value nobody holds; the oldest account
	// follows it. A concurrent registration of the same key between the
	// lookup above and this update surfaces as a unique violation, and the
	// registered row is then the holder.
	err = s.pool.QueryRow(ctx,
		`UPDATE users SET key = $1 WHERE id = $2
		 RETURNING id, key, comment, created_at`,
		key, u.ID,
	).Scan(&u.ID, &u.Key, &u.Comment, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return s.UserByKey(ctx, key)
		}
		return nil, fmt.Errorf("update admin key: %w", err)
	}
	return &u, nil
}

// CreateUser registers a new user key.
func (s *Store) CreateUser(ctx context.Context, key, comment string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (key, comment) VALUES ($1, $2)
		 RETURNING id, key, comment, created_at`,
		key, comment,
	).Scan(&u.ID, &u.Key, &u.Comment, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// UserByKey resolves a user by its signing key.
func (s *Store) UserByKey(ctx context.Context, key string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, key, comment, created_at FROM users WHERE key = $1`,
		key,
	).Scan(&u.ID, &u.Key, &u.Comment, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user by key: %w", err)
	}
	return &u, nil
}

// Users returns all users without stats, in id order. Used for signature
// attribution on the resolve path, where the stats join would be wasted work.
func (s *Store) Users(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, key, comment, created_at FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list user keys: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Key, &u.Comment, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Ping verifies database connectivity, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ListUsers returns all users with aggregated stats, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]UserWithStats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT u.id, u.key, u.comment, u.created_at,
		        COALESCE(SUM(st.count) FILTER (WHERE st.metric = $1), 0),
		        COALESCE(SUM(st.count) FILTER (WHERE st.metric = $2), 0),
		        COALESCE(SUM(st.count) FILTER (WHERE st.metric = $3), 0),
		        (SELECT COUNT(*) FROM apps a WHERE a.user_id = u.id)
		 FROM users u
		 LEFT JOIN stats st ON st.user_id = u.id
		 GROUP BY u.id
		 ORDER BY u.id`,
		MetricGenerated, MetricViewStateless, MetricViewPersistent,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []UserWithStats
	for rows.Next() {
		var u UserWithStats
		if err := rows.Scan(
			&u.ID, &u.Key, &u.Comment, &u.CreatedAt,
			&u.Stats.Generated, &u.Stats.ViewStateless, &u.Stats.ViewPersistent,
			&u.Stats.AppsCount,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SaveApp creates or updates a user's app under the given slug.
func (s *Store) SaveApp(ctx context.Context, userID int64, slug, html string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO apps (user_id, slug, html_content) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, slug)
		 DO UPDATE SET html_content = EXCLUDED.html_content, updated_at = now()`,
		userID, slug, html,
	)
	if err != nil {
		return fmt.Errorf("save app %q: %w", slug, err)
	}
	return nil
}

// GetApp fetches a user's app by slug.
func (s *Store) GetApp(ctx context.Context, userID int64, slug string) (*App, error) {
	var a App
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, slug, html_content, created_at, updated_at
		 FROM apps WHERE user_id = $1 AND slug = $2`,
		userID, slug,
	).Scan(&a.UserID, &a.Slug, &a.HTMLContent, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get app %q: %w", slug, err)
	}
	return &a, nil
}

// ListApps returns a user's apps ordered by most recently updated.
func (s *Store) ListApps(ctx context.Context, userID int64) ([]App, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, slug, html_content, created_at, updated_at
		 FROM apps WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	defer rows.Close()

	var apps []App
	for rows.Next() {
		var a App
		if err := rows.Scan(&a.UserID, &a.Slug, &a.HTMLContent, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan app: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// DeleteApp removes a user's app by slug.
func (s *Store) DeleteApp(ctx context.Context, userID int64, slug string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM apps WHERE user_id = $1 AND slug = $2`,
		userID, slug,
	)
	if err != nil {
		return fmt.Errorf("delete app %q: %w", slug, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppNotFound
	}
	return nil
}

// IncrStat bumps a usage counter for a user. Counter writes are best-effort
// from the caller's perspective; failures must not break serving.
func (s *Store) IncrStat(ctx context.Context, userID int64, metric string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO stats (user_id, metric, count) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, metric) DO UPDATE SET count = stats.count + 1`,
		userID, metric,
	)
	if err != nil {
		return fmt.Errorf("increment %s for user %d: %w", metric, userID, err)
	}
	return nil
}
