package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/mtlminiapps/runner/core/codec"
	"github.com/mtlminiapps/runner/core/logger"
	"github.com/mtlminiapps/runner/core/signer"
	"github.com/mtlminiapps/runner/storage/pg"
)

// Store is the persistence the HTTP surface depends on. *pg.Store satisfies
// it; tests use an in-memory fake.
type Store interface {
	Users(ctx context.Context) ([]pg.User, error)
	UserByKey(ctx context.Context, key string) (*pg.User, error)
	CreateUser(ctx context.Context, key, comment string) (*pg.User, error)
	ListUsers(ctx context.Context) ([]pg.UserWithStats, error)
	SaveApp(ctx context.Context, userID int64, slug, html string) error
	GetApp(ctx context.Context, userID int64, slug string) (*pg.App, error)
	ListApps(ctx context.Context, userID int64) ([]pg.App, error)
	DeleteApp(ctx context.Context, userID int64, slug string) error
	IncrStat(ctx context.Context, userID int64, metric string) error
	Ping(ctx context.Context) error
}

// Config holds HTTP-surface settings.
type Config struct {
	// Domain is the public base URL prefixed to generated links.
	Domain string `env:"APP_DOMAIN" envDefault:"http://localhost:8080"`

	// MaxDecodedSize caps decompressed payload content.
	MaxDecodedSize int64 `env:"MAX_DECODED_SIZE" envDefault:"10485760"` // 10 MiB
}

// Service wires the codec, authenticator, and store behind HTTP handlers.
type Service struct {
	cfg     Config
	log     *slog.Logger
	store   Store
	codec   *codec.Codec
	auth    *signer.Authenticator // server-key authenticator
	adminID int64
}

// New constructs the service. admin is the account bound to the server key,
// established by pg.Store.EnsureAdmin at startup.
func New(cfg Config, log *slog.Logger, store Store, serverKey []byte, adminID int64) (*Service, error) {
	c := codec.New(codec.WithMaxDecodedSize(cfg.MaxDecodedSize))

	auth, err := signer.New(serverKey, c)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:     cfg,
		log:     log,
		store:   store,
		codec:   c,
		auth:    auth,
		adminID: adminID,
	}, nil
}

// resolvePayload verifies a payload against the server key first, then
// against every user key, so links signed by individual users resolve and
// views attribute to the key owner. ownerID is zero when only the server key
// matched but no matching user row exists.
func (s *Service) resolvePayload(ctx context.Context, payload string) (content string, ownerID int64, err error) {
	content, err = s.auth.ResolveLink(payload)
	if err == nil {
		return content, s.adminID, nil
	}
	if !errors.Is(err, signer.ErrSignatureInvalid) {
		// Malformed structure or codec failure; no other key can fix it.
		return "", 0, err
	}

	users, uerr := s.store.Users(ctx)
	if uerr != nil {
		s.log.ErrorContext(ctx, "user lookup during resolve", logger.Error(uerr))
		return "", 0, err
	}

	for _, u := range users {
		auth, aerr := signer.New([]byte(u.Key), s.codec)
		if aerr != nil {
			continue
		}
		if content, cerr := auth.ResolveLink(payload); cerr == nil {
			return content, u.ID, nil
		} else if !errors.Is(cerr, signer.ErrSignatureInvalid) {
			return "", 0, cerr
		}
	}

	return "", 0, err
}

// userForKey authenticates an API key, returning ErrInvalidAPIKey for
// unknown keys so handlers map it to a 403.
func (s *Service) userForKey(ctx context.Context, key string) (*pg.User, error) {
	if key == "" {
		return nil, ErrInvalidAPIKey
	}
	u, err := s.store.UserByKey(ctx, key)
	if errors.Is(err, pg.ErrUserNotFound) {
		return nil, ErrInvalidAPIKey
	}
	return u, err
}

func (s *Service) isAdmin(u *pg.User) bool {
	return u != nil && u.ID == s.adminID
}

// countView bumps a usage counter without failing the request.
func (s *Service) countView(ctx context.Context, userID int64, metric string) {
	if userID == 0 {
		return
	}
	if err := s.store.IncrStat(ctx, userID, metric); err != nil {
		s.log.WarnContext(ctx, "stat increment failed",
			logger.UserID(userID), slog.String("metric", metric), logger.Error(err))
	}
}

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// validSlug reports whether a slug is safe to route and store.
func validSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
