// Package pg provides PostgreSQL persistence for the runner: saved
// applications, user accounts, and usage counters.
//
// Connect establishes a pgx connection pool with retry and verification;
// Migrate applies the embedded goose migrations through the pgx stdlib
// adapter. The Store wraps the pool with typed queries.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool); err != nil {
//		return err
//	}
//
//	store := pg.NewStore(pool)
//
// The stateless link path never touches the database; only saved apps, user
// management, and stats counters do.
package pg
