// Package server wraps the standard http.Server with graceful shutdown,
// environment-driven configuration, and functional options.
//
// Typical usage with signal-aware shutdown:
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	if err := srv.Run(ctx, mux)(); err != nil {
//		return err
//	}
//
// Run returns a func() error so the server composes with errgroup-style
// lifecycle coordination when the application manages multiple components.
package server
