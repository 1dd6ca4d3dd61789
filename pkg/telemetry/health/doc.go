// Package health provides liveness, readiness and version endpoints for the
// yamllist HTTP server.
//
// # Endpoints
//
//   - /health: Liveness, always 200 while the process runs
//   - /ready: Readiness, runs every registered component check
//   - /version: Build information
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("history", func(ctx context.Context) error {
//	    _, err := store.Count(ctx, history.Query{})
//	    return err
//	})
//
//	r.Get("/health", checker.LivenessHandler())
//	r.Get("/ready", checker.ReadinessHandler())
//
// Checks run concurrently and each is bounded by the checker's timeout.
package health
