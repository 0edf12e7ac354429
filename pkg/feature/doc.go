// Package feature implements the lifecycle engine behind independently
// pluggable features: behaviour units the host registers once at startup and
// that users or policies switch on and off while the application runs.
//
// # Architecture
//
// Every feature owns a Lifecycle holding three booleans:
//
//  1. enabled - what the user (or a restored setting) asked for
//  2. blocked - an external suppression such as a compatibility policy
//  3. active  - derived, always enabled && !blocked
//
// State is committed before any hook runs. Each hook call goes through a
// fault-isolating invoker that recovers panics, wraps the failure in a
// *CallbackError, hands it to the FaultReporter and carries on with the next
// hook. None of the Lifecycle operations return errors.
//
// Two collaborators are injected rather than reached through globals:
//   - FaultReporter receives hook failures (see package diagnostic)
//   - Persister is notified after user-driven SetEnabled/Toggle calls for
//     persistable features (see package featurestore)
//
// # Usage
//
//	reg := feature.NewRegistry(
//		feature.WithRegistryReporter(reporter),
//		feature.WithRegistryPersister(saver),
//	)
//
//	flight := reg.MustRegister(feature.Descriptor{
//		Name:        "Flight",
//		Description: "Allows you to fly.",
//		Category:    feature.CategoryMovement,
//		Tags:        []string{"fly"},
//		Restricted:  true,
//	}, feature.HookFuncs{
//		Enable:  func(ctx context.Context) error { return startFlying() },
//		Disable: func(ctx context.Context) error { return stopFlying() },
//	})
//
//	flight.Toggle(ctx)                    // user click, persisted
//	reg.EnforceCompatibility(ctx, true)   // policy, blocks Flight, not persisted
//	flight.IsEnabled()                    // true, intent kept
//	flight.IsActive()                     // false
//
// # Blocking
//
// SetEnabled(true) on a blocked feature records the intent silently: no hook
// runs and nothing is persisted. Lifting the block with SetBlocked(false)
// then runs OnToggle and OnEnable. ActivateOnStartup always runs the hooks
// because restored features need their side effects even while blocked.
//
// # Timing
//
// HasElapsedMillis, HasElapsedAtRate and Throttle let features throttle their
// own periodic work. They hold no shared state.
//
// # Concurrency
//
// A Lifecycle is driven from a single logical context. The Registry map is
// guarded by a lock, but callers that mutate features from several goroutines
// must serialise those calls themselves.
package feature
