// Package featurestore persists the enabled/disabled intent of features so
// it survives restarts.
//
// A Saver is the persistence collaborator handed to feature.Registry. After
// every user-driven change of a persistable feature it writes a full snapshot
// of the registry to a Store:
//
//	store, err := featurestore.Open(ctx, cfg, log)
//	saver := featurestore.NewSaver(store,
//		featurestore.WithLogger(log),
//		featurestore.WithNonPersistable(cfg.NonPersistable...),
//	)
//	reg := feature.NewRegistry(feature.WithRegistryPersister(saver))
//	saver.Track(reg)
//	// register features ...
//	unknown, err := saver.Restore(ctx, reg)
//
// Backends: MemoryStore, FileStore (YAML), RedisStore (one hash),
// PostgresStore and SQLiteStore (feature_states table, created by embedded
// goose migrations) and MongoStore (one document per feature). Every Save replaces
// the previous snapshot.
//
// Save failures triggered through NotifyChanged are logged, never returned:
// a broken disk must not break a toggle.
package featurestore
