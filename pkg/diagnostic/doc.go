// Package diagnostic provides fault-reporting collaborators for the feature
// lifecycle engine. A hook failure never stops the host; it ends up here.
//
//	journal := diagnostic.NewJournal(100)
//	reporter := diagnostic.Multi(diagnostic.NewLogReporter(log), journal)
//	reg := feature.NewRegistry(feature.WithRegistryReporter(reporter))
//
// Multi stamps each fault with one UUID shared by every reporter, so a log
// line and a journal entry for the same failure carry the same fault_id.
package diagnostic
