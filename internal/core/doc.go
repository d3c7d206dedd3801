// Package core provides the quiz-answer table store and its aggregate views.
//
// This package contains all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Store
//
// A [Store] owns one in-memory [Table] and the semicolon separated file it
// was loaded from. Every mutation rewrites the whole file:
//
//	store := core.NewStore("data/dataset.csv", core.WithLogger(logger))
//	if _, err := store.Load(); err != nil {
//	    logger.Warn("starting with empty table", "error", err)
//	}
//	err := store.Append(core.Record{"1", "VN", "Q1", "Correct", "Basic", "Math", "Algebra", "x"})
//
// Row positions passed to [Store.UpdateAt] and [Store.DeleteAt] refer to the
// current display order, which [Store.SortBy] changes in place.
//
// # Aggregates
//
// [CountryAnswerCounts], [LevelCounts] and [TopicCounts] are pure functions
// of a table snapshot and report ok=false when a needed column is absent.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// See error_messages.go for the code reference.
//
// # History
//
// Mutations are recorded in a bounded in-memory [History] with severity
// levels; deletions are high, reloads low.
package core
