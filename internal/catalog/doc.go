// Package catalog holds the in-memory asset catalogue and the logic around it.
//
// A Store owns the canonical asset and category lists. It loads them once
// from a kv.Store, reconciles old schema values through the migration pass,
// and writes both lists back after every mutation. The view functions
// (AvailableTags, FilteredAndSorted) are pure projections over a list of
// assets and keep no state of their own.
package catalog
