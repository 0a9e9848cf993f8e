// Package repositories implements catalog persistence.
//
// Storage follows the browser localStorage model: a flat key/value [Store] where the entire catalog lives under a
// single key as one serialized JSON array. Two stores are provided:
//   - [SQLiteStore] : one row per key in the "storage" table, written with a single upsert
//   - [MemoryStore] : a mutex-guarded map for tests and throwaway sessions
//
// [CatalogRepository] layers the catalog's load/save/clear operations on top of any [Store]. Loading never fails
// the caller: a missing, unreadable or malformed blob yields an empty catalog.
package repositories
