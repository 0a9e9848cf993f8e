// Package tasks implements the catalog's operations on top of an injected repository.
//
// # Filter/Sort Engine
//
// [Search], [FilterByTag], [SortByRecency] and [DistinctTags] are pure functions over a slice of tracks.
// [Browse] composes them the way every listing does: search, then tag filter, then newest first.
//
// # Publish Workflow
//
// [Catalog.Publish] validates a [Submission], converts its [AudioFile] into a data URL, builds the track and appends
// it to a freshly loaded catalog. Validation failures are [*ValidationError] values and happen before the file is
// read or storage is touched.
//
// # Deletion
//
// [Catalog.Remove] drops one track by id; [Catalog.ClearAll] requires a [Confirmer] to accept before removing
// everything.
//
// # Bulk Import
//
// [Catalog.Import] publishes a batch of files through a rate limited worker pool and persists the successes in a
// single save.
//
// # Progress Reporting
//
// Publish and Import accept an optional progress channel. Updates use select with default so reporting never
// blocks the operation.
package tasks
