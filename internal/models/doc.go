// Package models defines the catalog's domain entities.
//
// The catalog has a single entity, [Track], persisted as one element of a JSON array under a single storage key.
// Field names in JSON are part of the persisted layout and must not change:
//
//	id, title, artist, tags, license, createdAt, audioEmbed, fileName, fileType, fileSize
//
// A [License] is one of a fixed enumeration ([LicenseCCBY], [LicenseCC0], [LicenseCustom]) and carries the usage
// note shown next to each track.
//
// Tracks are immutable once created: there is no update operation anywhere in the catalog.
package models
