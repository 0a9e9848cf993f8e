package tasks

import (
	"sort"
	"strings"

	"github.com/desertthunder/freebeats/internal/models"
)

// Search keeps tracks whose title, artist, license or tags contain query, ignoring case.
// A blank query matches everything.
func Search(tracks []models.Track, query string) []models.Track {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if q == "" || strings.Contains(strings.ToLower(t.Haystack()), q) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByTag keeps tracks carrying tag exactly. An empty tag matches everything.
func FilterByTag(tracks []models.Track, tag string) []models.Track {
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if tag == "" || t.HasTag(tag) {
			out = append(out, t)
		}
	}
	return out
}

// SortByRecency returns a copy of tracks ordered by CreatedAt, newest first.
func SortByRecency(tracks []models.Track) []models.Track {
	out := make([]models.Track, len(tracks))
	copy(out, tracks)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// DistinctTags returns the alphabetically sorted union of every track's tags.
func DistinctTags(tracks []models.Track) []string {
	seen := make(map[string]struct{})
	for _, t := range tracks {
		for _, tag := range t.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Browse applies the listing pipeline: free-text search, tag filter, newest first.
func Browse(tracks []models.Track, query, tag string) []models.Track {
	return SortByRecency(FilterByTag(Search(tracks, query), tag))
}

// ParseTags splits comma separated text into trimmed, non-empty tags capped at [models.MaxTags].
func ParseTags(text string) []string {
	return parseTags(text, models.MaxTags)
}

func parseTags(text string, limit int) []string {
	tags := []string{}
	for _, part := range strings.Split(text, ",") {
		if len(tags) == limit {
			break
		}
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
