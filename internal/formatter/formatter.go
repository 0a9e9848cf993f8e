// package formatter renders the track catalog for display and exports it to JSON, CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/freebeats/internal/models"
	"github.com/desertthunder/freebeats/internal/shared"
)

// TimestampLayout is the publish time shown on track cards.
const TimestampLayout = "Jan 2, 2006 3:04 PM"

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}
}

// ParseFormat accepts a format name or a common alias ("md", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q (use json, csv, markdown or txt)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// FormatTimestamp renders t for track cards in t's own location.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// LicenseBadge renders a license as a short badge, e.g. "[CC-BY]".
func LicenseBadge(l models.License) string {
	return "[" + l.String() + "]"
}

// FormatTags renders tags as hashtag chips, e.g. "#synth #retro".
func FormatTags(tags []string) string {
	chips := make([]string, 0, len(tags))
	for _, tag := range tags {
		chips = append(chips, "#"+tag)
	}
	return strings.Join(chips, " ")
}

// Card renders a track as a multi-line text card: title, artist with publish time, license badge with usage
// note, tag chips and id.
func Card(track models.Track) string {
	var buf strings.Builder

	buf.WriteString(track.Title + "\n")
	buf.WriteString(fmt.Sprintf("  %s - %s\n", track.Artist, FormatTimestamp(track.CreatedAt.Local())))
	buf.WriteString(fmt.Sprintf("  %s %s\n", LicenseBadge(track.License), track.License.UsageNote()))
	if len(track.Tags) > 0 {
		buf.WriteString("  " + FormatTags(track.Tags) + "\n")
	}
	buf.WriteString(fmt.Sprintf("  id: %s (%s, %s)\n", track.ID, track.FileName, shared.FormatBytes(track.FileSize)))

	return buf.String()
}

// trackSummary is the JSON shape of a track without its embedded audio.
type trackSummary struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Artist    string         `json:"artist"`
	Tags      []string       `json:"tags"`
	License   models.License `json:"license"`
	CreatedAt time.Time      `json:"createdAt"`
	FileName  string         `json:"fileName"`
	FileType  string         `json:"fileType"`
	FileSize  int64          `json:"fileSize"`
}

// ToSummaryJSON encodes tracks without their audio payloads, for listings.
func ToSummaryJSON(tracks []models.Track, pretty bool) ([]byte, error) {
	out := make([]trackSummary, 0, len(tracks))
	for _, t := range tracks {
		tags := t.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, trackSummary{
			ID:        t.ID,
			Title:     t.Title,
			Artist:    t.Artist,
			Tags:      tags,
			License:   t.License,
			CreatedAt: t.CreatedAt,
			FileName:  t.FileName,
			FileType:  t.FileType,
			FileSize:  t.FileSize,
		})
	}
	return shared.MarshalJSON(out, pretty)
}

// ExportToJSON encodes tracks in the persisted catalog layout, audio included.
func ExportToJSON(tracks []models.Track) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}
	return shared.MarshalJSON(tracks, true)
}

// ExportToCSV converts tracks to CSV with columns: ID, Title, Artist, Tags, License, Created, File Name, File Type,
// File Size. Tags are joined with semicolons.
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Tags", "License", "Created", "File Name", "File Type", "File Size"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			strings.Join(track.Tags, ";"),
			track.License.String(),
			track.CreatedAt.UTC().Format(time.RFC3339),
			track.FileName,
			track.FileType,
			strconv.FormatInt(track.FileSize, 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts tracks to a Markdown document with one numbered entry per track
func ExportToMarkdown(tracks []models.Track, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Catalog"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s %s", i+1, track.Artist, track.Title, LicenseBadge(track.License)))
		if len(track.Tags) > 0 {
			codes := make([]string, 0, len(track.Tags))
			for _, tag := range track.Tags {
				codes = append(codes, "`"+tag+"`")
			}
			buf.WriteString(" " + strings.Join(codes, " "))
		}
		buf.WriteString(fmt.Sprintf("\n   - %s, %s\n", FormatTimestamp(track.CreatedAt.UTC()), track.License.UsageNote()))
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to plain text format
func ExportToText(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, track.Artist, track.Title, track.License))
	}

	return buf.Bytes(), nil
}

// Export renders tracks in format.
func Export(format Format, tracks []models.Track) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportToJSON(tracks)
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown:
		return ExportToMarkdown(tracks, "")
	case FormatText:
		return ExportToText(tracks)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
}

// DefaultExportPath is the file written when no output path is given, e.g. "freebeats_tracks.csv".
func DefaultExportPath(format Format) string {
	return "freebeats_tracks" + format.Extension()
}

// WriteExport renders tracks in format and writes them to path, creating parent directories.
//
// Defaults to [DefaultExportPath] as the filename.
func WriteExport(format Format, tracks []models.Track, path string) (string, error) {
	if path == "" {
		path = DefaultExportPath(format)
	}

	data, err := Export(format, tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
