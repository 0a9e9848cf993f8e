package tasks

import (
	"fmt"

	"github.com/desertthunder/freebeats/internal/models"
)

// ProgressUpdate represents a progress event during a publish or import.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ValidateSubmission Phase = iota
	EncodeAudio
	PersistCatalog
	ImportFiles
)

func (p Phase) String() string {
	switch p {
	case ValidateSubmission:
		return "validate"
	case EncodeAudio:
		return "encode"
	case PersistCatalog:
		return "persist"
	case ImportFiles:
		return "import_files"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func validateUpdate(title string) ProgressUpdate {
	return ProgressUpdate{Phase: ValidateSubmission, Step: 1, Total: 3, Message: fmt.Sprintf("Validating %q...", title)}
}

func encodeUpdate(file *AudioFile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EncodeAudio,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Encoding %s (%d bytes)...", file.Name, file.Size),
	}
}

func persistUpdate(track *models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistCatalog,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("Saving %s - %s", track.Artist, track.Title),
		Data:    track,
	}
}

func importCompletedUpdate(step, total int, res ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, res.Track.Artist, res.Track.Title),
		Data:    res.Track,
	}
}

func importFailedUpdate(step, total int, res ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Path, res.Error),
	}
}
