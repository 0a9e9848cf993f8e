package tasks

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/freebeats/internal/shared"
)

// AudioPrefix is the media type prefix every published file must declare.
const AudioPrefix = "audio/"

// audioTypes covers the common audio extensions; the platform mime table often lacks them.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".weba": "audio/webm",
	".aif":  "audio/aiff",
	".aiff": "audio/aiff",
}

// AudioFile is a user-selected file: its declared metadata plus a way to read its bytes.
type AudioFile struct {
	Name string                        // Base name of the original file
	Type string                        // Declared media type (e.g. "audio/mpeg")
	Size int64                         // Size in bytes
	Open func() (io.ReadCloser, error) // Opens the file contents for reading
}

// FileFromPath stats path and describes it as an [AudioFile].
//
// declaredType overrides media type detection when non-empty; otherwise the type comes from the extension, falling
// back to content sniffing.
func FileFromPath(path, declaredType string) (*AudioFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFileRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidArgument, path)
	}

	mediaType := strings.TrimSpace(declaredType)
	if mediaType == "" {
		mediaType = DetectMediaType(path)
	}

	return &AudioFile{
		Name: filepath.Base(path),
		Type: mediaType,
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes wraps in-memory content as an [AudioFile].
func FileFromBytes(name, mediaType string, data []byte) *AudioFile {
	return &AudioFile{
		Name: name,
		Type: mediaType,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// DetectMediaType guesses the media type of the file at path.
func DetectMediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mediaType, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mediaType
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(head[:n]))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// IsAudioFile reports whether path has a known audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Embed reads file and encodes it as a self-contained "data:<type>;base64,<payload>" URL.
//
// At most limit bytes are accepted; a file that grows past it while being read is rejected. Cancelling ctx aborts
// the read.
func Embed(ctx context.Context, file *AudioFile, limit int64) (string, error) {
	if file == nil || file.Open == nil {
		return "", fmt.Errorf("%w: no file selected", shared.ErrFileRead)
	}

	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", shared.ErrFileRead, file.Name, err)
	}
	defer rc.Close()

	var r io.Reader = &ctxReader{ctx: ctx, r: rc}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", shared.ErrFileRead, file.Name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", shared.ErrFileRead, file.Name, limit)
	}

	return "data:" + file.Type + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeEmbed splits a data URL produced by [Embed] into its media type and raw bytes.
func DecodeEmbed(embed string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(embed, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URL", shared.ErrInvalidInput)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URL has no payload", shared.ErrInvalidInput)
	}

	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: data URL is not base64 encoded", shared.ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	return mediaType, data, nil
}

// ExtensionFor returns a file extension for mediaType, defaulting to ".bin".
func ExtensionFor(mediaType string) string {
	for ext, t := range audioTypes {
		if t == mediaType && ext != ".oga" && ext != ".aif" {
			return ext
		}
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
