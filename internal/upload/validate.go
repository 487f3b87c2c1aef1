package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUploadBytes is the size cap for a single video file, checked before
// any broker request is made.
const MaxUploadBytes = 200 << 20 // 200 MB

// contentTypes maps accepted video file extensions to their MIME types.
var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
}

// ContentTypeFor returns the MIME type for a video file path, or an error
// when the extension is not an accepted video format.
func ContentTypeFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ct, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported video format %q", ext)
	}
	return ct, nil
}

// ValidateSize rejects files over the upload cap.
func ValidateSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("empty file")
	}
	if size > MaxUploadBytes {
		return fmt.Errorf("file is %d bytes, over the %d byte limit", size, MaxUploadBytes)
	}
	return nil
}
