package filesystem

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
)

// Ensure MIMEDetector implements the interface.
var _ driven.MIMEDetector = (*MIMEDetector)(nil)

// genericMIME is what content sniffing returns when nothing matched.
const genericMIME = "application/octet-stream"

// MIMEDetector sniffs file content and falls back to the file extension
// when the content is not recognised.
type MIMEDetector struct{}

// NewMIMEDetector creates a content-sniffing detector.
func NewMIMEDetector() *MIMEDetector {
	return &MIMEDetector{}
}

// Detect returns the media type of the file at path without parameters.
// ok is false when the file cannot be read.
func (d *MIMEDetector) Detect(path string) (string, bool) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", false
	}

	detected := stripParams(mt.String())
	if detected != genericMIME {
		return detected, true
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		return stripParams(byExt), true
	}
	return detected, true
}

// stripParams drops parameters such as charset from a media type.
func stripParams(mimeType string) string {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		return strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
