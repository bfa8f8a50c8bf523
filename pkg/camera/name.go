package camera

import (
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultName labels a stream whose URL yields nothing better.
const DefaultName = "camera"

// NameFromURL derives a short label for a stream: the host of a network URL,
// or the file name of a local video.
func NameFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Hostname()
	}
	base := filepath.Base(strings.TrimPrefix(raw, "file://"))
	if base == "." || base == string(filepath.Separator) {
		return DefaultName
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
