package graph

import (
	"github.com/viant/afs/url"
	"golang.org/x/text/unicode/norm"
	"path/filepath"
	"strings"
)

// Stem returns the procedure name for a file location
func Stem(location string) string {
	base := filepath.Base(location)
	return NormalizeName(strings.TrimSuffix(base, filepath.Ext(base)))
}

// NormalizeName folds names to NFC, macOS stores file names decomposed
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// JoinLocation joins a root with a file name, roots may be afs URLs
func JoinLocation(root, name string) string {
	if strings.Contains(root, "://") {
		return url.Join(root, name)
	}
	return filepath.Join(root, name)
}
