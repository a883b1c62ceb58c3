package repository

import (
	"errors"
	"fmt"
	"github.com/viant/igortree/inspector/graph"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

const (
	// UserFilesEnv overrides the Igor Pro user files folder
	UserFilesEnv       = "IGORTREE_USER_FILES"
	defaultIgorVersion = 9
)

var userFilesExpr = regexp.MustCompile(`^Igor Pro (\d+) User Files$`)

// Detector locates Igor Pro procedure roots
type Detector struct {
	home string
}

// New creates a detector for the current user
func New() *Detector {
	return &Detector{}
}

// NewDetector creates a detector rooted at the given home folder
func NewDetector(home string) *Detector {
	return &Detector{home: home}
}

// Locate returns procedure roots, configured roots take precedence over detected ones
func (d *Detector) Locate(config *graph.Config) (*Roots, error) {
	roots := &Roots{User: config.UserProcedures, Igor: config.IgorProcedures}
	if roots.User != "" && roots.Igor != "" {
		return roots, nil
	}
	userFiles, err := d.UserFiles(config.IgorVersion)
	if err != nil {
		return nil, err
	}
	roots.UserFiles = userFiles
	if roots.User == "" {
		roots.User = filepath.Join(userFiles, string(UserProcedures))
	}
	if roots.Igor == "" {
		roots.Igor = filepath.Join(userFiles, string(IgorProcedures))
	}
	return roots, nil
}

// UserFiles returns the Igor Pro user files folder.
// Priority: $IGORTREE_USER_FILES -> requested version -> newest installed version -> Igor Pro 9
func (d *Detector) UserFiles(version int) (string, error) {
	if dir := os.Getenv(UserFilesEnv); dir != "" {
		return dir, nil
	}
	home, err := d.homeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, "Documents", "WaveMetrics")
	if version > 0 {
		return filepath.Join(base, userFilesName(version)), nil
	}
	entries, err := os.ReadDir(base)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read %s: %w", base, err)
	}
	newest := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		match := userFilesExpr.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		candidate, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if candidate > newest {
			newest = candidate
		}
	}
	if newest == 0 {
		newest = defaultIgorVersion
	}
	return filepath.Join(base, userFilesName(newest)), nil
}

func (d *Detector) homeDir() (string, error) {
	if d.home != "" {
		return d.home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return home, nil
}

func userFilesName(version int) string {
	return fmt.Sprintf("Igor Pro %d User Files", version)
}
