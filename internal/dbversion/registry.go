// Package dbversion keeps named copies of the SQLite database and tracks
// them in DATA_DIR/db_versions.json. The server reads DATA_DIR/nfl_data.db,
// which activate turns into a symlink to the chosen version. Stop the server
// before activating.
package dbversion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	RegistryFile = "db_versions.json"
	MainDB       = "nfl_data.db"
)

var ErrSourceMissing = errors.New("source database not found")

// Version is one registry entry. Created is ISO-8601 local time.
type Version struct {
	File        string `json:"file"`
	Created     string `json:"created"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Entry is a version with its name and on-disk size, as shown by List.
type Entry struct {
	Name string `json:"name"`
	Version
	SizeBytes int64 `json:"size_bytes"`
}

type Manager struct {
	dataDir string
	logger  *logrus.Logger
	now     func() time.Time
}

func NewManager(dataDir string, logger *logrus.Logger) *Manager {
	return &Manager{dataDir: dataDir, logger: logger, now: time.Now}
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.dataDir, name)
}

// Load reads the registry. A missing file is an empty registry.
func (m *Manager) Load() (map[string]Version, error) {
	data, err := os.ReadFile(m.path(RegistryFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Version{}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}
	versions := map[string]Version{}
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return versions, nil
}

func (m *Manager) save(versions map[string]Version) error {
	data, err := json.MarshalIndent(versions, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path(RegistryFile), data, 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// ValidName rejects version names that are empty or could leave DATA_DIR.
func ValidName(version string) error {
	if version == "" {
		return fmt.Errorf("version name is required: %w", utils.ErrInvalidInput)
	}
	if version == "." || strings.Contains(version, "..") ||
		strings.ContainsAny(version, `/\`) || strings.ContainsRune(version, os.PathSeparator) {
		return fmt.Errorf("invalid version name %q: %w", version, utils.ErrInvalidInput)
	}
	return nil
}

// FileName is the database file a version lives in.
func FileName(version string) string {
	return fmt.Sprintf("nfl_data_%s.db", version)
}

// Create copies a database into a new inactive version. The source is the
// from version when given, else the active version, else nfl_data.db.
func (m *Manager) Create(version, description, from string) (*Version, error) {
	if err := ValidName(version); err != nil {
		return nil, err
	}
	versions, err := m.Load()
	if err != nil {
		return nil, err
	}

	var source string
	switch {
	case from != "":
		v, ok := versions[from]
		if !ok {
			return nil, fmt.Errorf("source version %q: %w", from, utils.ErrVersionNotFound)
		}
		source = m.path(v.File)
	case activeName(versions) != "":
		source = m.path(versions[activeName(versions)].File)
	default:
		source = m.path(MainDB)
	}

	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("%s: %w", source, ErrSourceMissing)
	}

	file := FileName(version)
	target := m.path(file)
	if _, ok := versions[version]; ok {
		return nil, fmt.Errorf("version %q: %w", version, utils.ErrVersionExists)
	}
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("file %s: %w", file, utils.ErrVersionExists)
	}

	if database.HasWAL(source) {
		if err := database.Checkpoint(source); err != nil {
			return nil, err
		}
	}
	if err := database.CopyFile(source, target); err != nil {
		return nil, fmt.Errorf("copy %s: %w", source, err)
	}

	v := Version{
		File:        file,
		Created:     m.now().Format("2006-01-02T15:04:05.000000"),
		Description: description,
		Active:      false,
	}
	versions[version] = v
	if err := m.save(versions); err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"version": version,
		"source":  filepath.Base(source),
		"file":    file,
	}).Info("Created database version")
	return &v, nil
}

// List returns every version sorted by name.
func (m *Manager) List() ([]Entry, error) {
	versions, err := m.Load()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(versions))
	for name, v := range versions {
		e := Entry{Name: name, Version: v}
		if info, err := os.Stat(m.path(v.File)); err == nil {
			e.SizeBytes = info.Size()
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Activate points nfl_data.db at a version. A regular nfl_data.db is backed
// up to nfl_data.db.backup first. When symlinks are unavailable the version
// is copied instead. It returns "symlink" or "copy".
func (m *Manager) Activate(version string) (string, error) {
	versions, err := m.Load()
	if err != nil {
		return "", err
	}
	v, ok := versions[version]
	if !ok {
		return "", fmt.Errorf("version %q: %w", version, utils.ErrVersionNotFound)
	}
	if v.File != filepath.Base(v.File) || v.File == ".." {
		return "", fmt.Errorf("version %q file %q: %w", version, v.File, utils.ErrInvalidInput)
	}
	versionPath := m.path(v.File)
	if _, err := os.Stat(versionPath); err != nil {
		return "", fmt.Errorf("%s: %w", v.File, ErrSourceMissing)
	}

	mainPath := m.path(MainDB)
	info, err := os.Lstat(mainPath)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink == 0 {
			backup := mainPath + ".backup"
			if err := database.CopyFile(mainPath, backup); err != nil {
				return "", fmt.Errorf("backup %s: %w", MainDB, err)
			}
			m.logger.WithField("backup", filepath.Base(backup)).Info("Backed up current database")
		}
		if err := os.Remove(mainPath); err != nil {
			return "", fmt.Errorf("remove %s: %w", MainDB, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", err
	}

	linkType := "symlink"
	if err := os.Symlink(v.File, mainPath); err != nil {
		m.logger.WithError(err).Warn("Symlink failed, copying database instead")
		if err := database.CopyFile(versionPath, mainPath); err != nil {
			return "", fmt.Errorf("copy %s: %w", v.File, err)
		}
		linkType = "copy"
	}

	for name, entry := range versions {
		entry.Active = name == version
		versions[name] = entry
	}
	if err := m.save(versions); err != nil {
		return "", err
	}

	m.logger.WithFields(logrus.Fields{
		"version": version,
		"target":  v.File,
		"mode":    linkType,
	}).Info("Activated database version")
	return linkType, nil
}

func activeName(versions map[string]Version) string {
	names := make([]string, 0, len(versions))
	for name, v := range versions {
		if v.Active {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}
