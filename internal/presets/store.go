package presets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/music-track-generator/internal/logger"
	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

const (
	fileExt           = ".yaml"
	tempPattern       = ".*.tmp"
	dirPerm           = 0o755
	filePerm          = 0o644
	metadataCacheSize = 1024
)

// ErrNotFound is returned when no preset is stored under a name
var ErrNotFound = errors.New("preset not found")

// LoadError reports a stored preset that exists but cannot be used
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load preset '%s': %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store keeps one YAML file per preset in a directory. Listing metadata is
// cached per name and dropped on every Save or Delete of that name.
type Store struct {
	dir      string
	metadata *lru.Cache[string, models.PresetMetadata]
}

// NewStore opens (creating if needed) the presets directory and seeds any
// built-in preset whose name is not already taken.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create presets directory %s: %w", dir, err)
	}

	cache, err := lru.New[string, models.PresetMetadata](metadataCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	s := &Store{
		dir:      dir,
		metadata: cache,
	}
	if _, err := s.ensureBuiltins(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the presets directory
func (s *Store) Dir() string {
	return s.dir
}

// ensureBuiltins enumerates stored names once and writes only missing built-ins
func (s *Store) ensureBuiltins() (int, error) {
	names, err := s.List()
	if err != nil {
		return 0, err
	}
	existing := make(map[string]struct{}, len(names))
	for _, name := range names {
		existing[name] = struct{}{}
	}

	seeded := 0
	for _, preset := range Builtins() {
		if _, ok := existing[preset.Name]; ok {
			continue
		}
		if _, err := s.Save(preset); err != nil {
			return seeded, fmt.Errorf("failed to seed built-in preset %s: %w", preset.Name, err)
		}
		seeded++
	}

	if seeded > 0 {
		logger.Info("Seeded built-in presets", logger.Fields{"count": seeded, "dir": s.dir})
	}
	return seeded, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes the preset, replacing any preset with the same name, and
// returns the file path.
func (s *Store) Save(preset models.PresetConfig) (string, error) {
	if err := preset.Validate(); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(preset)
	if err != nil {
		return "", fmt.Errorf("failed to encode preset %s: %w", preset.Name, err)
	}

	path := s.path(preset.Name)
	if err := writeFile(s.dir, preset.Name, path, data); err != nil {
		return "", err
	}

	s.metadata.Remove(preset.Name)
	return path, nil
}

// writeFile replaces path in one rename so readers never see a partial file
func writeFile(dir, name, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, name+tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file for preset %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write preset %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write preset %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write preset %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write preset %s: %w", name, err)
	}
	return nil
}

// Load returns the stored preset. It returns ErrNotFound when nothing is
// stored under name and a *LoadError when the file is unreadable, does not
// parse, or does not describe a valid preset named name.
func (s *Store) Load(name string) (models.PresetConfig, error) {
	if err := models.ValidatePresetName(name); err != nil {
		return models.PresetConfig{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.PresetConfig{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return models.PresetConfig{}, &LoadError{Name: name, Path: path, Err: err}
	}

	var preset models.PresetConfig
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return models.PresetConfig{}, &LoadError{Name: name, Path: path, Err: err}
	}
	if err := preset.Validate(); err != nil {
		return models.PresetConfig{}, &LoadError{Name: name, Path: path, Err: err}
	}
	if preset.Name != name {
		return models.PresetConfig{}, &LoadError{
			Name: name,
			Path: path,
			Err:  fmt.Errorf("stored name %q does not match file name", preset.Name),
		}
	}
	return preset, nil
}

// List returns every stored preset name, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), fileExt)
		if models.ValidatePresetName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListWithMetadata returns name, genre and description for every stored
// preset in name order. Presets that fail to load are skipped and logged.
func (s *Store) ListWithMetadata() ([]models.PresetMetadata, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	out := make([]models.PresetMetadata, 0, len(names))
	for _, name := range names {
		if md, ok := s.metadata.Get(name); ok {
			out = append(out, md)
			continue
		}

		preset, err := s.Load(name)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logger.Warn("Skipping unreadable preset", logger.Fields{"name": name, "error": err.Error()})
			}
			continue
		}

		md := preset.Metadata()
		s.metadata.Add(name, md)
		out = append(out, md)
	}
	return out, nil
}

// Delete removes the stored preset and reports whether anything was removed
func (s *Store) Delete(name string) (bool, error) {
	if err := models.ValidatePresetName(name); err != nil {
		return false, nil
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete preset %s: %w", name, err)
	}

	s.metadata.Remove(name)
	return true, nil
}
