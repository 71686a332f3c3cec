// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestName is the lock file recording what the previous pass
	// generated, keyed by collection name.
	ManifestName = "regista.lock.toml"

	manifestVersion = 1
)

type (
	// Manifest is the on-disk incremental-build record.
	Manifest struct {
		Version    int                      `toml:"version"`
		Registries map[string]ManifestEntry `toml:"registries,omitempty"`
	}

	// ManifestEntry records one generated registry file and the content
	// hash of the definition it was rendered from.
	ManifestEntry struct {
		File string `toml:"file"`
		Hash string `toml:"hash"`
	}
)

// loadManifest reads the lock file from dir. A missing or unreadable
// manifest yields a fresh one: incremental state is best effort and never
// fails a pass.
func loadManifest(dir string) *Manifest {
	m := &Manifest{Version: manifestVersion, Registries: map[string]ManifestEntry{}}

	raw, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return m
	}
	var loaded Manifest
	if err := toml.Unmarshal(raw, &loaded); err != nil || loaded.Version != manifestVersion {
		return m
	}
	if loaded.Registries == nil {
		loaded.Registries = map[string]ManifestEntry{}
	}
	return &loaded
}

// saveManifest writes the lock file into dir.
func saveManifest(dir string, m *Manifest) error {
	raw, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ManifestName, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ManifestName, err)
	}
	return nil
}

// upToDate reports whether the recorded entry still matches the given
// file name and definition hash, and the file is present on disk.
func (m *Manifest) upToDate(dir, registry, file string, hash uint64) bool {
	entry, ok := m.Registries[registry]
	if !ok || entry.File != file || entry.Hash != formatHash(hash) {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, file))
	return !errors.Is(err, fs.ErrNotExist) && err == nil
}

func (m *Manifest) record(registry, file string, hash uint64) {
	m.Registries[registry] = ManifestEntry{File: file, Hash: formatHash(hash)}
}

// prune drops entries for registries that no longer exist and removes
// their stale generated files.
func (m *Manifest) prune(dir string, live map[string]bool) {
	for name, entry := range m.Registries {
		if live[name] {
			continue
		}
		_ = os.Remove(filepath.Join(dir, entry.File))
		delete(m.Registries, name)
	}
}

func formatHash(h uint64) string {
	return strconv.FormatUint(h, 16)
}
