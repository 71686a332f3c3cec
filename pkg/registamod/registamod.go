// SPDX-License-Identifier: MPL-2.0

package registamod

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/regista/regista/pkg/cueutil"
)

const (
	// ModuleSuffix is the standard suffix for regista module directories.
	ModuleSuffix = ".registamod"

	// MetaFileName is the module metadata file inside a module directory.
	MetaFileName = "registamod.cue"

	// ExportWildcard in an exports list makes the module's declarations
	// visible to every consumer.
	ExportWildcard = "*"
)

var (
	//go:embed registamod_schema.cue
	registamodSchema string

	// ErrMetaNotFound is returned when registamod.cue is missing from a
	// module directory. Callers can check with errors.Is.
	ErrMetaNotFound = errors.New("registamod.cue not found")
)

type (
	// Requirement declares a dependency on another module by directory path,
	// relative to the requiring module's directory.
	Requirement struct {
		Path string `json:"path"`
	}

	// Registamod is the parsed module metadata from registamod.cue.
	Registamod struct {
		// Module is the mandatory module identifier. RDNS format
		// recommended (e.g. "io.regista.sample").
		Module string `json:"module"`

		// Version is the optional module schema version.
		Version string `json:"version,omitempty"`

		// Description summarizes the module's purpose (optional).
		Description string `json:"description,omitempty"`

		// Requires declares dependencies on other modules (optional).
		// Declarations are aggregated only over declared dependencies,
		// never over everything that happens to be loaded.
		Requires []Requirement `json:"requires,omitempty"`

		// Exports is the allow-list of consumer module identifiers that may
		// discover this module's declarations. Absent or empty means the
		// module's declarations are invisible to every consumer; the
		// wildcard "*" opts in to all consumers.
		Exports []string `json:"exports,omitempty"`

		// FilePath stores where this registamod.cue was loaded from (not in
		// CUE).
		FilePath string `json:"-"`
	}
)

// ExportsTo reports whether this module's declarations are visible to the
// given consumer module. A module is always visible to itself.
func (m *Registamod) ExportsTo(consumerID string) bool {
	if consumerID == m.Module {
		return true
	}
	for _, e := range m.Exports {
		if e == ExportWildcard || e == consumerID {
			return true
		}
	}
	return false
}

// Parse reads and parses module metadata from registamod.cue at the given
// path. Returns ErrMetaNotFound (wrapped) when the file does not exist.
func Parse(path string) (*Registamod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrMetaNotFound)
		}
		return nil, fmt.Errorf("failed to read module metadata at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses module metadata content from bytes.
func ParseBytes(data []byte, path string) (*Registamod, error) {
	result, err := cueutil.ParseAndDecodeString[Registamod](
		registamodSchema,
		data,
		"#Registamod",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	meta := result.Value
	meta.FilePath = path
	return meta, nil
}
