// SPDX-License-Identifier: MPL-2.0

package registafile

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/regista/regista/pkg/cueutil"
)

//go:embed registafile_schema.cue
var registafileSchema string

// Parse reads and parses a registafile from the given path.
func Parse(path string) (*Registafile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registafile at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses registafile content from bytes. Uses the shared 3-step
// CUE flow: compile schema, compile user data, validate and decode.
func ParseBytes(data []byte, path string) (*Registafile, error) {
	result, err := cueutil.ParseAndDecodeString[Registafile](
		registafileSchema,
		data,
		"#Registafile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	rf := result.Value
	rf.FilePath = path

	if err := rf.validate(); err != nil {
		return nil, err
	}

	return rf, nil
}
