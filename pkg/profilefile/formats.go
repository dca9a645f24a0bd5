package profilefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// minFileSize is the smallest encoding of a payload map header plus a schema field.
const minFileSize = 8

// Validate checks the extension, size and schema header of a profile file
// without decoding its categories.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("profilefile: failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("profilefile: %s is a directory", path)
	}
	if info.Size() < minFileSize {
		return fmt.Errorf("profilefile: %s is too small (%d bytes, minimum %d)", path, info.Size(), minFileSize)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != Extension {
		return fmt.Errorf("profilefile: %s has extension %q, expected %q", path, ext, Extension)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("profilefile: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var header struct {
		Schema uint16 `msgpack:"schema"`
	}
	if err := msgpack.NewDecoder(f).Decode(&header); err != nil {
		return fmt.Errorf("profilefile: failed to read header from %s: %w", path, err)
	}
	if header.Schema != SchemaVersion {
		return fmt.Errorf("%w: %s has schema %d (want %d)", ErrSchema, path, header.Schema, SchemaVersion)
	}

	log.Debugf("Profile file %s validated (schema %d)", path, header.Schema)
	return nil
}
