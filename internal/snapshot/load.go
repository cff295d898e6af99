package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Format names a scenario file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor picks a format from a file extension. Anything that is not
// .json is read as TOML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Decode reads one Input from r.
func Decode(r io.Reader, f Format) (Input, error) {
	var in Input
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			return Input{}, fmt.Errorf("decode json scenario: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&in); err != nil {
			return Input{}, fmt.Errorf("decode toml scenario: %w", err)
		}
	default:
		return Input{}, fmt.Errorf("unknown scenario format %q", f)
	}
	return in, nil
}

// LoadFile reads a scenario file; "-" reads TOML from stdin.
func LoadFile(path string) (Input, error) {
	if path == "-" {
		return Decode(os.Stdin, FormatTOML)
	}
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatFor(path))
}
