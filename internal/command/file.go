package command

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

type fileEntry struct {
	Path string `toml:"path"`
	Key  string `toml:"key"`
}

type fileLayout struct {
	Commands []fileEntry `toml:"command"`
}

// LoadFile reads a TOML command list:
//
//	[[command]]
//	path = "File:New"
//	key = "n"
//
// Paths are not validated beyond being present; the menu compiler accepts
// whatever segments it is given.
func LoadFile(path string) ([]Info, error) {
	var layout fileLayout
	if _, err := toml.DecodeFile(path, &layout); err != nil {
		return nil, fmt.Errorf("decode command file %s: %w", path, err)
	}
	return fromLayout(layout)
}

// Parse decodes the same layout as LoadFile from a string.
func Parse(data string) ([]Info, error) {
	var layout fileLayout
	if _, err := toml.Decode(data, &layout); err != nil {
		return nil, fmt.Errorf("decode commands: %w", err)
	}
	return fromLayout(layout)
}

func fromLayout(layout fileLayout) ([]Info, error) {
	out := make([]Info, 0, len(layout.Commands))
	for i, entry := range layout.Commands {
		if strings.TrimSpace(entry.Path) == "" {
			return nil, fmt.Errorf("command %d: missing path", i)
		}
		key, err := parseKey(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", entry.Path, err)
		}
		out = append(out, Info{Path: entry.Path, Key: key})
	}
	return out, nil
}

func parseKey(s string) (Key, error) {
	if s == "" {
		return NoKey, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return NoKey, fmt.Errorf("accelerator must be a single key, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return Key(r), nil
}
