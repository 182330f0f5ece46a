package templates

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Version is incremented whenever the bundled starters change incompatibly.
const Version = "v1"

// starterFS holds the embedded starter flow documents.
//
//go:embed starter/*.json
var starterFS embed.FS

// Starter is a bundled flow document ready to submit at creation time.
type Starter struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
}

// LoadStarter returns the bundled starter with the given name (e.g. "blank",
// "basic_chat"). It fails if no starter by that name is embedded or the
// document is malformed.
func LoadStarter(name string) (*Starter, error) {
	if name == "" {
		return nil, fmt.Errorf("starter name cannot be empty")
	}
	b, err := fs.ReadFile(starterFS, "starter/"+name+".json")
	if err != nil {
		return nil, fmt.Errorf("unknown starter %q: %w", name, err)
	}
	var s Starter
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("starter %q is malformed: %w", name, err)
	}
	return &s, nil
}

// ListStarters returns the names of all bundled starters, sorted.
func ListStarters() ([]string, error) {
	entries, err := fs.ReadDir(starterFS, "starter")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out, nil
}
