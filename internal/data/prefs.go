package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simdata/simstore/internal/simdata"
)

// LoadDefaultPrefs loads a defaults file: one preference template per
// entity type, keyed by type name.
//
//	platform:
//	  icon: ship
//	  commonprefs: {color: 0xFFFF00FF}
func LoadDefaultPrefs(path string) (*simdata.DefaultPrefs, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read default prefs: %w", err)
	}
	var d simdata.DefaultPrefs
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse default prefs %s: %w", path, err)
	}
	return &d, nil
}
