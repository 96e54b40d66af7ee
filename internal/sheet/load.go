package sheet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/mockstats/internal/adapters/importer"
	"github.com/okian/mockstats/internal/domain/model"
)

// loadSchool reads a workbook or a registry entry JSON file and applies
// the engine flags to its settings.
func loadSchool(path string, flags *engineFlags) (model.SchoolRegistryEntry, error) {
	var entry model.SchoolRegistryEntry
	switch {
	case strings.EqualFold(filepath.Ext(path), ".json"):
		b, err := os.ReadFile(path)
		if err != nil {
			return entry, fmt.Errorf("read %s: %w", path, err)
		}
		if err := json.Unmarshal(b, &entry); err != nil {
			return entry, fmt.Errorf("decode %s: %w", path, err)
		}
		if err := flags.apply(&entry.Dataset.Settings); err != nil {
			return entry, err
		}
	case strings.EqualFold(filepath.Ext(path), ".xlsx"):
		if err := flags.apply(&entry.Dataset.Settings); err != nil {
			return entry, err
		}
		roster, err := importer.NewReader().ReadFile(path, entry.Dataset.Settings.ActiveSeries)
		if err != nil {
			return entry, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		entry.ID = name
		entry.Name = name
		entry.Dataset.Roster = roster
		entry.StudentCount = len(roster)
	default:
		return entry, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return entry, nil
}
