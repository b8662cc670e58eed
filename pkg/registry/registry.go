// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"steadyone-workers/internal/common/validation"
)

var knownCategories = map[string]bool{
	"listing":        true,
	"session":        true,
	"infrastructure": true,
	"communication":  true,
	"partner":        true,
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks every registry entry for naming and category
// consistency and rejects duplicate task types.
func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if err := validation.ValidateActivityNaming(a.ID); err != nil {
			return fmt.Errorf("activity %q: %w", a.ID, err)
		}
		if !knownCategories[a.Category] {
			return fmt.Errorf("activity %q: unknown category %q", a.ID, a.Category)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity %q: taskType is required", a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("activity %q: duplicate taskType %q", a.ID, a.TaskType)
		}
		seen[a.TaskType] = true
	}
	return nil
}

// FindByTaskType returns the registry entry serving the given task type.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}
