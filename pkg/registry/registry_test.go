// pkg/registry/registry_test.go
package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity(id, taskType string) Activity {
	return Activity{
		ID:       id,
		Category: "listing",
		TaskType: taskType,
	}
}

func TestRegistry_Validate(t *testing.T) {
	reg := &ActivityRegistry{
		Version: "1.0",
		Activities: []Activity{
			validActivity("listing.match.score", "score-listing"),
			validActivity("listing.select.next", "select-next-listing"),
		},
	}

	require.NoError(t, reg.Validate())
}

func TestRegistry_Validate_RejectsBadNaming(t *testing.T) {
	reg := &ActivityRegistry{
		Activities: []Activity{validActivity("ScoreListing", "score-listing")},
	}

	assert.Error(t, reg.Validate())
}

func TestRegistry_Validate_RejectsUnknownCategory(t *testing.T) {
	a := validActivity("listing.match.score", "score-listing")
	a.Category = "billing"
	reg := &ActivityRegistry{Activities: []Activity{a}}

	assert.ErrorContains(t, reg.Validate(), "unknown category")
}

func TestRegistry_Validate_RejectsDuplicateTaskType(t *testing.T) {
	reg := &ActivityRegistry{
		Activities: []Activity{
			validActivity("listing.match.score", "score-listing"),
			validActivity("listing.match.rescore", "score-listing"),
		},
	}

	assert.ErrorContains(t, reg.Validate(), "duplicate taskType")
}

func TestRegistry_FindByTaskType(t *testing.T) {
	reg := &ActivityRegistry{
		Activities: []Activity{validActivity("listing.match.score", "score-listing")},
	}

	a, ok := reg.FindByTaskType("score-listing")
	require.True(t, ok)
	assert.Equal(t, "listing.match.score", a.ID)

	_, ok = reg.FindByTaskType("unknown")
	assert.False(t, ok)
}
