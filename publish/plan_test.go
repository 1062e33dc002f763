package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

func TestNewPlan(t *testing.T) {
	t.Run("beta", func(t *testing.T) {
		plan := NewPlan(trigger.Beta, "v0.0.1", "ghcr.io/acme/app")
		assert.Equal(t, []string{"v0.0.1", "beta"}, plan.Tags)
		assert.Equal(t, "ghcr.io/acme/app", plan.Repository)
	})

	t.Run("stable", func(t *testing.T) {
		plan := NewPlan(trigger.Stable, "v1.2.4", "ghcr.io/acme/app")
		assert.Equal(t, []string{"v1.2.4", "latest"}, plan.Tags)
	})
}

func TestPlanReferences(t *testing.T) {
	plan := NewPlan(trigger.Stable, "v1.2.4", "ghcr.io/acme/app")
	assert.Equal(t, []string{
		"ghcr.io/acme/app:v1.2.4",
		"ghcr.io/acme/app:latest",
	}, plan.References())
}
