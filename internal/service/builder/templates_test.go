package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/internal/domain/models/builder"
)

func TestStarterRegistryLoadsEmbeddedTemplates(t *testing.T) {
	registry, err := NewStarterRegistry()
	require.NoError(t, err)

	list := registry.List()
	require.NotEmpty(t, list)

	keys := make(map[string]bool, len(list))
	for _, tmpl := range list {
		assert.NotEmpty(t, tmpl.Key)
		assert.NotEmpty(t, tmpl.Name)
		assert.False(t, keys[tmpl.Key], "duplicate key %q", tmpl.Key)
		keys[tmpl.Key] = true
	}

	assert.True(t, keys["lead-gen"])
	assert.True(t, keys["launch-countdown"])
	assert.True(t, keys["blank"])

	_, ok := registry.Get("lead-gen")
	assert.True(t, ok)
	_, ok = registry.Get("no-such-template")
	assert.False(t, ok)
}

func TestStarterComposeProducesTypedBlocks(t *testing.T) {
	registry, err := NewStarterRegistry()
	require.NoError(t, err)

	starter, ok := registry.Get("lead-gen")
	require.True(t, ok)

	title, blocks, settings, err := starter.Compose()
	require.NoError(t, err)

	assert.NotEmpty(t, title)
	require.NotEmpty(t, blocks)

	var sawForm, sawWidget bool
	for i, b := range blocks {
		assert.NotEmpty(t, b.ID, "block %d has no id", i)
		assert.Equal(t, i, b.Order, "block %d order", i)

		switch content := b.Content.(type) {
		case builder.FormContent:
			sawForm = true
			assert.NotEmpty(t, content.Fields)
		case builder.WidgetContent:
			sawWidget = true
			assert.Equal(t, builder.WidgetApplicantList, content.WidgetType)
		}
	}
	assert.True(t, sawForm, "lead-gen should carry a form")
	assert.True(t, sawWidget, "lead-gen should carry a signup feed widget")

	// Template colors land on top of the stock defaults.
	assert.NotEmpty(t, settings.PrimaryColor)
	assert.NotEmpty(t, settings.BackgroundColor)
	assert.NotNil(t, settings.BusinessInfo.Elements)
}

func TestStarterComposeBlankIsEmpty(t *testing.T) {
	registry, err := NewStarterRegistry()
	require.NoError(t, err)

	starter, ok := registry.Get("blank")
	require.True(t, ok)

	_, blocks, _, err := starter.Compose()
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestComposeGivesEachCallFreshIDs(t *testing.T) {
	registry, err := NewStarterRegistry()
	require.NoError(t, err)

	starter, ok := registry.Get("launch-countdown")
	require.True(t, ok)

	_, first, _, err := starter.Compose()
	require.NoError(t, err)
	_, second, _, err := starter.Compose()
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.NotEqual(t, first[i].ID, second[i].ID, "block %d shares an id across compositions", i)
	}
}
