package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := Load(catalogYAML)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Categories)
	assert.NotEmpty(t, c.Glasses)

	seen := map[string]bool{}
	for _, g := range c.Glasses {
		assert.False(t, seen[g.Identifier], "duplicate identifier %s", g.Identifier)
		seen[g.Identifier] = true
	}
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	doc := []byte(`
categories:
  - name: sun
glasses:
  - identifier: X-1
    name: X
    price: "10"
    categories: [optical]
`)
	_, err := Load(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestLoad_RejectsBadPrice(t *testing.T) {
	doc := []byte(`
glasses:
  - identifier: X-1
    name: X
    price: ten
`)
	_, err := Load(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")
}
