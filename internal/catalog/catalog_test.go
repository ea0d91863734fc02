package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careernav/internal/errors"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"programming", "frontend", "backend", "databases",
		"cloud", "tools", "methodologies", "data_science",
	}, cat.CategoryNames())
	assert.Len(t, cat.ActionVerbs(), 27)
	assert.Len(t, cat.IndustryKeywords(), 21)

	all := cat.AllSkills()
	assert.Equal(t, "javascript", all[0])
	assert.Contains(t, all, "c++")
	assert.Contains(t, all, "machine learning")
	assert.Contains(t, all, "ci/cd")
}

func TestCategoryOf(t *testing.T) {
	cat := MustDefault()

	tests := []struct {
		skill    string
		category string
		found    bool
	}{
		{"python", "programming", true},
		{"Node.js", "backend", true},
		{"c#", "programming", true},
		{"machine learning", "data_science", true},
		{"ci/cd", "methodologies", true},
		{"cobol", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			got, ok := cat.CategoryOf(tt.skill)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.category, got)
		})
	}
}

func TestCategoriesReturnsCopies(t *testing.T) {
	cat := MustDefault()

	cats := cat.Categories()
	cats[0].Skills[0] = "mutated"
	cats[0].Name = "mutated"

	assert.Equal(t, "programming", cat.Categories()[0].Name)
	assert.Equal(t, "javascript", cat.Categories()[0].Skills[0])
}

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "not yaml",
			doc:  "categories: [",
		},
		{
			name: "missing action verbs",
			doc: `
categories:
  - name: programming
    skills: [go]
industryKeywords: [software]
`,
		},
		{
			name: "uppercase skill",
			doc: `
categories:
  - name: programming
    skills: [Go]
actionVerbs: [led]
industryKeywords: [software]
`,
		},
		{
			name: "empty category",
			doc: `
categories:
  - name: programming
    skills: []
actionVerbs: [led]
industryKeywords: [software]
`,
		},
		{
			name: "duplicate category",
			doc: `
categories:
  - name: programming
    skills: [go]
  - name: programming
    skills: [rust]
actionVerbs: [led]
industryKeywords: [software]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeCatalogInvalid))
		})
	}
}

func TestLoadFirstCategoryWins(t *testing.T) {
	cat, err := Load([]byte(`
categories:
  - name: tools
    skills: [git, docker]
  - name: cloud
    skills: [docker, aws]
actionVerbs: [led]
industryKeywords: [cloud]
`))
	require.NoError(t, err)

	got, ok := cat.CategoryOf("docker")
	require.True(t, ok)
	assert.Equal(t, "tools", got)
	assert.Equal(t, []string{"git", "docker", "aws"}, cat.AllSkills())
}

func TestLoadFile(t *testing.T) {
	t.Run("empty path uses embedded catalog", func(t *testing.T) {
		cat, err := LoadFile("")
		require.NoError(t, err)
		assert.Same(t, MustDefault(), cat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))
	})

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - name: embedded
    skills: [rtos, "c"]
actionVerbs: [flashed]
industryKeywords: [firmware]
`), 0600))

		cat, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"embedded"}, cat.CategoryNames())
		assert.Equal(t, []string{"flashed"}, cat.ActionVerbs())
	})

	t.Run("invalid file carries path context", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: []\n"), 0600))

		_, err := LoadFile(path)
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, path, appErr.Context["catalog_file"])
	})
}
