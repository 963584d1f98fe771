package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexibase/internal/domain"
)

const yamlDataset = `
comment: initial load
languages:
  - slug: maori
    language: Maori
    isocode: mri
    classification: Austronesian, Oceanic, Polynesian
sources:
  - slug: greenhill-2008
    author: Greenhill
    year: "2008"
words:
  - word: hand
    slug: hand
    quality: "1"
lexicon:
  - key: m-hand
    language: maori
    source: greenhill-2008
    word: hand
    entry: ringa
cognatesets:
  - protoform: "*lima"
    gloss: hand
    members:
      - lexicon: m-hand
        flag: "2"
`

func TestForExtension(t *testing.T) {
	for _, ext := range []string{".yaml", ".YML", ".json"} {
		imp, err := ForExtension(ext)
		require.NoError(t, err, ext)
		assert.NotEmpty(t, imp.Format())
	}

	_, err := ForExtension(".py")
	require.Error(t, err)
	assert.Equal(t, "unable to import a .py file", err.Error())
}

func TestYAMLParse(t *testing.T) {
	ds, err := NewYAMLCodec().Parse(strings.NewReader(yamlDataset))
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Equal(t, "initial load", ds.Comment)
	require.Len(t, ds.Languages, 1)
	assert.Equal(t, "mri", ds.Languages[0].ISOCode)
	assert.Equal(t, domain.WordQualityStable, ds.Words[0].Quality)
	assert.Equal(t, domain.QualityAccepted, ds.CognateSets[0].Members[0].Flag)
	assert.Equal(t, 5, ds.Size())
}

func TestYAMLRejectsUnknownSection(t *testing.T) {
	_, err := NewYAMLCodec().Parse(strings.NewReader("langauges: []\n"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	ds, err := NewYAMLCodec().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, ds.Size())

	ds, err = NewJSONCodec().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, ds.Size())
}

func TestJSONParse(t *testing.T) {
	ds, err := NewJSONCodec().Parse(strings.NewReader(`{
		"words": [{"word": "eye", "slug": "eye"}],
		"tasks": [{"name": "t", "form": "shaw1986"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "eye", ds.Words[0].Slug)
	assert.Equal(t, "shaw1986", ds.Tasks[0].Form)

	_, err = NewJSONCodec().Parse(strings.NewReader(`{"wordz": []}`))
	assert.Error(t, err)
}
