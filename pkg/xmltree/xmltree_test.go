package xmltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafbio/consist/pkg/value"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "name", want: "name"},
		{name: "hyphens", input: "drugbank-id", want: "drugbank_id"},
		{name: "brace namespace", input: "{http://www.drugbank.ca}drug", want: "drug"},
		{name: "prefix namespace", input: "db:drug", want: "drug"},
		{name: "namespace and hyphen", input: "{http://www.drugbank.ca}exported-on", want: "exported_on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		el   *Element
		want value.Value
	}{
		{
			name: "bare text becomes scalar",
			el:   &Element{Name: "name", Text: "  Aspirin  "},
			want: value.Str("Aspirin"),
		},
		{
			name: "empty element becomes null",
			el:   &Element{Name: "cas-number"},
			want: value.Null{},
		},
		{
			name: "whitespace-only text becomes null",
			el:   &Element{Name: "cas-number", Text: "\n  "},
			want: value.Null{},
		},
		{
			name: "text with attributes keeps text key",
			el: &Element{
				Name:  "drugbank-id",
				Text:  "DB00945",
				Attrs: []Attr{{Name: "primary", Value: "true"}},
			},
			want: value.MapOf("text", value.Str("DB00945"), "primary", value.Str("true")),
		},
		{
			name: "attributes only",
			el: &Element{
				Name:  "drug",
				Attrs: []Attr{{Name: "type", Value: "small molecule"}},
			},
			want: value.MapOf("type", value.Str("small molecule")),
		},
		{
			name: "single child stays unwrapped",
			el: &Element{
				Name: "synonyms",
				Children: []*Element{
					{Name: "synonym", Text: "ASA"},
				},
			},
			want: value.MapOf("synonym", value.Str("ASA")),
		},
		{
			name: "repeated children become a list",
			el: &Element{
				Name: "synonyms",
				Children: []*Element{
					{Name: "synonym", Text: "ASA"},
					{Name: "synonym", Text: "Acetylsalicylic acid"},
				},
			},
			want: value.MapOf("synonym", value.List{
				value.Str("ASA"),
				value.Str("Acetylsalicylic acid"),
			}),
		},
		{
			name: "mixed tags keep document order",
			el: &Element{
				Name: "drug",
				Children: []*Element{
					{Name: "name", Text: "Aspirin"},
					{Name: "group", Text: "approved"},
					{Name: "group", Text: "vet_approved"},
				},
			},
			want: value.MapOf(
				"name", value.Str("Aspirin"),
				"group", value.List{value.Str("approved"), value.Str("vet_approved")},
			),
		},
		{
			name: "hyphenated child tags are normalized",
			el: &Element{
				Name: "drug",
				Children: []*Element{
					{Name: "cas-number", Text: "50-78-2"},
				},
			},
			want: value.MapOf("cas_number", value.Str("50-78-2")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.el)
			assert.True(t, tt.want.Equal(got), "got %#v", got)
		})
	}
}

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<drugbank xmlns="http://www.drugbank.ca" version="5.1" exported-on="2024-03-14">
  <metadata>ignored</metadata>
  <drug type="small molecule">
    <drugbank-id primary="true">DB00945</drugbank-id>
    <name>Aspirin</name>
    <synonyms>
      <synonym>ASA</synonym>
      <synonym>Acetylsalicylic acid</synonym>
    </synonyms>
  </drug>
  <drug>
    <name>Ibuprofen</name>
  </drug>
</drugbank>
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleExport), "drug")
	require.NoError(t, err)

	assert.Equal(t, "5.1", doc.Version)
	assert.Equal(t, "2024-03-14", doc.ExportedOn)
	require.Len(t, doc.Records, 2)

	first, ok := doc.Records[0].(*value.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"type", "drugbank_id", "name", "synonyms"}, first.Keys())

	id, _ := first.Get("drugbank_id")
	assert.True(t, value.MapOf("text", value.Str("DB00945"), "primary", value.Str("true")).Equal(id))

	second := doc.Records[1].(*value.Map)
	name, _ := second.Get("name")
	assert.Equal(t, value.Str("Ibuprofen"), name)
}

func TestParseDocument_MissingMetadata(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		wantErr error
	}{
		{
			name:    "missing version",
			root:    `<drugbank exported-on="2024-03-14"></drugbank>`,
			wantErr: ErrMissingVersion,
		},
		{
			name:    "missing export date",
			root:    `<drugbank version="5.1"></drugbank>`,
			wantErr: ErrMissingExportDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(strings.NewReader(tt.root), "drug")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseDocument_EmptyInput(t *testing.T) {
	_, err := ParseDocument(strings.NewReader(""), "drug")
	require.Error(t, err)
}
