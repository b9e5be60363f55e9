package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafbio/consist/pkg/value"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<drugbank xmlns="http://www.drugbank.ca" version="5.1" exported-on="2024-03-14">
  <drug type="small molecule">
    <drugbank-id primary="true">DB00945</drugbank-id>
    <name>Aspirin</name>
    <synonyms>
      <synonym>ASA</synonym>
      <synonym>Acetylsalicylic acid</synonym>
    </synonyms>
  </drug>
  <drug type="small molecule">
    <drugbank-id>DB01050</drugbank-id>
    <name>Ibuprofen</name>
    <synonyms>
      <synonym>Advil</synonym>
    </synonyms>
  </drug>
</drugbank>
`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConvertCommand_JSONL(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xml")
	require.NoError(t, os.WriteFile(input, []byte(sampleExport), 0o644))

	out, err := runCommand(t,
		"convert", "-i", input, "-o", dir, "-f", "jsonl", "--heal")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 records")

	data, err := os.ReadFile(filepath.Join(dir, "drugbank_5.1_2024-03-14.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	first, err := value.DecodeJSON([]byte(lines[0]))
	require.NoError(t, err)
	rec := first.(*value.Map)

	id, _ := rec.Get("drugbank_id")
	assert.Equal(t, value.Str("DrugBank:DB00945"), id)
	synonyms, _ := rec.Get("synonyms")
	assert.True(t, value.List{
		value.Str("ASA"),
		value.Str("Acetylsalicylic acid"),
	}.Equal(synonyms))
	ct, _ := rec.Get("compound_type")
	assert.Equal(t, value.Str("small molecule"), ct)
}

func TestConvertCommand_TypeReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xml")
	require.NoError(t, os.WriteFile(input, []byte(sampleExport), 0o644))
	reportPath := filepath.Join(dir, "types.txt")

	_, err := runCommand(t,
		"convert", "-i", input, "-o", dir, "--type-report", reportPath)
	require.NoError(t, err)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "Consistent data types")
}

func TestConvertCommand_MissingInput(t *testing.T) {
	_, err := runCommand(t, "convert")
	require.Error(t, err)
}

func TestConvertCommand_MissingVersion(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xml")
	require.NoError(t, os.WriteFile(input,
		[]byte(`<drugbank exported-on="2024-03-14"><drug/></drugbank>`), 0o644))

	_, err := runCommand(t, "convert", "-i", input, "-o", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestCheckTypesCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(input, []byte(
		`[{"synonyms":["ASA"],"note":"x"},{"synonyms":null,"note":null}]`), 0o644))
	healedPath := filepath.Join(dir, "healed.json")

	out, err := runCommand(t, "checktypes", "-i", input, "--output", healedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Consistent data types")

	data, err := os.ReadFile(healedPath)
	require.NoError(t, err)
	doc, err := value.DecodeJSON(data)
	require.NoError(t, err)
	second := doc.(value.List)[1].(*value.Map)

	synonyms, _ := second.Get("synonyms")
	assert.True(t, value.List{}.Equal(synonyms))
	note, _ := second.Get("note")
	assert.Equal(t, value.Str(""), note)
}

func TestCheckTypesCommand_NotAList(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"not":"a list"}`), 0o644))

	_, err := runCommand(t, "checktypes", "-i", input)
	require.Error(t, err)
}
