package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reference = `
scenario "reference" {
  length_m         = 100
  breadth_m        = 20
  draft_m          = 8
  speed            = 5
  trim_deg         = 10
  keel_deg         = 20
  side_deg         = 30
  ice_thickness_cm = 50
}
`

const openWater = `
scenario "open_water" {
  length_m         = 120
  breadth_m        = 22
  draft_m          = 9
  speed            = 7
  trim_deg         = 12
  keel_deg         = 25
  side_deg         = 35
  ice_thickness_cm = 0
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ref.hcl", reference)

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "reference", got[0].Name)
	assert.Equal(t, path, got[0].File)
	assert.Equal(t, 100.0, got[0].Input.LengthM)
	assert.Equal(t, 30.0, got[0].Input.SideDeg)
	assert.Equal(t, 50.0, got[0].Input.IceThicknessCM)
}

func TestLoad_DirectoryInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.hcl", reference)
	writeFile(t, dir, "a.hcl", openWater)
	writeFile(t, dir, "notes.txt", "ignored")

	got, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "open_water", got[0].Name)
	assert.Equal(t, "reference", got[1].Name)
}

func TestLoad_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", reference)
	writeFile(t, dir, "b.hcl", reference)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate scenario")
}

func TestLoad_UnknownAttribute(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.hcl", `
scenario "x" {
  length_m         = 100
  breadth_m        = 20
  draft_m          = 8
  speed            = 5
  trim_deg         = 10
  keel_deg         = 20
  side_deg         = 30
  ice_thickness_cm = 50
  beam_m           = 3
}
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestLoad_MissingAttribute(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.hcl", `scenario "x" { length_m = 100 }`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_SyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.hcl", `scenario "x" {`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
