package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pframe/pkg/catalog"
	perrors "github.com/matzehuels/pframe/pkg/errors"
	"github.com/matzehuels/pframe/pkg/spec"
)

const abundanceJSON = `{
    "columnId": "abundance",
    "spec": {
      "kind": "PColumn",
      "name": "abundance",
      "valueType": "Double",
      "domain": {"pl7.app/blockId": "b1"},
      "axesSpec": [
        {"type": "String", "name": "clonotype"},
        {"type": "String", "name": "sample"}
      ]
    }
  }`

const columnsJSON = `[
  ` + abundanceJSON + `,
  {
    "columnId": "link",
    "spec": {
      "kind": "PColumn",
      "name": "clonotypeToGene",
      "valueType": "Int",
      "annotations": {"pl7.app/isLinkerColumn": "true"},
      "axesSpec": [
        {"type": "String", "name": "clonotype"},
        {"type": "String", "name": "gene"}
      ]
    }
  },
  {
    "columnId": "expression",
    "spec": {
      "kind": "PColumn",
      "name": "expression",
      "valueType": "Double",
      "axesSpec": [{"type": "String", "name": "gene"}]
    }
  }
]`

const cyclicYAML = `
- kind: PColumn
  name: cyclic
  valueType: Int
  axesSpec:
    - {type: Int, name: a, parentAxes: [1]}
    - {type: Int, name: b, parentAxes: [0]}
`

const anchorsYAML = `
main:
  kind: PColumn
  name: abundance
  valueType: Double
  domain:
    pl7.app/blockId: b1
  axesSpec:
    - {type: String, name: clonotype}
    - {type: String, name: sample}
`

func decode[T any](t *testing.T, data string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(data), &v), data)
	return v
}

func TestNormalizeCommand(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)

	stdout, _, err := runCLI(t, "normalize", cols)
	require.NoError(t, err)

	out := decode[[]normalizedColumn](t, stdout)
	require.Len(t, out, 3)
	assert.Equal(t, spec.PObjectID("abundance"), out[0].ColumnID)
	assert.Len(t, out[0].Axes, 2)
	assert.False(t, out[0].CycleDetected)
}

func TestNormalizeCommand_Cycle(t *testing.T) {
	cols := writeFile(t, "cyclic.yaml", cyclicYAML)

	stdout, stderr, err := runCLI(t, "normalize", cols)
	require.NoError(t, err)
	out := decode[[]normalizedColumn](t, stdout)
	require.Len(t, out, 1)
	assert.True(t, out[0].CycleDetected)
	for _, a := range out[0].Axes {
		assert.Empty(t, a.ParentAxesSpec)
	}
	assert.Contains(t, stderr, "parent cycle")

	_, _, err = runCLI(t, "normalize", "--strict", cols)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeCycleDetected))
}

func TestGroupsCommand(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)

	stdout, _, err := runCLI(t, "groups", cols)
	require.NoError(t, err)

	out := decode[[]groupedColumn](t, stdout)
	require.Len(t, out, 3)
	assert.False(t, out[0].IsLinker)
	assert.True(t, out[1].IsLinker)
	require.Len(t, out[1].Groups, 2)
	for _, g := range out[1].Groups {
		assert.Len(t, g.Roots, 1)
	}
	assert.Len(t, out[2].Groups, 1)
}

func TestLinkersPathCommand(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)

	stdout, _, err := runCLI(t, "linkers", "path", "--from", "sample,clonotype", "--to", "gene", cols)
	require.NoError(t, err)
	out := decode[[]linkerRef](t, stdout)
	assert.Equal(t, []linkerRef{{ColumnID: "link", Name: "clonotypeToGene"}}, out)

	stdout, stderr, err := runCLI(t, "linkers", "path", "--from", "sample", "--to", "gene", cols)
	require.NoError(t, err)
	assert.Empty(t, decode[[]linkerRef](t, stdout))
	assert.Contains(t, stderr, "no linker path to gene")

	_, _, err = runCLI(t, "linkers", "path", "--strict", "--from", "sample", "--to", "gene", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeLinkResolution))

	_, _, err = runCLI(t, "linkers", "path", "--from", "nope", "--to", "gene", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput))

	_, _, err = runCLI(t, "linkers", "path", "--to", "gene", cols)
	assert.Error(t, err)
}

func TestLinkersReachableCommand(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)

	stdout, _, err := runCLI(t, "linkers", "reachable", "--from", "clonotype", cols)
	require.NoError(t, err)
	out := decode[[]spec.AxisID](t, stdout)
	require.Len(t, out, 1)
	assert.Equal(t, "gene", out[0].Name)
}

func TestLinkersGraphCommand(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)

	stdout, _, err := runCLI(t, "linkers", "graph", cols)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "graph G {"), stdout)
	assert.Contains(t, stdout, "clonotypeToGene")

	out := filepath.Join(t.TempDir(), "graph.svg")
	_, stderr, err := runCLI(t, "linkers", "graph", "--format", "svg", "-o", out, cols)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, stderr, out)

	_, _, err = runCLI(t, "linkers", "graph", "--format", "gif", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput))
}

func TestAnchorDeriveCommand(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)
	anchors := writeFile(t, "anchors.yaml", anchorsYAML)

	stdout, _, err := runCLI(t, "anchor", "derive", "--anchors", anchors, cols)
	require.NoError(t, err)
	out := decode[[]derivedColumn](t, stdout)
	require.Len(t, out, 3)
	assert.Contains(t, out[0].ID, `"domainAnchor":"main"`)
	assert.Contains(t, out[0].ID, `{"anchor":"main","idx":0}`)
	assert.Contains(t, out[0].ID, `{"anchor":"main","idx":1}`)

	stdout, _, err = runCLI(t, "anchor", "derive", "--anchors", anchors, "--filter", "sample=S1", cols)
	require.Error(t, err, "gene columns have no sample axis")
	assert.True(t, perrors.Is(err, perrors.ErrCodeOutOfRange))
	assert.Empty(t, stdout)

	single := writeFile(t, "one.json", "["+abundanceJSON+"]")
	stdout, _, err = runCLI(t, "anchor", "derive", "--anchors", anchors, "--filter", "sample=S1", "--filter", "0=3", single)
	require.NoError(t, err)
	out = decode[[]derivedColumn](t, stdout)
	require.Len(t, out, 1)
	assert.Contains(t, out[0].ID, `"axisFilters":[[0,3],[1,"S1"]]`)
}

func TestAnchorDeriveCommand_Errors(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)
	anchors := writeFile(t, "anchors.yaml", anchorsYAML)

	_, _, err := runCLI(t, "anchor", "derive", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput), "no anchors")

	_, _, err = runCLI(t, "anchor", "derive", "--anchors", anchors, "--filter", "=1", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput), "bad filter")

	_, _, err = runCLI(t, "anchor", "derive", "--anchors", anchors+".missing", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound))
}

func TestAnchorResolveCommand(t *testing.T) {
	anchors := writeFile(t, "anchors.yaml", anchorsYAML)
	sels := writeFile(t, "sel.json", `{"domainAnchor": "main", "axes": [{"anchor": "main", "idx": 0}]}`)

	stdout, _, err := runCLI(t, "anchor", "resolve", "--anchors", anchors, sels)
	require.NoError(t, err)

	var out []struct {
		Domain map[string]string `json:"domain"`
		Axes   []struct {
			Name string `json:"name"`
		} `json:"axes"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out, 1)
	assert.Equal(t, map[string]string{spec.DomainBlockID: "b1"}, out[0].Domain)
	require.Len(t, out[0].Axes, 1)
	assert.Equal(t, "clonotype", out[0].Axes[0].Name)

	missing := writeFile(t, "missing.json", `{"domainAnchor": "other"}`)
	_, _, err = runCLI(t, "anchor", "resolve", "--anchors", anchors, missing)
	assert.True(t, perrors.Is(err, perrors.ErrCodeAnchorNotFound))
}

func TestSelectCommand(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)
	sels := writeFile(t, "sel.yaml", "- name: expression\n")

	stdout, stderr, err := runCLI(t, "select", "--selector", sels, cols)
	require.NoError(t, err)
	out := decode[[]catalog.Entry](t, stdout)
	require.Len(t, out, 1)
	assert.Equal(t, "expression", out[0].ID)
	assert.Contains(t, stderr, "Selected 1 of 3 columns")

	none := writeFile(t, "none.yaml", "name: nothing\n")
	stdout, stderr, err = runCLI(t, "select", "--selector", none, cols)
	require.NoError(t, err)
	assert.Empty(t, decode[[]catalog.Entry](t, stdout))
	assert.Contains(t, stderr, "No columns matched")
}

func TestSelectCommand_MarksLabelColumns(t *testing.T) {
	cols := writeFile(t, "cols.json", `[
  {"columnId": "lbl", "spec": {"kind": "PColumn", "name": "pl7.app/label", "valueType": "String",
    "axesSpec": [{"type": "String", "name": "gene"}]}},
  {"columnId": "expr", "spec": {"kind": "PColumn", "name": "expression", "valueType": "Double",
    "axesSpec": [{"type": "String", "name": "gene"}]}}
]`)
	sels := writeFile(t, "sel.json", `{"type": ["String", "Double"]}`)

	_, stderr, err := runCLI(t, "select", "--selector", sels, cols)
	require.NoError(t, err)
	assert.Contains(t, stderr, "pl7.app/label  lbl  (labels)")
	assert.Contains(t, stderr, "expression  expr")
	assert.NotContains(t, stderr, "expr  (labels)")
}

func TestSelectCommand_AnchoredEnrich(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)
	anchors := writeFile(t, "anchors.yaml", anchorsYAML)
	sels := writeFile(t, "sel.json", `[
  {"domainAnchor": "main", "name": "abundance"},
  {"annotations": {"pl7.app/isLinkerColumn": "true"}}
]`)

	stdout, _, err := runCLI(t, "select", "--selector", sels, "--anchors", anchors, "--enrich", cols)
	require.NoError(t, err)

	out := decode[[]catalog.Entry](t, stdout)
	var names []string
	for _, e := range out {
		names = append(names, e.Column.Spec.Name)
	}
	assert.Equal(t, []string{"abundance", "clonotypeToGene", "expression"}, names)
	assert.Contains(t, out[0].ID, `"domainAnchor":"main"`)

	exclude := writeFile(t, "exclude.json", `{"name": "expression"}`)
	stdout, _, err = runCLI(t, "select", "--selector", sels, "--anchors", anchors, "--enrich", "--exclude", exclude, cols)
	require.NoError(t, err)
	assert.Len(t, decode[[]catalog.Entry](t, stdout), 2)

	_, _, err = runCLI(t, "select", "--selector", sels, cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput), "anchored selector without anchors")
}

func TestOutputFormat(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)

	stdout, _, err := runCLI(t, "--output", "yaml", "groups", cols)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &out))
	assert.Len(t, out, 3)
	assert.Equal(t, "abundance", out[0]["columnId"])

	_, _, err = runCLI(t, "--output", "xml", "groups", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput))
}

func TestConfigFile(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anchors.yaml"), []byte(anchorsYAML), 0o644))
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("output = \"yaml\"\nstrict = true\nanchors = \"anchors.yaml\"\n"), 0o644))

	// anchors come from the config, relative to it
	stdout, _, err := runCLI(t, "--config", cfg, "anchor", "derive", cols)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "- "), stdout)

	// strict from the config, overridden by the flag
	_, _, err = runCLI(t, "--config", cfg, "linkers", "path", "--from", "sample", "--to", "gene", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeLinkResolution))
	_, _, err = runCLI(t, "--config", cfg, "--strict=false", "linkers", "path", "--from", "sample", "--to", "gene", cols)
	assert.NoError(t, err)

	// the flag wins over the config output
	stdout, _, err = runCLI(t, "--config", cfg, "--output", "json", "groups", cols)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "["), stdout)

	_, _, err = runCLI(t, "--config", filepath.Join(dir, "missing.toml"), "groups", cols)
	assert.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound))
}

func TestVerboseLogsHooks(t *testing.T) {
	cols := writeFile(t, "cols.json", columnsJSON)

	_, stderr, err := runCLI(t, "-v", "linkers", "reachable", "--from", "clonotype", cols)
	require.NoError(t, err)
	assert.Contains(t, stderr, "normalized")
	assert.Contains(t, stderr, "edges=")

	_, stderr, err = runCLI(t, "linkers", "reachable", "--from", "clonotype", cols)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "edges=")
}
