package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReadme = `# Rivulet

<div align="center">
<img src="./assets/logo.png" width="200">
</div>

<p align="center">
<a href="https://github.com/org/rivulet/actions"><img src="https://github.com/org/rivulet/actions/workflows/ci.yml/badge.svg" alt="CI"></a>
<a href="https://opensource.org/licenses/MIT"><img src="https://img.shields.io/badge/License-MIT-yellow.svg" alt="License"></a>
</p>

## Packages

<table>
<tr>
<td><strong>Rivulet.Core</strong></td>
<td>
<a href="https://www.nuget.org/packages/Rivulet.Core"><img src="https://img.shields.io/nuget/v/Rivulet.Core" alt="NuGet"></a><br/>
<a href="https://codecov.io/gh/org/rivulet"><img src="https://codecov.io/gh/org/rivulet/badge.svg" alt="Coverage"></a><br/>
<a href="src/Rivulet.Core/README.md">Docs</a>
</td>
</tr>
</table>

See [the guide](docs/GUIDE.md) for details.

- [Internal notes](docs/internal.md)
- [Core docs](src/Rivulet.Core/README.md)
- [Contributing](CONTRIBUTING.md#setup)

Licensed under [MIT](LICENSE).
`

const sampleReadmeConverted = `# Rivulet

<div align="center">
<img src="assets/logo.png" width="200">
</div>

<p align="center">
<a href="https://opensource.org/licenses/MIT"><img src="https://img.shields.io/badge/License-MIT-yellow.svg" alt="License"></a>
</p>

## Packages

<table>
<tr>
<td><span style="font-size: 0.9em; font-weight: 600;">Rivulet.Core</span></td>
<td>
<a href="https://www.nuget.org/packages/Rivulet.Core"><img src="https://img.shields.io/nuget/v/Rivulet.Core" alt="NuGet"></a><br/><br/><a href="packages/rivulet-core/">Docs</a>
</td>
</tr>
</table>

See  for details.

- [Core docs](packages/rivulet-core.md)
- [Contributing](CONTRIBUTING.md#setup)

Licensed under [MIT](license.md).
`

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	return New(Options{
		SyncMap:         testSyncMap(t),
		Repo:            testRepo(),
		RemoveLabels:    []string{"CI/CD Pipeline"},
		AssetPrefixes:   []AssetPrefix{{From: `src="./assets/`, To: `src="assets/`}},
		PassThroughDirs: []string{"assets"},
	})
}

func TestTransformer_Readme(t *testing.T) {
	tr := newTestTransformer(t)

	got, report, err := tr.TransformWithReport(sampleReadme)
	require.NoError(t, err)
	assert.Equal(t, sampleReadmeConverted, got)

	assert.Equal(t, 1, report.Changes(StageAssetPrefixes))
	assert.Equal(t, 1, report.Changes(StageDivBlocks))
	assert.Equal(t, 2, report.Changes(StagePackageLinks))
	assert.Equal(t, 2, report.Changes(StageBadges))
	assert.Equal(t, 1, report.Changes(StageTableCells))
	assert.Equal(t, 1, report.Changes(StagePackageHeaders))
	assert.Equal(t, LinkStats{PassThrough: 1, Rewritten: 2, RemovedLine: 1, RemovedInline: 1}, report.Links)
	assert.Equal(t, []Removal{
		{Target: "docs/GUIDE.md", Kind: RemovedInline, Reason: ReasonMissing},
		{Target: "docs/internal.md", Kind: RemovedLine, Reason: ReasonUnsynced},
	}, report.Removals)

	names := make([]string, 0, len(report.Stages))
	for _, s := range report.Stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		StageAssetPrefixes, StageDivBlocks, StagePackageLinks, StageBadges,
		StageTableCells, StagePackageHeaders, StageLinks,
	}, names)
}

func TestTransformer_Idempotent(t *testing.T) {
	tr := newTestTransformer(t)

	inputs := map[string]string{
		"readme": sampleReadme,
		"labelled ci": "# T\n[![CI/CD Pipeline](https://github.com/o/r/actions/workflows/ci.yml/badge.svg)](https://github.com/o/r/actions)\n" +
			"[![NuGet](https://img.shields.io/nuget/v/X)](https://www.nuget.org/packages/X)\n",
		"badge group div": "<div align=\"center\">\n\n[![NuGet](https://img.shields.io/nuget/v/X)](https://www.nuget.org/packages/X)\n" +
			"[![Stars](https://img.shields.io/github/stars/o/r)](https://github.com/o/r)\n\n</div>\nText\n",
		"plain": "Nothing to do here.\n",
		"empty": "",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			once, err := tr.Transform(in)
			require.NoError(t, err)
			twice, report, err := tr.TransformWithReport(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
			assert.Empty(t, report.Removals)
		})
	}
}

func TestTransformer_StaticBadgesSurvive(t *testing.T) {
	tr := newTestTransformer(t)
	in := "<p align=\"center\">\n" +
		`<a href="https://www.nuget.org/packages/X"><img src="https://img.shields.io/nuget/v/X" alt="NuGet"></a>` + "\n" +
		`<a href="https://dotnet.microsoft.com/"><img src="https://img.shields.io/badge/.NET-8.0-purple" alt=".NET"></a>` + "\n" +
		`<a href="https://github.com/o/r"><img src="https://img.shields.io/github/stars/o/r" alt="Stars"></a>` + "\n" +
		"</p>\n"

	got, err := tr.Transform(in)
	require.NoError(t, err)
	assert.Contains(t, got, "https://www.nuget.org/packages/X")
	assert.Contains(t, got, "https://dotnet.microsoft.com/")
	assert.NotContains(t, got, "github.com")
}

func TestTransformer_DynamicBadgesRemoved(t *testing.T) {
	tr := newTestTransformer(t)
	for _, domain := range DefaultBadgeRules().DynamicDomains {
		in := "Status <a href=\"https://" + domain + "o/r\"><img src=\"https://" + domain + "o/r/badge.svg\"></a>\n"
		got, err := tr.Transform(in)
		require.NoError(t, err)
		assert.Equal(t, "Status\n", got, domain)
	}
}

func TestTransformer_ZeroOptions(t *testing.T) {
	tr := New(Options{})
	got, err := tr.Transform("# Title\n\nSee [x](docs/x.md) and [MIT](LICENSE).\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "# Title\n\nSee  and ."), got)
}
