package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDivBlock_Kind(t *testing.T) {
	tests := []struct {
		name  string
		inner string
		want  DivKind
	}{
		{"single image", `<img src="assets/logo.png" width="200">`, DivSingleImage},
		{"self closing image", "  <img src=\"assets/logo.png\" />  ", DivSingleImage},
		{"two images", `<img src="a.png"><img src="b.png">`, DivGeneric},
		{"image with caption", "<img src=\"a.png\">\nLogo", DivGeneric},
		{"markdown badges", "[![NuGet](https://img.shields.io/nuget/v/X)](https://www.nuget.org/packages/X)", DivBadgeGroup},
		{"markdown image", "![logo](assets/logo.png)", DivBadgeGroup},
		{"prose", "Made with care.", DivGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DivBlock{Inner: tt.inner}.Kind())
		})
	}
}

func TestDivBlock_Replacement(t *testing.T) {
	t.Run("single image kept centered", func(t *testing.T) {
		b := DivBlock{Inner: "\n  <img src=\"assets/logo.png\">\n"}
		assert.Equal(t, "<div align=\"center\">\n<img src=\"assets/logo.png\">\n</div>", b.Replacement())
	})

	t.Run("linked images become anchors", func(t *testing.T) {
		b := DivBlock{Inner: "[![NuGet](https://img.shields.io/nuget/v/X)](https://www.nuget.org/packages/X) " +
			"[![License](https://img.shields.io/badge/License-MIT-yellow.svg)](https://opensource.org/licenses/MIT)\n"}
		want := "<p align=\"center\">\n" +
			`<a href="https://www.nuget.org/packages/X"><img src="https://img.shields.io/nuget/v/X" alt="NuGet"></a> ` +
			`<a href="https://opensource.org/licenses/MIT"><img src="https://img.shields.io/badge/License-MIT-yellow.svg" alt="License"></a>` +
			"\n</p>"
		assert.Equal(t, want, b.Replacement())
	})

	t.Run("plain images kept as markdown", func(t *testing.T) {
		b := DivBlock{Inner: "![one](a.svg)\n\n![two](b.svg)"}
		want := "<div class=\"badges\" markdown=\"1\" align=\"center\">\n\n![one](a.svg) ![two](b.svg)\n\n</div>"
		assert.Equal(t, want, b.Replacement())
	})

	t.Run("generic unwrapped", func(t *testing.T) {
		b := DivBlock{Inner: "\n**Bold** statement\n"}
		assert.Equal(t, "**Bold** statement", b.Replacement())
	})
}

func TestProcessDivBlocks(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changed int
	}{
		{
			name:    "no blocks",
			in:      "# Title\n\nText\n",
			want:    "# Title\n\nText\n",
			changed: 0,
		},
		{
			name:    "single image round trips",
			in:      "# Title\n\n<div align=\"center\">\n<img src=\"assets/logo.png\">\n</div>\n\nBody\n",
			want:    "# Title\n\n<div align=\"center\">\n<img src=\"assets/logo.png\">\n</div>\n\nBody\n",
			changed: 1,
		},
		{
			name: "badge group padded with one blank line",
			in: "# Title\n<div align=\"center\">\n\n" +
				"[![NuGet](https://img.shields.io/nuget/v/X)](https://www.nuget.org/packages/X)\n" +
				"[![License](https://img.shields.io/badge/License-MIT-yellow.svg)](https://opensource.org/licenses/MIT)\n" +
				"\n</div>\nBody\n",
			want: "# Title\n\n<p align=\"center\">\n" +
				`<a href="https://www.nuget.org/packages/X"><img src="https://img.shields.io/nuget/v/X" alt="NuGet"></a> ` +
				`<a href="https://opensource.org/licenses/MIT"><img src="https://img.shields.io/badge/License-MIT-yellow.svg" alt="License"></a>` +
				"\n</p>\n\nBody\n",
			changed: 1,
		},
		{
			name:    "extra blank lines collapsed",
			in:      "Intro\n\n\n\n<div align=\"center\">\nCentered words\n</div>\n\n\n\nOutro\n",
			want:    "Intro\n\nCentered words\n\nOutro\n",
			changed: 1,
		},
		{
			name:    "block at document start",
			in:      "<div align=\"center\">\n<img src=\"logo.png\">\n</div>\n# Title\n",
			want:    "<div align=\"center\">\n<img src=\"logo.png\">\n</div>\n\n# Title\n",
			changed: 1,
		},
		{
			name:    "block at document end",
			in:      "Text\n<div align=\"center\">\nBye\n</div>\n",
			want:    "Text\n\nBye\n",
			changed: 1,
		},
		{
			name:    "consecutive blocks",
			in:      "<div align=\"center\">\nOne\n</div>\n<div align=\"center\">\nTwo\n</div>\n",
			want:    "One\n\nTwo\n",
			changed: 2,
		},
		{
			name:    "text after closing tag",
			in:      "Text\n<div align=\"center\">\nBye\n</div> trailing\n",
			want:    "Text\n\nBye\n\ntrailing\n",
			changed: 1,
		},
		{
			name:    "text between blocks on the closing line",
			in:      "<div align=\"center\">\nOne\n</div> mid\n<div align=\"center\">\nTwo\n</div>\n",
			want:    "One\n\nmid\n\nTwo\n",
			changed: 2,
		},
		{
			name:    "indented line after block keeps indentation",
			in:      "<div align=\"center\">\nOne\n</div>\n\n    code\n",
			want:    "One\n\n    code\n",
			changed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := processDivBlocks(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, n)
		})
	}
}
