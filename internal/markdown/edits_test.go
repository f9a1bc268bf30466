package markdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyEdits_SingleReplacement(t *testing.T) {
	src := []byte("See [API](./api-guide.md) for details.\n")
	old := []byte("./api-guide.md")
	idx := bytes.Index(src, old)
	require.NotEqual(t, -1, idx)

	out, err := ApplyEdits(src, []Edit{{Start: idx, End: idx + len(old), Replacement: []byte("./api_guide.md")}})
	require.NoError(t, err)
	require.Equal(t, "See [API](./api_guide.md) for details.\n", string(out))
}

func TestApplyEdits_MultipleReplacements(t *testing.T) {
	src := []byte("A: ./old.md\nB: ./old.md#frag\n")

	idx1 := bytes.Index(src, []byte("./old.md"))
	require.NotEqual(t, -1, idx1)

	idx2 := bytes.LastIndex(src, []byte("./old.md#frag"))
	require.NotEqual(t, -1, idx2)

	out, err := ApplyEdits(src, []Edit{
		{Start: idx1, End: idx1 + len("./old.md"), Replacement: []byte("./new.md")},
		{Start: idx2, End: idx2 + len("./old.md#frag"), Replacement: []byte("./new.md#frag")},
	})
	require.NoError(t, err)
	require.Equal(t, "A: ./new.md\nB: ./new.md#frag\n", string(out))
}

func TestApplyEdits_CRLFInputPreserved(t *testing.T) {
	src := []byte("A: ./old.md\r\nB: ./old.md\r\n")

	idx := bytes.Index(src, []byte("./old.md"))
	require.NotEqual(t, -1, idx)

	out, err := ApplyEdits(src, []Edit{{
		Start:       idx,
		End:         idx + len("./old.md"),
		Replacement: []byte("./new.md"),
	}})
	require.NoError(t, err)
	require.Equal(t, "A: ./new.md\r\nB: ./old.md\r\n", string(out))
}

func TestApplyEdits_ReferenceDefinitionReplacement(t *testing.T) {
	src := []byte("Reference: [api][1]\n\n[1]: ./api-guide.md \"Title\"\n")
	old := []byte("./api-guide.md")
	idx := bytes.Index(src, old)
	require.NotEqual(t, -1, idx)

	out, err := ApplyEdits(src, []Edit{{Start: idx, End: idx + len(old), Replacement: []byte("./api_guide.md")}})
	require.NoError(t, err)
	require.Contains(t, string(out), "[1]: ./api_guide.md \"Title\"")
}

func TestApplyEdits_RejectsOverlappingEdits(t *testing.T) {
	src := []byte("abcdef")
	_, err := ApplyEdits(src, []Edit{
		{Start: 1, End: 4, Replacement: []byte("X")},
		{Start: 3, End: 5, Replacement: []byte("Y")},
	})
	require.Error(t, err)
}

func TestApplyEdits_DropLine(t *testing.T) {
	src := []byte("keep\n- See [extra](docs/extra.md)\nend\n")
	idx := bytes.Index(src, []byte("[extra]"))

	out, err := ApplyEdits(src, []Edit{DropLineAt(idx)})
	require.NoError(t, err)
	require.Equal(t, "keep\nend\n", string(out))
}

func TestApplyEdits_DropLineSwallowsInnerEditsAndDuplicates(t *testing.T) {
	src := []byte("a [x](x.md) and [y](y.md)\nb [z](z.md)\n")
	x := bytes.Index(src, []byte("[x]"))
	y := bytes.Index(src, []byte("[y]"))
	z := bytes.Index(src, []byte("[z]"))

	out, err := ApplyEdits(src, []Edit{
		DropLineAt(x),
		DropLineAt(y),
		Replace(y, y+len("[y](y.md)"), "Y"),
		Drop(z, z+len("[z](z.md)")),
	})
	require.NoError(t, err)
	require.Equal(t, "b \n", string(out))
}

func TestApplyEdits_DropLastLineWithoutNewline(t *testing.T) {
	src := []byte("first\n* [gone](gone.md)")
	out, err := ApplyEdits(src, []Edit{DropLineAt(len(src) - 3)})
	require.NoError(t, err)
	require.Equal(t, "first\n", string(out))
}

func TestApplyEdits_RejectsOutOfBounds(t *testing.T) {
	_, err := ApplyEdits([]byte("abc"), []Edit{{Start: 1, End: 9}})
	require.Error(t, err)
}

func TestLineBounds(t *testing.T) {
	src := []byte("ab\ncd\nef")
	start, end := LineBounds(src, 4)
	require.Equal(t, 3, start)
	require.Equal(t, 6, end)

	start, end = LineBounds(src, 7)
	require.Equal(t, 6, start)
	require.Equal(t, 8, end)
}

func TestApplyEdits_DropLineAbsorbsStraddlingEdit(t *testing.T) {
	src := []byte("x <a\nb> y\nz\n")
	start := bytes.Index(src, []byte("<a"))
	end := bytes.Index(src, []byte("b>")) + 2

	out, err := ApplyEdits(src, []Edit{Drop(start, end), DropLineAt(0)})
	require.NoError(t, err)
	require.Equal(t, " y\nz\n", string(out))
}
