package ruleset

import (
	"errors"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubengrill/blocks/internal/piece"
)

func TestCompile_DimensionsOnly(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		columns: 8
		rows: 16
	`)
	require.NoError(t, v.Err())

	rs, err := Compile(v)
	require.NoError(t, err)

	assert.Equal(t, 8, rs.Columns)
	assert.Equal(t, 16, rs.Rows)
	assert.Empty(t, rs.Name)
	assert.Same(t, piece.Standard(), rs.Set)
}

func TestCompile_CustomPiecesKeepOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		name: "duo"
		columns: 6
		rows: 12
		pieces: {
			T: [[0, 1, 0], [1, 1, 1], [0, 0, 0]]
			O: [[1, 1], [1, 1]]
		}
	`)
	require.NoError(t, v.Err())

	rs, err := Compile(v)
	require.NoError(t, err)

	assert.Equal(t, "duo", rs.Name)
	assert.Equal(t, []piece.Kind{piece.KindT, piece.KindO}, rs.Set.Kinds())

	tShape, ok := rs.Set.Shape(piece.KindT)
	require.True(t, ok)
	assert.Equal(t, [][]int{{0, 1, 0}, {1, 1, 1}, {0, 0, 0}}, tShape.Block(piece.Clockwise0).Rows())
}

func TestCompile_RejectsSmallBoard(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		columns: 3
		rows: 12
	`)

	_, err := Compile(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "cue", compileErr.Field)
	assert.True(t, compileErr.Pos.IsValid())
}

func TestCompile_RejectsMissingRows(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`columns: 6`)

	_, err := Compile(v)
	assert.Error(t, err)
}

func TestCompile_RejectsNonBinaryCells(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		columns: 6
		rows: 12
		pieces: O: [[1, 2], [1, 1]]
	`)

	_, err := Compile(v)
	require.Error(t, err)

	var compileErr *CompileError
	assert.True(t, errors.As(err, &compileErr))
}

func TestCompile_RejectsUnknownKind(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		columns: 6
		rows: 12
		pieces: X: [[1, 1], [1, 1]]
	`)

	_, err := Compile(v)
	require.Error(t, err)

	var compileErr *CompileError
	assert.True(t, errors.As(err, &compileErr))
}

func TestCompile_RejectsNonSquareBitmap(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		columns: 6
		rows: 12
		pieces: O: [[1, 1, 0], [1, 1, 0]]
	`, cue.Filename("rules.cue"))

	_, err := Compile(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "pieces.O", compileErr.Field)
	assert.True(t, compileErr.Pos.IsValid())
	assert.Contains(t, compileErr.Error(), "rules.cue:")
}

func TestCompile_RejectsEmptyPieces(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		columns: 6
		rows: 12
		pieces: {}
	`)

	_, err := Compile(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one piece")
}

func TestLoad_File(t *testing.T) {
	rs, err := Load(filepath.Join("testdata", "narrow.cue"))
	require.NoError(t, err)

	assert.Equal(t, "narrow", rs.Name)
	assert.Equal(t, 6, rs.Columns)
	assert.Equal(t, 12, rs.Rows)
	assert.Equal(t, []piece.Kind{piece.KindO, piece.KindI}, rs.Set.Kinds())
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid.cue"))
	require.Error(t, err)

	var compileErr *CompileError
	assert.True(t, errors.As(err, &compileErr))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.cue"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	rs := Default()
	assert.Equal(t, DefaultColumns, rs.Columns)
	assert.Equal(t, DefaultRows, rs.Rows)
	assert.Equal(t, 7, rs.Set.Len())
}

func TestWithDimensions(t *testing.T) {
	rs, err := WithDimensions(6, 12)
	require.NoError(t, err)
	assert.Equal(t, "standard", rs.Name)
	assert.Equal(t, 6, rs.Columns)
	assert.Equal(t, 12, rs.Rows)
	assert.Same(t, piece.Standard(), rs.Set)
}

func TestWithDimensions_RejectsSmallBoard(t *testing.T) {
	tests := []struct {
		name          string
		columns, rows int
	}{
		{"narrow", 2, 20},
		{"short", 10, 3},
		{"zero", 0, 0},
		{"negative", -4, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WithDimensions(tt.columns, tt.rows)
			assert.Error(t, err)
		})
	}
}

func TestCompileError_Format(t *testing.T) {
	err := &CompileError{Field: "rows", Message: "too small"}
	assert.Equal(t, "rows: too small", err.Error())
}
