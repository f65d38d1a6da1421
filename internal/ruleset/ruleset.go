package ruleset

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/rubengrill/blocks/internal/piece"
)

//go:embed schema.cue
var schemaSource string

// Default dimensions.
const (
	DefaultColumns = 10
	DefaultRows    = 20
)

// Ruleset is a compiled rule set.
type Ruleset struct {
	Name    string
	Columns int
	Rows    int
	Set     *piece.Set
}

// Default returns the 10×20 rule set with the standard pieces.
func Default() *Ruleset {
	return &Ruleset{
		Name:    "standard",
		Columns: DefaultColumns,
		Rows:    DefaultRows,
		Set:     piece.Standard(),
	}
}

// WithDimensions returns the standard pieces on a columns × rows board. The
// dimensions go through the same schema as a rule set file.
func WithDimensions(columns, rows int) (*Ruleset, error) {
	v := cuecontext.New().Encode(map[string]any{
		"name":    "standard",
		"columns": columns,
		"rows":    rows,
	})
	rs, err := Compile(v)
	if err != nil {
		return nil, fmt.Errorf("ruleset %dx%d: %w", columns, rows, err)
	}
	return rs, nil
}

// CompileError is a rule set that does not satisfy the schema or carries
// an invalid piece bitmap.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile validates v against the schema and builds the rule set.
//
//	ctx := cuecontext.New()
//	rs, err := Compile(ctx.CompileString(`columns: 6, rows: 12`))
func Compile(v cue.Value) (*Ruleset, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Ruleset")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	rs := &Ruleset{}
	if nameVal := unified.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rs.Name = name
	}

	columns, err := lookupInt(unified, "columns")
	if err != nil {
		return nil, err
	}
	rows, err := lookupInt(unified, "rows")
	if err != nil {
		return nil, err
	}
	rs.Columns = columns
	rs.Rows = rows

	// Positions of the caller's value point into the rule set file.
	piecesVal := v.LookupPath(cue.ParsePath("pieces"))
	if !piecesVal.Exists() {
		rs.Set = piece.Standard()
		return rs, nil
	}
	rs.Set, err = compilePieces(piecesVal)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func compilePieces(v cue.Value) (*piece.Set, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var shapes []*piece.Shape
	for iter.Next() {
		label := iter.Selector().Unquoted()
		field := "pieces." + label
		pos := iter.Value().Pos()

		kind, err := piece.ParseKind(label)
		if err != nil {
			return nil, &CompileError{Field: field, Message: err.Error(), Pos: pos}
		}
		var data [][]int
		if err := iter.Value().Decode(&data); err != nil {
			return nil, formatCUEError(err)
		}
		shape, err := piece.NewShape(kind, data)
		if err != nil {
			return nil, &CompileError{Field: field, Message: err.Error(), Pos: pos}
		}
		shapes = append(shapes, shape)
	}

	if len(shapes) == 0 {
		return nil, &CompileError{Field: "pieces", Message: "at least one piece is required", Pos: v.Pos()}
	}
	set, err := piece.NewSet(shapes...)
	if err != nil {
		return nil, &CompileError{Field: "pieces", Message: err.Error(), Pos: v.Pos()}
	}
	return set, nil
}

func lookupInt(v cue.Value, path string) (int, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	n, err := fieldVal.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

// Load reads a rule set from a .cue file or a directory of .cue files.
func Load(path string) (*Ruleset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load ruleset: %w", err)
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("load ruleset %s: no CUE instances loaded", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("load ruleset %s: %w", path, inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	rs, err := Compile(value)
	if err != nil {
		return nil, fmt.Errorf("load ruleset %s: %w", path, err)
	}
	return rs, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
