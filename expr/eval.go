package expr

import (
	"fmt"
	"go/token"
	"math"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/davsar89/GDML-Studio/gdml"
)

// ValueTable is the result of evaluating a DefineSection: every constant,
// quantity, variable, and expression reduced to a float64, plus every
// named position (mm) and rotation (radians).
type ValueTable struct {
	Scalars   map[string]float64
	Positions map[string][3]float64
	Rotations map[string][3]float64
}

// NewValueTable returns a ValueTable pre-seeded with the handful of
// constants GDML expressions assume are always in scope.
func NewValueTable() *ValueTable {
	return &ValueTable{
		Scalars: map[string]float64{
			"pi":    math.Pi,
			"PI":    math.Pi,
			"e":     math.E,
			"TWOPI": 2 * math.Pi,
		},
		Positions: map[string][3]float64{},
		Rotations: map[string][3]float64{},
	}
}

type defineEntry struct {
	name string
	expr string
}

// Evaluate resolves every constant/quantity/variable/expression in defines,
// in dependency order, into a ValueTable, then resolves every named
// position and rotation using that table.
func Evaluate(defines gdml.DefineSection) (*ValueTable, error) {
	vt := NewValueTable()

	var entries []defineEntry
	for _, c := range defines.Constants {
		entries = append(entries, defineEntry{c.Name, c.Value})
	}
	for _, q := range defines.Quantities {
		entries = append(entries, defineEntry{q.Name, q.Value})
	}
	for _, v := range defines.Variables {
		entries = append(entries, defineEntry{v.Name, v.Value})
	}
	for _, e := range defines.Expressions {
		entries = append(entries, defineEntry{e.Name, e.Value})
	}

	known := make(map[string]bool, len(vt.Scalars))
	for name := range vt.Scalars {
		known[name] = true
	}

	order, err := topologicalSort(entries, known)
	if err != nil {
		return nil, err
	}

	quantityUnit := map[string]string{}
	quantityType := map[string]string{}
	for _, q := range defines.Quantities {
		if q.Unit != "" {
			quantityUnit[q.Name] = q.Unit
		}
		quantityType[q.Name] = q.Type
	}

	for _, idx := range order {
		entry := entries[idx]
		value, err := evalExprStr(entry.expr, vt.Scalars)
		if err != nil {
			return nil, &EvalError{Name: entry.name, Expr: entry.expr, Err: err}
		}

		final := value
		if unit, ok := quantityUnit[entry.name]; ok {
			switch quantityType[entry.name] {
			case "length":
				final = LengthToMM(value, unit)
			case "density":
				// left unconverted here; scene.BuildGraph performs the
				// kg/m3 / mg/cm3 -> g/cm3 conversion once, at node-build
				// time.
			}
		}
		vt.Scalars[entry.name] = final
	}

	for _, pos := range defines.Positions {
		unit := pos.Unit
		if unit == "" {
			unit = DefaultLengthUnit
		}
		x, err := evalExprStrOpt(pos.X, vt.Scalars)
		if err != nil {
			return nil, &EvalError{Name: pos.Name, Expr: pos.X, Err: err}
		}
		y, err := evalExprStrOpt(pos.Y, vt.Scalars)
		if err != nil {
			return nil, &EvalError{Name: pos.Name, Expr: pos.Y, Err: err}
		}
		z, err := evalExprStrOpt(pos.Z, vt.Scalars)
		if err != nil {
			return nil, &EvalError{Name: pos.Name, Expr: pos.Z, Err: err}
		}
		vt.Positions[pos.Name] = [3]float64{
			LengthToMM(x, unit), LengthToMM(y, unit), LengthToMM(z, unit),
		}
	}

	for _, rot := range defines.Rotations {
		unit := rot.Unit
		if unit == "" {
			unit = DefaultAngleUnit
		}
		x, err := evalExprStrOpt(rot.X, vt.Scalars)
		if err != nil {
			return nil, &EvalError{Name: rot.Name, Expr: rot.X, Err: err}
		}
		y, err := evalExprStrOpt(rot.Y, vt.Scalars)
		if err != nil {
			return nil, &EvalError{Name: rot.Name, Expr: rot.Y, Err: err}
		}
		z, err := evalExprStrOpt(rot.Z, vt.Scalars)
		if err != nil {
			return nil, &EvalError{Name: rot.Name, Expr: rot.Z, Err: err}
		}
		vt.Rotations[rot.Name] = [3]float64{
			AngleToRad(x, unit), AngleToRad(y, unit), AngleToRad(z, unit),
		}
	}

	return vt, nil
}

func evalExprStrOpt(s string, scalars map[string]float64) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return evalExprStr(s, scalars)
}

// evalExprStr evaluates a GDML expression string against scalars, trying
// (in order) the empty-is-zero case, a direct numeric literal, a direct
// variable lookup, and finally full expression parsing.
func evalExprStr(s string, scalars map[string]float64) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v, nil
	}
	if v, ok := scalars[trimmed]; ok {
		return v, nil
	}

	ast, err := Parse("<expr>", fixGDMLExpr(trimmed))
	if err != nil {
		return 0, err
	}
	return evalAST(ast, scalars)
}

// ResolveScalar evaluates an expression (or looks it up as a pre-evaluated
// scalar) against the table, returning 0.0 and logging a warning on
// failure instead of propagating an error. This mirrors the tessellator
// and scene builder's tolerance of individually-broken dimension/placement
// expressions.
func (vt *ValueTable) ResolveScalar(s string) float64 {
	v, err := evalExprStrOpt(s, vt.Scalars)
	if err != nil {
		golog.Global.Errorf("failed to evaluate %q: %v -- using 0.0", s, err)
		return 0
	}
	return v
}

// ResolvePosition resolves a physvol's placement position, whether inline
// (evaluated and unit-converted here) or by name (looked up in Positions).
func (vt *ValueTable) ResolvePosition(p *gdml.PlacementPos) [3]float64 {
	switch {
	case p == nil:
		return [3]float64{}
	case p.Inline != nil:
		unit := p.Inline.Unit
		if unit == "" {
			unit = DefaultLengthUnit
		}
		return [3]float64{
			LengthToMM(vt.ResolveScalar(p.Inline.X), unit),
			LengthToMM(vt.ResolveScalar(p.Inline.Y), unit),
			LengthToMM(vt.ResolveScalar(p.Inline.Z), unit),
		}
	default:
		return vt.Positions[p.Ref]
	}
}

// ResolveRotation resolves a physvol's placement rotation, whether inline
// or by name.
func (vt *ValueTable) ResolveRotation(r *gdml.PlacementRot) [3]float64 {
	switch {
	case r == nil:
		return [3]float64{}
	case r.Inline != nil:
		unit := r.Inline.Unit
		if unit == "" {
			unit = DefaultAngleUnit
		}
		return [3]float64{
			AngleToRad(vt.ResolveScalar(r.Inline.X), unit),
			AngleToRad(vt.ResolveScalar(r.Inline.Y), unit),
			AngleToRad(vt.ResolveScalar(r.Inline.Z), unit),
		}
	default:
		return vt.Rotations[r.Ref]
	}
}

// fixGDMLExpr rewrites the GDML idiom "<digit>.*" (e.g. "360.*deg") to
// "<digit>.0*", inserted by document authors who expect their expression
// engine to treat a bare trailing dot as a complete float literal.
func fixGDMLExpr(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		sb.WriteByte(b[i])
		if b[i] >= '0' && b[i] <= '9' && i+2 < len(b) && b[i+1] == '.' && b[i+2] == '*' {
			sb.WriteString(".0*")
			i += 2
		}
	}
	return sb.String()
}

func evalAST(x Expr, env map[string]float64) (float64, error) {
	switch n := x.(type) {
	case *BasicLit:
		return strconv.ParseFloat(n.Value, 64)
	case *Ident:
		if v, ok := env[n.Name]; ok {
			return v, nil
		}
		return 0, errors.Errorf("unknown identifier %q", n.Name)
	case *ParenExpr:
		return evalAST(n.X, env)
	case *UnaryExpr:
		v, err := evalAST(n.X, env)
		if err != nil {
			return 0, err
		}
		if n.Op == token.SUB {
			return -v, nil
		}
		return v, nil
	case *BinaryExpr:
		l, err := evalAST(n.X, env)
		if err != nil {
			return 0, err
		}
		r, err := evalAST(n.Y, env)
		if err != nil {
			return 0, err
		}
		switch n.Op.String() {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			return l / r, nil
		case "%":
			return math.Mod(l, r), nil
		case "^":
			return math.Pow(l, r), nil
		}
		return 0, errors.Errorf("unsupported operator %q", n.Op.String())
	case *CallExpr:
		fn, ok := n.Fun.(*Ident)
		if !ok {
			return 0, errors.New("call target is not an identifier")
		}
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			v, err := evalAST(a, env)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return callBuiltin(fn.Name, args)
	default:
		return 0, errors.Errorf("unsupported expression node %T", x)
	}
}

func callBuiltin(name string, args []float64) (float64, error) {
	arg := func(i int) (float64, error) {
		if i >= len(args) {
			return 0, errors.Errorf("%s: expected at least %d argument(s)", name, i+1)
		}
		return args[i], nil
	}

	switch name {
	case "sin", "cos", "tan", "asin", "acos", "atan", "sinh", "cosh", "tanh",
		"sqrt", "cbrt", "abs", "ln", "log", "log2", "log10", "exp", "exp2",
		"floor", "ceil", "round":
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		switch name {
		case "sin":
			return math.Sin(a), nil
		case "cos":
			return math.Cos(a), nil
		case "tan":
			return math.Tan(a), nil
		case "asin":
			return math.Asin(a), nil
		case "acos":
			return math.Acos(a), nil
		case "atan":
			return math.Atan(a), nil
		case "sinh":
			return math.Sinh(a), nil
		case "cosh":
			return math.Cosh(a), nil
		case "tanh":
			return math.Tanh(a), nil
		case "sqrt":
			return math.Sqrt(a), nil
		case "cbrt":
			return math.Cbrt(a), nil
		case "abs":
			return math.Abs(a), nil
		case "ln", "log":
			return math.Log(a), nil
		case "log2":
			return math.Log2(a), nil
		case "log10":
			return math.Log10(a), nil
		case "exp":
			return math.Exp(a), nil
		case "exp2":
			return math.Exp2(a), nil
		case "floor":
			return math.Floor(a), nil
		case "ceil":
			return math.Ceil(a), nil
		case "round":
			return math.Round(a), nil
		}
	case "atan2", "pow":
		a, err := arg(0)
		if err != nil {
			return 0, err
		}
		b, err := arg(1)
		if err != nil {
			return 0, err
		}
		if name == "atan2" {
			return math.Atan2(a, b), nil
		}
		return math.Pow(a, b), nil
	case "min", "max":
		if len(args) == 0 {
			return 0, errors.Errorf("%s: expected at least one argument", name)
		}
		result := args[0]
		for _, v := range args[1:] {
			if (name == "min" && v < result) || (name == "max" && v > result) {
				result = v
			}
		}
		return result, nil
	case "if":
		cond, err := arg(0)
		if err != nil {
			return 0, err
		}
		thenV, err := arg(1)
		if err != nil {
			return 0, err
		}
		elseV, err := arg(2)
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return thenV, nil
		}
		return elseV, nil
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	return 0, fmt.Errorf("unknown function %q", name)
}
