// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr_test

import (
	"math"
	"testing"

	"github.com/davsar89/GDML-Studio/expr"
	"github.com/davsar89/GDML-Studio/gdml"
)

func TestEvaluateDependencyOrder(t *testing.T) {
	defines := gdml.DefineSection{
		Constants: []gdml.Constant{
			{Name: "a", Value: "2"},
		},
		Variables: []gdml.Variable{
			{Name: "c", Value: "a+b"},
			{Name: "b", Value: "a*3"},
		},
	}
	vt, err := expr.Evaluate(defines)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if vt.Scalars["b"] != 6 {
		t.Errorf("b = %v, want 6", vt.Scalars["b"])
	}
	if vt.Scalars["c"] != 8 {
		t.Errorf("c = %v, want 8", vt.Scalars["c"])
	}
}

func TestEvaluateCyclicDependency(t *testing.T) {
	defines := gdml.DefineSection{
		Variables: []gdml.Variable{
			{Name: "x", Value: "y+1"},
			{Name: "y", Value: "x+1"},
		},
	}
	_, err := expr.Evaluate(defines)
	if err == nil {
		t.Fatal("Evaluate: expected cyclic dependency error, got nil")
	}
	evalErr, ok := err.(*expr.EvalError)
	if !ok {
		t.Fatalf("Evaluate: err is %T, want *expr.EvalError", err)
	}
	if len(evalErr.Cyclic) == 0 {
		t.Errorf("EvalError.Cyclic is empty, want non-empty")
	}
}

func TestEvaluateLengthQuantityConvertsToMM(t *testing.T) {
	defines := gdml.DefineSection{
		Quantities: []gdml.Quantity{
			{Name: "world_x", Type: "length", Value: "5", Unit: "cm"},
		},
	}
	vt, err := expr.Evaluate(defines)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if vt.Scalars["world_x"] != 50 {
		t.Errorf("world_x = %v, want 50 (5cm in mm)", vt.Scalars["world_x"])
	}
}

func TestEvaluateDensityQuantityLeftUnconverted(t *testing.T) {
	defines := gdml.DefineSection{
		Quantities: []gdml.Quantity{
			{Name: "rho", Type: "density", Value: "2.7", Unit: "g/cm3"},
		},
	}
	vt, err := expr.Evaluate(defines)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if vt.Scalars["rho"] != 2.7 {
		t.Errorf("rho = %v, want 2.7 unconverted", vt.Scalars["rho"])
	}
}

func TestEvaluatePositionsAndRotations(t *testing.T) {
	defines := gdml.DefineSection{
		Positions: []gdml.Position{
			{Name: "p1", X: "1", Y: "2", Z: "3", Unit: "cm"},
		},
		Rotations: []gdml.Rotation{
			{Name: "r1", X: "180", Y: "0", Z: "0", Unit: "deg"},
		},
	}
	vt, err := expr.Evaluate(defines)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := [3]float64{10, 20, 30}
	if vt.Positions["p1"] != want {
		t.Errorf("p1 = %v, want %v", vt.Positions["p1"], want)
	}
	rot := vt.Rotations["r1"]
	if math.Abs(rot[0]-math.Pi) > 1e-9 {
		t.Errorf("r1.X = %v, want pi", rot[0])
	}
}

func TestEvaluateBuiltinFunctionsAndGDMLFixup(t *testing.T) {
	defines := gdml.DefineSection{
		// deg is not pre-seeded; define it as a unit factor of 1 so the
		// expected values below stay in plain degrees.
		Constants: []gdml.Constant{
			{Name: "deg", Value: "1"},
		},
		Expressions: []gdml.Expression{
			{Name: "full", Value: "360.*deg"},
			{Name: "half_sin", Value: "sin(full/2.0)"},
		},
	}
	vt, err := expr.Evaluate(defines)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(vt.Scalars["full"]-360.0) > 1e-9 {
		t.Errorf("full = %v, want 360", vt.Scalars["full"])
	}
	if math.Abs(vt.Scalars["half_sin"]-math.Sin(180.0)) > 1e-9 {
		t.Errorf("half_sin = %v, want sin(180)", vt.Scalars["half_sin"])
	}
}

func TestResolveScalarToleratesBadExpressions(t *testing.T) {
	vt := expr.NewValueTable()
	if got := vt.ResolveScalar("not_a_var + ("); got != 0 {
		t.Errorf("ResolveScalar of malformed expr = %v, want 0", got)
	}
}

func TestResolvePositionRefFallsBackToZero(t *testing.T) {
	vt := expr.NewValueTable()
	got := vt.ResolvePosition(&gdml.PlacementPos{Ref: "missing"})
	if got != ([3]float64{}) {
		t.Errorf("ResolvePosition(missing ref) = %v, want zero vector", got)
	}
}

func TestResolveRotationInlineConvertsUnits(t *testing.T) {
	vt := expr.NewValueTable()
	got := vt.ResolveRotation(&gdml.PlacementRot{
		Inline: &gdml.Rotation{X: "90", Y: "0", Z: "0", Unit: "deg"},
	})
	if math.Abs(got[0]-math.Pi/2) > 1e-9 {
		t.Errorf("ResolveRotation inline X = %v, want pi/2", got[0])
	}
}
