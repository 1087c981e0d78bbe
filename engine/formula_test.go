package engine_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/warp/benefit-engine/engine"
)

// =============================================================================
// ORDERED FORMULA EVALUATION TESTS
// =============================================================================

func TestFormulaEngine_ChainedFormulas(t *testing.T) {
	// GIVEN: GSV references GMB, which runs first
	// WHEN: Evaluated with AP = 10000
	// THEN: GMB = 115000 and GSV = 34500

	fe := engine.NewFormulaEngine()
	formulas := []engine.Formula{
		{Name: "GMB", Expression: "AP * 11.5", ExecutionOrder: 1},
		{Name: "GSV", Expression: "GMB * 0.30", ExecutionOrder: 2},
	}

	results, err := fe.Evaluate(formulas, ctxWith(map[string]float64{"AP": 10000}))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got := results["GMB"]; !got.Equal(dec(115000)) {
		t.Errorf("GMB = %v, want 115000", got)
	}
	if got := results["GSV"]; !got.Equal(dec(34500)) {
		t.Errorf("GSV = %v, want 34500", got)
	}
}

func TestFormulaEngine_ExecutionOrderNotListOrder(t *testing.T) {
	// GIVEN: Formulas listed out of execution order
	// WHEN: Evaluated
	// THEN: They run by ascending ExecutionOrder, so B still sees A

	fe := engine.NewFormulaEngine()
	formulas := []engine.Formula{
		{Name: "B", Expression: "A * 2", ExecutionOrder: 2},
		{Name: "A", Expression: "10", ExecutionOrder: 1},
	}

	results, err := fe.Evaluate(formulas, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got := results["B"]; !got.Equal(dec(20)) {
		t.Errorf("B = %v, want 20", got)
	}
}

func TestFormulaEngine_ForwardReferenceFails(t *testing.T) {
	// GIVEN: An earlier formula referencing a later one
	// WHEN: Evaluated
	// THEN: It fails; evaluation is strictly single-pass

	fe := engine.NewFormulaEngine()
	formulas := []engine.Formula{
		{Name: "A", Expression: "B * 2", ExecutionOrder: 1},
		{Name: "B", Expression: "10", ExecutionOrder: 2},
	}

	if _, err := fe.Evaluate(formulas, nil); err == nil {
		t.Fatal("expected error for forward reference")
	}
}

func TestFormulaEngine_FailFast(t *testing.T) {
	// GIVEN: The second of three formulas divides by zero
	// WHEN: Evaluated
	// THEN: The whole batch fails with a formula error naming the
	//       failing formula and expression; no partial results

	fe := engine.NewFormulaEngine()
	formulas := []engine.Formula{
		{Name: "OK", Expression: "1 + 1", ExecutionOrder: 1},
		{Name: "BAD", Expression: "1 / 0", ExecutionOrder: 2},
		{Name: "NEVER", Expression: "OK + 1", ExecutionOrder: 3},
	}

	results, err := fe.Evaluate(formulas, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if results != nil {
		t.Error("no partial results on failure")
	}

	var fErr *engine.FormulaError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected *FormulaError, got %T", err)
	}
	if fErr.FormulaName != "BAD" {
		t.Errorf("FormulaName = %q, want BAD", fErr.FormulaName)
	}
	if fErr.Expression != "1 / 0" {
		t.Errorf("Expression = %q, want '1 / 0'", fErr.Expression)
	}
	if !errors.Is(err, engine.ErrDivisionByZero) {
		t.Error("cause should unwrap to ErrDivisionByZero")
	}
	if !strings.Contains(err.Error(), "BAD") || !strings.Contains(err.Error(), "1 / 0") {
		t.Errorf("message should carry formula name and expression: %v", err)
	}
}

func TestFormulaEngine_CaseInsensitiveReferences(t *testing.T) {
	// GIVEN: A formula referencing an earlier result in different casing
	// WHEN: Evaluated
	// THEN: The reference resolves, and the result map keys use the
	//       declared formula names

	fe := engine.NewFormulaEngine()
	formulas := []engine.Formula{
		{Name: "Gmb", Expression: "ap * 11.5", ExecutionOrder: 1},
		{Name: "GSV", Expression: "GMB * 0.30", ExecutionOrder: 2},
	}

	results, err := fe.Evaluate(formulas, ctxWith(map[string]float64{"AP": 1000}))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if _, ok := results["Gmb"]; !ok {
		t.Errorf("results should be keyed by declared name Gmb, got %v", results)
	}
	if got := results["GSV"]; !got.Equal(dec(3450)) {
		t.Errorf("GSV = %v, want 3450", got)
	}
}

func TestFormulaEngine_ResultsExcludeInputs(t *testing.T) {
	// GIVEN: One formula and one input
	// WHEN: Evaluated
	// THEN: Only the formula's value is in the result map

	fe := engine.NewFormulaEngine()
	formulas := []engine.Formula{
		{Name: "GMB", Expression: "AP * 11.5", ExecutionOrder: 1},
	}

	results, err := fe.Evaluate(formulas, ctxWith(map[string]float64{"AP": 100}))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %v", results)
	}
	if _, ok := results["AP"]; ok {
		t.Error("inputs must not appear in results")
	}
}

func TestFormulaEngine_InputsNotMutated(t *testing.T) {
	// GIVEN: A caller-owned input context
	// WHEN: A formula shadows an input name
	// THEN: The caller's context is unchanged

	fe := engine.NewFormulaEngine()
	inputs := engine.NewContext()
	inputs.Set("AP", dec(100))

	formulas := []engine.Formula{
		{Name: "AP", Expression: "AP * 2", ExecutionOrder: 1},
	}
	if _, err := fe.Evaluate(formulas, inputs); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if v, _ := inputs.Get("AP"); !v.Equal(dec(100)) {
		t.Errorf("caller inputs mutated: AP = %v", v)
	}
}

func TestFormulaEngine_EmptyBatch(t *testing.T) {
	// GIVEN: No formulas
	// WHEN: Evaluated
	// THEN: An empty result map, no error

	fe := engine.NewFormulaEngine()
	results, err := fe.Evaluate(nil, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %v", results)
	}
}
