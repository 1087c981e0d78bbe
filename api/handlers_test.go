/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Traditional calculation endpoint (success, unknown product, formula failure)
- Ad-hoc formula testing envelope
- Benefit illustration endpoint and its validation
- Eligibility evaluation
- Product catalog endpoints
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warp/benefit-engine/store/sqlite"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
	return NewRouter(NewHandler(store))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func closeTo(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// =============================================================================
// TRADITIONAL CALCULATION
// =============================================================================

func TestCalculate_Success(t *testing.T) {
	// GIVEN: The seeded sample product
	router := setupRouter(t)

	// WHEN: Its formulas run with a full parameter set
	var resp CalculationResponse
	rec := doJSON(t, router, http.MethodPost, "/api/calculations/traditional", CalculationRequest{
		ProductCode: "CENTURY_INCOME",
		Parameters: map[string]float64{
			"AP":               10000,
			"SA":               100000,
			"PPT":              10,
			"PT":               20,
			"Age":              30,
			"TotalPremiumPaid": 70000,
			"SurrenderValue":   20000,
		},
	}, &resp)

	// THEN: Chained results come back keyed by formula name
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp.ProductCode != "CENTURY_INCOME" || resp.Version != "1.0" {
		t.Errorf("identity mismatch: %+v", resp)
	}
	if !closeTo(resp.Results["GMB"], 115000) {
		t.Errorf("GMB = %v, want 115000", resp.Results["GMB"])
	}
	if !closeTo(resp.Results["GSV"], 34500) {
		t.Errorf("GSV = %v, want 34500", resp.Results["GSV"])
	}
	if !closeTo(resp.Results["DEATH_BENEFIT"], 100000) {
		t.Errorf("DEATH_BENEFIT = %v, want 100000", resp.Results["DEATH_BENEFIT"])
	}
	if _, ok := resp.Results["AP"]; ok {
		t.Error("inputs must not leak into results")
	}
}

func TestCalculate_UnknownProduct(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/calculations/traditional", CalculationRequest{
		ProductCode: "NOPE",
		Parameters:  map[string]float64{"AP": 1},
	}, nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCalculate_MissingParameter(t *testing.T) {
	// GIVEN: A parameter set missing AP
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/calculations/traditional", CalculationRequest{
		ProductCode: "CENTURY_INCOME",
		Parameters:  map[string]float64{"SA": 100000},
	}, nil)

	// THEN: The formula failure surfaces as a 400 naming the formula
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if !bytes.Contains([]byte(errResp.Details), []byte("GMB")) {
		t.Errorf("details should name the failing formula: %q", errResp.Details)
	}
}

// =============================================================================
// AD-HOC FORMULA TESTING
// =============================================================================

func TestFormulaTest_Envelope(t *testing.T) {
	router := setupRouter(t)

	// Success case
	var resp FormulaTestResponse
	rec := doJSON(t, router, http.MethodPost, "/api/formulas/test", FormulaTestRequest{
		Expression: "MAX(10*AP, 1.05*TPP)",
		Parameters: map[string]float64{"AP": 50000, "TPP": 150000},
	}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Success || !closeTo(resp.Result, 500000) {
		t.Errorf("result = %+v, want success 500000", resp)
	}

	// Evaluation failures are still 200, reported in the envelope
	resp = FormulaTestResponse{}
	rec = doJSON(t, router, http.MethodPost, "/api/formulas/test", FormulaTestRequest{
		Expression: "1 / 0",
	}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Success || resp.Error == "" {
		t.Errorf("expected failure envelope, got %+v", resp)
	}
}

// =============================================================================
// BENEFIT ILLUSTRATION
// =============================================================================

func TestIllustration_Success(t *testing.T) {
	// GIVEN: The seeded factor tables
	router := setupRouter(t)

	// WHEN: A mid-tier immediate policy is illustrated
	var resp IllustrationResponse
	rec := doJSON(t, router, http.MethodPost, "/api/benefit-illustration/calculate", IllustrationRequest{
		AnnualPremium: 100000,
		Ppt:           10,
		PolicyTerm:    20,
		EntryAge:      30,
		Option:        "Immediate",
		Channel:       "Other",
	}, &resp)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(resp.YearlyTable) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(resp.YearlyTable))
	}

	// GMB = 100000 * 12.00 * 1.03 (mid-tier loading, no channel loading)
	if !closeTo(resp.GuaranteedMaturityBenefit, 1236000) {
		t.Errorf("GMB = %v, want 1236000", resp.GuaranteedMaturityBenefit)
	}
	if !closeTo(resp.SumAssuredOnDeath, 1000000) {
		t.Errorf("SAD = %v, want 1000000", resp.SumAssuredOnDeath)
	}

	// Year 1: GI is 10% of AP, no loyalty income yet
	y1 := resp.YearlyTable[0]
	if !closeTo(y1.GuaranteedIncome, 10000) {
		t.Errorf("y1 GI = %v, want 10000", y1.GuaranteedIncome)
	}
	if !closeTo(y1.LoyaltyIncome, 0) {
		t.Errorf("y1 LI = %v, want 0", y1.LoyaltyIncome)
	}

	// Year 2: loyalty ramp for ppt=10 starts at 2%
	if !closeTo(resp.YearlyTable[1].LoyaltyIncome, 2000) {
		t.Errorf("y2 LI = %v, want 2000", resp.YearlyTable[1].LoyaltyIncome)
	}

	// Maturity pays only in the final year
	if !closeTo(resp.YearlyTable[18].MaturityBenefit, 0) {
		t.Errorf("y19 maturity = %v, want 0", resp.YearlyTable[18].MaturityBenefit)
	}
	if !closeTo(resp.YearlyTable[19].MaturityBenefit, 1236000) {
		t.Errorf("y20 maturity = %v, want 1236000", resp.YearlyTable[19].MaturityBenefit)
	}
}

func TestIllustration_Validation(t *testing.T) {
	router := setupRouter(t)

	valid := IllustrationRequest{
		AnnualPremium: 100000,
		Ppt:           10,
		PolicyTerm:    20,
		EntryAge:      30,
		Option:        "Immediate",
		Channel:       "Other",
	}

	cases := []struct {
		name   string
		mutate func(r *IllustrationRequest)
	}{
		{"zero premium", func(r *IllustrationRequest) { r.AnnualPremium = 0 }},
		{"negative premium", func(r *IllustrationRequest) { r.AnnualPremium = -1 }},
		{"ppt above pt", func(r *IllustrationRequest) { r.Ppt = 21 }},
		{"ppt zero", func(r *IllustrationRequest) { r.Ppt = 0 }},
		{"pt too short", func(r *IllustrationRequest) { r.PolicyTerm = 4; r.Ppt = 4 }},
		{"pt too long", func(r *IllustrationRequest) { r.PolicyTerm = 41 }},
		{"negative age", func(r *IllustrationRequest) { r.EntryAge = -1 }},
		{"age above limit", func(r *IllustrationRequest) { r.EntryAge = 66 }},
		{"premiums paid negative", func(r *IllustrationRequest) { n := -1; r.PremiumsPaid = &n }},
		{"premiums paid above ppt", func(r *IllustrationRequest) { n := 11; r.PremiumsPaid = &n }},
	}

	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		rec := doJSON(t, router, http.MethodPost, "/api/benefit-illustration/calculate", req, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

func TestEligibility(t *testing.T) {
	router := setupRouter(t)

	// Within the entry criteria
	var resp EligibilityResponse
	rec := doJSON(t, router, http.MethodPost, "/api/products/CENTURY_INCOME/eligibility", EligibilityRequest{
		Parameters: map[string]string{"Age": "30", "Option": "Immediate"},
	}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Eligible || resp.Groups != 1 {
		t.Errorf("expected eligible with 1 group, got %+v", resp)
	}

	// Age outside the band fails the AND group
	resp = EligibilityResponse{}
	doJSON(t, router, http.MethodPost, "/api/products/CENTURY_INCOME/eligibility", EligibilityRequest{
		Parameters: map[string]string{"Age": "70", "Option": "Immediate"},
	}, &resp)
	if resp.Eligible {
		t.Error("age 70 should not be eligible")
	}

	// Unknown product
	rec = doJSON(t, router, http.MethodPost, "/api/products/NOPE/eligibility", EligibilityRequest{
		Parameters: map[string]string{"Age": "30"},
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// =============================================================================
// PRODUCT CATALOG
// =============================================================================

func TestProducts_ListAndDetail(t *testing.T) {
	router := setupRouter(t)

	var list []ProductDTO
	rec := doJSON(t, router, http.MethodGet, "/api/products", nil, &list)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(list) != 1 || list[0].Code != "CENTURY_INCOME" {
		t.Fatalf("unexpected catalog: %+v", list)
	}

	var detail ProductDetailDTO
	rec = doJSON(t, router, http.MethodGet, "/api/products/CENTURY_INCOME", nil, &detail)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if detail.Version != "1.0" || !detail.IsActive {
		t.Errorf("version mismatch: %+v", detail)
	}
	if len(detail.Formulas) != 5 {
		t.Errorf("expected 5 formulas, got %d", len(detail.Formulas))
	}
	if len(detail.Parameters) != 7 {
		t.Errorf("expected 7 parameters, got %d", len(detail.Parameters))
	}
	if detail.Formulas[0].Name != "GMB" {
		t.Errorf("formulas should be in execution order, got %q first", detail.Formulas[0].Name)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/products/NOPE", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
