/*
handlers.go - HTTP API handlers for the benefit calculation engine

PURPOSE:
  Exposes the calculation engines via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the core.

ENDPOINTS:
  Calculations:
    POST /api/calculations/traditional       Run a product's formulas
    POST /api/formulas/test                  Ad-hoc expression evaluation

  Benefit illustration:
    POST /api/benefit-illustration/calculate Yearly illustration table

  Products:
    GET  /api/products                       List catalog
    GET  /api/products/{code}                Product with active config
    POST /api/products/{code}/eligibility    Evaluate condition groups

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (range checks live here, not in the core)
  3. Load records/snapshot from the store
  4. Call the pure calculation
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, formula evaluation failures
  - 404: Unknown product or version
  - 500: Store errors
  Formula failures surface the formula name, expression, and cause
  verbatim so product configuration mistakes are diagnosable.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/engine"
	"github.com/warp/benefit-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Formulas   *engine.FormulaEngine
	Conditions *engine.ConditionEvaluator
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:      store,
		Formulas:   engine.NewFormulaEngine(),
		Conditions: engine.NewConditionEvaluator(),
	}
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate runs a product version's formulas against input parameters.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ProductCode == "" {
		writeError(w, http.StatusBadRequest, "product_code is required", nil)
		return
	}

	ctx := r.Context()
	product, err := h.Store.GetProduct(ctx, req.ProductCode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load product", err)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "Product '"+req.ProductCode+"' not found", nil)
		return
	}

	version, err := h.Store.GetVersion(ctx, product.ID, req.Version)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load version", err)
		return
	}
	if version == nil {
		writeError(w, http.StatusNotFound, "No active version found for product '"+req.ProductCode+"'", nil)
		return
	}

	formulas, err := h.Store.GetFormulas(ctx, version.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load formulas", err)
		return
	}

	inputs := engine.NewContextFrom(decimalParams(req.Parameters))
	results, err := h.Formulas.Evaluate(formulas, inputs)
	if err != nil {
		// Formula failures are configuration errors, reported verbatim.
		writeError(w, http.StatusBadRequest, "Calculation failed", err)
		return
	}

	resp := CalculationResponse{
		ProductCode: product.Code,
		Version:     version.Version,
		Results:     make(map[string]float64, len(results)),
	}
	for name, v := range results {
		resp.Results[name] = v.InexactFloat64()
	}
	writeJSON(w, http.StatusOK, resp)
}

// TestFormula evaluates an ad-hoc expression without a stored formula.
func (h *Handler) TestFormula(w http.ResponseWriter, r *http.Request) {
	var req FormulaTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Expression == "" {
		writeError(w, http.StatusBadRequest, "expression is required", nil)
		return
	}

	inputs := engine.NewContextFrom(decimalParams(req.Parameters))
	result, err := h.Formulas.EvaluateExpression(req.Expression, inputs)
	if err != nil {
		writeJSON(w, http.StatusOK, FormulaTestResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, FormulaTestResponse{Success: true, Result: result.InexactFloat64()})
}

// =============================================================================
// BENEFIT ILLUSTRATION HANDLER
// =============================================================================

// CalculateIllustration produces the yearly benefit illustration table.
func (h *Handler) CalculateIllustration(w http.ResponseWriter, r *http.Request) {
	var req IllustrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.AnnualPremium <= 0 {
		writeError(w, http.StatusBadRequest, "Annual premium must be positive", nil)
		return
	}
	if req.Ppt < 1 || req.Ppt > req.PolicyTerm {
		writeError(w, http.StatusBadRequest, "PPT must be between 1 and Policy Term", nil)
		return
	}
	if req.PolicyTerm < 5 || req.PolicyTerm > 40 {
		writeError(w, http.StatusBadRequest, "Policy Term must be between 5 and 40 years", nil)
		return
	}
	if req.EntryAge < 0 || req.EntryAge > 65 {
		writeError(w, http.StatusBadRequest, "Entry age must be between 0 and 65", nil)
		return
	}
	if req.PremiumsPaid != nil && (*req.PremiumsPaid < 0 || *req.PremiumsPaid > req.Ppt) {
		writeError(w, http.StatusBadRequest, "Premiums paid must be between 0 and PPT", nil)
		return
	}

	// Per-request snapshot: table updates never bleed into a running
	// calculation.
	tables, err := h.Store.LoadFactorTables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load factor tables", err)
		return
	}

	calc := benefit.NewCalculator(tables)
	result := calc.Calculate(benefit.Request{
		AnnualPremium: decimalFromFloat(req.AnnualPremium),
		Ppt:           req.Ppt,
		PolicyTerm:    req.PolicyTerm,
		EntryAge:      req.EntryAge,
		Option:        req.Option,
		Channel:       req.Channel,
		PremiumsPaid:  req.PremiumsPaid,
	})

	writeJSON(w, http.StatusOK, toIllustrationResponse(result))
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns the product catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products", err)
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = ProductDTO{Code: p.Code, Name: p.Name, ProductType: p.ProductType, Insurer: p.Insurer}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProduct returns one product with its active version's configuration.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctx := r.Context()

	product, err := h.Store.GetProduct(ctx, code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load product", err)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "Product '"+code+"' not found", nil)
		return
	}

	version, err := h.Store.GetVersion(ctx, product.ID, r.URL.Query().Get("version"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load version", err)
		return
	}
	if version == nil {
		writeError(w, http.StatusNotFound, "No active version found for product '"+code+"'", nil)
		return
	}

	params, err := h.Store.GetParameters(ctx, version.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load parameters", err)
		return
	}
	formulas, err := h.Store.GetFormulas(ctx, version.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load formulas", err)
		return
	}

	dto := ProductDetailDTO{
		ProductDTO: ProductDTO{Code: product.Code, Name: product.Name, ProductType: product.ProductType, Insurer: product.Insurer},
		Version:    version.Version,
		IsActive:   version.IsActive,
	}
	for _, p := range params {
		dto.Parameters = append(dto.Parameters, ParameterDTO{Name: p.Name, DataType: p.DataType, Required: p.Required, Description: p.Description})
	}
	for _, f := range formulas {
		dto.Formulas = append(dto.Formulas, FormulaDTO{Name: f.Name, Expression: f.Expression, Order: f.ExecutionOrder, Description: f.Description})
	}
	writeJSON(w, http.StatusOK, dto)
}

// CheckEligibility evaluates a version's condition groups.
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req EligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	product, err := h.Store.GetProduct(ctx, code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load product", err)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "Product '"+code+"' not found", nil)
		return
	}

	version, err := h.Store.GetVersion(ctx, product.ID, req.Version)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load version", err)
		return
	}
	if version == nil {
		writeError(w, http.StatusNotFound, "No active version found for product '"+code+"'", nil)
		return
	}

	groups, err := h.Store.GetConditionGroups(ctx, version.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load conditions", err)
		return
	}

	eligible := true
	for _, g := range groups {
		if !h.Conditions.Evaluate(g, req.Parameters) {
			eligible = false
			break
		}
	}

	writeJSON(w, http.StatusOK, EligibilityResponse{
		ProductCode: product.Code,
		Version:     version.Version,
		Eligible:    eligible,
		Groups:      len(groups),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
