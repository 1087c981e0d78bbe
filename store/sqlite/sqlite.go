/*
Package sqlite provides a SQLite-backed store for the product catalog and
factor tables.

PURPOSE:
  Persists insurer products, versions, parameters, formulas, eligibility
  condition groups, and the five benefit factor tables. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  products / product_versions:  Catalog, versioned with active flags
  product_parameters:           Declared inputs per version
  product_formulas:             Ordered expressions per version
  condition_groups / conditions: Eligibility rule trees (parent-id arena)
  *_factors:                    GMB, GSV, SSV, loyalty, deferred income rates

DECIMAL STORAGE:
  Rates and factors are stored as TEXT via decimal.String() and parsed on
  load, so no precision is lost round-tripping through the database.

CONDITION GROUPS:
  Rows carry a nullable parent_group_id. On load the flat rows are
  reassembled into value-typed engine.ConditionGroup trees - the store is
  the only place the parent/child id representation exists.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/benefit.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  if err := store.Seed(ctx); err != nil { ... }

SEE ALSO:
  - factory: Definitions saved here and the built-in seed product
  - benefit: FactorTables snapshot type loaded from here
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/engine"
	"github.com/warp/benefit-engine/factory"
)

// Store persists the product catalog and factor tables in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		product_type TEXT NOT NULL,
		insurer TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS product_versions (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		version TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		effective_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(product_id, version)
	);

	CREATE INDEX IF NOT EXISTS idx_versions_product
		ON product_versions(product_id, is_active, effective_date DESC);

	CREATE TABLE IF NOT EXISTS product_parameters (
		id TEXT PRIMARY KEY,
		version_id TEXT NOT NULL REFERENCES product_versions(id),
		name TEXT NOT NULL,
		data_type TEXT NOT NULL,
		is_required BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS product_formulas (
		id TEXT PRIMARY KEY,
		version_id TEXT NOT NULL REFERENCES product_versions(id),
		name TEXT NOT NULL,
		expression TEXT NOT NULL,
		execution_order INTEGER NOT NULL,
		description TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_formulas_version
		ON product_formulas(version_id, execution_order);

	CREATE TABLE IF NOT EXISTS condition_groups (
		id TEXT PRIMARY KEY,
		version_id TEXT NOT NULL REFERENCES product_versions(id),
		parent_group_id TEXT REFERENCES condition_groups(id),
		name TEXT,
		logical_operator TEXT NOT NULL DEFAULT 'AND',
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_condition_groups_version
		ON condition_groups(version_id);

	CREATE TABLE IF NOT EXISTS conditions (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL REFERENCES condition_groups(id),
		parameter_name TEXT NOT NULL,
		operator TEXT NOT NULL,
		value TEXT NOT NULL,
		value2 TEXT,
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS gmb_factors (
		id TEXT PRIMARY KEY,
		ppt INTEGER NOT NULL,
		pt INTEGER NOT NULL,
		entry_age_min INTEGER NOT NULL,
		entry_age_max INTEGER NOT NULL,
		option TEXT NOT NULL,
		factor TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS gsv_factors (
		id TEXT PRIMARY KEY,
		ppt INTEGER NOT NULL,
		policy_year INTEGER NOT NULL,
		factor_percent TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ssv_factors (
		id TEXT PRIMARY KEY,
		ppt INTEGER NOT NULL,
		policy_year INTEGER NOT NULL,
		factor1 TEXT NOT NULL,
		factor2 TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS loyalty_factors (
		id TEXT PRIMARY KEY,
		ppt INTEGER NOT NULL,
		policy_year_from INTEGER NOT NULL,
		policy_year_to INTEGER,
		rate_percent TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS deferred_income_factors (
		id TEXT PRIMARY KEY,
		ppt INTEGER NOT NULL,
		pt INTEGER NOT NULL,
		policy_year INTEGER NOT NULL,
		rate_percent TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORDS
// =============================================================================

// ProductRecord is a catalog row.
type ProductRecord struct {
	ID          string
	Code        string
	Name        string
	ProductType string
	Insurer     string
	CreatedAt   time.Time
}

// VersionRecord is one version of a product.
type VersionRecord struct {
	ID            string
	ProductID     string
	Version       string
	IsActive      bool
	EffectiveDate time.Time
}

// =============================================================================
// PRODUCT CATALOG
// =============================================================================

// SaveProduct persists a complete product definition: product row, version,
// parameters, formulas, and eligibility trees, in one transaction.
func (s *Store) SaveProduct(ctx context.Context, def factory.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	productID := ""
	err = tx.QueryRowContext(ctx, `SELECT id FROM products WHERE code = ?`, def.Code).Scan(&productID)
	if err == sql.ErrNoRows {
		productID = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (id, code, name, product_type, insurer, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			productID, def.Code, def.Name, def.ProductType, def.Insurer, now)
	}
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", def.Code, err)
	}

	versionID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO product_versions (id, product_id, version, is_active, effective_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		versionID, productID, def.Version, def.IsActive, def.EffectiveDate.Format("2006-01-02"), now)
	if err != nil {
		return fmt.Errorf("failed to save version %s of %s: %w", def.Version, def.Code, err)
	}

	for _, p := range def.Parameters {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO product_parameters (id, version_id, name, data_type, is_required, description) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), versionID, p.Name, p.DataType, p.Required, p.Description)
		if err != nil {
			return fmt.Errorf("failed to save parameter %s: %w", p.Name, err)
		}
	}

	for _, f := range def.Formulas {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO product_formulas (id, version_id, name, expression, execution_order, description) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), versionID, f.Name, f.Expression, f.ExecutionOrder, f.Description)
		if err != nil {
			return fmt.Errorf("failed to save formula %s: %w", f.Name, err)
		}
	}

	for i, g := range def.Eligibility {
		if err := insertGroup(ctx, tx, versionID, nil, g, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertGroup(ctx context.Context, tx *sql.Tx, versionID string, parentID *string, g engine.ConditionGroup, position int) error {
	groupID := uuid.NewString()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO condition_groups (id, version_id, parent_group_id, name, logical_operator, position) VALUES (?, ?, ?, ?, ?, ?)`,
		groupID, versionID, parentID, g.Name, g.LogicalOperator, position)
	if err != nil {
		return fmt.Errorf("failed to save condition group %s: %w", g.Name, err)
	}
	for i, c := range g.Conditions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO conditions (id, group_id, parameter_name, operator, value, value2, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), groupID, c.ParameterName, c.Operator, c.Value, c.Value2, i)
		if err != nil {
			return fmt.Errorf("failed to save condition on %s: %w", c.ParameterName, err)
		}
	}
	for i, child := range g.Groups {
		if err := insertGroup(ctx, tx, versionID, &groupID, child, i); err != nil {
			return err
		}
	}
	return nil
}

// GetProduct returns the catalog row for a product code, or nil when absent.
func (s *Store) GetProduct(ctx context.Context, code string) (*ProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, product_type, COALESCE(insurer, ''), created_at FROM products WHERE code = ?`, code)

	var p ProductRecord
	var createdAt string
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.ProductType, &p.Insurer, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// ListProducts returns all catalog rows.
func (s *Store) ListProducts(ctx context.Context) ([]ProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, product_type, COALESCE(insurer, ''), created_at FROM products ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductRecord
	for rows.Next() {
		var p ProductRecord
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.ProductType, &p.Insurer, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetVersion resolves a product version. An empty version string selects
// the latest active version by effective date. Returns nil when no
// matching version exists.
func (s *Store) GetVersion(ctx context.Context, productID, version string) (*VersionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row *sql.Row
	if version != "" {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, product_id, version, is_active, effective_date FROM product_versions
			 WHERE product_id = ? AND version = ?`, productID, version)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, product_id, version, is_active, effective_date FROM product_versions
			 WHERE product_id = ? AND is_active = TRUE
			 ORDER BY effective_date DESC LIMIT 1`, productID)
	}

	var v VersionRecord
	var effective string
	if err := row.Scan(&v.ID, &v.ProductID, &v.Version, &v.IsActive, &effective); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	v.EffectiveDate, _ = time.Parse("2006-01-02", effective)
	return &v, nil
}

// GetFormulas returns a version's formulas in execution order.
func (s *Store) GetFormulas(ctx context.Context, versionID string) ([]engine.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, expression, execution_order, COALESCE(description, '') FROM product_formulas
		 WHERE version_id = ? ORDER BY execution_order, rowid`, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Formula
	for rows.Next() {
		var f engine.Formula
		if err := rows.Scan(&f.Name, &f.Expression, &f.ExecutionOrder, &f.Description); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetParameters returns a version's declared parameters.
func (s *Store) GetParameters(ctx context.Context, versionID string) ([]factory.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, data_type, is_required, COALESCE(description, '') FROM product_parameters
		 WHERE version_id = ? ORDER BY rowid`, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []factory.Parameter
	for rows.Next() {
		var p factory.Parameter
		if err := rows.Scan(&p.Name, &p.DataType, &p.Required, &p.Description); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetConditionGroups reassembles a version's eligibility trees from the
// flat parent-id rows. Only root groups are returned; children are nested.
func (s *Store) GetConditionGroups(ctx context.Context, versionID string) ([]engine.ConditionGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type groupRow struct {
		id       string
		parentID sql.NullString
		group    engine.ConditionGroup
	}

	// rowid order is insertion order, which puts every parent before its
	// children (insertGroup writes the parent row first).
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_group_id, COALESCE(name, ''), logical_operator FROM condition_groups
		 WHERE version_id = ? ORDER BY rowid`, versionID)
	if err != nil {
		return nil, err
	}
	var flat []*groupRow
	byID := make(map[string]*groupRow)
	for rows.Next() {
		gr := &groupRow{}
		if err := rows.Scan(&gr.id, &gr.parentID, &gr.group.Name, &gr.group.LogicalOperator); err != nil {
			rows.Close()
			return nil, err
		}
		flat = append(flat, gr)
		byID[gr.id] = gr
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, gr := range flat {
		crows, err := s.db.QueryContext(ctx,
			`SELECT parameter_name, operator, value, COALESCE(value2, '') FROM conditions
			 WHERE group_id = ? ORDER BY position, rowid`, gr.id)
		if err != nil {
			return nil, err
		}
		for crows.Next() {
			var c engine.Condition
			if err := crows.Scan(&c.ParameterName, &c.Operator, &c.Value, &c.Value2); err != nil {
				crows.Close()
				return nil, err
			}
			gr.group.Conditions = append(gr.group.Conditions, c)
		}
		crows.Close()
		if err := crows.Err(); err != nil {
			return nil, err
		}
	}

	// Attach children bottom-up: walking the slice in reverse guarantees a
	// child's own subtree is complete before it is copied into its parent.
	var roots []engine.ConditionGroup
	for i := len(flat) - 1; i >= 0; i-- {
		gr := flat[i]
		if gr.parentID.Valid {
			parent := byID[gr.parentID.String]
			parent.group.Groups = append([]engine.ConditionGroup{gr.group}, parent.group.Groups...)
		}
	}
	for _, gr := range flat {
		if !gr.parentID.Valid {
			roots = append(roots, gr.group)
		}
	}
	return roots, nil
}

// =============================================================================
// FACTOR TABLES
// =============================================================================

// SaveFactorTables inserts all rows of a factor table snapshot.
func (s *Store) SaveFactorTables(ctx context.Context, tables benefit.FactorTables) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range tables.GMB {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO gmb_factors (id, ppt, pt, entry_age_min, entry_age_max, option, factor) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), r.Ppt, r.Pt, r.EntryAgeMin, r.EntryAgeMax, r.Option, r.Factor.String())
		if err != nil {
			return fmt.Errorf("failed to save gmb factor: %w", err)
		}
	}
	for _, r := range tables.GSV {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO gsv_factors (id, ppt, policy_year, factor_percent) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), r.Ppt, r.PolicyYear, r.FactorPercent.String())
		if err != nil {
			return fmt.Errorf("failed to save gsv factor: %w", err)
		}
	}
	for _, r := range tables.SSV {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ssv_factors (id, ppt, policy_year, factor1, factor2) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), r.Ppt, r.PolicyYear, r.Factor1.String(), r.Factor2.String())
		if err != nil {
			return fmt.Errorf("failed to save ssv factor: %w", err)
		}
	}
	for _, r := range tables.Loyalty {
		var to any
		if r.PolicyYearTo != nil {
			to = *r.PolicyYearTo
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO loyalty_factors (id, ppt, policy_year_from, policy_year_to, rate_percent) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), r.Ppt, r.PolicyYearFrom, to, r.RatePercent.String())
		if err != nil {
			return fmt.Errorf("failed to save loyalty factor: %w", err)
		}
	}
	for _, r := range tables.DeferredIncome {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO deferred_income_factors (id, ppt, pt, policy_year, rate_percent) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), r.Ppt, r.Pt, r.PolicyYear, r.RatePercent.String())
		if err != nil {
			return fmt.Errorf("failed to save deferred income factor: %w", err)
		}
	}

	return tx.Commit()
}

// LoadFactorTables reads the full factor table snapshot. Each calculation
// request should load its own snapshot so table updates never become
// visible mid-calculation.
func (s *Store) LoadFactorTables(ctx context.Context) (benefit.FactorTables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tables benefit.FactorTables

	rows, err := s.db.QueryContext(ctx,
		`SELECT ppt, pt, entry_age_min, entry_age_max, option, factor FROM gmb_factors ORDER BY rowid`)
	if err != nil {
		return tables, err
	}
	for rows.Next() {
		var r benefit.GMBFactor
		var factor string
		if err := rows.Scan(&r.Ppt, &r.Pt, &r.EntryAgeMin, &r.EntryAgeMax, &r.Option, &factor); err != nil {
			rows.Close()
			return tables, err
		}
		if r.Factor, err = decimal.NewFromString(factor); err != nil {
			rows.Close()
			return tables, fmt.Errorf("bad gmb factor %q: %w", factor, err)
		}
		tables.GMB = append(tables.GMB, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tables, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT ppt, policy_year, factor_percent FROM gsv_factors ORDER BY rowid`)
	if err != nil {
		return tables, err
	}
	for rows.Next() {
		var r benefit.GSVFactor
		var pct string
		if err := rows.Scan(&r.Ppt, &r.PolicyYear, &pct); err != nil {
			rows.Close()
			return tables, err
		}
		if r.FactorPercent, err = decimal.NewFromString(pct); err != nil {
			rows.Close()
			return tables, fmt.Errorf("bad gsv factor %q: %w", pct, err)
		}
		tables.GSV = append(tables.GSV, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tables, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT ppt, policy_year, factor1, factor2 FROM ssv_factors ORDER BY rowid`)
	if err != nil {
		return tables, err
	}
	for rows.Next() {
		var r benefit.SSVFactor
		var f1, f2 string
		if err := rows.Scan(&r.Ppt, &r.PolicyYear, &f1, &f2); err != nil {
			rows.Close()
			return tables, err
		}
		if r.Factor1, err = decimal.NewFromString(f1); err != nil {
			rows.Close()
			return tables, fmt.Errorf("bad ssv factor %q: %w", f1, err)
		}
		if r.Factor2, err = decimal.NewFromString(f2); err != nil {
			rows.Close()
			return tables, fmt.Errorf("bad ssv factor %q: %w", f2, err)
		}
		tables.SSV = append(tables.SSV, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tables, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT ppt, policy_year_from, policy_year_to, rate_percent FROM loyalty_factors ORDER BY rowid`)
	if err != nil {
		return tables, err
	}
	for rows.Next() {
		var r benefit.LoyaltyFactor
		var to sql.NullInt64
		var rate string
		if err := rows.Scan(&r.Ppt, &r.PolicyYearFrom, &to, &rate); err != nil {
			rows.Close()
			return tables, err
		}
		if to.Valid {
			y := int(to.Int64)
			r.PolicyYearTo = &y
		}
		if r.RatePercent, err = decimal.NewFromString(rate); err != nil {
			rows.Close()
			return tables, fmt.Errorf("bad loyalty rate %q: %w", rate, err)
		}
		tables.Loyalty = append(tables.Loyalty, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tables, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT ppt, pt, policy_year, rate_percent FROM deferred_income_factors ORDER BY rowid`)
	if err != nil {
		return tables, err
	}
	for rows.Next() {
		var r benefit.DeferredIncomeFactor
		var rate string
		if err := rows.Scan(&r.Ppt, &r.Pt, &r.PolicyYear, &rate); err != nil {
			rows.Close()
			return tables, err
		}
		if r.RatePercent, err = decimal.NewFromString(rate); err != nil {
			rows.Close()
			return tables, fmt.Errorf("bad deferred rate %q: %w", rate, err)
		}
		tables.DeferredIncome = append(tables.DeferredIncome, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return tables, err
	}

	return tables, nil
}

// =============================================================================
// SEEDING
// =============================================================================

// Seed loads the built-in Century Income product and factor tables into an
// empty database. Idempotent: an already-seeded database is left alone.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.RLock()
	var productCount, factorCount int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&productCount)
	if err == nil {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gmb_factors`).Scan(&factorCount)
	}
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if productCount == 0 {
		if err := s.SaveProduct(ctx, factory.CenturyIncome()); err != nil {
			return fmt.Errorf("failed to seed sample product: %w", err)
		}
	}
	if factorCount == 0 {
		if err := s.SaveFactorTables(ctx, factory.CenturyIncomeTables()); err != nil {
			return fmt.Errorf("failed to seed factor tables: %w", err)
		}
	}
	return nil
}
