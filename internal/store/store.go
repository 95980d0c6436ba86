// Package store keeps the substance reference data used to complete
// mixtures and answer classification questions, in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/unbound-force/clpmix/internal/classify"
	"github.com/unbound-force/clpmix/internal/taxonomy"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no substance has the requested CAS
// number.
var ErrNotFound = errors.New("substance not found")

const schema = `
CREATE TABLE IF NOT EXISTS substances (
	cas              TEXT PRIMARY KEY,
	name             TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	ec_number        TEXT NOT NULL DEFAULT '',
	classification   TEXT NOT NULL DEFAULT '',
	details_url      TEXT NOT NULL DEFAULT '',
	source           TEXT NOT NULL DEFAULT '',
	m_factor         REAL,
	m_chronic_factor REAL,
	updated_at       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS hazard_codes (
	cas         TEXT NOT NULL REFERENCES substances(cas) ON DELETE CASCADE,
	class_token TEXT NOT NULL,
	h_code      TEXT NOT NULL,
	PRIMARY KEY (cas, class_token, h_code)
);
`

// Store is a SQLite-backed substance reference database. It
// implements classify.Lookup.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

var _ classify.Lookup = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger receiving sync summaries.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open connects to the SQLite database at dsn, applies the connection
// pragmas and creates the schema if needed.
func Open(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{
		db:     db,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectSubstance = `
SELECT cas, name, description, ec_number, classification, details_url,
       source, m_factor, m_chronic_factor, updated_at
FROM substances`

// Get returns the substance with the given CAS number, or ErrNotFound.
func (s *Store) Get(ctx context.Context, cas string) (*Substance, error) {
	return get(ctx, s.db, normalizeCAS(cas))
}

func get(ctx context.Context, q queryer, cas string) (*Substance, error) {
	row := q.QueryRowContext(ctx, selectSubstance+` WHERE cas = ?`, cas)
	sub, err := scanSubstance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cas)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", cas, err)
	}
	codes, err := hazardCodes(ctx, q, cas)
	if err != nil {
		return nil, err
	}
	sub.HazardCodes = codes
	return sub, nil
}

// List returns every substance ordered by CAS number.
func (s *Store) List(ctx context.Context) ([]Substance, error) {
	return list(ctx, s.db)
}

func list(ctx context.Context, q queryer) ([]Substance, error) {
	rows, err := q.QueryContext(ctx, selectSubstance+` ORDER BY cas`)
	if err != nil {
		return nil, fmt.Errorf("list substances: %w", err)
	}
	var subs []Substance
	for rows.Next() {
		sub, err := scanSubstance(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("list substances: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("list substances: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list substances: %w", err)
	}

	all, err := allHazardCodes(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		subs[i].HazardCodes = all[subs[i].CAS]
	}
	return subs, nil
}

// Upsert inserts sub or replaces the stored substance with the same
// CAS number, including its hazard codes.
func (s *Store) Upsert(ctx context.Context, sub Substance) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return upsert(ctx, tx, sub, s.now())
	})
}

// Delete removes the substance with the given CAS number.
func (s *Store) Delete(ctx context.Context, cas string) error {
	cas = normalizeCAS(cas)
	res, err := s.db.ExecContext(ctx, `DELETE FROM substances WHERE cas = ?`, cas)
	if err != nil {
		return fmt.Errorf("delete %s: %w", cas, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, cas)
	}
	return nil
}

// Classes returns the distinct classification tokens used by stored
// substances, sorted by their text form.
func (s *Store) Classes(ctx context.Context) ([]taxonomy.Token, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT classification FROM substances WHERE classification <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]taxonomy.Token)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("list classes: %w", err)
		}
		tokens, err := taxonomy.ParseTokenList(text)
		if err != nil {
			return nil, fmt.Errorf("stored classification %q: %w", text, err)
		}
		for _, t := range tokens {
			seen[t.String()] = t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]taxonomy.Token, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out, nil
}

// Lookup implements classify.Lookup. Unknown substances yield
// (nil, nil).
func (s *Store) Lookup(ctx context.Context, cas string) (*classify.Record, error) {
	sub, err := s.Get(ctx, cas)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub.Record(), nil
}

// Complete fills the classification of mixture entries that carry a
// CAS number but no classification from the stored substance. Name is
// filled too when empty. It returns the indices of completed entries.
func (s *Store) Complete(ctx context.Context, m *taxonomy.Mixture) ([]int, error) {
	var filled []int
	for i := range m.Substances {
		entry := &m.Substances[i]
		if entry.CAS == "" || len(entry.Classification) > 0 {
			continue
		}
		sub, err := s.Get(ctx, entry.CAS)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return filled, err
		}
		entry.Classification = slices.Clone(sub.Classification)
		if entry.Name == "" {
			entry.Name = sub.Name
		}
		filled = append(filled, i)
	}
	return filled, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func upsert(ctx context.Context, q queryer, sub Substance, now time.Time) error {
	cas := normalizeCAS(sub.CAS)
	_, err := q.ExecContext(ctx, `
INSERT INTO substances (cas, name, description, ec_number, classification,
                        details_url, source, m_factor, m_chronic_factor, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(cas) DO UPDATE SET
	name = excluded.name,
	description = excluded.description,
	ec_number = excluded.ec_number,
	classification = excluded.classification,
	details_url = excluded.details_url,
	source = excluded.source,
	m_factor = excluded.m_factor,
	m_chronic_factor = excluded.m_chronic_factor,
	updated_at = excluded.updated_at`,
		cas, sub.Name, sub.Description, sub.ECNumber,
		taxonomy.JoinTokens(sub.Classification),
		sub.DetailsURL, sub.Source,
		nullFloat(sub.MFactor), nullFloat(sub.MChronicFactor),
		now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", cas, err)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM hazard_codes WHERE cas = ?`, cas); err != nil {
		return fmt.Errorf("upsert %s: clearing hazard codes: %w", cas, err)
	}
	for token, codes := range sub.HazardCodes {
		key := canonicalHazardKey(token)
		for _, h := range codes {
			_, err := q.ExecContext(ctx,
				`INSERT OR IGNORE INTO hazard_codes (cas, class_token, h_code) VALUES (?, ?, ?)`,
				cas, key, string(h))
			if err != nil {
				return fmt.Errorf("upsert %s: hazard code %s: %w", cas, h, err)
			}
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubstance(sc scanner) (*Substance, error) {
	var (
		sub            Substance
		classification string
		mAcute, mChron sql.NullFloat64
		updated        string
	)
	err := sc.Scan(&sub.CAS, &sub.Name, &sub.Description, &sub.ECNumber,
		&classification, &sub.DetailsURL, &sub.Source, &mAcute, &mChron, &updated)
	if err != nil {
		return nil, err
	}
	if classification != "" {
		sub.Classification, err = taxonomy.ParseTokenList(classification)
		if err != nil {
			return nil, fmt.Errorf("substance %s: stored classification: %w", sub.CAS, err)
		}
	}
	if mAcute.Valid {
		sub.MFactor = &mAcute.Float64
	}
	if mChron.Valid {
		sub.MChronicFactor = &mChron.Float64
	}
	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		sub.UpdatedAt = t
	}
	return &sub, nil
}

func hazardCodes(ctx context.Context, q queryer, cas string) (map[string][]taxonomy.HazardCode, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT cas, class_token, h_code FROM hazard_codes WHERE cas = ? ORDER BY class_token, h_code`, cas)
	if err != nil {
		return nil, fmt.Errorf("hazard codes for %s: %w", cas, err)
	}
	all, err := collectHazardCodes(rows)
	if err != nil {
		return nil, err
	}
	return all[cas], nil
}

func allHazardCodes(ctx context.Context, q queryer) (map[string]map[string][]taxonomy.HazardCode, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT cas, class_token, h_code FROM hazard_codes ORDER BY cas, class_token, h_code`)
	if err != nil {
		return nil, fmt.Errorf("hazard codes: %w", err)
	}
	return collectHazardCodes(rows)
}

func collectHazardCodes(rows *sql.Rows) (map[string]map[string][]taxonomy.HazardCode, error) {
	defer rows.Close()
	out := make(map[string]map[string][]taxonomy.HazardCode)
	for rows.Next() {
		var cas, token, code string
		if err := rows.Scan(&cas, &token, &code); err != nil {
			return nil, fmt.Errorf("hazard codes: %w", err)
		}
		if out[cas] == nil {
			out[cas] = make(map[string][]taxonomy.HazardCode)
		}
		out[cas][token] = append(out[cas][token], taxonomy.HazardCode(code))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hazard codes: %w", err)
	}
	return out, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil || math.IsNaN(*p) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func normalizeCAS(cas string) string {
	return strings.TrimSpace(cas)
}

// canonicalHazardKey rewrites a hazard code key such as
// "Acute Tox. 3 (oral)" to its unqualified token text. Keys that do not
// parse are kept verbatim; Validate rejects them before they get here.
func canonicalHazardKey(key string) string {
	t, err := taxonomy.ParseToken(key)
	if err != nil {
		return key
	}
	return t.Base().String()
}
