package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS cases (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	faktum_text TEXT NOT NULL,
	category    TEXT,
	status      TEXT NOT NULL DEFAULT 'draft',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clarifications (
	id          UUID PRIMARY KEY,
	case_id     UUID NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	question    TEXT NOT NULL,
	user_answer TEXT,
	order_index INT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS evidence (
	id              UUID PRIMARY KEY,
	case_id         UUID NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	source_name     TEXT NOT NULL,
	url             TEXT NOT NULL,
	title           TEXT NOT NULL,
	excerpt         TEXT NOT NULL,
	section_hint    TEXT,
	source_priority INT NOT NULL,
	retrieved_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS results (
	id                 UUID PRIMARY KEY,
	case_id            UUID NOT NULL UNIQUE REFERENCES cases(id) ON DELETE CASCADE,
	qa_json            JSONB NOT NULL,
	checklist_json     JSONB NOT NULL,
	documentation_json JSONB NOT NULL,
	sources_json       JSONB NOT NULL,
	sensitive_json     JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_cases_user_id ON cases(user_id);
CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
CREATE INDEX IF NOT EXISTS idx_clarifications_case_id ON clarifications(case_id);
CREATE INDEX IF NOT EXISTS idx_evidence_case_id ON evidence(case_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_evidence_case_url ON evidence(case_id, url);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateCase(ctx context.Context, userID, faktum string, category model.LegalCategory) (*model.Case, error) {
	c := &model.Case{
		ID:        uuid.New().String(),
		UserID:    userID,
		Faktum:    faktum,
		Category:  category,
		Status:    model.CaseStatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO cases (id, user_id, faktum_text, category, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UserID, c.Faktum, nullable(string(c.Category)), string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create case")
	}
	return c, nil
}

func (s *PostgresStore) GetCase(ctx context.Context, id string) (*model.Case, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, faktum_text, COALESCE(category, ''), status, created_at, updated_at FROM cases WHERE id = $1`,
		id,
	)

	var c model.Case
	var category, status string
	if err := row.Scan(&c.ID, &c.UserID, &c.Faktum, &category, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: get case")
	}
	c.Category = model.LegalCategory(category)
	c.Status = model.CaseStatus(status)
	return &c, nil
}

func (s *PostgresStore) ListCases(ctx context.Context, filter CaseFilter) ([]model.Case, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, faktum_text, COALESCE(category, ''), status, created_at, updated_at
		 FROM cases
		 WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		filter.UserID, string(filter.Status), limit, filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list cases")
	}
	defer rows.Close()

	var cases []model.Case
	for rows.Next() {
		var c model.Case
		var category, status string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Faktum, &category, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan case")
		}
		c.Category = model.LegalCategory(category)
		c.Status = model.CaseStatus(status)
		cases = append(cases, c)
	}
	return cases, eris.Wrap(rows.Err(), "postgres: list cases rows")
}

func (s *PostgresStore) DeleteCase(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return eris.Wrap(err, "postgres: delete case")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateCaseStatus(ctx context.Context, id string, status model.CaseStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE cases SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update case status")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) BeginAnalysis(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE cases SET status = $1, updated_at = $2 WHERE id = $3 AND status <> $1`,
		string(model.CaseStatusAnalyzing), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: begin analysis")
	}
	if tag.RowsAffected() == 0 {
		return ErrAnalysisInProgress
	}
	return nil
}

func (s *PostgresStore) InsertClarifications(ctx context.Context, caseID string, questions []string) ([]model.Clarification, error) {
	out := make([]model.Clarification, 0, len(questions))
	for i, q := range questions {
		c := model.Clarification{
			ID:         uuid.New().String(),
			CaseID:     caseID,
			Question:   q,
			OrderIndex: i,
			CreatedAt:  time.Now().UTC(),
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO clarifications (id, case_id, question, order_index, created_at) VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.CaseID, c.Question, c.OrderIndex, c.CreatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: insert clarification")
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *PostgresStore) AnswerClarification(ctx context.Context, id, answer string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE clarifications SET user_answer = $1 WHERE id = $2`,
		answer, id,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: answer clarification")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListClarifications(ctx context.Context, caseID string) ([]model.Clarification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, case_id, question, COALESCE(user_answer, ''), order_index, created_at
		 FROM clarifications WHERE case_id = $1 ORDER BY order_index`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list clarifications")
	}
	defer rows.Close()

	var out []model.Clarification
	for rows.Next() {
		var c model.Clarification
		if err := rows.Scan(&c.ID, &c.CaseID, &c.Question, &c.UserAnswer, &c.OrderIndex, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan clarification")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list clarifications rows")
}

func (s *PostgresStore) InsertEvidence(ctx context.Context, items []model.Evidence) error {
	// Batch dedup happens here; URLs already stored by an earlier run are
	// absorbed by the unique (case_id, url) index.
	for _, item := range model.DedupEvidence(items) {
		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO evidence (id, case_id, source_name, url, title, excerpt, section_hint, source_priority, retrieved_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (case_id, url) DO NOTHING`,
			id, item.CaseID, item.SourceName, item.URL, item.Title, item.Excerpt,
			nullable(item.SectionHint), item.SourcePriority, time.Now().UTC(),
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert evidence")
		}
	}
	return nil
}

func (s *PostgresStore) ListEvidence(ctx context.Context, caseID string) ([]model.Evidence, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, case_id, source_name, url, title, excerpt, COALESCE(section_hint, ''), source_priority, retrieved_at
		 FROM evidence WHERE case_id = $1 ORDER BY source_priority, retrieved_at`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list evidence")
	}
	defer rows.Close()

	var out []model.Evidence
	for rows.Next() {
		var e model.Evidence
		if err := rows.Scan(&e.ID, &e.CaseID, &e.SourceName, &e.URL, &e.Title, &e.Excerpt, &e.SectionHint, &e.SourcePriority, &e.RetrievedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan evidence")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list evidence rows")
}

func (s *PostgresStore) SaveResult(ctx context.Context, result *model.Result) error {
	qa, err := json.Marshal(result.QAItems)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal qa items")
	}
	checklist, err := json.Marshal(result.Checklist)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal checklist")
	}
	documentation, err := json.Marshal(result.Documentation)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal documentation")
	}
	sources, err := json.Marshal(result.Sources)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal sources")
	}
	sensitive, err := json.Marshal(result.SensitiveTopics)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal sensitive topics")
	}

	id := result.ID
	if id == "" {
		id = uuid.New().String()
	}

	// Wholesale replace: a re-run overwrites the prior result row, never
	// patches it.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO results (id, case_id, qa_json, checklist_json, documentation_json, sources_json, sensitive_json, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (case_id) DO UPDATE SET
		   qa_json = EXCLUDED.qa_json,
		   checklist_json = EXCLUDED.checklist_json,
		   documentation_json = EXCLUDED.documentation_json,
		   sources_json = EXCLUDED.sources_json,
		   sensitive_json = EXCLUDED.sensitive_json,
		   created_at = EXCLUDED.created_at`,
		id, result.CaseID, qa, checklist, documentation, sources, sensitive, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save result")
}

func (s *PostgresStore) GetResult(ctx context.Context, caseID string) (*model.Result, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, case_id, qa_json, checklist_json, documentation_json, sources_json, sensitive_json, created_at
		 FROM results WHERE case_id = $1`,
		caseID,
	)

	var r model.Result
	var qa, checklist, documentation, sources, sensitive []byte
	if err := row.Scan(&r.ID, &r.CaseID, &qa, &checklist, &documentation, &sources, &sensitive, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: get result")
	}

	if err := json.Unmarshal(qa, &r.QAItems); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal qa items")
	}
	if err := json.Unmarshal(checklist, &r.Checklist); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal checklist")
	}
	if err := json.Unmarshal(documentation, &r.Documentation); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal documentation")
	}
	if err := json.Unmarshal(sources, &r.Sources); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal sources")
	}
	if err := json.Unmarshal(sensitive, &r.SensitiveTopics); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal sensitive topics")
	}
	return &r, nil
}

// nullable maps an empty string to NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
