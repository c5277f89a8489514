package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

// SQLiteStore implements Store on a local SQLite file. Meant for single-user
// CLI runs where a Postgres instance is overkill.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the SQLite database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS cases (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	faktum_text TEXT NOT NULL,
	category    TEXT,
	status      TEXT NOT NULL DEFAULT 'draft',
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS clarifications (
	id          TEXT PRIMARY KEY,
	case_id     TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	question    TEXT NOT NULL,
	user_answer TEXT,
	order_index INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS evidence (
	id              TEXT PRIMARY KEY,
	case_id         TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	source_name     TEXT NOT NULL,
	url             TEXT NOT NULL,
	title           TEXT NOT NULL,
	excerpt         TEXT NOT NULL,
	section_hint    TEXT,
	source_priority INTEGER NOT NULL,
	retrieved_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	id                 TEXT PRIMARY KEY,
	case_id            TEXT NOT NULL UNIQUE REFERENCES cases(id) ON DELETE CASCADE,
	qa_json            TEXT NOT NULL,
	checklist_json     TEXT NOT NULL,
	documentation_json TEXT NOT NULL,
	sources_json       TEXT NOT NULL,
	sensitive_json     TEXT NOT NULL,
	created_at         TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_user_id ON cases(user_id);
CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
CREATE INDEX IF NOT EXISTS idx_clarifications_case_id ON clarifications(case_id);
CREATE INDEX IF NOT EXISTS idx_evidence_case_id ON evidence(case_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_evidence_case_url ON evidence(case_id, url);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return eris.Wrap(s.db.Close(), "sqlite: close")
}

func (s *SQLiteStore) CreateCase(ctx context.Context, userID, faktum string, category model.LegalCategory) (*model.Case, error) {
	c := &model.Case{
		ID:        uuid.New().String(),
		UserID:    userID,
		Faktum:    faktum,
		Category:  category,
		Status:    model.CaseStatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (id, user_id, faktum_text, category, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Faktum, nullable(string(c.Category)), string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create case")
	}
	return c, nil
}

func (s *SQLiteStore) GetCase(ctx context.Context, id string) (*model.Case, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, faktum_text, COALESCE(category, ''), status, created_at, updated_at FROM cases WHERE id = ?`,
		id,
	)

	var c model.Case
	var category, status string
	if err := row.Scan(&c.ID, &c.UserID, &c.Faktum, &category, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: get case")
	}
	c.Category = model.LegalCategory(category)
	c.Status = model.CaseStatus(status)
	return &c, nil
}

func (s *SQLiteStore) ListCases(ctx context.Context, filter CaseFilter) ([]model.Case, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, faktum_text, COALESCE(category, ''), status, created_at, updated_at
		 FROM cases
		 WHERE (? = '' OR user_id = ?) AND (? = '' OR status = ?)
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		filter.UserID, filter.UserID, string(filter.Status), string(filter.Status), limit, filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list cases")
	}
	defer rows.Close()

	var cases []model.Case
	for rows.Next() {
		var c model.Case
		var category, status string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Faktum, &category, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan case")
		}
		c.Category = model.LegalCategory(category)
		c.Status = model.CaseStatus(status)
		cases = append(cases, c)
	}
	return cases, eris.Wrap(rows.Err(), "sqlite: list cases rows")
}

func (s *SQLiteStore) DeleteCase(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete case")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdateCaseStatus(ctx context.Context, id string, status model.CaseStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cases SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update case status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) BeginAnalysis(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cases SET status = ?, updated_at = ? WHERE id = ? AND status <> ?`,
		string(model.CaseStatusAnalyzing), time.Now().UTC(), id, string(model.CaseStatusAnalyzing),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin analysis")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAnalysisInProgress
	}
	return nil
}

func (s *SQLiteStore) InsertClarifications(ctx context.Context, caseID string, questions []string) ([]model.Clarification, error) {
	out := make([]model.Clarification, 0, len(questions))
	for i, q := range questions {
		c := model.Clarification{
			ID:         uuid.New().String(),
			CaseID:     caseID,
			Question:   q,
			OrderIndex: i,
			CreatedAt:  time.Now().UTC(),
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO clarifications (id, case_id, question, order_index, created_at) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.CaseID, c.Question, c.OrderIndex, c.CreatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: insert clarification")
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *SQLiteStore) AnswerClarification(ctx context.Context, id, answer string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE clarifications SET user_answer = ? WHERE id = ?`,
		answer, id,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: answer clarification")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListClarifications(ctx context.Context, caseID string) ([]model.Clarification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, question, COALESCE(user_answer, ''), order_index, created_at
		 FROM clarifications WHERE case_id = ? ORDER BY order_index`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list clarifications")
	}
	defer rows.Close()

	var out []model.Clarification
	for rows.Next() {
		var c model.Clarification
		if err := rows.Scan(&c.ID, &c.CaseID, &c.Question, &c.UserAnswer, &c.OrderIndex, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan clarification")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list clarifications rows")
}

func (s *SQLiteStore) InsertEvidence(ctx context.Context, items []model.Evidence) error {
	// Batch dedup happens here; URLs already stored by an earlier run are
	// absorbed by the unique (case_id, url) index.
	for _, item := range model.DedupEvidence(items) {
		id := item.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO evidence (id, case_id, source_name, url, title, excerpt, section_hint, source_priority, retrieved_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (case_id, url) DO NOTHING`,
			id, item.CaseID, item.SourceName, item.URL, item.Title, item.Excerpt,
			nullable(item.SectionHint), item.SourcePriority, time.Now().UTC(),
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert evidence")
		}
	}
	return nil
}

func (s *SQLiteStore) ListEvidence(ctx context.Context, caseID string) ([]model.Evidence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, source_name, url, title, excerpt, COALESCE(section_hint, ''), source_priority, retrieved_at
		 FROM evidence WHERE case_id = ? ORDER BY source_priority, retrieved_at`,
		caseID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list evidence")
	}
	defer rows.Close()

	var out []model.Evidence
	for rows.Next() {
		var e model.Evidence
		if err := rows.Scan(&e.ID, &e.CaseID, &e.SourceName, &e.URL, &e.Title, &e.Excerpt, &e.SectionHint, &e.SourcePriority, &e.RetrievedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan evidence")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list evidence rows")
}

func (s *SQLiteStore) SaveResult(ctx context.Context, result *model.Result) error {
	qa, err := json.Marshal(result.QAItems)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal qa items")
	}
	checklist, err := json.Marshal(result.Checklist)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal checklist")
	}
	documentation, err := json.Marshal(result.Documentation)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal documentation")
	}
	sources, err := json.Marshal(result.Sources)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal sources")
	}
	sensitive, err := json.Marshal(result.SensitiveTopics)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal sensitive topics")
	}

	id := result.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, case_id, qa_json, checklist_json, documentation_json, sources_json, sensitive_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (case_id) DO UPDATE SET
		   qa_json = excluded.qa_json,
		   checklist_json = excluded.checklist_json,
		   documentation_json = excluded.documentation_json,
		   sources_json = excluded.sources_json,
		   sensitive_json = excluded.sensitive_json,
		   created_at = excluded.created_at`,
		id, result.CaseID, string(qa), string(checklist), string(documentation), string(sources), string(sensitive), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save result")
}

func (s *SQLiteStore) GetResult(ctx context.Context, caseID string) (*model.Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, case_id, qa_json, checklist_json, documentation_json, sources_json, sensitive_json, created_at
		 FROM results WHERE case_id = ?`,
		caseID,
	)

	var r model.Result
	var qa, checklist, documentation, sources, sensitive string
	if err := row.Scan(&r.ID, &r.CaseID, &qa, &checklist, &documentation, &sources, &sensitive, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: get result")
	}

	if err := json.Unmarshal([]byte(qa), &r.QAItems); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal qa items")
	}
	if err := json.Unmarshal([]byte(checklist), &r.Checklist); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal checklist")
	}
	if err := json.Unmarshal([]byte(documentation), &r.Documentation); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal documentation")
	}
	if err := json.Unmarshal([]byte(sources), &r.Sources); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal sources")
	}
	if err := json.Unmarshal([]byte(sensitive), &r.SensitiveTopics); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal sensitive topics")
	}
	return &r, nil
}
