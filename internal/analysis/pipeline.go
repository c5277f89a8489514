package analysis

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/excerpt"
	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
	"github.com/lovsentralen/saksanalyse/internal/search"
	"github.com/lovsentralen/saksanalyse/internal/store"
)

// Default run-level caps keeping one analysis bounded in external calls.
const (
	defaultMaxQueries       = 20
	defaultMaxPages         = 15
	defaultExcerptsPerIssue = 4
)

// Pipeline orchestrates a full case analysis: issue extraction, search,
// fetch, excerpt scoring, synthesis and the repair passes, with persistence
// at each boundary.
type Pipeline struct {
	store    store.Store
	rc       reason.Client
	searcher searcher
	fetcher  fetcher
	repairer *Repairer

	maxQueries       int
	maxPages         int
	excerptsPerIssue int
}

// PipelineOption adjusts a run bound on a Pipeline.
type PipelineOption func(*Pipeline)

// WithMaxQueries caps how many search queries one run executes.
func WithMaxQueries(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxQueries = n
		}
	}
}

// WithMaxPages caps how many pages one run fetches.
func WithMaxPages(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithExcerptsPerIssue caps how many excerpts each legal issue contributes.
func WithExcerptsPerIssue(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.excerptsPerIssue = n
		}
	}
}

// WithRepairIterations bounds the repair loop per inconsistent item.
func WithRepairIterations(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.repairer.maxIterations = n
		}
	}
}

// NewPipeline wires a Pipeline from its collaborators.
func NewPipeline(st store.Store, rc reason.Client, s searcher, f fetcher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:            st,
		rc:               rc,
		searcher:         s,
		fetcher:          f,
		repairer:         NewRepairer(rc, s, f),
		maxQueries:       defaultMaxQueries,
		maxPages:         defaultMaxPages,
		excerptsPerIssue: defaultExcerptsPerIssue,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze runs the full pipeline for a case. The case status acts as a
// single-run lock: a second Analyze while one is running fails with
// store.ErrAnalysisInProgress. Any failure leaves the case in error
// status; success leaves it completed with a wholesale-written result.
func (p *Pipeline) Analyze(ctx context.Context, caseID string) (err error) {
	c, err := p.store.GetCase(ctx, caseID)
	if err != nil {
		return eris.Wrap(err, "analysis: load case")
	}
	clarifications, err := p.store.ListClarifications(ctx, caseID)
	if err != nil {
		return eris.Wrap(err, "analysis: load clarifications")
	}

	if err := p.store.BeginAnalysis(ctx, caseID); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if serr := p.store.UpdateCaseStatus(ctx, caseID, model.CaseStatusError); serr != nil {
				zap.L().Error("analysis: failed to mark case errored",
					zap.String("case_id", caseID), zap.Error(serr))
			}
		}
	}()

	zap.L().Info("analysis: starting", zap.String("case_id", caseID))

	issues, err := ExtractIssues(ctx, p.rc, c.Faktum, clarifications)
	if err != nil {
		return err
	}

	var queries []string
	for _, issue := range issues {
		for _, q := range search.Plan(issue.Issue, issue.Domain) {
			if len(queries) == p.maxQueries {
				break
			}
			queries = append(queries, q)
		}
	}

	results := p.searcher.SearchMany(ctx, queries)
	if len(results) == 0 {
		return eris.New("analysis: search returned no usable results")
	}

	urls := make([]string, 0, p.maxPages)
	for _, r := range results {
		urls = append(urls, r.URL)
		if len(urls) == p.maxPages {
			break
		}
	}

	pages := p.fetcher.FetchAll(ctx, urls)
	if len(pages) == 0 {
		return eris.New("analysis: no pages could be fetched")
	}
	zap.L().Info("analysis: evidence gathering done",
		zap.String("case_id", caseID),
		zap.Int("queries", len(queries)),
		zap.Int("results", len(results)),
		zap.Int("pages", len(pages)),
	)

	var evidence []model.Evidence
	for _, issue := range issues {
		for _, ex := range excerpt.Extract(pages, issue.Issue, p.excerptsPerIssue) {
			evidence = append(evidence, model.Evidence{
				CaseID:         caseID,
				SourceName:     sourceName(ex.Source.URL),
				URL:            ex.Source.URL,
				Title:          ex.Source.Title,
				Excerpt:        ex.Excerpt,
				SectionHint:    ex.Section,
				SourcePriority: ex.Source.SourcePriority,
			})
		}
	}
	evidence = model.DedupEvidence(evidence)
	if len(evidence) == 0 {
		return eris.New("analysis: no relevant excerpts found")
	}
	if err := p.store.InsertEvidence(ctx, evidence); err != nil {
		return err
	}

	result, err := Synthesize(ctx, p.rc, c.Faktum, clarifications, evidence)
	if err != nil {
		return err
	}
	result.CaseID = caseID

	result.SensitiveTopics = DetectSensitiveTopics(ctx, p.rc, c.Faktum)
	if len(result.SensitiveTopics) > 0 {
		zap.L().Info("analysis: sensitive topics flagged",
			zap.String("case_id", caseID),
			zap.Int("topics", len(result.SensitiveTopics)),
		)
	}

	// Repair passes run in fixed order; each is fail-open so a degraded
	// pass never costs the user the whole analysis.
	result.QAItems = ClarifyVagueTerms(result.QAItems)
	result.QAItems = AttachReasoning(ctx, p.rc, result.QAItems, c.Faktum)
	result.QAItems = SortInLegalOrder(ctx, p.rc, result.QAItems)
	result.QAItems = EvaluateAssumptions(ctx, p.rc, result.QAItems, c.Faktum)
	result.QAItems = p.repairer.EnsureQuality(ctx, result.QAItems, c.Faktum)

	if err := p.store.SaveResult(ctx, result); err != nil {
		return err
	}
	if err := p.store.UpdateCaseStatus(ctx, caseID, model.CaseStatusCompleted); err != nil {
		return eris.Wrap(err, "analysis: mark completed")
	}

	zap.L().Info("analysis: completed",
		zap.String("case_id", caseID),
		zap.Int("qa_items", len(result.QAItems)),
		zap.Int("evidence", len(evidence)),
	)
	return nil
}

// Clarify generates and persists follow-up questions for a case, moving it
// to clarifying status. A preliminary context search helps the model ask
// about the legally relevant facts.
func (p *Pipeline) Clarify(ctx context.Context, caseID string) ([]model.Clarification, error) {
	c, err := p.store.GetCase(ctx, caseID)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: load case")
	}

	legalContext := p.preliminaryContext(ctx, c)

	questions, err := GenerateQuestions(ctx, p.rc, c.Faktum, c.Category, legalContext)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		zap.L().Info("analysis: no clarification needed", zap.String("case_id", caseID))
		return nil, nil
	}

	inserted, err := p.store.InsertClarifications(ctx, caseID, questions)
	if err != nil {
		return nil, err
	}
	if err := p.store.UpdateCaseStatus(ctx, caseID, model.CaseStatusClarifying); err != nil {
		return nil, eris.Wrap(err, "analysis: mark clarifying")
	}
	return inserted, nil
}

// preliminaryContext runs a single cheap search to give question
// generation legal grounding. Best effort: empty on any failure.
func (p *Pipeline) preliminaryContext(ctx context.Context, c *model.Case) string {
	query := summarizeFaktum(c.Faktum)
	if label, ok := model.CategoryLabels[c.Category]; ok {
		query += " " + label
	}
	query += " norsk lov"

	results := p.searcher.SearchMany(ctx, []string{query})
	var sb strings.Builder
	for i, r := range results {
		if i == 5 {
			break
		}
		sb.WriteString(r.Title)
		sb.WriteString(": ")
		sb.WriteString(r.Snippet)
		sb.WriteString("\n")
	}
	return sb.String()
}

// summarizeFaktum crudely shortens the faktum into query-sized text.
func summarizeFaktum(faktum string) string {
	fields := strings.Fields(faktum)
	if len(fields) > 12 {
		fields = fields[:12]
	}
	return strings.Join(fields, " ")
}

// sourceName is the registrable host shown as a citation source label.
func sourceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
