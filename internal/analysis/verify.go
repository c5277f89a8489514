package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/excerpt"
	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
)

// defaultRepairIterations bounds the repair loop per item.
const defaultRepairIterations = 2

// repairPageCap limits how many pages one repair attempt fetches.
const repairPageCap = 3

// repairExcerptCap limits how many excerpts feed one regeneration call.
const repairExcerptCap = 4

// searcher is the slice of search.Searcher the repair loop needs.
type searcher interface {
	SearchMany(ctx context.Context, queries []string) []model.SearchResult
}

// fetcher is the slice of page.Fetcher the repair loop needs.
type fetcher interface {
	FetchAll(ctx context.Context, urls []string) []*model.ParsedPage
}

// Repairer runs the final consistency verification over the analysis and
// repairs items that fail it via targeted re-search.
type Repairer struct {
	rc            reason.Client
	searcher      searcher
	fetcher       fetcher
	maxIterations int
}

// NewRepairer creates a Repairer with the default iteration bound.
func NewRepairer(rc reason.Client, s searcher, f fetcher) *Repairer {
	return &Repairer{rc: rc, searcher: s, fetcher: f, maxIterations: defaultRepairIterations}
}

// verification is the three-way consistency check result for one item.
type verification struct {
	QuestionAnswered  bool `json:"question_answered"`
	CitationsSupport  bool `json:"citations_support"`
	ReasoningGrounded bool `json:"reasoning_grounded"`
}

func (v verification) consistent() bool {
	return v.QuestionAnswered && v.CitationsSupport && v.ReasoningGrounded
}

// EnsureQuality verifies every item and repairs the inconsistent ones.
// The item count and the questions themselves never change: repair
// regenerates answers, reasoning and citations, and on exhaustion the
// latest version is retained rather than the item dropped.
func (r *Repairer) EnsureQuality(ctx context.Context, items []model.QAItem, faktum string) []model.QAItem {
	out := make([]model.QAItem, len(items))
	copy(out, items)

	for i := range out {
		item := out[i]

		v, err := r.verify(ctx, item)
		if err != nil {
			zap.L().Warn("analysis: verification failed for item, keeping as-is",
				zap.String("id", item.ID), zap.Error(err))
			continue
		}
		if v.consistent() {
			continue
		}

		zap.L().Info("analysis: item failed consistency check, repairing",
			zap.String("id", item.ID),
			zap.Bool("question_answered", v.QuestionAnswered),
			zap.Bool("citations_support", v.CitationsSupport),
			zap.Bool("reasoning_grounded", v.ReasoningGrounded),
		)

		for attempt := 1; attempt <= r.maxIterations; attempt++ {
			repaired, err := r.repair(ctx, item, faktum)
			if err != nil {
				zap.L().Warn("analysis: repair attempt failed",
					zap.String("id", item.ID), zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			item = repaired

			v, err = r.verify(ctx, item)
			if err != nil || v.consistent() {
				break
			}
		}
		out[i] = item
	}

	return out
}

func (r *Repairer) verify(ctx context.Context, item model.QAItem) (verification, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Spørsmål: %s\nSvar: %s\n", item.Question, item.Answer)
	if item.LegalReasoning != "" {
		fmt.Fprintf(&sb, "Resonnement: %s\n", item.LegalReasoning)
	}
	if len(item.Citations) > 0 {
		sb.WriteString("Siteringer:\n")
		for _, c := range item.Citations {
			fmt.Fprintf(&sb, "- %s %s (%s)\n", c.SourceName, c.Section, c.URL)
		}
	}
	sb.WriteString(`
Svar med JSON: {"question_answered": true/false, "citations_support": true/false, "reasoning_grounded": true/false}`)

	text, err := r.rc.Complete(ctx, reason.Request{
		System:    systemVerify,
		Prompt:    sb.String(),
		MaxTokens: 128,
		Phase:     "verify",
	})
	if err != nil {
		return verification{}, err
	}

	// Defaulting to consistent on malformed output keeps verification
	// fail-open: a broken check must not trigger needless repair churn.
	return reason.DecodeOrDefault(text, verification{
		QuestionAnswered:  true,
		CitationsSupport:  true,
		ReasoningGrounded: true,
	}), nil
}

// repair regenerates answer, reasoning and citations for one item from
// fresh evidence found via the question itself. The question is fixed.
func (r *Repairer) repair(ctx context.Context, item model.QAItem, faktum string) (model.QAItem, error) {
	results := r.searcher.SearchMany(ctx, []string{
		item.Question,
		item.Question + " norsk lov",
	})

	urls := make([]string, 0, repairPageCap)
	for _, res := range results {
		urls = append(urls, res.URL)
		if len(urls) == repairPageCap {
			break
		}
	}

	pages := r.fetcher.FetchAll(ctx, urls)
	excerpts := excerpt.Extract(pages, item.Question, repairExcerptCap)
	if len(excerpts) == 0 {
		// No fresh evidence; fall back to the item's existing citations as
		// context so the model can at least restate the answer coherently.
		zap.L().Warn("analysis: repair found no fresh evidence", zap.String("id", item.ID))
	}

	var sb strings.Builder
	sb.WriteString("Saksforhold:\n")
	sb.WriteString(faktum)
	fmt.Fprintf(&sb, "\n\nSpørsmål (skal stå uendret): %s\n", item.Question)
	allowed := make(map[string]struct{}, len(excerpts))
	if len(excerpts) > 0 {
		sb.WriteString("\nKildemateriale:\n")
		for i, ex := range excerpts {
			fmt.Fprintf(&sb, "\n[Kilde %d] %s\nURL: %s\n%s\n", i+1, ex.Source.Title, ex.Source.URL, ex.Excerpt)
			allowed[ex.Source.URL] = struct{}{}
		}
	}
	sb.WriteString(`
Svar med JSON: {"answer": "<nytt svar>", "reasoning": "<regel, tolkning, subsumsjon, konklusjon>", "citations": [{"source_name", "section", "url"}], "confidence": "lav"/"middels"/"høy"}`)

	text, err := r.rc.Complete(ctx, reason.Request{
		System:    systemRepair,
		Prompt:    sb.String(),
		MaxTokens: 2048,
		Phase:     "repair",
	})
	if err != nil {
		return item, err
	}

	type shape struct {
		Answer     string           `json:"answer"`
		Reasoning  string           `json:"reasoning"`
		Citations  []model.Citation `json:"citations"`
		Confidence model.Confidence `json:"confidence"`
	}
	decoded := reason.DecodeOrDefault(text, shape{Answer: item.Answer})
	if strings.TrimSpace(decoded.Answer) == "" {
		return item, nil
	}

	repaired := item
	repaired.Answer = decoded.Answer
	repaired.LegalReasoning = decoded.Reasoning
	switch decoded.Confidence {
	case model.ConfidenceLow, model.ConfidenceMedium, model.ConfidenceHigh:
		repaired.Confidence = decoded.Confidence
	}

	// Only URLs from the fresh fetch are citable; anything else the model
	// asserts is treated as fabricated.
	repaired.Citations = nil
	for _, c := range decoded.Citations {
		if _, ok := allowed[c.URL]; ok {
			repaired.Citations = append(repaired.Citations, c)
		}
	}
	if len(repaired.Citations) == 0 {
		repaired.Confidence = model.ConfidenceLow
		if !containsString(repaired.MissingFacts, unconfirmedNote) {
			repaired.MissingFacts = append(repaired.MissingFacts, unconfirmedNote)
		}
	}
	return repaired, nil
}
