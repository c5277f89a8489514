package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
)

// sensitiveKeywords is the deterministic fallback when the reasoner is
// unavailable. Keys are lowercase substrings matched against the faktum.
var sensitiveKeywords = []struct {
	keywords []string
	topic    model.SensitiveTopic
}{
	{
		keywords: []string{"anmeldt", "anmeldelse", "politiet", "straff", "siktet", "tiltalt"},
		topic: model.SensitiveTopic{
			Topic:   "straffesak",
			Message: "Saken kan berøre strafferett. Kontakt advokat eller politiets servicetelefon for veiledning.",
		},
	},
	{
		keywords: []string{"oppholdstillatelse", "asyl", "utvisning", "visum", "udi"},
		topic: model.SensitiveTopic{
			Topic:   "utlendingssak",
			Message: "Utlendingssaker har korte frister og store konsekvenser. Kontakt advokat med utlendingsrett som spesialfelt.",
		},
	},
	{
		keywords: []string{"barnevern", "omsorgsovertakelse", "barnevernstjenesten"},
		topic: model.SensitiveTopic{
			Topic:   "barnevern",
			Message: "Barnevernssaker gir rett til gratis advokatbistand. Kontakt advokat umiddelbart.",
		},
	},
	{
		keywords: []string{"personskade", "yrkesskade", "trafikkulykke", "feilbehandling"},
		topic: model.SensitiveTopic{
			Topic:   "personskade",
			Message: "Personskadesaker bør vurderes av advokat; mange tilbyr gratis førstevurdering.",
		},
	},
}

// DetectSensitiveTopics flags themes in the faktum that warrant escalation
// messaging instead of self-help. Reasoner-backed with a keyword fallback;
// never returns an error since detection failing must not block analysis.
func DetectSensitiveTopics(ctx context.Context, rc reason.Client, faktum string) []model.SensitiveTopic {
	text, err := rc.Complete(ctx, reason.Request{
		System: systemSensitive,
		Prompt: "Saksforhold:\n" + faktum + `

Svar med JSON: {"topics": [{"topic": "<kort navn>", "message": "<norsk henvisningstekst til brukeren>"}]}
Tom liste hvis ingen sensitive temaer.`,
		MaxTokens: 512,
		Phase:     "sensitive",
	})
	if err != nil {
		zap.L().Warn("analysis: sensitive topic detection failed, using keyword fallback", zap.Error(err))
		return keywordSensitiveTopics(faktum)
	}

	type shape struct {
		Topics []model.SensitiveTopic `json:"topics"`
	}
	out := reason.DecodeOrDefault(text, shape{})

	topics := make([]model.SensitiveTopic, 0, len(out.Topics))
	for _, tp := range out.Topics {
		if strings.TrimSpace(tp.Topic) == "" || strings.TrimSpace(tp.Message) == "" {
			continue
		}
		topics = append(topics, tp)
	}
	return topics
}

func keywordSensitiveTopics(faktum string) []model.SensitiveTopic {
	lowered := strings.ToLower(faktum)
	var topics []model.SensitiveTopic
	for _, entry := range sensitiveKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				topics = append(topics, entry.topic)
				break
			}
		}
	}
	return topics
}
