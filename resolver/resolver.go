// Package resolver runs questions through the answer tiers: curated table,
// semantic index, live center data, scraped web content, and finally a
// fixed fallback.
package resolver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"faqbot/dataapi"
	"faqbot/locate"
	"faqbot/metrics"
	"faqbot/retriever"
	"faqbot/types"
)

// Tier names as reported in responses and metrics.
const (
	TierPredefined = "predefined"
	TierSemantic   = "semantic"
	TierExternal   = "external"
	TierDefault    = "default"
)

// DefaultAnswer is returned when every tier comes up empty.
const DefaultAnswer = "I'm not sure about that one. Please contact your " +
	"local Code Ninjas center directly, and they will be happy to help."

// Answer is a resolved question.
type Answer struct {
	Text  string  `json:"answer"`
	Tier  string  `json:"source"`
	Score float64 `json:"score,omitempty"`
}

// PredefinedMatcher is the curated-table tier.
type PredefinedMatcher interface {
	Match(question string) (string, bool)
}

// SemanticRetriever is the index tier.
type SemanticRetriever interface {
	Query(ctx context.Context, question string) (*retriever.Result, error)
	QueryWithExtras(ctx context.Context, question string, extras []types.FaqEntry) (*retriever.Result, error)
	Threshold() float64
}

// FacilityClient supplies center profiles for the semantic merge.
type FacilityClient interface {
	GetFacility(ctx context.Context, slug string) (*dataapi.Facility, error)
}

// DataEngine is the live-data tier.
type DataEngine interface {
	Answer(ctx context.Context, question, location string) (string, error)
}

// PageFetcher is the scraping tier.
type PageFetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// Generator summarizes scraped content into an answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Resolver struct {
	predefined PredefinedMatcher
	semantic   SemanticRetriever
	facilities FacilityClient
	data       DataEngine
	fetcher    PageFetcher
	generator  Generator
	log        *zap.Logger
}

func New(
	predefined PredefinedMatcher,
	semantic SemanticRetriever,
	facilities FacilityClient,
	data DataEngine,
	fetcher PageFetcher,
	generator Generator,
	log *zap.Logger,
) *Resolver {
	return &Resolver{
		predefined: predefined,
		semantic:   semantic,
		facilities: facilities,
		data:       data,
		fetcher:    fetcher,
		generator:  generator,
		log:        log,
	}
}

// Resolve walks the tiers in order. Tier errors are logged and treated as
// misses; the pipeline always produces an answer.
func (r *Resolver) Resolve(ctx context.Context, question string) Answer {
	if text, ok := r.predefined.Match(question); ok {
		return r.hit(TierPredefined, Answer{Text: text, Tier: TierPredefined})
	}
	metrics.TierOutcomes.WithLabelValues(TierPredefined, "miss").Inc()

	location := ""
	if locate.HasLocationContext(question) {
		location = locate.ExtractLocation(question)
	}

	if ans, ok := r.trySemantic(ctx, question, location); ok {
		return r.hit(TierSemantic, ans)
	}
	metrics.TierOutcomes.WithLabelValues(TierSemantic, "miss").Inc()

	if location != "" {
		if ans, ok := r.tryExternal(ctx, question, location); ok {
			return r.hit(TierExternal, ans)
		}
	}
	metrics.TierOutcomes.WithLabelValues(TierExternal, "miss").Inc()

	metrics.QuestionsResolved.WithLabelValues(TierDefault).Inc()
	return Answer{Text: DefaultAnswer, Tier: TierDefault}
}

func (r *Resolver) hit(tier string, ans Answer) Answer {
	metrics.TierOutcomes.WithLabelValues(tier, "hit").Inc()
	metrics.QuestionsResolved.WithLabelValues(tier).Inc()
	return ans
}

// trySemantic queries the index, merging in the detected center's profile
// when a location is present so place-specific questions can match it.
func (r *Resolver) trySemantic(ctx context.Context, question, location string) (Answer, bool) {
	var extras []types.FaqEntry
	if location != "" && r.facilities != nil {
		slug := dataapi.NormalizeSlug(location)
		if f, err := r.facilities.GetFacility(ctx, slug); err == nil {
			extras = dataapi.FacilityFAQ(*f)
		} else {
			r.log.Debug("no facility data for semantic merge",
				zap.String("location", location), zap.Error(err))
		}
	}

	res, err := r.semantic.QueryWithExtras(ctx, question, extras)
	if err != nil {
		r.log.Warn("semantic tier failed", zap.Error(err))
		return Answer{}, false
	}

	r.log.Debug("semantic match",
		zap.String("matched", res.Entry.Question),
		zap.Float64("score", res.Score))

	if res.Score >= r.semantic.Threshold() {
		return Answer{Text: res.Entry.Answer, Tier: TierSemantic, Score: res.Score}, true
	}
	return Answer{}, false
}

// tryExternal asks the data API first and falls back to scraping the
// center's page and summarizing it.
func (r *Resolver) tryExternal(ctx context.Context, question, location string) (Answer, bool) {
	if r.data != nil {
		text, err := r.data.Answer(ctx, question, location)
		if err != nil {
			r.log.Warn("data api tier failed",
				zap.String("location", location), zap.Error(err))
		} else if text != "" {
			return Answer{Text: text, Tier: TierExternal}, true
		}
	}

	if r.fetcher == nil || r.generator == nil {
		return Answer{}, false
	}

	content, err := r.fetcher.Fetch(ctx, location)
	if err != nil {
		r.log.Warn("scrape tier failed",
			zap.String("location", location), zap.Error(err))
		return Answer{}, false
	}
	if content == "" {
		return Answer{}, false
	}

	prompt := fmt.Sprintf(
		"Answer the question using only the page content below. "+
			"If the content does not answer it, say so briefly.\n\n"+
			"Question: %s\n\nPage content:\n%s",
		question, content)

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		r.log.Warn("generation over scraped content failed", zap.Error(err))
		return Answer{}, false
	}
	if text == "" {
		return Answer{}, false
	}
	return Answer{Text: text, Tier: TierExternal}, true
}
