// Package classifier assigns billing categories to messages through an
// ordered rule cascade. Rules are evaluated in sequence and the first match
// wins, so the cascade order is visible and testable in one place.
package classifier

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/costwise/costwise/internal/model"
	"github.com/costwise/costwise/internal/pricing"
)

// rule is one predicate+outcome pair in the cascade. A nil result means the
// rule did not fire and evaluation falls through to the next rule.
type rule struct {
	name  string
	apply func(msg model.Message, text string) *model.ClassificationResult
}

// Classifier categorizes messages. It is pure: the same message always
// yields the same result, and classification never fails.
type Classifier struct {
	cfg       *pricing.Config
	otpRe     *regexp.Regexp
	promoRe   *regexp.Regexp
	utilityRe *regexp.Regexp
	rules     []rule
}

// New creates a classifier backed by the given pricing configuration (the
// free-window duration comes from it).
func New(cfg *pricing.Config) *Classifier {
	c := &Classifier{
		cfg:       cfg,
		otpRe:     regexp.MustCompile(otpPattern),
		promoRe:   regexp.MustCompile(promoPattern),
		utilityRe: regexp.MustCompile(utilityPattern),
	}

	c.rules = []rule{
		{name: "inbound", apply: c.ruleInbound},
		{name: "template-category", apply: c.ruleTemplateCategory},
		{name: "authentication", apply: c.ruleAuthentication},
		{name: "free-window-reply", apply: c.ruleFreeWindowReply},
		{name: "marketing", apply: c.ruleMarketing},
		{name: "utility", apply: c.ruleUtility},
		{name: "service", apply: c.ruleService},
	}

	return c
}

// Classify assigns a category, confidence, and rationale to one message.
func (c *Classifier) Classify(msg model.Message) model.ClassificationResult {
	text := strings.ToLower(msg.Content + " " + msg.TemplateName)

	for _, r := range c.rules {
		if result := r.apply(msg, text); result != nil {
			return *result
		}
	}

	return model.ClassificationResult{
		Category:   model.CategoryService,
		Confidence: 0.5,
		Reasoning:  "no strong pattern match, defaulting to service",
	}
}

// ClassifyBatch classifies each message independently.
func (c *Classifier) ClassifyBatch(msgs []model.Message) []model.ClassificationResult {
	results := make([]model.ClassificationResult, len(msgs))
	for i, msg := range msgs {
		results[i] = c.Classify(msg)
	}
	return results
}

// ruleInbound: inbound messages are always free and billing-neutral.
func (c *Classifier) ruleInbound(msg model.Message, _ string) *model.ClassificationResult {
	if msg.Direction != model.DirectionInbound {
		return nil
	}
	return &model.ClassificationResult{
		Category:   model.CategoryService,
		Confidence: 1.0,
		Reasoning:  "inbound message, always service category",
	}
}

// ruleTemplateCategory: the upstream channel's template category is the
// highest-trust signal when present.
func (c *Classifier) ruleTemplateCategory(msg model.Message, _ string) *model.ClassificationResult {
	if msg.TemplateCategory == "" {
		return nil
	}
	cat, ok := model.ParseCategory(msg.TemplateCategory)
	if !ok {
		return nil
	}
	return &model.ClassificationResult{
		Category:   cat,
		Confidence: 0.98,
		Reasoning:  fmt.Sprintf("template category %s provided by channel", cat),
	}
}

func (c *Classifier) ruleAuthentication(_ model.Message, text string) *model.ClassificationResult {
	if c.otpRe.MatchString(text) {
		return &model.ClassificationResult{
			Category:   model.CategoryAuthentication,
			Confidence: 0.95,
			Reasoning:  "verification code pattern detected",
		}
	}
	if countKeywords(text, model.CategoryAuthentication) >= 2 {
		return &model.ClassificationResult{
			Category:   model.CategoryAuthentication,
			Confidence: 0.95,
			Reasoning:  "multiple authentication keywords detected",
		}
	}
	return nil
}

// ruleFreeWindowReply: replies inside the 24h service window still get a
// real category because category drives analytics regardless of cost.
func (c *Classifier) ruleFreeWindowReply(msg model.Message, text string) *model.ClassificationResult {
	if !msg.IsReply || msg.ConversationStartedAt.IsZero() {
		return nil
	}
	if msg.ConversationAge() >= c.cfg.FreeWindow {
		return nil
	}
	cat, _ := weightedKeywordScore(text)
	return &model.ClassificationResult{
		Category:   cat,
		Confidence: 0.9,
		Reasoning:  fmt.Sprintf("reply within free window, keyword score suggests %s", cat),
	}
}

func (c *Classifier) ruleMarketing(_ model.Message, text string) *model.ClassificationResult {
	matches := countKeywords(text, model.CategoryMarketing)
	if matches < 2 && !c.promoRe.MatchString(text) {
		return nil
	}
	return &model.ClassificationResult{
		Category:   model.CategoryMarketing,
		Confidence: matchConfidence(matches),
		Reasoning:  fmt.Sprintf("promotional content detected (%d keyword matches)", matches),
	}
}

func (c *Classifier) ruleUtility(_ model.Message, text string) *model.ClassificationResult {
	matches := countKeywords(text, model.CategoryUtility)
	if matches < 2 && !c.utilityRe.MatchString(text) {
		return nil
	}
	return &model.ClassificationResult{
		Category:   model.CategoryUtility,
		Confidence: matchConfidence(matches),
		Reasoning:  fmt.Sprintf("transactional content detected (%d keyword matches)", matches),
	}
}

func (c *Classifier) ruleService(_ model.Message, text string) *model.ClassificationResult {
	matches := countKeywords(text, model.CategoryService)
	if matches < 2 {
		return nil
	}
	return &model.ClassificationResult{
		Category:   model.CategoryService,
		Confidence: matchConfidence(matches),
		Reasoning:  fmt.Sprintf("support content detected (%d keyword matches)", matches),
	}
}

// matchConfidence maps a keyword match count to 0.7 + 0.05 per match,
// capped at 0.95.
func matchConfidence(matches int) float64 {
	return 0.7 + math.Min(float64(matches)*0.05, 0.25)
}

// countKeywords counts how many of a category's keywords occur in text.
func countKeywords(text string, cat model.Category) int {
	count := 0
	for _, kw := range categoryKeywords[cat] {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}
