package cycle

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/symposium-ai/symposium/core"
)

// extractJSON isolates the first JSON object in a backend completion,
// tolerating markdown code fences and surrounding prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

type thinkResult struct {
	InitialThought    string
	Hypothesis        string
	InitialConfidence float64
	InformationNeeds  []string
}

func parseThink(text string) thinkResult {
	j := extractJSON(text)
	t := thinkResult{
		InitialThought:    gjson.Get(j, "initial_thought").String(),
		Hypothesis:        gjson.Get(j, "hypothesis").String(),
		InitialConfidence: core.ClampConfidence(gjson.Get(j, "initial_confidence").Float()),
		InformationNeeds:  stringList(gjson.Get(j, "information_needs")),
	}
	if t.InitialThought == "" {
		t.InitialThought = strings.TrimSpace(text)
	}
	if t.Hypothesis == "" {
		t.Hypothesis = t.InitialThought
	}
	return t
}

// parseActions extracts up to max actions; unknown action types fall back to
// SEARCH.
func parseActions(text string, max int) []core.Action {
	j := extractJSON(text)
	var actions []core.Action
	for _, a := range gjson.Get(j, "actions").Array() {
		query := a.Get("query").String()
		if query == "" {
			continue
		}
		typ := core.ActionType(strings.ToUpper(a.Get("type").String()))
		switch typ {
		case core.ActionSearch, core.ActionLookup, core.ActionAnalyze:
		default:
			typ = core.ActionSearch
		}
		actions = append(actions, core.Action{Type: typ, Query: query})
		if len(actions) == max {
			break
		}
	}
	return actions
}

// parseObservations extracts observations aligned with the n actions taken
// (truncating extras, padding absences with empty observations) plus any
// source-validation notes.
func parseObservations(text string, n int) ([]core.Observation, []core.SourceValidation) {
	j := extractJSON(text)
	obs := make([]core.Observation, 0, n)
	for _, o := range gjson.Get(j, "observations").Array() {
		if len(obs) == n {
			break
		}
		obs = append(obs, core.Observation{
			Content: o.Get("content").String(),
			Source:  o.Get("source").String(),
		})
	}
	for len(obs) < n {
		obs = append(obs, core.Observation{Content: "no observation recorded"})
	}
	var validations []core.SourceValidation
	for _, v := range gjson.Get(j, "source_validations").Array() {
		source := v.Get("source").String()
		if source == "" {
			continue
		}
		validations = append(validations, core.SourceValidation{
			Source:      source,
			Reliability: core.ClampConfidence(v.Get("reliability").Float()),
			Concerns:    v.Get("concerns").String(),
		})
	}
	return obs, validations
}

type synthesis struct {
	Position         core.Position
	Confidence       float64
	Content          string
	Reasoning        string
	SynthesisThought string
	CounterArguments []string
	Adjustment       float64
}

func parseSynthesis(text string) synthesis {
	j := extractJSON(text)
	s := synthesis{
		Position:         core.ParsePosition(gjson.Get(j, "position").String()),
		Confidence:       core.ClampConfidence(gjson.Get(j, "confidence").Float()),
		Content:          gjson.Get(j, "content").String(),
		Reasoning:        gjson.Get(j, "reasoning").String(),
		SynthesisThought: gjson.Get(j, "synthesis_thought").String(),
		CounterArguments: stringList(gjson.Get(j, "counter_arguments")),
		Adjustment:       gjson.Get(j, "confidence_adjustment").Float(),
	}
	if s.Content == "" {
		s.Content = strings.TrimSpace(text)
	}
	return s
}

func stringList(r gjson.Result) []string {
	var out []string
	for _, item := range r.Array() {
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
