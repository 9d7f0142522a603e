package cycle

import (
	"fmt"
	"strings"

	"github.com/symposium-ai/symposium/backend"
	"github.com/symposium-ai/symposium/core"
)

// Stage instruction markers. Tests and scripted backends key off these.
const (
	thinkMarker      = "Produce your initial analysis"
	actMarker        = "List the evidence-gathering actions"
	observeMarker    = "Record one observation for each action"
	synthesizeMarker = "Deliver your final position"
)

// personaInstruction maps a personality kind to its prompt-shaping strategy.
func personaInstruction(p core.Personality) string {
	switch p {
	case core.PersonalityAnalyst:
		return "You are a methodical analyst. Weigh evidence on both sides, quantify uncertainty, and avoid overcommitting."
	case core.PersonalitySkeptic:
		return "You are a professional skeptic. Hunt for flaws, missing evidence and disconfirming observations before accepting any claim."
	case core.PersonalityOptimist:
		return "You look for the strongest case in favor. Build the best affirmative argument the evidence supports, then stress-test it."
	case core.PersonalityEmpiricist:
		return "You trust only sourced, verifiable observations. Discount speculation and unsourced claims heavily."
	default:
		return "You are a balanced debate participant with no particular slant."
	}
}

// depthInstruction maps a thinking depth to elaboration requirements.
func depthInstruction(d core.ThinkingDepth) string {
	switch d {
	case core.DepthDetailed:
		return "Justify each conclusion explicitly."
	case core.DepthComprehensive:
		return "Justify each conclusion explicitly and analyze the strongest counter-arguments before settling."
	default:
		return "Be concise."
	}
}

// systemPrompt assembles the per-agent system block: persona, depth and the
// rendered memory context (injected verbatim).
func systemPrompt(agent core.AgentProfile, memoryContext string) string {
	var sb strings.Builder
	sb.WriteString(personaInstruction(agent.Personality))
	sb.WriteString(" ")
	sb.WriteString(depthInstruction(agent.Config.ThinkingDepth))
	sb.WriteString("\nRespond with a single JSON object and nothing else.")
	if memoryContext != "" {
		sb.WriteString("\n\n")
		sb.WriteString(memoryContext)
	}
	return sb.String()
}

func propositionBlock(prop core.Proposition, round int) string {
	return fmt.Sprintf("Proposition: %s\nDescription: %s\nCategory: %s\nDeliberation round: %d",
		prop.Title, prop.Description, prop.Category, round)
}

func buildThinkPrompt(agent core.AgentProfile, prop core.Proposition, memoryContext string, round int) backend.Prompt {
	input := fmt.Sprintf(`%s

%s. Return JSON with:
{"initial_thought": "...", "hypothesis": "...", "initial_confidence": 0.5, "information_needs": ["..."]}`,
		propositionBlock(prop, round), thinkMarker)
	return backend.Prompt{System: systemPrompt(agent, memoryContext), Input: input, Temperature: agent.Temperature}
}

func buildActPrompt(agent core.AgentProfile, prop core.Proposition, memoryContext string, t thinkResult, maxSteps int) backend.Prompt {
	input := fmt.Sprintf(`Hypothesis: %s
Information needs: %s

%s you would take to verify the hypothesis, at most %d. Return JSON with:
{"actions": [{"type": "SEARCH|LOOKUP|ANALYZE", "query": "..."}]}`,
		t.Hypothesis, strings.Join(t.InformationNeeds, "; "), actMarker, maxSteps)
	return backend.Prompt{System: systemPrompt(agent, memoryContext), Input: input, Temperature: agent.Temperature}
}

func buildObservePrompt(agent core.AgentProfile, memoryContext string, actions []core.Action) backend.Prompt {
	var sb strings.Builder
	for i, a := range actions {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, a.Type, a.Query)
	}
	input := fmt.Sprintf(`Actions taken:
%s
%s, in order. Optionally validate sources. Return JSON with:
{"observations": [{"content": "...", "source": "..."}], "source_validations": [{"source": "...", "reliability": 0.8, "concerns": "..."}]}`,
		sb.String(), observeMarker)
	return backend.Prompt{System: systemPrompt(agent, memoryContext), Input: input, Temperature: agent.Temperature}
}

func buildSynthesizePrompt(agent core.AgentProfile, prop core.Proposition, memoryContext string, t thinkResult, actions []core.Action, obs []core.Observation, round int) backend.Prompt {
	var sb strings.Builder
	for i, o := range obs {
		fmt.Fprintf(&sb, "%d. %s", i+1, o.Content)
		if o.Source != "" {
			fmt.Fprintf(&sb, " (source: %s)", o.Source)
		}
		sb.WriteString("\n")
	}
	input := fmt.Sprintf(`%s

Hypothesis: %s
Observations:
%s
%s. Return JSON with:
{"position": "AFFIRMATIVE|NEGATIVE|NEUTRAL", "confidence": 0.5, "content": "...", "reasoning": "...", "synthesis_thought": "...", "counter_arguments": ["..."], "confidence_adjustment": 0.0}`,
		propositionBlock(prop, round), t.Hypothesis, sb.String(), synthesizeMarker)
	return backend.Prompt{System: systemPrompt(agent, memoryContext), Input: input, Temperature: agent.Temperature}
}
