// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

// =============================================================================
// CATALOGS
// =============================================================================

// ModelInfo describes a selectable model.
type ModelInfo struct {
	ID       string
	Provider string
}

// AgentInfo describes a selectable agent type.
type AgentInfo struct {
	ID          string
	Name        string
	Description string
}

// Models lists the models offered in the model picker, in display order.
var Models = []ModelInfo{
	{ID: "llama-3.1-70b-versatile", Provider: "Groq"},
	{ID: "gpt-4o", Provider: "OpenAI"},
	{ID: "gpt-4o-mini", Provider: "OpenAI"},
	{ID: "gemini-1.5-flash", Provider: "Google"},
	{ID: "gemini-1.5-pro", Provider: "Google"},
}

// Agents lists the backend agent strategies, in display order.
var Agents = []AgentInfo{
	{ID: "multi_step", Name: "Multi-Step Agent", Description: "Breaks down complex tasks into subtasks."},
	{ID: "prompt_optim", Name: "Prompt Optimization", Description: "Refines prompts for better results."},
	{ID: "simple", Name: "Simple Chatbot", Description: "Basic conversational agent."},
}

// LookupModel returns the catalog entry for id.
func LookupModel(id string) (ModelInfo, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// LookupAgent returns the catalog entry for id.
func LookupAgent(id string) (AgentInfo, bool) {
	for _, a := range Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentInfo{}, false
}

// ModelIDs returns the model identifiers in display order.
func ModelIDs() []string {
	ids := make([]string, len(Models))
	for i, m := range Models {
		ids[i] = m.ID
	}
	return ids
}

// AgentIDs returns the agent identifiers in display order.
func AgentIDs() []string {
	ids := make([]string, len(Agents))
	for i, a := range Agents {
		ids[i] = a.ID
	}
	return ids
}
