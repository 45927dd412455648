package prompt

import "strings"

// historyHeader separates the base instruction from prior conversation text.
const historyHeader = "\n\nPrevious conversation:\n"

// DefaultInstruction is the base system instruction for course-material answering.
// Callers may replace it through generator.WithInstruction.
var DefaultInstruction = strings.Join([]string{
	"You are an AI assistant for course materials. You MUST always search the course database first before answering any question.",
	"",
	"MANDATORY Search Protocol:",
	"- ALWAYS call the search tool first for every question, regardless of topic",
	"- Search for relevant course content before providing any response",
	"- Only answer based on what you find in the search results",
	"- If no relevant content is found, say \"I don't have information about this in the available course materials\"",
	"",
	"Response Requirements:",
	"- Base answers ONLY on course content found through search",
	"- Do not use general knowledge",
	"- Be specific and cite course details when available",
	"- Keep responses focused and educational",
	"- Do not mention the search process in your response",
	"",
	"Remember: SEARCH FIRST, then answer based only on course materials found.",
}, "\n")

// Assemble builds the system instruction for one query.
//
// An empty history returns base unchanged. Otherwise the history is appended
// after a "Previous conversation:" header, verbatim.
func Assemble(base, history string) string {
	if history == "" {
		return base
	}
	return base + historyHeader + history
}
