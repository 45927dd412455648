package mcp

import (
	"context"
	"errors"
	"sync"
)

type searchCall struct {
	Query  string
	Filter SearchFilter
}

// fakeSearcher returns canned results and records every search.
type fakeSearcher struct {
	mu      sync.Mutex
	results []SearchResult
	err     error
	calls   []searchCall
}

func (f *fakeSearcher) Search(_ context.Context, query string, filter SearchFilter) ([]SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, searchCall{Query: query, Filter: filter})
	return f.results, f.err
}

func (f *fakeSearcher) Calls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.calls...)
}

func mcpResults() []SearchResult {
	return []SearchResult{
		{CourseTitle: "Intro to MCP", LessonNumber: 1, Content: "MCP connects models to tools."},
		{CourseTitle: "Intro to MCP", Content: "Course overview."},
	}
}

var errIndexOffline = errors.New("index offline")
