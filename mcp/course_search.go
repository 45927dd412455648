package mcp

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const CourseSearchToolName = "search_course_content"

// SearchFilter narrows a course search. Zero values match everything.
type SearchFilter struct {
	CourseName   string
	LessonNumber int
}

type SearchResult struct {
	CourseTitle  string
	LessonNumber int // 0 when the chunk is not tied to a lesson
	Content      string
}

// Searcher looks up course material. Implementations are usually backed by a
// vector store.
type Searcher interface {
	Search(ctx context.Context, query string, filter SearchFilter) ([]SearchResult, error)
}

// CourseSearchTool returns the search_course_content tool spec.
func CourseSearchTool() mcptypes.Tool {
	return mcptypes.NewTool(CourseSearchToolName,
		mcptypes.WithDescription("Search course materials with smart course name matching and lesson filtering"),
		mcptypes.WithString("query", mcptypes.Required(), mcptypes.Description("What to search for in the course content")),
		mcptypes.WithString("course_name", mcptypes.Description("Course title (partial matches work)")),
		mcptypes.WithNumber("lesson_number", mcptypes.Description("Specific lesson number to search within")),
	)
}

// CourseSearchHandler answers search_course_content calls from searcher.
// Bad arguments and search failures come back as error results.
func CourseSearchHandler(searcher Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcptypes.NewToolResultError(err.Error()), nil
		}

		filter := SearchFilter{
			CourseName:   req.GetString("course_name", ""),
			LessonNumber: req.GetInt("lesson_number", 0),
		}

		results, err := searcher.Search(ctx, query, filter)
		if err != nil {
			return mcptypes.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return mcptypes.NewToolResultText(formatResults(results, filter)), nil
	}
}

// RegisterCourseSearch adds search_course_content to registry.
func RegisterCourseSearch(registry *Registry, searcher Searcher) error {
	return registry.Register(CourseSearchTool(), CourseSearchHandler(searcher))
}

func formatResults(results []SearchResult, filter SearchFilter) string {
	if len(results) == 0 {
		var b strings.Builder
		b.WriteString("No relevant content found")
		switch {
		case filter.CourseName != "":
			fmt.Fprintf(&b, " in course '%s'", filter.CourseName)
		}
		switch {
		case filter.LessonNumber > 0:
			fmt.Fprintf(&b, " in lesson %d", filter.LessonNumber)
		}
		b.WriteString(".")
		return b.String()
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		header := "[" + r.CourseTitle
		switch {
		case r.LessonNumber > 0:
			header += fmt.Sprintf(" - Lesson %d", r.LessonNumber)
		}
		header += "]"
		parts = append(parts, header+"\n"+r.Content)
	}
	return strings.Join(parts, "\n\n")
}
