package stub

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/quill/internal/outline"
)

// generateOutline builds a fixed three-section outline for topic.
func generateOutline(topic string) *outline.Node {
	section := func(title, summary string, level int, children ...*outline.Node) *outline.Node {
		return &outline.Node{
			ID:       outline.GenerateNodeID(),
			Title:    title,
			Summary:  summary,
			Level:    level,
			Children: children,
		}
	}
	return &outline.Node{
		ID:    "root-" + outline.GenerateNodeID(),
		Title: topic,
		Level: 0,
		Children: []*outline.Node{
			section("Background", "Where "+topic+" comes from", 1,
				section("Definitions", "Key terms", 2),
				section("History", "How the field developed", 2),
			),
			section("Current state", "What is happening today", 1,
				section("Applications", "Where it is used", 2),
				section("Evidence", "What studies show", 2),
			),
			section("Challenges and outlook", "Open problems and next steps", 1),
		},
	}
}

// renderArticle turns the outline into a markdown article.
func renderArticle(tree *outline.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", tree.Title)
	outline.Walk(tree, func(n *outline.Node, p outline.Path) bool {
		if len(p) == 0 {
			return true
		}
		fmt.Fprintf(&b, "\n%s %s\n", strings.Repeat("#", len(p)+1), n.Title)
		if n.Summary != "" {
			fmt.Fprintf(&b, "\n%s.\n", strings.TrimSuffix(n.Summary, "."))
		}
		return true
	})
	return b.String()
}
