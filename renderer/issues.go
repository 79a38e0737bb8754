package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tradebook"
)

// IssuesMarkdown renders the records that could only be partially used.
func IssuesMarkdown(issues []tradebook.Issue) string {
	var b strings.Builder
	if len(issues) == 0 {
		fmt.Fprint(&b, "# Record Issues\n\nEvery record is fully usable.\n")
		return b.String()
	}
	renderIssues(&b, issues, 1)
	return b.String()
}

func renderIssues(w io.Writer, issues []tradebook.Issue, level int) bool {
	fmt.Fprintf(w, "%s Record Issues\n\n", strings.Repeat("#", level))
	fmt.Fprintln(w, "| Collection | Record | Problem |")
	fmt.Fprintln(w, "|:---|:---|:---|")
	for _, i := range issues {
		id := i.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i.Index+1)
		}
		fmt.Fprintf(w, "| %s | %s | %s |\n", i.Collection, cell(id), cell(i.Problem))
	}
	fmt.Fprintln(w)
	return len(issues) > 0
}
