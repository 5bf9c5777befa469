package progress

import "strings"

// Progress phrases embedded in free-text composition statuses.
// TODO: replace with a structured stage field once the backend reports one.
const (
	phraseWorking      = "正在"
	phraseBody         = "主体内容"
	phraseIntroOutro   = "引言和结论"
	phraseFormatting   = "整理文章格式"
	defaultActivity    = "Thinking"
	defaultDescription = "Analysing retrieved material, merging viewpoints and drafting the article"
)

// Activity is a coarse progress reading for a running composition.
type Activity struct {
	Progress    int
	Label       string
	Description string
}

// CurrentActivity classifies a composition status string by the progress
// phrases it contains.
func CurrentActivity(status string) Activity {
	a := Activity{Progress: 70, Label: defaultActivity, Description: defaultDescription}

	if strings.Contains(status, phraseWorking) {
		a.Label = status
	}

	switch {
	case strings.Contains(status, phraseIntroOutro):
		a.Progress = 90
	case strings.Contains(status, phraseFormatting):
		a.Progress = 95
	}

	switch {
	case strings.Contains(status, phraseBody):
		a.Description = "Analysing retrieved material and drafting the main body"
	case strings.Contains(status, phraseIntroOutro):
		a.Description = "Writing the introduction and conclusion from the main body"
	case strings.Contains(status, phraseFormatting):
		a.Description = "Formatting the article and its references"
	}
	return a
}
