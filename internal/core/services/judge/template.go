package judge

import "regexp"

var (
	prependPattern = regexp.MustCompile(`(?s)//PREPEND BEGIN\n(.*?)//PREPEND END`)
	appendPattern  = regexp.MustCompile(`(?s)//APPEND BEGIN\n(.*?)//APPEND END`)
)

// applyTemplate wraps the user's code with the prepend/append snippets of a
// problem-supplied code template. A template without markers contributes
// nothing.
func applyTemplate(template, code string) string {
	var prepend, append_ string
	if m := prependPattern.FindStringSubmatch(template); m != nil {
		prepend = m[1]
	}
	if m := appendPattern.FindStringSubmatch(template); m != nil {
		append_ = m[1]
	}
	return prepend + "\n" + code + "\n" + append_
}
