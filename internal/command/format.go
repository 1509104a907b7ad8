package command

import (
	"fmt"

	"github.com/edgard/issuebot/internal/issues"
)

const unknownError = "unknown error"

// FormatIssue renders a found issue:
//
//	<nick>: Issue #<n>: <url>
//	(<state>) <title>
//	<body>
func FormatIssue(nickname string, issue issues.Issue) string {
	return fmt.Sprintf("%s: Issue #%d: %s\n(%s) %s\n%s",
		nickname, issue.Number, issue.URL, issue.State, issue.Title, issue.Body)
}

// FormatMalformed echoes the argument that failed to parse.
func FormatMalformed(nickname, raw string) string {
	return fmt.Sprintf("%s, \"%s\" doesn't look like a number. I couldn't lookup that issue for you.", nickname, raw)
}

// FormatLookupError reports a failed lookup with its cause.
func FormatLookupError(nickname string, err error) string {
	cause := unknownError
	if err != nil && err.Error() != "" {
		cause = err.Error()
	}
	return fmt.Sprintf("%s, the issue lookup failed. Error message: %s", nickname, cause)
}
