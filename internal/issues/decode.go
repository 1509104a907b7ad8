package issues

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

var errMalformed = errors.New("malformed response")

var issueFields = []string{"number", "html_url", "state", "title", "body"}

// decodeIssue extracts the required issue fields. A field that is absent or
// has the wrong type fails the whole decode; only body may be null.
func decodeIssue(data []byte) (Issue, error) {
	if !gjson.ValidBytes(data) {
		return Issue{}, errMalformed
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Issue{}, errMalformed
	}

	fields := make(map[string]gjson.Result, len(issueFields))
	for i, v := range gjson.GetManyBytes(data, issueFields...) {
		fields[issueFields[i]] = v
	}

	number := fields["number"]
	if number.Type != gjson.Number || number.Num != math.Trunc(number.Num) || number.Num < 0 || number.Num > math.MaxInt32 {
		return Issue{}, missingField("number")
	}

	var issue Issue
	issue.Number = int(number.Int())

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"html_url", &issue.URL},
		{"state", &issue.State},
		{"title", &issue.Title},
	} {
		v := fields[f.name]
		if v.Type != gjson.String {
			return Issue{}, missingField(f.name)
		}
		*f.dst = v.Str
	}

	switch body := fields["body"]; body.Type {
	case gjson.String:
		issue.Body = body.Str
	case gjson.Null:
		if !body.Exists() {
			return Issue{}, missingField("body")
		}
	default:
		return Issue{}, missingField("body")
	}

	return issue, nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing field %s", errMalformed, name)
}
