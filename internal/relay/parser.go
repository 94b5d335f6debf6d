// File: internal/relay/parser.go
package relay

import (
	"regexp"
	"strconv"
)

// urgencyPattern matches a whole-number token from 1 to 10. The word
// boundaries keep "100" from matching as "10" and "a1b" from matching as
// "1"; ASCII digits only.
var urgencyPattern = regexp.MustCompile(`\b([1-9]|10)\b`)

// ParseUrgency extracts the urgency rating from a message body: the first
// standalone number between 1 and 10. The second return value reports
// whether a rating was found.
func ParseUrgency(body string) (int, bool) {
	match := urgencyPattern.FindStringSubmatch(body)
	if match == nil {
		return 0, false
	}

	urgency, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return urgency, true
}
