package gitversioning

import (
	"fmt"
	"regexp"
	"strconv"
)

// CompilePattern compiles pattern so that it must match a whole ref name.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(fmt.Sprintf(`^(?:%s)$`, pattern))
}

// Capture applies re to text and returns the value of every capture group
// under its index ("0" is the whole match) and, for named groups, under its
// name as well. Groups that did not take part in the match are left out.
func Capture(re *regexp.Regexp, text string) CaptureMap {
	values := CaptureMap{}
	if re == nil {
		return values
	}

	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return values
	}

	names := re.SubexpNames()
	for i := 0; i <= re.NumSubexp(); i++ {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			continue
		}
		value := text[start:end]
		values[strconv.Itoa(i)] = value
		if names[i] != "" {
			values[names[i]] = value
		}
	}
	return values
}
