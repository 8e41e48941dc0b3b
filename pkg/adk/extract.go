package adk

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when a model reply holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in reply")

// ExtractJSON returns the first balanced JSON object in a model reply,
// skipping prose and markdown code fences around it.
func ExtractJSON(reply string) ([]byte, error) {
	start := strings.IndexByte(reply, '{')
	for start >= 0 {
		if end := objectEnd(reply[start:]); end > 0 {
			return []byte(reply[start : start+end]), nil
		}
		next := strings.IndexByte(reply[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, ErrNoJSON
}

// objectEnd returns the length of the object opening s, or 0 if it never closes.
func objectEnd(s string) int {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return 0
}
