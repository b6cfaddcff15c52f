package service

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseRating coerces a raw rating string to a float. Like the data source it
// tolerates trailing junk ("7.5/10" reads as 7.5); anything without a leading
// numeric prefix, and a zero score, count as absent.
func parseRating(raw *string) *float64 {
	if raw == nil {
		return nil
	}

	s := strings.TrimSpace(*raw)
	end := 0
	seenDigit, seenDot := false, false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '+' || c == '-') && end == 0:
		default:
			goto done
		}
		end++
	}
done:
	if !seenDigit {
		return nil
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

// parseCharacters decodes a serialized character-name list. Absent or
// unparsable input yields an empty list, never an error.
func parseCharacters(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}

	var characters []string
	if err := json.Unmarshal([]byte(*raw), &characters); err != nil {
		return []string{}
	}
	if characters == nil {
		return []string{}
	}
	return characters
}
