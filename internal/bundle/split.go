package bundle

// SplitObjects returns the top-level {...} spans of data, in order.
//
// The scan tracks brace depth and whether it is inside a string literal, so
// braces in strings (and escaped quotes) do not count. Text between objects is
// ignored, as is a closing brace with no open object. An object still open at
// the end of data is dropped.
func SplitObjects(data []byte) [][]byte {
	var (
		out      [][]byte
		depth    int
		inString bool
		escape   bool
		start    = -1
	)
	for i, c := range data {
		if escape {
			escape = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, data[start:i+1])
				start = -1
			}
		}
	}
	return out
}
