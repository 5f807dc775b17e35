package scan

// Boundary is the result of a boundary search. Index is only meaningful when
// Found is true.
type Boundary struct {
	Index int
	Found bool
}

// NotFound is the zero Boundary
var NotFound = Boundary{}

// At returns a found boundary at index i
func At(i int) Boundary {
	return Boundary{Index: i, Found: true}
}

// Finder locates the end of a block inside the text that starts at its anchor
type Finder func(tail string) Boundary

// BalancedEnd returns the index where the nesting depth of open/close first
// returns to zero after at least one open. A close seen before any open drives
// the depth negative and terminates the scan at that index.
func BalancedEnd(text string, open, close byte) Boundary {
	depth := 0
	opened := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
			opened = true
		case close:
			depth--
			if depth < 0 || (opened && depth == 0) {
				return At(i)
			}
		}
	}
	return NotFound
}

// NthOccurrence returns the index of the n-th (1-based) occurrence of ch
func NthOccurrence(text string, ch byte, n int) Boundary {
	if n < 1 {
		return NotFound
	}
	seen := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ch {
			continue
		}
		seen++
		if seen == n {
			return At(i)
		}
	}
	return NotFound
}

// Balanced returns a Finder for a balanced open/close pair
func Balanced(open, close byte) Finder {
	return func(tail string) Boundary {
		return BalancedEnd(tail, open, close)
	}
}

// Nth returns a Finder for the n-th occurrence of ch
func Nth(ch byte, n int) Finder {
	return func(tail string) Boundary {
		return NthOccurrence(tail, ch, n)
	}
}
