package tagstream

import "strings"

// safeMargin is the minimum number of trailing buffer characters
// withheld while inside a field, so a close marker split across chunk
// boundaries is never partially emitted.
const safeMargin = 10

// withholdMargin returns how many trailing bytes to withhold for the
// given close marker: one byte short of the full marker, so a marker
// split at any offset stays buffered, and never less than safeMargin.
func withholdMargin(closeTag string) int {
	if m := len(closeTag) - 1; m > safeMargin {
		return m
	}
	return safeMargin
}

// scanResult is the outcome of one scanTag pass.
type scanResult struct {
	emit      string // content safe to emit now
	remaining string // unconsumed buffer, carried into the next pass
	inside    bool   // whether the scan ended inside the field
	closed    bool   // whether the close marker was found this pass
}

// scanTag extracts content between an open/close marker pair from buf.
//
// Markers are matched by literal substring search, never by pattern
// matching: adversarial model output must not be able to blow up scan
// cost. The function is pure; callers thread the inside flag and the
// remaining buffer through successive calls.
//
// While inside the field with no close marker in sight, everything but
// a trailing margin is emitted. The margin is sized to the close marker
// (see withholdMargin) and stays buffered so a close marker arriving
// split across two chunks is caught whole.
func scanTag(buf, openTag, closeTag string, inside bool) scanResult {
	if !inside {
		idx := strings.Index(buf, openTag)
		if idx < 0 {
			return scanResult{remaining: buf}
		}
		buf = buf[idx+len(openTag):]
	}

	if idx := strings.Index(buf, closeTag); idx >= 0 {
		return scanResult{
			emit:      buf[:idx],
			remaining: buf[idx+len(closeTag):],
			closed:    true,
		}
	}

	margin := withholdMargin(closeTag)
	if len(buf) > margin {
		cut := len(buf) - margin
		return scanResult{
			emit:      buf[:cut],
			remaining: buf[cut:],
			inside:    true,
		}
	}

	return scanResult{remaining: buf, inside: true}
}
