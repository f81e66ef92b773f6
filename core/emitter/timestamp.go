package emitter

import (
	"bytes"
	"regexp"

	"github.com/zeebo/xxh3"
)

var stampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)

var stampLines = [][]byte{
	[]byte(" * @since "),
	[]byte("@Generated("),
}

const stampMask = "0000-00-00 00:00:00"

// StripTimestamps masks the generation timestamps of an emitted class so that two generations of
// the same entity can be compared byte for byte.
func StripTimestamps(src []byte) []byte {
	lines := bytes.SplitAfter(src, []byte("\n"))
	var out bytes.Buffer
	out.Grow(len(src))
	for _, l := range lines {
		if hasStamp(l) {
			l = stampPattern.ReplaceAll(l, []byte(stampMask))
		}
		out.Write(l)
	}
	return out.Bytes()
}

// Fingerprint hashes an emitted class with its timestamps masked.
func Fingerprint(src []byte) uint64 {
	return xxh3.Hash(StripTimestamps(src))
}

// SameIgnoringTimestamps reports whether a and b differ at most in their generation timestamps.
// The comparison is made on fingerprints.
func SameIgnoringTimestamps(a, b []byte) bool {
	return len(a) == len(b) && Fingerprint(a) == Fingerprint(b)
}

func hasStamp(line []byte) bool {
	for _, prefix := range stampLines {
		if bytes.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
