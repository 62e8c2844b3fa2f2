package natsutil

import "strings"

// PathToken converts an election path into a dot separated NATS token.
//
// Each path segment becomes one subject token; characters that are not
// allowed in subjects or KV keys are replaced with '_'.
//
// Example:
//
//	PathToken("/services/billing/leader") // "services.billing.leader"
//	PathToken("/jobs/*")                  // "jobs._"
func PathToken(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	out := make([]string, 0, len(segs))

	for _, seg := range segs {
		if seg == "" {
			continue
		}
		out = append(out, sanitize(seg))
	}
	if len(out) == 0 {
		return "_"
	}

	return strings.Join(out, ".")
}

func sanitize(seg string) string {
	var b strings.Builder
	b.Grow(len(seg))

	for _, r := range seg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '=':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}
