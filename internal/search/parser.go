package search

import "strings"

// ParseResults scans the collaborator's output for ranked entries and
// reconstructs fragments in emission order.
//
// The recognized shape is a header line beginning with a rank prefix
// ("1.", "2.", ...) that carries a "Score:" marker, a quoted chunk name,
// and an " in <file>" annotation, followed by an indented "Lines a-b: <code>"
// body line. Anything else is ignored: truncated or reformatted output
// degrades the fragment count, never the run.
func ParseResults(output string) []Fragment {
	var (
		frags   []Fragment
		pending *Fragment
	)
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case isRankHeader(line):
			if pending != nil {
				frags = append(frags, *pending)
			}
			f := parseHeader(line)
			pending = &f
		case pending != nil && isBodyLine(line):
			if idx := strings.Index(line, ": "); idx >= 0 {
				pending.Text = line[idx+2:]
			}
			frags = append(frags, *pending)
			pending = nil
		}
	}
	// A header whose body never arrived still counts, with empty text.
	if pending != nil {
		frags = append(frags, *pending)
	}
	return frags
}

func isRankHeader(line string) bool {
	if !strings.Contains(line, "Score:") {
		return false
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && line[i] == '.'
}

func isBodyLine(line string) bool {
	return strings.HasPrefix(line, "Lines ") && strings.Contains(line, ": ")
}

func parseHeader(line string) Fragment {
	f := Fragment{Name: "unknown", File: "unknown"}
	if parts := strings.SplitN(line, "'", 3); len(parts) >= 2 {
		f.Name = parts[1]
	}
	// Last " in " so quoted names containing the word still parse.
	if idx := strings.LastIndex(line, " in "); idx >= 0 {
		if file := strings.TrimSpace(line[idx+4:]); file != "" {
			f.File = file
		}
	}
	return f
}
