package toolchat

import "strings"

// parseDoc splits a structured tool description into a summary and
// per-parameter descriptions. The format mirrors a conventional docstring:
// free-form summary text, then an "Args:" line followed by one
// "name: description" entry per line, with indented continuation lines
// appended to the previous entry.
//
// The summary is the text before the Args section; it becomes the tool
// description sent to the model. Entries naming parameters the tool does not
// declare are ignored, and parameters with no entry simply get no
// description.
func parseDoc(doc string) (summary string, params map[string]string) {
	params = map[string]string{}
	lines := strings.Split(doc, "\n")
	var summaryParts []string
	inArgs := false
	lastParam := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inArgs {
			if trimmed == "Args:" {
				inArgs = true
				continue
			}
			if trimmed != "" {
				summaryParts = append(summaryParts, trimmed)
			}
			continue
		}
		if trimmed == "" {
			continue
		}
		// A continuation line is more deeply indented than a new entry and
		// carries no "name:" prefix of its own.
		name, desc, ok := splitParamLine(trimmed)
		if ok {
			params[name] = desc
			lastParam = name
			continue
		}
		if lastParam != "" {
			params[lastParam] = params[lastParam] + " " + trimmed
		}
	}
	return strings.Join(summaryParts, " "), params
}

// splitParamLine parses "name: description" or "name (type): description".
func splitParamLine(line string) (name, desc string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	if paren := strings.Index(name, "("); paren > 0 {
		name = strings.TrimSpace(name[:paren])
	}
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, strings.TrimSpace(line[idx+1:]), true
}
