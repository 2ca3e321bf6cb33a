package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// fieldIssue is one entry of a location-keyed error list, e.g.
// {"loc": ["body", "email"], "msg": "value is not a valid email address"}.
type fieldIssue struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

// decodeDetail extracts the human-readable detail of an error body. The
// detail may be a plain string or a location-keyed list; the latter also
// yields per-field messages keyed by the last location element.
func decodeDetail(raw []byte) (string, map[string]string) {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s, nil
	}

	var issues []fieldIssue
	if err := json.Unmarshal(body.Detail, &issues); err != nil || len(issues) == 0 {
		return strings.TrimSpace(string(body.Detail)), nil
	}

	fields := make(map[string]string, len(issues))
	msgs := make([]string, 0, len(issues))
	for _, is := range issues {
		msgs = append(msgs, is.Msg)
		if len(is.Loc) == 0 {
			continue
		}
		key := fmt.Sprint(is.Loc[len(is.Loc)-1])
		if _, seen := fields[key]; !seen {
			fields[key] = is.Msg
		}
	}
	return strings.Join(msgs, "; "), fields
}
