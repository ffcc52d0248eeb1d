package enhance

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var reFence = regexp.MustCompile("```(?:json)?\n?|\n?```")

// StripMarkdownFences removes ```json fences models wrap responses in despite
// instructions not to.
func StripMarkdownFences(raw string) string {
	return strings.TrimSpace(reFence.ReplaceAllString(raw, ""))
}

// SanitizeEnhanced coerces an enhanced payload toward the strict schema:
// numeric values become strings (models love returning address numbers as
// numbers), null and empty values are dropped, unknown keys are removed.
// Returns the cleaned JSON plus the list of keys touched.
func SanitizeEnhanced(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	allowed := make(map[string]struct{}, len(enhancedKeys))
	for _, k := range enhancedKeys {
		allowed[k] = struct{}{}
	}

	var dropped []string
	for k, v := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case float64:
			if t == float64(int64(t)) {
				m[k] = strconv.FormatInt(int64(t), 10)
			} else {
				m[k] = strconv.FormatFloat(t, 'f', -1, 64)
			}
			dropped = append(dropped, k+"(number)")
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		default:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("enhance.sanitize", "touched", dropped)
	}
	return out, dropped, nil
}
