package fits

import (
	"fmt"
	"strconv"
	"strings"

	"emperror.dev/errors"
)

// card is one parsed 80-byte header record.
type card struct {
	key   string
	value any
}

// parseCard decodes a single header card. Commentary cards (COMMENT,
// HISTORY, blank keyword) and the END card carry no value.
func parseCard(raw []byte) (card, error) {
	if len(raw) != CardSize {
		return card{}, errors.Errorf("card length %d", len(raw))
	}
	key := strings.TrimRight(string(raw[0:8]), " ")
	if key == "" || key == "COMMENT" || key == "HISTORY" || key == "END" {
		return card{key: key}, nil
	}
	if string(raw[8:10]) != "= " {
		// keyword without value indicator
		return card{key: key}, nil
	}
	value, err := parseValue(string(raw[10:]))
	if err != nil {
		return card{}, errors.Wrapf(err, "card %s", key)
	}
	return card{key: key, value: value}, nil
}

// parseValue decodes the value field of a card, stripping any trailing
// comment. Strings are quoted with doubled-quote escaping; everything else
// is a free-format token (logical, integer or float).
func parseValue(field string) (any, error) {
	field = strings.TrimLeft(field, " ")
	if field == "" {
		return nil, nil
	}
	if field[0] == '\'' {
		var sb strings.Builder
		i := 1
		for i < len(field) {
			if field[i] == '\'' {
				if i+1 < len(field) && field[i+1] == '\'' {
					sb.WriteByte('\'')
					i += 2
					continue
				}
				return strings.TrimRight(sb.String(), " "), nil
			}
			sb.WriteByte(field[i])
			i++
		}
		return nil, errors.New("unterminated string value")
	}
	if idx := strings.IndexByte(field, '/'); idx >= 0 {
		field = field[:idx]
	}
	token := strings.TrimSpace(field)
	switch token {
	case "":
		return nil, nil
	case "T":
		return true, nil
	case "F":
		return false, nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, errors.Errorf("unparseable value %q", token)
}

// formatCard renders a fixed-format header card.
func formatCard(key string, value any) []byte {
	var field string
	switch v := value.(type) {
	case nil:
		field = ""
	case bool:
		l := "F"
		if v {
			l = "T"
		}
		field = fmt.Sprintf("%20s", l)
	case int:
		field = fmt.Sprintf("%20d", v)
	case int64:
		field = fmt.Sprintf("%20d", v)
	case float64:
		field = fmt.Sprintf("%20s", formatFloat(v))
	case string:
		quoted := "'" + strings.ReplaceAll(v, "'", "''")
		for len(quoted) < 9 {
			quoted += " "
		}
		field = quoted + "'"
	default:
		field = fmt.Sprintf("%20v", v)
	}
	line := fmt.Sprintf("%-8s= %s", key, field)
	return padCard(line)
}

// formatFloat renders a float with a guaranteed decimal point so it reads
// back as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if !strings.ContainsAny(s, ".E") {
		s += "."
	}
	return s
}

// padCard pads a header line to the card size.
func padCard(line string) []byte {
	buf := make([]byte, CardSize)
	copy(buf, line)
	for i := len(line); i < CardSize; i++ {
		buf[i] = ' '
	}
	return buf
}

// intValue coerces a header value to int, for NAXIS-style keys.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
