package parser

import "strconv"

func parseIntText(s string) int64 {
	v, _ := strconv.ParseInt(stripUnderscores(s), 10, 64)
	return v
}

func parseFloatText(s string) float64 {
	v, _ := strconv.ParseFloat(stripUnderscores(s), 64)
	return v
}

func stripUnderscores(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
