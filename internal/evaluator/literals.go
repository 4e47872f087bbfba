package evaluator

import "strconv"

// parseIntLiteral converts a lexer INT token's literal text (decimal
// digits, optionally underscore-separated) to its integer value. Malformed
// input cannot occur here: the lexer only emits INT tokens for text it has
// already validated as digits/underscores.
func parseIntLiteral(literal string) int64 {
	v, _ := strconv.ParseInt(stripUnderscores(literal), 10, 64)
	return v
}

// parseFloatLiteral converts a lexer FLOAT token's literal text to its
// float64 value.
func parseFloatLiteral(literal string) float64 {
	v, _ := strconv.ParseFloat(stripUnderscores(literal), 64)
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
