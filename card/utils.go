package card

import "fmt"

// ParseList parses a list of card codes, failing on the first bad entry.
func ParseList(codes []string) ([]Card, error) {
	out := make([]Card, 0, len(codes))
	for i, raw := range codes {
		c, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Codes formats cards with Code.
func Codes(cs []Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Code())
	}
	return out
}
