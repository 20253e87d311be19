package postgres

import (
	"errors"
	"strconv"
	"strings"

	pq "github.com/lib/pq"
)

const uniqueViolation = "23505"

type dialect struct{}

// Rebind rewrites ? placeholders as $1, $2, ... outside quoted literals.
func (dialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (dialect) Now() string {
	return "NOW()"
}

func (dialect) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
