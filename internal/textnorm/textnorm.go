// Package textnorm folds text for accent and case insensitive matching.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, decomposes it (NFD) and drops combining marks,
// so "José" and "JOSE" both become "jose".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), lower)
	if err != nil {
		return lower
	}
	return folded
}

// Tokens splits the normalized form of s on whitespace.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// PrepareSearchBlob builds the searchable text of e from its textual
// attributes, skipping empty ones.
func PrepareSearchBlob(e models.Employee) string {
	parts := make([]string, 0, 11)
	for _, v := range []string{
		e.Name, e.Code, e.Title, e.Location, e.Area, e.Brand,
		e.Company, e.Manager, e.NationalID, e.Email, e.Sector,
	} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return Normalize(strings.Join(parts, " "))
}
