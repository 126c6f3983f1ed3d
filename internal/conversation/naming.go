package conversation

import "fmt"

// ordinalNames covers the first ten auto-assigned titles; beyond that we
// fall back to a numeric ordinal.
var ordinalNames = []string{
	"First",
	"Second",
	"Third",
	"Fourth",
	"Fifth",
	"Sixth",
	"Seventh",
	"Eighth",
	"Ninth",
	"Tenth",
}

// OrdinalTitle returns the auto-assigned title for a conversation given how
// many other conversations are already in use.
func OrdinalTitle(othersInUse int) string {
	if othersInUse < len(ordinalNames) {
		return ordinalNames[othersInUse] + " conversation"
	}
	return fmt.Sprintf("%dth conversation", othersInUse+1)
}
