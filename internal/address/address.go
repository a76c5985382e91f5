// Package address splits the "name:address" notation used on the command line
// into display-name/address pairs.
package address

import (
	"net/mail"
	"strings"
)

const (
	// nameSeparator separates a display name from its address.
	nameSeparator = ":"

	// listSeparator separates entries of a recipient list.
	listSeparator = "|"
)

// Address is a display name paired with a mailbox address.
type Address struct {
	Name    string
	Address string
}

// String renders the address as an RFC 5322 mailbox with a quoted (or
// Q-encoded) display name, or just the address when the display name is empty
// or repeats it.
func (a Address) String() string {
	if a.Name == "" || a.Name == a.Address {
		return a.Address
	}
	return (&mail.Address{Name: a.Name, Address: a.Address}).String()
}

// ParseSingle parses "name:address" into its two parts. Anything that does not
// split into exactly two segments is used unchanged as both name and address.
func ParseSingle(s string) Address {
	parts := strings.Split(s, nameSeparator)
	if len(parts) == 2 {
		return Address{Name: parts[0], Address: parts[1]}
	}
	return Address{Name: s, Address: s}
}

// ParseRecipients parses a "|"-delimited list of entries in ParseSingle form.
// Order is preserved and duplicates are kept. Empty segments are not dropped,
// so the result always has one entry per segment.
func ParseRecipients(s string) []Address {
	segments := strings.Split(s, listSeparator)
	result := make([]Address, 0, len(segments))
	for _, seg := range segments {
		result = append(result, ParseSingle(seg))
	}
	return result
}

// Strings renders each address with String.
func Strings(addrs []Address) []string {
	result := make([]string, 0, len(addrs))
	for _, a := range addrs {
		result = append(result, a.String())
	}
	return result
}
