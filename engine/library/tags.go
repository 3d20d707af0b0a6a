package library

import (
	"github.com/nbd-wtf/go-nostr"
)

func GetFirstTag(e nostr.Event, startsWith string) (string, bool) {
	for _, tag := range e.Tags {
		if tag.StartsWith([]string{startsWith}) {
			return tag.Value(), true
		}
	}
	return "", false
}

// GetAddressTag parses the first tag with the given name as an Address.
func GetAddressTag(e nostr.Event, name string) (Address, bool) {
	v, ok := GetFirstTag(e, name)
	if !ok {
		return ZeroAddress, false
	}
	a, err := ParseAddress(v)
	if err != nil {
		return ZeroAddress, false
	}
	return a, true
}
