// Package accounts resolves an account name into the set of linked account
// aliases that the dashboard treats as one logical account.
package accounts

import (
	"sort"
	"strings"
	"sync"
)

// DefaultGroups is the built-in grouping table. Aliases are lowercase.
var DefaultGroups = map[string][]string{
	"kroger": {"kroger", "mariano's"},
	"piggly wiggly": {
		"piggly wiggly",
		"piggly wiggly - franchise",
		"pigs coporate",
		"pigs dave s",
		"pigs fox brothers",
		"pigs jake b",
		"pigs malicki",
		"pigs migel",
		"pigs mike day",
		"pigs red",
		"pigs ryan o",
		"pigs stinebrinks",
		"pigs stoneridge",
		"pigs tietz",
	},
	"ascension rx": {
		"ascension rx",
		"ascension rx - per k",
		"ascension rx - man hr",
	},
	"fuel on": {
		"fuel on",
		"relaince fuel, llc",
		"reliance fuel, llc",
		"schierl",
	},
	"single c-stores": {
		"single c-stores",
		"*single c-stores $-check",
		"*single c-stores $ cash",
	},
}

// Resolver maps an account alias to every alias in its group.
// A Resolver is immutable once built and safe for concurrent use.
type Resolver struct {
	index map[string][]string
	names map[string]string // alias → group name
}

// NewResolver builds the reverse index for groups. Aliases are lowercased.
// Group names are visited in sorted order so an alias listed in two groups
// deterministically belongs to the later one.
func NewResolver(groups map[string][]string) *Resolver {
	r := &Resolver{
		index: make(map[string][]string),
		names: make(map[string]string),
	}

	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, name := range groupNames {
		aliases := groups[name]
		members := make([]string, 0, len(aliases))
		for _, a := range aliases {
			members = append(members, strings.ToLower(a))
		}
		for _, a := range members {
			r.index[a] = members
			r.names[a] = name
		}
	}
	return r
}

var defaultResolver = sync.OnceValue(func() *Resolver {
	return NewResolver(DefaultGroups)
})

// Default returns the resolver built from DefaultGroups.
func Default() *Resolver {
	return defaultResolver()
}

// Resolve returns the lowercased aliases linked to accountName.
// Unknown accounts resolve to a single-element group of themselves.
func (r *Resolver) Resolve(accountName string) []string {
	lower := strings.ToLower(accountName)
	if members, ok := r.index[lower]; ok {
		out := make([]string, len(members))
		copy(out, members)
		return out
	}
	return []string{lower}
}

// Group returns the group name for an alias, or the lowercased alias itself.
func (r *Resolver) Group(accountName string) string {
	lower := strings.ToLower(accountName)
	if name, ok := r.names[lower]; ok {
		return name
	}
	return lower
}

// Matcher returns a predicate reporting whether an account belongs to the
// group of accountName. Comparison is case-insensitive.
func (r *Resolver) Matcher(accountName string) func(account string) bool {
	set := make(map[string]struct{})
	for _, a := range r.Resolve(accountName) {
		set[a] = struct{}{}
	}
	return func(account string) bool {
		_, ok := set[strings.ToLower(account)]
		return ok
	}
}

// Resolve uses the default resolver.
func Resolve(accountName string) []string {
	return Default().Resolve(accountName)
}
