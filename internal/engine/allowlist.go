package engine

import "sort"

// AllowList is the authorization policy: a fixed set of identities considered
// authorized senders. The set is built once before the run starts; there is
// no removal operation. Callers wanting a different policy swap the whole
// list before the next run.
type AllowList struct {
	members map[Identity]struct{}
}

// NewAllowList builds an allow-list from the given identities. Duplicates
// and alternate renderings of the same address collapse to one entry.
func NewAllowList(ids ...Identity) *AllowList {
	members := make(map[Identity]struct{}, len(ids))
	for _, id := range ids {
		if n := id.Normalize(); n != "" {
			members[n] = struct{}{}
		}
	}
	return &AllowList{members: members}
}

// IsAuthorized reports whether id is on the list. Pure lookup, O(1).
func (l *AllowList) IsAuthorized(id Identity) bool {
	_, ok := l.members[id.Normalize()]
	return ok
}

// Len returns the number of distinct authorized identities.
func (l *AllowList) Len() int {
	return len(l.members)
}

// Members returns the authorized identities in sorted order.
func (l *AllowList) Members() []Identity {
	out := make([]Identity, 0, len(l.members))
	for id := range l.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
