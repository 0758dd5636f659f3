package htfile

import "strings"

// Groups is an htgroup file in memory. Written order is preserved so a
// parse/serialize round trip does not shuffle records.
type Groups struct {
	order   []string
	members map[string][]string
}

func NewGroups() *Groups {
	return &Groups{members: make(map[string][]string)}
}

// ParseGroups reads htgroup-format text. Exactly one colon terminates the
// group name, which is taken verbatim; members are single-space separated.
func ParseGroups(text string) *Groups {
	g := NewGroups()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		name := parts[0]
		g.Ensure(name)
		if len(parts) == 2 {
			for _, m := range strings.Split(parts[1], " ") {
				if m != "" {
					g.Add(name, m)
				}
			}
		}
	}
	return g
}

// Names returns the group names in written order.
func (g *Groups) Names() []string {
	return append([]string(nil), g.order...)
}

// Members returns a copy of the named group's member list.
func (g *Groups) Members(name string) []string {
	return append([]string(nil), g.members[name]...)
}

// Has reports whether user is a member of the named group.
func (g *Groups) Has(name, user string) bool {
	for _, m := range g.members[name] {
		if m == user {
			return true
		}
	}
	return false
}

// Ensure adds an empty group if the name is not present yet.
func (g *Groups) Ensure(name string) {
	if _, ok := g.members[name]; !ok {
		g.order = append(g.order, name)
		g.members[name] = []string{}
	}
}

// Add puts user into the named group, creating the group when missing, and
// reports whether membership actually changed. A user is never listed
// twice in the same group.
func (g *Groups) Add(name, user string) bool {
	g.Ensure(name)
	if g.Has(name, user) {
		return false
	}
	g.members[name] = append(g.members[name], user)
	return true
}

// GroupsOf returns every group containing user, in written order.
func (g *Groups) GroupsOf(user string) []string {
	var out []string
	for _, name := range g.order {
		if g.Has(name, user) {
			out = append(out, name)
		}
	}
	return out
}

// Merge copies other's groups over g. Existing member lists are replaced,
// not unioned; groups new to g keep their written order after g's own.
func (g *Groups) Merge(other *Groups) {
	for _, name := range other.order {
		if _, ok := g.members[name]; !ok {
			g.order = append(g.order, name)
		}
		g.members[name] = append([]string(nil), other.members[name]...)
	}
}

func (g *Groups) Len() int {
	return len(g.order)
}

// Bytes serializes the file, one `name: member member` record per line.
func (g *Groups) Bytes() []byte {
	var buf strings.Builder
	for _, name := range g.order {
		buf.WriteString(name)
		buf.WriteByte(':')
		if ms := g.members[name]; len(ms) > 0 {
			buf.WriteByte(' ')
			buf.WriteString(strings.Join(ms, " "))
		}
		buf.WriteByte('\n')
	}
	return []byte(buf.String())
}
