package htfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGroups(t *testing.T) {
	g := ParseGroups("admins: bob carol\ndevs: alice\nempty:\n")
	require.Equal(t, []string{"admins", "devs", "empty"}, g.Names())
	require.Equal(t, []string{"bob", "carol"}, g.Members("admins"))
	require.Equal(t, []string{"alice"}, g.Members("devs"))
	require.Empty(t, g.Members("empty"))
}

func TestParseGroupsMinified(t *testing.T) {
	// Legacy serializers concatenated records without separators; a single
	// record with no trailing newline must still parse.
	g := ParseGroups("admins: bob")
	require.Equal(t, []string{"bob"}, g.Members("admins"))
}

func TestGroupsRoundTrip(t *testing.T) {
	g := NewGroups()
	g.Add("g", "a")
	g.Add("g", "b")
	parsed := ParseGroups(string(g.Bytes()))
	require.Equal(t, []string{"g"}, parsed.Names())
	require.Equal(t, []string{"a", "b"}, parsed.Members("g"))
}

func TestGroupsAddNoDuplicates(t *testing.T) {
	g := NewGroups()
	require.True(t, g.Add("devs", "alice"))
	require.False(t, g.Add("devs", "alice"))
	require.Equal(t, []string{"alice"}, g.Members("devs"))
}

func TestGroupsBytesPreservesOrder(t *testing.T) {
	g := ParseGroups("z: u1\na: u2\nm: u3\n")
	require.Equal(t, "z: u1\na: u2\nm: u3\n", string(g.Bytes()))
}

func TestGroupsOf(t *testing.T) {
	g := ParseGroups("admins: bob carol\ndevs: alice bob\nops: carol\n")
	require.Equal(t, []string{"admins", "devs"}, g.GroupsOf("bob"))
	require.Nil(t, g.GroupsOf("nobody"))
}

func TestGroupsMerge(t *testing.T) {
	g := ParseGroups("admins: bob\ndevs: alice\n")
	g.Merge(ParseGroups("devs: dave\nops: carol\n"))
	require.Equal(t, []string{"admins", "devs", "ops"}, g.Names())
	// Merge replaces member lists for existing groups.
	require.Equal(t, []string{"dave"}, g.Members("devs"))
	require.Equal(t, []string{"carol"}, g.Members("ops"))
}

func TestGroupsEmptyGroupRoundTrip(t *testing.T) {
	g := NewGroups()
	g.Ensure("lonely")
	require.Equal(t, "lonely:\n", string(g.Bytes()))
	parsed := ParseGroups(string(g.Bytes()))
	require.Equal(t, []string{"lonely"}, parsed.Names())
	require.Empty(t, parsed.Members("lonely"))
}
