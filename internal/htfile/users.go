package htfile

import (
	"strings"
	"time"
)

// ParseUsers reads htpasswd-format text into a username -> hash map.
// Records are `username:hash:comment`; the comment is discarded. Lines
// without a hash field are skipped.
func ParseUsers(text string) map[string]string {
	users := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 2 {
			continue
		}
		users[parts[0]] = parts[1]
	}
	return users
}

// AppendUser appends a `username:hash:autocreated <time>` record to an
// existing htpasswd body. A newline is inserted first when the body does
// not end with one, so the previous record is never corrupted.
func AppendUser(body, username, hash string) string {
	var b strings.Builder
	b.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(username)
	b.WriteByte(':')
	b.WriteString(hash)
	b.WriteString(":autocreated ")
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteByte('\n')
	return b.String()
}
