package htfile

// Package htfile parses and serializes the classic Apache htpasswd and
// htgroup line formats.
//
// Both codecs are pure functions over text. Parsing tolerates the minified
// output older tools produce (missing trailing newlines, concatenated
// group records); serialization always emits newline-terminated records.
