package lockfs

// Package lockfs coordinates access to the flat credential files.
//
// Two layers of locking cooperate here:
//   - a per-path sync.Mutex so that only one mutation per file is in
//     flight inside this process, and
//   - an advisory flock on a "<path>.lock" sidecar so that other processes
//     editing the same files (htpasswd(1), another store instance) do not
//     interleave with our read-modify-write cycles.
//
// The lock lives on a sidecar rather than the file itself so that a
// missing credential file stays a distinct condition the caller can treat
// as an empty store.
