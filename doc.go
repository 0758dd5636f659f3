package htstore

// Package htstore implements a username/password and group-membership
// store backed by flat files in the classic Apache htpasswd/htgroup
// formats.
//
// The files on disk stay authoritative. The in-memory maps are a cache:
// reads refresh them when the files' modification times move, and every
// mutation re-reads the file under an advisory lock before deciding
// anything, so other processes editing the same files are tolerated.
//
// The public surface is Config plus the four Store operations:
// Authenticate, AddUser, AddUserToGroups, and Reload/ReloadGroups.
