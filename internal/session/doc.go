// Package session manages the CLI session token: signing and verifying it,
// persisting it next to the signing key, reusing it across logins of the same
// collaborator and reading it back for each command.
package session
