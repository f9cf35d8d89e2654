// Package imap implements the grammar-driven front end of an IMAP4rev1
// server: it turns one complete client command line into a typed Command
// value, and exposes the sequence-set, search-key, fetch-attribute and
// body-section models that command carries.
//
// The package is a pure parser. It does not open sockets, does not
// speak TLS, does not serialize IMAP responses, and does not execute
// commands against mailbox state — those are the concerns of whatever
// session layer sits on top of it. See cmd/imapparse for a minimal
// driver that feeds it one line at a time.
package imap
