package imap

// Command names as they appear on the wire, case-insensitive.
const (
	// Any-state commands
	CommandCapability = "CAPABILITY"
	CommandNoop       = "NOOP"
	CommandLogout     = "LOGOUT"
	CommandID         = "ID"

	// Not-authenticated state commands
	CommandStartTLS     = "STARTTLS"
	CommandAuthenticate = "AUTHENTICATE"
	CommandLogin        = "LOGIN"

	// Authenticated state commands
	CommandSelect      = "SELECT"
	CommandExamine     = "EXAMINE"
	CommandCreate      = "CREATE"
	CommandDelete      = "DELETE"
	CommandRename      = "RENAME"
	CommandSubscribe   = "SUBSCRIBE"
	CommandUnsubscribe = "UNSUBSCRIBE"
	CommandList        = "LIST"
	CommandLsub        = "LSUB"
	CommandStatus      = "STATUS"
	CommandAppend      = "APPEND"
	CommandIdle        = "IDLE"

	// Selected state commands
	CommandCheck    = "CHECK"
	CommandClose    = "CLOSE"
	CommandUnselect = "UNSELECT"
	CommandExpunge  = "EXPUNGE"
	CommandSearch   = "SEARCH"
	CommandFetch    = "FETCH"
	CommandStore    = "STORE"
	CommandCopy     = "COPY"
	CommandMove     = "MOVE"
	CommandUID      = "UID"

	// Continuation
	CommandDone = "DONE"
)

// Command is the tagged union over the IMAP client command vocabulary
// (§3 "Command"). Each concrete type below implements it as a marker;
// callers type-switch on the concrete type to dispatch.
type Command interface {
	isCommand()
}

// Capability is the any-state CAPABILITY command. It carries no arguments.
type Capability struct{}

func (Capability) isCommand() {}

// Noop is the any-state NOOP command.
type Noop struct{}

func (Noop) isCommand() {}

// Logout is the any-state LOGOUT command.
type Logout struct{}

func (Logout) isCommand() {}

// IdGet is produced by "ID NIL": the client queries the server's identity
// without asserting its own.
type IdGet struct{}

func (IdGet) isCommand() {}

// IdSet is produced by "ID (key value ...)". Keys are lower-cased field
// names; a NIL value is represented as the empty string, matching the
// grammar's "NIL for a value produces the empty string" rule. Order is
// preserved because duplicate keys are legal on the wire even though
// servers need not act on more than the first.
type IdSet struct {
	Params []IDParam
}

func (IdSet) isCommand() {}

// IDParam is one key/value pair of an ID command parameter list.
type IDParam struct {
	Key   string
	Value string
}

// MaxIDParams is the maximum number of key/value pairs accepted in an
// ID command parameter list, a guard against a protocol-level resource
// exhaustion attack (an unbounded ID list with zero-length keys/values).
const MaxIDParams = 30

// StartTLS is the not-authenticated STARTTLS command.
type StartTLS struct{}

func (StartTLS) isCommand() {}

// Auth is the not-authenticated AUTHENTICATE command. Data holds any
// base64-encoded initial-response chunks supplied inline with SASL-IR;
// it is empty when the client expects a server challenge first.
type Auth struct {
	Mechanism string
	Data      []string
}

func (Auth) isCommand() {}

// Login is the not-authenticated LOGIN command.
type Login struct {
	Username string
	Password string
}

func (Login) isCommand() {}

// Select is the SELECT command.
type Select struct {
	Mailbox string
}

func (Select) isCommand() {}

// Examine is the EXAMINE command: SELECT opened read-only.
type Examine struct {
	Mailbox string
}

func (Examine) isCommand() {}

// Create is the CREATE command.
type Create struct {
	Mailbox string
}

func (Create) isCommand() {}

// Delete is the DELETE command.
type Delete struct {
	Mailbox string
}

func (Delete) isCommand() {}

// Rename is the RENAME command.
type Rename struct {
	Mailbox string
	NewName string
}

func (Rename) isCommand() {}

// Subscribe is the SUBSCRIBE command.
type Subscribe struct {
	Mailbox string
}

func (Subscribe) isCommand() {}

// Unsubscribe is the UNSUBSCRIBE command.
type Unsubscribe struct {
	Mailbox string
}

func (Unsubscribe) isCommand() {}

// List is the LIST command.
type List struct {
	Reference string
	Mailbox   string
}

func (List) isCommand() {}

// Lsub is the LSUB command.
type Lsub struct {
	Reference string
	Mailbox   string
}

func (Lsub) isCommand() {}

// Status is the STATUS command.
type Status struct {
	Mailbox string
	Attrs   []StatusAttr
}

func (Status) isCommand() {}

// Append is the APPEND command. DateTime is nil when the optional
// date-time argument was not supplied; Literal is the raw message bytes,
// already substituted by the caller per the literal protocol.
type Append struct {
	Mailbox  string
	Flags    []string
	DateTime *DateTime
	Literal  string
}

func (Append) isCommand() {}

// Idle is the authenticated-state IDLE command (RFC 2177). The matching
// client "DONE" line is parsed as Done, a distinct command, since the
// grammar for it appears on its own line outside the normal command
// production.
type Idle struct{}

func (Idle) isCommand() {}

// Done is the continuation line that terminates an IDLE command.
type Done struct{}

func (Done) isCommand() {}

// Check is the CHECK command.
type Check struct{}

func (Check) isCommand() {}

// Close is the CLOSE command.
type Close struct{}

func (Close) isCommand() {}

// Unselect is the UNSELECT command (RFC 3691).
type Unselect struct{}

func (Unselect) isCommand() {}

// Expunge is the EXPUNGE command.
type Expunge struct{}

func (Expunge) isCommand() {}

// UidExpunge is the "UID EXPUNGE sequence-set" command (RFC 4315).
type UidExpunge struct {
	Set SequenceSet
}

func (UidExpunge) isCommand() {}

// Search is the SEARCH command. Charset is empty unless the optional
// "CHARSET name" prefix was present.
type Search struct {
	Charset string
	Keys    []SearchKey
}

func (Search) isCommand() {}

// Fetch is the FETCH command.
type Fetch struct {
	Set   SequenceSet
	Attrs []FetchAttribute
}

func (Fetch) isCommand() {}

// Store is the STORE command.
type Store struct {
	Set    SequenceSet
	Action StoreAction
	Silent bool
	Flags  []string
}

func (Store) isCommand() {}

// Copy is the COPY command.
type Copy struct {
	Set     SequenceSet
	Mailbox string
}

func (Copy) isCommand() {}

// Move is the MOVE command (RFC 6851).
type Move struct {
	Set     SequenceSet
	Mailbox string
}

func (Move) isCommand() {}

// Uid wraps one of Copy, Move, Fetch, Store or Search, as produced by
// "UID <command>". "UID EXPUNGE" is not wrapped: it produces UidExpunge
// directly. The grammar
// restricts which commands are valid after UID; the parser enforces
// that and only ever populates Inner with one of those types.
type Uid struct {
	Inner Command
}

func (Uid) isCommand() {}
