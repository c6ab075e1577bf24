package syntax

// Kind represents token kinds produced by the lexer.
type Kind int

const (
	KindDictBegin Kind = iota // <<
	KindDictEnd               // >>
	KindArrayBegin
	KindArrayEnd
	KindName
	KindInteger
	KindBoolean
	KindString // decoded bytes of a literal or hex string
	KindNull
	KindRef // N G R merged into one token by the lexer
	KindEOF
)

// Token represents a lexed token with its byte offset in the input.
type Token struct {
	Kind   Kind
	Name   string
	Int    int64
	Bool   bool
	Bytes  []byte
	RefNum uint32
	RefGen uint16
	Offset int64
}

// TokenSource is the minimal streaming interface consumed by the decoder and
// the enforcement wrapper.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SimpleIssue is a lightweight issue record emitted by the enforcement layer.
// The root package converts these into its public Issue type.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.Message }
