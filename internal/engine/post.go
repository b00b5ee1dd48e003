package engine

// Post is one user submission under evaluation. Posts are immutable inputs;
// the engine never mutates them, which is what makes scanning different
// posts concurrently safe.
type Post struct {
	ID       int64
	Title    string
	Body     string // marked-up text as fetched
	Username string
	Site     string // opaque site identifier, e.g. "stackoverflow.com"
	OwnerRep int
	Score    int

	IsAnswer      bool
	BodyIsSummary bool // truncated preview body; some rules must not fire on partial text

	Parent   *Post   // the question, set for answers when known
	Siblings []*Post // sibling answers on the same question, excluding this post
}

// Field identifies which part of a post a detector matched.
type Field int

const (
	FieldNone Field = iota
	FieldTitle
	FieldBody
	FieldUsername
)

// String returns the lowercase field name used in reason templates.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldBody:
		return "body"
	case FieldUsername:
		return "username"
	default:
		return "none"
	}
}

// Verdict is the aggregated result of evaluating every rule against a post.
type Verdict struct {
	// Reasons is deduplicated and sorted ascending; running the engine twice
	// on the same post yields the identical slice.
	Reasons []string
	// Why concatenates explanation lines in fixed bucket order: title lines,
	// then body, then username, regardless of rule iteration order.
	Why string
}

// Spam reports whether any rule matched.
func (v Verdict) Spam() bool {
	return len(v.Reasons) > 0
}
