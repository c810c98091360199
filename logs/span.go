package logs

// Span identifies one unit of work, such as a scenario run or a repl session.
type Span string

type spanKey struct{}

var SpanKey spanKey
