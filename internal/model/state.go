package model

// State is the UI state of an analysis workflow. Exactly one of Idle,
// Loading, Failed or Succeeded is active at a time.
type State interface {
	Kind() StateKind
}

// StateKind names the active State variant.
type StateKind int

const (
	KindIdle StateKind = iota
	KindLoading
	KindFailed
	KindSucceeded
)

func (k StateKind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindLoading:
		return "loading"
	case KindFailed:
		return "failed"
	case KindSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Idle means nothing has been reported yet.
type Idle struct{}

// Loading means a request is in flight. Last is the previous result, if any;
// it stays visible until the request resolves. Notice reports a selection
// error raised while waiting; it is dropped when the request resolves.
type Loading struct {
	Last   *AnalysisResult
	Notice string
}

// Failed carries the visible error message. Last is a result from an earlier
// analysis that is left in place.
type Failed struct {
	Reason string
	Last   *AnalysisResult
}

// Succeeded holds the result of the most recent successful analysis.
type Succeeded struct {
	Result *AnalysisResult
}

func (Idle) Kind() StateKind      { return KindIdle }
func (Loading) Kind() StateKind   { return KindLoading }
func (Failed) Kind() StateKind    { return KindFailed }
func (Succeeded) Kind() StateKind { return KindSucceeded }

// IsLoading reports whether s is Loading.
func IsLoading(s State) bool {
	_, ok := s.(Loading)
	return ok
}

// ErrorMessage returns the visible error, or "" when s is not Failed.
func ErrorMessage(s State) string {
	if f, ok := s.(Failed); ok {
		return f.Reason
	}
	return ""
}

// Notice returns the message of an error raised during Loading, or "".
func Notice(s State) string {
	if l, ok := s.(Loading); ok {
		return l.Notice
	}
	return ""
}

// Result returns the result that should be rendered for s, or nil.
func Result(s State) *AnalysisResult {
	switch v := s.(type) {
	case Succeeded:
		return v.Result
	case Loading:
		return v.Last
	case Failed:
		return v.Last
	default:
		return nil
	}
}
