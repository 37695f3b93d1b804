// Package session owns the upload workflow: file selection, submission and
// the resulting UI state.
package session

import (
	"context"
	"sync"

	"github.com/aezell/codescore/internal/client"
	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/selector"
	log "github.com/sirupsen/logrus"
)

// Submitter sends a selected file for analysis.
type Submitter interface {
	Submit(ctx context.Context, f *selector.SelectedFile) (*model.AnalysisResult, error)
}

// Session is one user's workflow. It does not serialise submissions: two
// overlapping requests both run and whichever resolves last sets the state.
type Session struct {
	mu        sync.Mutex
	selector  *selector.Selector
	submitter Submitter
	state     model.State
	observers map[int]func(model.State)
	nextID    int
}

// New creates an idle Session that submits through sub.
func New(sub Submitter) *Session {
	return &Session{
		selector:  selector.New(),
		submitter: sub,
		state:     model.Idle{},
		observers: make(map[int]func(model.State)),
	}
}

// State returns the current state.
func (s *Session) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Selected returns the selected file, or nil.
func (s *Session) Selected() *selector.SelectedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.Selected()
}

// CanSubmit reports whether the submit control should be enabled.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !model.IsLoading(s.state) && s.selector.Selected() != nil
}

// Subscribe registers fn to be called with every new state. Observers run
// synchronously, outside the session lock. The returned func removes fn.
func (s *Session) Subscribe(fn func(model.State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Select validates and stores a file from memory.
func (s *Session) Select(name string, content []byte) (*selector.SelectedFile, error) {
	s.mu.Lock()
	f, err := s.selector.Select(name, content)
	return f, s.afterSelect(err)
}

// SelectPath validates and stores the file at path.
func (s *Session) SelectPath(path string) (*selector.SelectedFile, error) {
	s.mu.Lock()
	f, err := s.selector.SelectPath(path)
	return f, s.afterSelect(err)
}

// afterSelect must be called with s.mu held; it releases it.
func (s *Session) afterSelect(err error) error {
	if err != nil {
		log.Debugf("Selection rejected: %v", err)
		s.failLocked(err)
		return err
	}

	switch st := s.state.(type) {
	case model.Failed:
		if st.Last != nil {
			s.setLocked(model.Succeeded{Result: st.Last})
		} else {
			s.setLocked(model.Idle{})
		}
	default:
		s.mu.Unlock()
	}
	return nil
}

// Begin checks the submit precondition and moves to Loading. It returns the
// file to upload. Without a selection the state becomes Failed and loading
// is not touched.
func (s *Session) Begin() (*selector.SelectedFile, error) {
	s.mu.Lock()
	f := s.selector.Selected()
	if f == nil {
		err := &client.NoFileError{}
		s.failLocked(err)
		return nil, err
	}
	s.setLocked(model.Loading{Last: model.Result(s.state)})
	return f, nil
}

// Finish applies the outcome of a request started by Begin.
func (s *Session) Finish(result *model.AnalysisResult, err error) {
	s.mu.Lock()
	if err != nil {
		log.Debugf("Analysis failed: %v", err)
		s.setLocked(s.failed(err))
		return
	}
	s.setLocked(model.Succeeded{Result: result})
}

// Send performs the request for a file returned by Begin without touching
// the state. Callers that run it asynchronously pass its outcome to Finish.
func (s *Session) Send(ctx context.Context, f *selector.SelectedFile) (*model.AnalysisResult, error) {
	return s.submitter.Submit(ctx, f)
}

// Submit runs Begin, Send and Finish in sequence.
func (s *Session) Submit(ctx context.Context) error {
	f, err := s.Begin()
	if err != nil {
		return err
	}
	res, err := s.Send(ctx, f)
	s.Finish(res, err)
	return err
}

func (s *Session) failed(err error) model.Failed {
	return model.Failed{Reason: client.Describe(err), Last: model.Result(s.state)}
}

// failLocked reports a selection or precondition error. An in-flight request
// keeps the session Loading and the message becomes its Notice.
// Must be called with s.mu held; it releases it.
func (s *Session) failLocked(err error) {
	if l, ok := s.state.(model.Loading); ok {
		s.setLocked(model.Loading{Last: l.Last, Notice: client.Describe(err)})
		return
	}
	s.setLocked(s.failed(err))
}

// setLocked must be called with s.mu held; it releases it before notifying.
func (s *Session) setLocked(st model.State) {
	s.state = st
	observers := make([]func(model.State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(st)
	}
}
