package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/aezell/codescore/internal/client"
	"github.com/aezell/codescore/internal/config"
	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/report"
	"github.com/aezell/codescore/internal/selector"
	"github.com/aezell/codescore/internal/session"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// maxUpload bounds the size of a selected file.
const maxUpload = 10 << 20

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// page is the data rendered by templates/index.html.
type page struct {
	Accept    string
	FileName  string
	FileSize  string
	Loading   bool
	CanSubmit bool
	Error     string
	Notice    string
	Kind      string
	Report    *report.Report
	Tier      model.Tier
	Stale     bool
	Theme     config.ThemeConfig
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.view(r)
	st := sess.State()

	p := page{
		Accept:    selector.AcceptHint,
		Loading:   model.IsLoading(st),
		CanSubmit: sess.CanSubmit(),
		Error:     model.ErrorMessage(st),
		Notice:    model.Notice(st),
		Kind:      st.Kind().String(),
		Theme:     s.theme,
	}
	if f := sess.Selected(); f != nil {
		p.FileName = f.Name
		p.FileSize = humanize.Bytes(uint64(f.Size()))
	}
	if res := model.Result(st); res != nil {
		rep := report.Build(res)
		p.Report = &rep
		p.Tier = model.TierFor(float64(res.OverallScore))
		p.Stale = st.Kind() != model.KindSucceeded
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, p); err != nil {
		log.Warnf("render page: %v", err)
	}
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1<<20)
	file, header, err := r.FormFile(client.FileField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// The dialog was dismissed; keep the current selection.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid upload: "+err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return
	}
	if len(content) > maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	if _, err := sess.Select(header.Filename, content); err != nil {
		log.Debugf("Rejected %q: %v", header.Filename, err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAnalyze starts a request in the background and returns at once; the
// page follows progress through /api/ws. Requests that overlap all run and
// the last one to resolve sets the state.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	if f, err := sess.Begin(); err == nil {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			res, err := sess.Send(s.ctx, f)
			sess.Finish(res, err)
		}()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshot(s.view(r)))
}

// stateJSON is the wire form of a session for /api/state and /api/ws.
type stateJSON struct {
	Kind      string                `json:"kind"`
	Loading   bool                  `json:"loading"`
	CanSubmit bool                  `json:"can_submit"`
	Error     string                `json:"error,omitempty"`
	Notice    string                `json:"notice,omitempty"`
	File      *fileJSON             `json:"file,omitempty"`
	Result    *model.AnalysisResult `json:"result,omitempty"`
}

type fileJSON struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func snapshot(sess *session.Session) stateJSON {
	st := sess.State()
	out := stateJSON{
		Kind:      st.Kind().String(),
		Loading:   model.IsLoading(st),
		CanSubmit: sess.CanSubmit(),
		Error:     model.ErrorMessage(st),
		Notice:    model.Notice(st),
		Result:    model.Result(st),
	}
	if f := sess.Selected(); f != nil {
		out.File = &fileJSON{Name: f.Name, Size: f.Size()}
	}
	return out
}
