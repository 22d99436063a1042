package lsp

import (
	"sync/atomic"
	"time"

	"todohl/internal/rank"
	"todohl/internal/render"
	"todohl/internal/source"
)

// document is the server-owned state of one open text document. rev counts
// every mutation, including didSave with text, which keeps the version.
type document struct {
	uri     string
	version int
	rev     uint64
	text    string
	snap    *snapshot
}

// snapshot is the outcome of one extract, classify and render cycle.
type snapshot struct {
	rev    uint64
	file   *source.File
	result rank.Result
}

func (d *document) touch(text string) {
	d.text = text
	d.rev++
}

// scheduleCycle (re)arms the debounce timer of uri. Only the most recently
// scheduled cycle of a document may publish.
func (s *Server) scheduleCycle(uri string) {
	seq := atomic.AddUint64(&s.cycleSeq, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[uri] = seq
	if timer, ok := s.timers[uri]; ok {
		timer.Stop()
	}
	s.timers[uri] = time.AfterFunc(s.debounce, func() {
		s.runCycle(uri, seq)
	})
}

// refreshNow cancels any pending cycle of uri and runs one synchronously.
func (s *Server) refreshNow(uri string) bool {
	seq := atomic.AddUint64(&s.cycleSeq, 1)
	s.mu.Lock()
	if _, ok := s.docs[uri]; !ok {
		s.mu.Unlock()
		return false
	}
	s.latest[uri] = seq
	if timer, ok := s.timers[uri]; ok {
		timer.Stop()
		delete(s.timers, uri)
	}
	s.mu.Unlock()
	s.runCycle(uri, seq)
	return true
}

// rescheduleAll queues a cycle for every open document, after a settings change.
func (s *Server) rescheduleAll() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.scheduleCycle(uri)
	}
}

func (s *Server) isLatest(uri string, seq uint64) bool {
	return seq != 0 && s.latest[uri] == seq
}

func (s *Server) runCycle(uri string, seq uint64) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok || !s.isLatest(uri, seq) {
		s.mu.Unlock()
		return
	}
	text, rev, version := doc.text, doc.rev, doc.version
	minBucket := s.minBucket
	trace := s.traceLSP
	ctx := s.baseCtx
	s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	snap, hit := s.compute(uri, text, rev, minBucket)
	diags := buildDiagnostics(snap.file, snap.result)

	// publishMu orders the check-and-send of concurrent cycles so a stale
	// cycle can never overwrite a newer publish.
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.mu.Lock()
	current, ok := s.docs[uri]
	if !ok || current != doc || doc.rev != rev || !s.isLatest(uri, seq) {
		s.mu.Unlock()
		if trace {
			s.log.Info("cycle discarded", "uri", uri, "seq", seq)
		}
		return
	}
	doc.snap = snap
	delete(s.timers, uri)
	s.published[uri] = struct{}{}
	s.mu.Unlock()

	if err := s.sendPublish(uri, &version, diags); err != nil {
		s.log.Warn("failed to publish diagnostics", "uri", uri, "error", err)
		return
	}
	level := s.log.Debug
	if trace {
		level = s.log.Info
	}
	level("cycle", "uri", uri, "seq", seq, "version", version,
		"hash", snap.file.Hash.Short(), "findings", len(snap.result.Ordered), "cached", hit,
		"elapsed", time.Since(start))
}

func (s *Server) compute(uri, text string, rev uint64, minBucket rank.Bucket) (*snapshot, bool) {
	fileSet := source.NewFileSet()
	name := uriToPath(uri)
	if name == "" {
		name = uri
	}
	file := fileSet.Get(fileSet.AddVirtual(name, []byte(text)))
	res, hit := s.cache.scan(file)
	return &snapshot{rev: rev, file: file, result: res.Filter(minBucket)}, hit
}

// currentSnapshot returns an up-to-date snapshot of uri, computing it
// synchronously when the debounced cycle has not caught up yet.
func (s *Server) currentSnapshot(uri string) (*snapshot, bool) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	if doc.snap != nil && doc.snap.rev == doc.rev {
		snap := doc.snap
		s.mu.Unlock()
		return snap, true
	}
	text, rev := doc.text, doc.rev
	minBucket := s.minBucket
	s.mu.Unlock()

	snap, _ := s.compute(uri, text, rev, minBucket)
	s.mu.Lock()
	if current, ok := s.docs[uri]; ok && current == doc && doc.rev == rev && (doc.snap == nil || doc.snap.rev != rev) {
		doc.snap = snap
	}
	s.mu.Unlock()
	return snap, true
}

func severityFor(b rank.Bucket) int {
	switch b {
	case rank.Fixme:
		return severityError
	case rank.High:
		return severityWarning
	case rank.Medium:
		return severityInformation
	default:
		return severityHint
	}
}

// buildDiagnostics maps the highlight set onto one full-line diagnostic per
// annotation, bucket by bucket.
func buildDiagnostics(file *source.File, res rank.Result) []lspDiagnostic {
	highlights := render.Highlights(file, res)
	out := make([]lspDiagnostic, 0, len(res.Ordered))
	for _, b := range rank.Buckets {
		entries := res.Buckets[b]
		for i, h := range highlights[b] {
			msg := h.Hover
			if text := entries[i].Text; text != "" {
				msg += ": " + text
			}
			out = append(out, lspDiagnostic{
				Range:    rangeForSpan(file, source.Span{File: file.ID, Start: h.Start, End: h.End}),
				Severity: severityFor(b),
				Code:     b.String(),
				Source:   "todohl",
				Message:  msg,
			})
		}
	}
	return out
}
