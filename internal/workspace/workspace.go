// Package workspace composes the client-side view of one open project: the
// uploaded-document registry, the active feature selection, and submission
// of raw form input to the feature dispatch table.
package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ViFerX/research-assistant/internal/domain/document"
	"github.com/ViFerX/research-assistant/internal/domain/project"
	"github.com/ViFerX/research-assistant/internal/feature"
	"github.com/ViFerX/research-assistant/internal/telemetry"
)

// maxConcurrentUploads bounds batch uploads so a large drop of files does
// not open hundreds of simultaneous connections.
const maxConcurrentUploads = 4

// Uploader is the slice of the API surface the workspace needs for
// documents. *api.Client satisfies it.
type Uploader interface {
	UploadDocument(ctx context.Context, projectID int, filename string, file io.Reader) (*document.Document, error)
}

// Workspace owns exactly one open project. The document registry is
// append-only and mirrors server state; entries are never removed locally.
// Selecting a feature only changes which invocation slot is observed — it
// never cancels an in-flight invocation, so switching away and back still
// shows a result that resolved in the background.
type Workspace struct {
	project  project.Project
	uploader Uploader
	table    *feature.Table
	metrics  *telemetry.Metrics

	mu     sync.Mutex
	docs   []document.Document
	active feature.ID
}

// New opens a workspace for the given project. The survey feature starts
// active, matching the workspace's default tab.
func New(p project.Project, uploader Uploader, table *feature.Table, metrics *telemetry.Metrics) *Workspace {
	return &Workspace{
		project:  p,
		uploader: uploader,
		table:    table,
		metrics:  metrics,
		active:   feature.Survey,
	}
}

// Project returns the open project.
func (w *Workspace) Project() project.Project {
	return w.project
}

// SelectFeature changes which feature's state ActiveState observes.
func (w *Workspace) SelectFeature(id feature.ID) error {
	if _, ok := feature.Lookup(id); !ok {
		return fmt.Errorf("unknown feature %q", id)
	}
	w.mu.Lock()
	w.active = id
	w.mu.Unlock()
	return nil
}

// Active returns the currently selected feature.
func (w *Workspace) Active() feature.ID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// ActiveState returns the invocation state of the selected feature.
func (w *Workspace) ActiveState() feature.Invocation {
	return w.table.State(w.Active())
}

// State returns the invocation state of any feature.
func (w *Workspace) State(id feature.ID) feature.Invocation {
	return w.table.State(id)
}

// Submit shapes raw form input for the feature and dispatches it. The open
// project's ID is filled in when the form does not carry one, so features
// like the survey generator are always scoped to this workspace.
func (w *Workspace) Submit(ctx context.Context, id feature.ID, form feature.Form) error {
	if form == nil {
		form = feature.Form{}
	}
	if form["project_id"] == "" {
		form["project_id"] = strconv.Itoa(w.project.ID)
	}
	return w.table.Invoke(ctx, id, form)
}

// Upload sends one file to the backend and, on success, appends the issued
// document to the registry. A failed upload leaves the registry unchanged;
// retrying is the caller's choice.
func (w *Workspace) Upload(ctx context.Context, filename string, file io.Reader) (*document.Document, error) {
	doc, err := w.uploader.UploadDocument(ctx, w.project.ID, filename, file)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.docs = append(w.docs, *doc)
	w.mu.Unlock()

	w.metrics.Uploaded(ctx)
	slog.Debug("document registered",
		"project_id", w.project.ID,
		"document_id", doc.DocumentID,
		"filename", doc.Filename,
	)
	return doc, nil
}

// UploadFiles uploads local files concurrently. Registry order follows
// upload completion order; the first error cancels the remaining uploads,
// but documents already registered stay registered.
func (w *Workspace) UploadFiles(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for _, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()
			if _, err := w.Upload(ctx, filepath.Base(path), f); err != nil {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Documents returns a copy of the registry in registration order.
func (w *Workspace) Documents() []document.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]document.Document, len(w.docs))
	copy(out, w.docs)
	return out
}
