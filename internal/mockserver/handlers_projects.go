package mockserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ViFerX/research-assistant/internal/domain/document"
	"github.com/ViFerX/research-assistant/internal/domain/project"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	uid, _ := s.userFor(r)

	s.mu.Lock()
	out := make([]project.Project, 0)
	for id, p := range s.projects {
		if s.owners[id] == uid {
			out = append(out, p)
		}
	}
	s.mu.Unlock()

	writeJSON(s, w, http.StatusOK, out)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	uid, _ := s.userFor(r)
	req, ok := readJSON[project.CreateRequest](s, w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(s, w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	s.nextProj++
	p := project.Project{ID: s.nextProj, Title: req.Title, Domain: req.Domain, Aim: req.Aim}
	s.projects[p.ID] = p
	s.owners[p.ID] = uid
	s.mu.Unlock()

	s.log.Info("project created", "project_id", p.ID, "title", p.Title)
	writeJSON(s, w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(s, w, http.StatusBadRequest, "invalid project id")
		return
	}

	s.mu.Lock()
	p, exists := s.projects[id]
	s.mu.Unlock()
	if !exists {
		writeError(s, w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(s, w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(s, w, http.StatusBadRequest, "invalid project id")
		return
	}

	s.mu.Lock()
	_, exists := s.projects[id]
	delete(s.projects, id)
	delete(s.owners, id)
	s.mu.Unlock()
	if !exists {
		writeError(s, w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(s, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(s, w, http.StatusUnprocessableEntity, "project_id query parameter is required")
		return
	}

	s.mu.Lock()
	_, exists := s.projects[projectID]
	s.mu.Unlock()
	if !exists {
		writeError(s, w, http.StatusNotFound, "project not found")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(s, w, http.StatusUnprocessableEntity, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(s, w, http.StatusUnprocessableEntity, "file field is required")
		return
	}
	defer file.Close()

	s.mu.Lock()
	s.nextDoc++
	doc := document.Document{DocumentID: s.nextDoc, Filename: header.Filename}
	s.documents[doc.DocumentID] = doc
	s.mu.Unlock()

	s.log.Info("document uploaded", "document_id", doc.DocumentID, "filename", doc.Filename, "project_id", projectID)
	writeJSON(s, w, http.StatusCreated, doc)
}
