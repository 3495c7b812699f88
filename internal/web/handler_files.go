package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vbonduro/pantryinv/internal/filestore"
	"github.com/vbonduro/pantryinv/internal/flatfile"
)

const badFileName = "File names must end in .txt and cannot contain directories."

func validFileName(name string) bool {
	return len(name) <= maxFieldLen && filestore.ValidName(name)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.service.ListExports(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "Failed to list files.")
		s.logger.Error("list exports failed", "error", err)
		return
	}
	s.writeJSON(w, names)
}

func (s *Server) handleSaveFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if !validFileName(name) {
		s.renderError(w, http.StatusBadRequest, badFileName)
		return
	}

	if err := s.service.Export(r.Context(), name); err != nil {
		s.renderError(w, http.StatusInternalServerError, "Failed to save file.")
		s.logger.Error("save file failed", "file", name, "error", err)
		return
	}
	s.renderNotice(w, fmt.Sprintf("Saved %s.", name))
}

func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if !validFileName(name) {
		s.renderError(w, http.StatusBadRequest, badFileName)
		return
	}

	entries, err := s.service.Import(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, filestore.ErrNotFound):
			s.renderError(w, http.StatusNotFound, fmt.Sprintf("No file named %s.", name))
		case errors.Is(err, flatfile.ErrMalformedLine):
			s.renderError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Could not load %s: %v", name, errors.Unwrap(err)))
		default:
			s.renderError(w, http.StatusInternalServerError, "Failed to load file.")
			s.logger.Error("load file failed", "file", name, "error", err)
		}
		return
	}

	s.renderList(w, r, entries)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !validFileName(name) {
		s.renderError(w, http.StatusBadRequest, badFileName)
		return
	}

	if err := s.service.DeleteExport(r.Context(), name); err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			s.renderError(w, http.StatusNotFound, fmt.Sprintf("No file named %s.", name))
			return
		}
		s.renderError(w, http.StatusInternalServerError, "Failed to delete file.")
		s.logger.Error("delete file failed", "file", name, "error", err)
		return
	}
	s.renderNotice(w, fmt.Sprintf("Deleted %s.", name))
}
