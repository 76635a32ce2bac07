package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Aman-CERP/filetree/internal/assist"
	"github.com/Aman-CERP/filetree/internal/tree"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

type structureResponse struct {
	Structure []*tree.Entry `json:"structure"`
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) *apiError {
	pathType := r.URL.Query().Get("path_type")
	if pathType == "" {
		return badRequest("path_type is required")
	}
	entries, err := s.deps.Roots.Structure(r.Context(), pathType)
	if err != nil {
		return toAPIError(err)
	}
	writeJSON(w, http.StatusOK, structureResponse{Structure: entries})
	return nil
}

func (s *Server) handleGenerated(w http.ResponseWriter, r *http.Request) *apiError {
	projects, err := s.deps.Roots.GeneratedProjects(r.Context())
	if err != nil {
		return toAPIError(err)
	}
	writeJSON(w, http.StatusOK, projects)
	return nil
}

type fileBody struct {
	Content string `json:"content"`
	Line    int    `json:"line,omitempty"`
}

func decodeBody(r *http.Request, v any) *apiError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) *apiError {
	files, err := s.deps.Files.List(r.PathValue("project"))
	if err != nil {
		return toAPIError(err)
	}
	writeJSON(w, http.StatusOK, files)
	return nil
}

func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request) *apiError {
	content, err := s.deps.Files.Load(r.PathValue("project"), r.PathValue("name"))
	if err != nil {
		return toAPIError(err)
	}
	writeJSON(w, http.StatusOK, fileBody{Content: content})
	return nil
}

func (s *Server) handleSaveFile(w http.ResponseWriter, r *http.Request) *apiError {
	var body fileBody
	if apiErr := decodeBody(r, &body); apiErr != nil {
		return apiErr
	}
	info, err := s.deps.Files.Save(r.PathValue("project"), r.PathValue("name"), []byte(body.Content))
	if err != nil {
		return toAPIError(err)
	}
	writeJSON(w, http.StatusOK, info)
	return nil
}

func (s *Server) handleAppendFile(w http.ResponseWriter, r *http.Request) *apiError {
	var body fileBody
	if apiErr := decodeBody(r, &body); apiErr != nil {
		return apiErr
	}
	if err := s.deps.Files.Append(r.PathValue("project"), r.PathValue("name"), body.Content); err != nil {
		return toAPIError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleEditLine(w http.ResponseWriter, r *http.Request) *apiError {
	var body fileBody
	if apiErr := decodeBody(r, &body); apiErr != nil {
		return apiErr
	}
	if err := s.deps.Files.EditLine(r.PathValue("project"), r.PathValue("name"), body.Line, body.Content); err != nil {
		return toAPIError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) *apiError {
	if err := s.deps.Files.Delete(r.PathValue("project"), r.PathValue("name")); err != nil {
		return toAPIError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type assistRequest struct {
	Project string   `json:"project"`
	Files   []string `json:"files"`
	Param   string   `json:"param"`
	Mode    string   `json:"mode"`
}

type assistResponse struct {
	Results []assist.Result `json:"results,omitempty"`
	Text    string          `json:"result,omitempty"`
}

// handleAssist runs an assist operation. The "dependencies" op analyses all
// files in one prompt; the others run once per file.
func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) *apiError {
	if s.deps.Assistant == nil {
		return &apiError{Status: http.StatusServiceUnavailable, Message: "assist is not configured", Code: "unavailable"}
	}
	var req assistRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		return apiErr
	}
	if req.Project == "" || len(req.Files) == 0 {
		return badRequest("project and files are required")
	}

	if r.PathValue("op") == "dependencies" {
		text, err := s.deps.Assistant.AnalyzeDependencies(r.Context(), req.Project, req.Files, req.Param)
		if err != nil {
			return toAPIError(err)
		}
		writeJSON(w, http.StatusOK, assistResponse{Text: text})
		return nil
	}

	op, err := assist.ParseOp(r.PathValue("op"))
	if err != nil {
		return toAPIError(err)
	}
	results, err := s.deps.Assistant.Multi(r.Context(), op, req.Project, req.Files, req.Param, req.Mode)
	if err != nil {
		return toAPIError(err)
	}
	writeJSON(w, http.StatusOK, assistResponse{Results: results})
	return nil
}
