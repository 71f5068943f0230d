package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/importer"
	"github.com/redixstudio/atelier/internal/project"
)

const maxUploadSize = 10 << 20

type Handler struct {
	parser     *importer.Parser
	projectSvc *project.Service
}

func NewHandler(parser *importer.Parser, projectSvc *project.Service) *Handler {
	return &Handler{parser: parser, projectSvc: projectSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importedProject struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type rejectedRow struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Rejected int               `json:"rejected"`
	Projects []importedProject `json:"projects"`
	Rows     []rejectedRow     `json:"rejected_rows,omitempty"`
}

// importCSV parses an uploaded project sheet and creates one project
// per row. Rows that fail validation are reported back, they never
// abort the rows that parse cleanly.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{Projects: make([]importedProject, 0, len(rows))}

	for _, params := range rows {
		p, err := h.projectSvc.Create(r.Context(), params)
		if err != nil {
			var ve *project.ValidationError
			if errors.As(err, &ve) {
				resp.Rejected++
				resp.Rows = append(resp.Rows, rejectedRow{Name: params.Name, Reason: ve.Error()})

				continue
			}

			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		resp.Imported++
		resp.Projects = append(resp.Projects, importedProject{ID: p.ID, Name: p.Name})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
