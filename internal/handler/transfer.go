package handler

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/ceralandia/api/internal/csvcodec"
	"github.com/ceralandia/api/internal/enum"
)

const maxImportSize = 10 << 20

// Export downloads one partition as CSV.
func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	partition := partitionParam(r)
	orders, err := h.svc.Fetch(r.Context(), actorFrom(r), partition)
	if err != nil {
		writeServiceError(w, "export orders", err)
		return
	}

	var buf bytes.Buffer
	if err := csvcodec.Encode(&buf, orders); err != nil {
		log.Printf("ERROR: encode csv: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	name := fmt.Sprintf("ordini_%s_%s.csv", partition, time.Now().In(h.loc).Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Import parses a CSV export and parks the replacement of the partition
// until the admin confirms it. The file comes either as the request body or
// as the multipart field "file".
func (h *OrderHandler) Import(w http.ResponseWriter, r *http.Request) {
	partition := partitionParam(r)
	if !enum.IsValidPartition(partition) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "partizione non valida"})
		return
	}

	text, err := readImportBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := csvcodec.Decode(text, enum.DefaultImportStatus(partition))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	out, err := h.svc.PrepareImport(r.Context(), actorFrom(r), partition, rows)
	if err != nil {
		writeServiceError(w, "prepare import", err)
		return
	}
	writeOutcome(w, http.StatusAccepted, out)
}

func readImportBody(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return "", fmt.Errorf("lettura file non riuscita: %w", err)
		}
		return string(b), nil
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		return "", fmt.Errorf("lettura file non riuscita: %w", err)
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("campo file mancante: %w", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("lettura file non riuscita: %w", err)
	}
	return string(b), nil
}
