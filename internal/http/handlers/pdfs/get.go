package pdfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"pdfcatalog/internal/dto"
	"pdfcatalog/internal/models"
	errutils "pdfcatalog/internal/utils/http_errors"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ds DocumentSearcher) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
		return
	}

	subject := r.URL.Query().Get("subject")
	className := r.URL.Query().Get("class")
	school := r.URL.Query().Get("school")
	personal := r.URL.Query().Get("mine") == "true"

	results, source, err := ds.Search(ctx, requester, subject, className, school, personal)
	if err != nil {
		log.Error("failed to search documents", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	items := make([]dto.SearchItem, 0, len(results))

	for _, res := range results {
		items = append(items, dto.SearchItem{
			ID:           res.ID,
			FileURL:      res.FileURL,
			Subject:      res.Subject,
			ClassName:    res.ClassName,
			School:       res.School,
			OwnerID:      res.OwnerID,
			AcademyEmail: res.AcademyEmail,
			CreatedAt:    res.CreatedAt,
		})
	}

	response := dto.SearchResponse{
		Data:   items,
		Source: source,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dp DocumentFileProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	if _, ok := r.Context().Value(models.UserContextKey).(*models.User); !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
		return
	}

	doc, file, err := dp.DocumentFile(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		log.Error("failed to get document file", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	defer file.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.pdf\"", doc.ID))
	w.Header().Set("Content-Type", "application/pdf")
	if _, err := io.Copy(w, file); err != nil {
		log.Error("failed to write file response", slog.String("error", err.Error()))
	}
}
