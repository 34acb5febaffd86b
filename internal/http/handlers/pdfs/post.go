package pdfs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"pdfcatalog/internal/dto"
	"pdfcatalog/internal/models"
	errutils "pdfcatalog/internal/utils/http_errors"
)

const maxUploadSize = 50 << 20 // 50MB, matches the blob limit

func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dp DocumentPublisher) {
	op := pkg + "Upload"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	metaPart := r.FormValue("meta")

	var meta dto.PublishMeta

	if err := json.Unmarshal([]byte(metaPart), &meta); err != nil {
		log.Error("failed to unmarshal meta", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		log.Warn("missing file part", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	doc, err := dp.Publish(ctx, requester, meta.Subject, meta.ClassName, meta.School, file)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("publish forbidden", slog.String("requester_id", requester.ID))
			errutils.WriteJSONError(w, http.StatusForbidden, "only academy users can publish")
			return
		}
		if errors.Is(err, models.ErrInvalidParams) {
			log.Warn("invalid publish params")
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		log.Error("failed to publish document", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": dto.PublishResponse{
			ID:        doc.ID,
			FileURL:   doc.FileURL,
			Subject:   doc.Subject,
			ClassName: doc.ClassName,
			School:    doc.School,
			CreatedAt: doc.CreatedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
