package documentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pdfcatalog/internal/entities"
	"pdfcatalog/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "documentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, owner_id, file_url, subject, class_name, school, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID, doc.OwnerID, doc.FileURL, doc.Subject, doc.ClassName, doc.School, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.file_url AS file_url,
			d.subject AS subject,
			d.class_name AS class_name,
			d.school AS school,
			d.created_at AS created_at
		FROM documents d
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docFromEntity(rawDoc), nil
}

// likeEscaper neutralizes LIKE metacharacters inside a filter so the
// pattern matches them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchDocuments runs the store side of a catalog search. Every present
// filter must match as a literal case-insensitive substring; ownerID, when
// non-empty, restricts the result to one academy's documents. Stored fields
// are already lowercased, so ILIKE only has to cover the stored side being
// scanned with a lowercased pattern.
func (r *repository) SearchDocuments(ctx context.Context, query models.SearchQuery, ownerID string) ([]*models.Document, error) {
	op := pkg + "SearchDocuments"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.file_url AS file_url,
			d.subject AS subject,
			d.class_name AS class_name,
			d.school AS school,
			d.created_at AS created_at
		FROM documents d
		WHERE ($1 = '' OR d.subject ILIKE '%' || $1 || '%' ESCAPE '\')
		AND ($2 = '' OR d.class_name ILIKE '%' || $2 || '%' ESCAPE '\')
		AND ($3 = '' OR d.school ILIKE '%' || $3 || '%' ESCAPE '\')
		AND ($4 = '' OR d.owner_id = $4)
		ORDER BY d.created_at DESC`,
		likeEscaper.Replace(query.Subject),
		likeEscaper.Replace(query.ClassName),
		likeEscaper.Replace(query.School),
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0, len(rawDocs))

	for _, rawDoc := range rawDocs {
		docs = append(docs, docFromEntity(rawDoc))
	}

	return docs, nil
}

func docFromEntity(rawDoc entities.Document) *models.Document {
	return &models.Document{
		ID:        rawDoc.ID,
		OwnerID:   rawDoc.OwnerID,
		FileURL:   rawDoc.FileURL,
		Subject:   rawDoc.Subject,
		ClassName: rawDoc.ClassName,
		School:    rawDoc.School,
		CreatedAt: rawDoc.CreatedAt,
	}
}
