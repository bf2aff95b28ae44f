package record

import (
	"time"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/domain/core/valueobjects"
	pkgerrors "ideaforge-backend/pkg/errors"
)

// DocumentRecord is the stored shape of one document version. Versions live
// under their idea's partition so one query walks a document's history.
type DocumentRecord struct {
	PK         string                 `dynamodbav:"PK"`
	SK         string                 `dynamodbav:"SK"`
	GSI1PK     string                 `dynamodbav:"GSI1PK"`
	GSI1SK     string                 `dynamodbav:"GSI1SK"`
	EntityType string                 `dynamodbav:"EntityType"`
	DocumentID string                 `dynamodbav:"DocumentID"`
	IdeaID     string                 `dynamodbav:"IdeaID"`
	UserID     string                 `dynamodbav:"UserID"`
	DocType    string                 `dynamodbav:"DocType"`
	Title      string                 `dynamodbav:"Title"`
	Content    map[string]interface{} `dynamodbav:"Content,omitempty"`
	Version    int                    `dynamodbav:"Version"`
	CreatedAt  time.Time              `dynamodbav:"CreatedAt"`
	UpdatedAt  time.Time              `dynamodbav:"UpdatedAt"`
}

// DocumentToRecord maps a document version to its stored shape
func DocumentToRecord(doc *entities.Document) *DocumentRecord {
	return &DocumentRecord{
		PK:         DocumentPK(doc.IdeaID()),
		SK:         DocumentSK(doc.Type(), doc.Version()),
		GSI1PK:     DocumentGSI1PK(doc.ID()),
		GSI1SK:     UserPK(doc.UserID()),
		EntityType: EntityTypeDocument,
		DocumentID: doc.ID().String(),
		IdeaID:     doc.IdeaID().String(),
		UserID:     doc.UserID().String(),
		DocType:    doc.Type().String(),
		Title:      doc.Title(),
		Content:    doc.Content(),
		Version:    doc.Version().Value(),
		CreatedAt:  doc.CreatedAt(),
		UpdatedAt:  doc.UpdatedAt(),
	}
}

// DocumentFromRecord rebuilds a document version from its stored shape
func DocumentFromRecord(rec *DocumentRecord) (*entities.Document, error) {
	if rec.EntityType != EntityTypeDocument {
		return nil, pkgerrors.NewCorruptRecordError(rec.DocumentID, "item is not a document record").
			WithDetail("entity_type", rec.EntityType)
	}

	id, err := valueobjects.NewDocumentIDFromString(rec.DocumentID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.DocumentID, "stored document ID is invalid").WithCause(err)
	}
	ideaID, err := valueobjects.NewIdeaIDFromString(rec.IdeaID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.DocumentID, "stored idea ID is invalid").WithCause(err)
	}
	userID, err := valueobjects.NewUserID(rec.UserID)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.DocumentID, "stored user ID is invalid").WithCause(err)
	}
	docType, err := valueobjects.ParseDocumentType(rec.DocType)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.DocumentID, "stored document type is invalid").WithCause(err)
	}
	version, err := valueobjects.NewDocumentVersion(rec.Version)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.DocumentID, "stored version is invalid").WithCause(err)
	}

	doc, err := entities.ReconstructDocument(
		id,
		ideaID,
		userID,
		docType,
		rec.Title,
		entities.DocumentContent(rec.Content),
		version,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return nil, pkgerrors.NewCorruptRecordError(rec.DocumentID, "stored document fails validation").WithCause(err)
	}
	return doc, nil
}

// DocumentsFromRecords maps a batch, short-circuiting on the first corrupt
// record
func DocumentsFromRecords(recs []*DocumentRecord) ([]*entities.Document, error) {
	docs := make([]*entities.Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := DocumentFromRecord(rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
