package valueobjects

import (
	pkgerrors "ideaforge-backend/pkg/errors"
)

// DocumentType identifies the kind of generated artifact scoped to an idea
type DocumentType string

const (
	DocumentTypeAnalysis        DocumentType = "analysis"
	DocumentTypePRD             DocumentType = "prd"
	DocumentTypeTechnicalDesign DocumentType = "technical_design"
	DocumentTypeArchitecture    DocumentType = "architecture"
	DocumentTypeRoadmap         DocumentType = "roadmap"
)

var documentTypes = map[DocumentType]bool{
	DocumentTypeAnalysis:        true,
	DocumentTypePRD:             true,
	DocumentTypeTechnicalDesign: true,
	DocumentTypeArchitecture:    true,
	DocumentTypeRoadmap:         true,
}

// ParseDocumentType validates a raw string against the fixed document type set
func ParseDocumentType(s string) (DocumentType, error) {
	dt := DocumentType(s)
	if !documentTypes[dt] {
		return "", pkgerrors.NewInvalidValueError("unknown document type: " + s).
			WithCode("INVALID_DOCUMENT_TYPE").
			WithDetail("type", s)
	}
	return dt, nil
}

// IsValid reports whether the document type is in the fixed set
func (dt DocumentType) IsValid() bool {
	return documentTypes[dt]
}

// String returns the document type as a string
func (dt DocumentType) String() string {
	return string(dt)
}
