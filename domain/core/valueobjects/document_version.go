package valueobjects

import (
	pkgerrors "ideaforge-backend/pkg/errors"
)

// DocumentVersion is a monotonically increasing version number starting at 1
type DocumentVersion struct {
	value int
}

// FirstDocumentVersion returns version 1, the version every document starts at
func FirstDocumentVersion() DocumentVersion {
	return DocumentVersion{value: 1}
}

// NewDocumentVersion creates a DocumentVersion, failing for values below 1
func NewDocumentVersion(value int) (DocumentVersion, error) {
	if value < 1 {
		return DocumentVersion{}, pkgerrors.NewInvalidValueError("document version must be positive").
			WithCode("INVALID_VERSION").
			WithDetail("value", value)
	}
	return DocumentVersion{value: value}, nil
}

// Value returns the version number
func (v DocumentVersion) Value() int {
	return v.value
}

// Next returns the following version without mutating the receiver
func (v DocumentVersion) Next() DocumentVersion {
	return DocumentVersion{value: v.value + 1}
}

// Equals checks if two DocumentVersions are equal
func (v DocumentVersion) Equals(other DocumentVersion) bool {
	return v.value == other.value
}

// Before reports whether v precedes other
func (v DocumentVersion) Before(other DocumentVersion) bool {
	return v.value < other.value
}
