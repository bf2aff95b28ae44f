package valueobjects

import (
	"github.com/google/uuid"

	pkgerrors "ideaforge-backend/pkg/errors"
)

// IdeaID is a value object representing a unique idea identifier
// Value objects are immutable and have no identity beyond their value
type IdeaID struct {
	value string
}

// NewIdeaID creates a new random IdeaID
func NewIdeaID() IdeaID {
	return IdeaID{value: uuid.New().String()}
}

// NewIdeaIDFromString creates an IdeaID from an existing string
func NewIdeaIDFromString(id string) (IdeaID, error) {
	if id == "" {
		return IdeaID{}, pkgerrors.NewInvalidValueError("idea ID cannot be empty")
	}
	if !isValidUUID(id) {
		return IdeaID{}, pkgerrors.NewInvalidValueError("idea ID must be a valid UUID")
	}
	return IdeaID{value: id}, nil
}

// String returns the string representation of the IdeaID
func (id IdeaID) String() string {
	return id.value
}

// Equals checks if two IdeaIDs are equal
func (id IdeaID) Equals(other IdeaID) bool {
	return id.value == other.value
}

// IsZero checks if the IdeaID is the zero value
func (id IdeaID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id IdeaID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *IdeaID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// DocumentID is a value object representing a unique document identifier
type DocumentID struct {
	value string
}

// NewDocumentID creates a new random DocumentID
func NewDocumentID() DocumentID {
	return DocumentID{value: uuid.New().String()}
}

// NewDocumentIDFromString creates a DocumentID from an existing string
func NewDocumentIDFromString(id string) (DocumentID, error) {
	if id == "" {
		return DocumentID{}, pkgerrors.NewInvalidValueError("document ID cannot be empty")
	}
	if !isValidUUID(id) {
		return DocumentID{}, pkgerrors.NewInvalidValueError("document ID must be a valid UUID")
	}
	return DocumentID{value: id}, nil
}

// String returns the string representation of the DocumentID
func (id DocumentID) String() string {
	return id.value
}

// Equals checks if two DocumentIDs are equal
func (id DocumentID) Equals(other DocumentID) bool {
	return id.value == other.value
}

// IsZero checks if the DocumentID is the zero value
func (id DocumentID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id DocumentID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// AnalysisID is a value object representing a unique analysis identifier
type AnalysisID struct {
	value string
}

// NewAnalysisID creates a new random AnalysisID
func NewAnalysisID() AnalysisID {
	return AnalysisID{value: uuid.New().String()}
}

// NewAnalysisIDFromString creates an AnalysisID from an existing string
func NewAnalysisIDFromString(id string) (AnalysisID, error) {
	if id == "" {
		return AnalysisID{}, pkgerrors.NewInvalidValueError("analysis ID cannot be empty")
	}
	if !isValidUUID(id) {
		return AnalysisID{}, pkgerrors.NewInvalidValueError("analysis ID must be a valid UUID")
	}
	return AnalysisID{value: id}, nil
}

// String returns the string representation of the AnalysisID
func (id AnalysisID) String() string {
	return id.value
}

// Equals checks if two AnalysisIDs are equal
func (id AnalysisID) Equals(other AnalysisID) bool {
	return id.value == other.value
}

// IsZero checks if the AnalysisID is the zero value
func (id AnalysisID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id AnalysisID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *AnalysisID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// TransactionID is a value object representing a unique ledger entry identifier
type TransactionID struct {
	value string
}

// NewTransactionID creates a new random TransactionID
func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.New().String()}
}

// NewTransactionIDFromString creates a TransactionID from an existing string
func NewTransactionIDFromString(id string) (TransactionID, error) {
	if id == "" {
		return TransactionID{}, pkgerrors.NewInvalidValueError("transaction ID cannot be empty")
	}
	if !isValidUUID(id) {
		return TransactionID{}, pkgerrors.NewInvalidValueError("transaction ID must be a valid UUID")
	}
	return TransactionID{value: id}, nil
}

// String returns the string representation of the TransactionID
func (id TransactionID) String() string {
	return id.value
}

// Equals checks if two TransactionIDs are equal
func (id TransactionID) Equals(other TransactionID) bool {
	return id.value == other.value
}

// IsZero checks if the TransactionID is the zero value
func (id TransactionID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id TransactionID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *TransactionID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// UserID is a value object representing an account identifier. User IDs come
// from the identity provider and are opaque non-empty strings, not UUIDs.
type UserID struct {
	value string
}

// NewUserID creates a UserID from an existing string
func NewUserID(id string) (UserID, error) {
	if id == "" {
		return UserID{}, pkgerrors.NewInvalidValueError("user ID cannot be empty")
	}
	return UserID{value: id}, nil
}

// String returns the string representation of the UserID
func (id UserID) String() string {
	return id.value
}

// Equals checks if two UserIDs are equal
func (id UserID) Equals(other UserID) bool {
	return id.value == other.value
}

// IsZero checks if the UserID is the zero value
func (id UserID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id UserID) MarshalJSON() ([]byte, error) {
	return marshalIDString(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *UserID) UnmarshalJSON(data []byte) error {
	v, err := unmarshalIDString(data)
	if err != nil {
		return err
	}
	id.value = v
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func marshalIDString(value string) ([]byte, error) {
	return []byte(`"` + value + `"`), nil
}

func unmarshalIDString(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", pkgerrors.NewInvalidValueError("ID must be a string")
	}
	return string(data[1 : len(data)-1]), nil
}
