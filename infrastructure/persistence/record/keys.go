// Package record maps domain entities to and from their single-table
// DynamoDB representation. Every entity crosses this boundary in both
// directions; nothing outside this package builds keys or touches raw
// attribute shapes.
package record

import (
	"fmt"
	"time"

	"ideaforge-backend/domain/core/valueobjects"
)

// EntityType discriminators stored on every item
const (
	EntityTypeIdea        = "IDEA"
	EntityTypeDocument    = "DOCUMENT"
	EntityTypeAnalysis    = "ANALYSIS"
	EntityTypeTransaction = "TRANSACTION"
	EntityTypeUser        = "USER"
)

// Key prefixes for the single-table design
const (
	prefixUser     = "USER#"
	prefixIdea     = "IDEA#"
	prefixDoc      = "DOC#"
	prefixAnalysis = "ANALYSIS#"
	prefixTx       = "TX#"
	prefixRefund   = "REFUND#"
	skProfile      = "PROFILE"
)

// UserPK builds the partition key owning all of a user's items
func UserPK(userID valueobjects.UserID) string {
	return prefixUser + userID.String()
}

// IdeaSK builds the sort key of an idea under its owner's partition
func IdeaSK(ideaID valueobjects.IdeaID) string {
	return prefixIdea + ideaID.String()
}

// IdeaSKPrefix is the sort-key prefix selecting all of a user's ideas
func IdeaSKPrefix() string {
	return prefixIdea
}

// IdeaGSI1PK builds the GSI1 partition key for direct idea lookup
func IdeaGSI1PK(ideaID valueobjects.IdeaID) string {
	return prefixIdea + ideaID.String()
}

// DocumentPK builds the partition key grouping an idea's document versions
func DocumentPK(ideaID valueobjects.IdeaID) string {
	return prefixIdea + ideaID.String()
}

// DocumentSK builds the sort key of one document version. The version is
// zero-padded so lexicographic sort order matches numeric order.
func DocumentSK(docType valueobjects.DocumentType, version valueobjects.DocumentVersion) string {
	return fmt.Sprintf("%s%s#v%06d", prefixDoc, docType.String(), version.Value())
}

// DocumentSKPrefix is the sort-key prefix selecting all versions of one
// document type
func DocumentSKPrefix(docType valueobjects.DocumentType) string {
	return prefixDoc + docType.String() + "#v"
}

// DocumentSKAllPrefix is the sort-key prefix selecting every document of an
// idea regardless of type
func DocumentSKAllPrefix() string {
	return prefixDoc
}

// DocumentGSI1PK builds the GSI1 partition key for direct document lookup
func DocumentGSI1PK(docID valueobjects.DocumentID) string {
	return prefixDoc + docID.String()
}

// AnalysisSK builds the sort key of an analysis under its owner's partition
func AnalysisSK(analysisID valueobjects.AnalysisID) string {
	return prefixAnalysis + analysisID.String()
}

// AnalysisSKPrefix is the sort-key prefix selecting all of a user's analyses
func AnalysisSKPrefix() string {
	return prefixAnalysis
}

// txTimestampLayout is fixed-width: nanoseconds are never trimmed, so
// lexicographic order on the sort key always matches chronological order.
// RFC3339Nano would drop trailing zeros and sort whole seconds after
// sub-second entries.
const txTimestampLayout = "2006-01-02T15:04:05.000000000Z"

// TransactionSK builds the sort key of a ledger entry. The timestamp leads so
// entries sort chronologically; the ID breaks ties.
func TransactionSK(timestamp time.Time, txID valueobjects.TransactionID) string {
	return prefixTx + timestamp.UTC().Format(txTimestampLayout) + "#" + txID.String()
}

// TransactionSKPrefix is the sort-key prefix selecting a user's whole ledger
func TransactionSKPrefix() string {
	return prefixTx
}

// RefundMarkerSK builds the sort key of the per-action refund marker item.
// Writing the marker with a not-exists condition makes refunds idempotent
// per action.
func RefundMarkerSK(actionID string) string {
	return prefixRefund + actionID
}

// UserProfileSK is the sort key of a user's profile item
func UserProfileSK() string {
	return skProfile
}
