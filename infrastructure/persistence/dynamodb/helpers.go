// Package dynamodb holds the single-table repository implementations. All
// key construction and record mapping is delegated to the record package;
// this package owns query shapes, conditional writes, and error mapping.
package dynamodb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	pkgerrors "ideaforge-backend/pkg/errors"
)

// gsi1IndexName is the index keyed by entity ID for direct lookups that
// bypass the owner partition
const gsi1IndexName = "GSI1"

// transactWriteLimit is the DynamoDB ceiling on items per transaction
const transactWriteLimit = 100

func strPtr(s string) *string {
	return aws.String(s)
}

// isConditionalCheckFailed reports whether the write lost its condition,
// either directly or inside a cancelled transaction
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

// mapStoreError translates an SDK failure into the application taxonomy.
// Conditional failures are the caller's concern and must be handled before
// reaching here.
func mapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if pkgerrors.IsAppError(err) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ValidationException":
			return pkgerrors.NewInvalidValueError(apiErr.ErrorMessage()).WithCause(err)
		case "ItemCollectionSizeLimitExceededException":
			return pkgerrors.NewConflictError(apiErr.ErrorMessage()).WithCause(err)
		}
	}
	return pkgerrors.NewUnavailableError(operation, err)
}
