// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Pattern table errors
	CodePatternTableInvalid  Code = "PATTERN_TABLE_INVALID"
	CodePatternMissing       Code = "PATTERN_MISSING"
	CodePatternMatchesEmpty  Code = "PATTERN_MATCHES_EMPTY"
	CodePatternCompileFailed Code = "PATTERN_COMPILE_FAILED"

	// System errors
	CodeSystemInvalid       Code = "SYSTEM_INVALID"
	CodeSystemNotRegistered Code = "SYSTEM_NOT_REGISTERED"

	// Random/seed errors
	CodeRandomSourceFailed Code = "RANDOM_SOURCE_FAILED"
	CodeSeedOutOfRange     Code = "SEED_OUT_OF_RANGE"

	// Rules errors
	CodeRulesInvalid Code = "RULES_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - bad caller input
	case CodeSeedOutOfRange,
		CodeRulesInvalid:
		return codes.InvalidArgument

	// NotFound - unknown system
	case CodeSystemNotRegistered:
		return codes.NotFound

	// FailedPrecondition - the engine was configured with a broken collaborator
	case CodePatternTableInvalid,
		CodePatternMissing,
		CodePatternMatchesEmpty,
		CodePatternCompileFailed,
		CodeSystemInvalid:
		return codes.FailedPrecondition

	// Unavailable - randomness could not be drawn
	case CodeRandomSourceFailed:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
