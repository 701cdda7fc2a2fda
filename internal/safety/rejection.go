package safety

import (
	"errors"
	"fmt"
)

// RejectionKind tags the reason a candidate query was rejected.
// Rejections are deterministic: the same input is rejected the same way on
// every call, so they are never retryable without changing the query.
type RejectionKind string

const (
	RejectionEmptyQuery           RejectionKind = "EMPTY_QUERY"
	RejectionForbiddenKeyword     RejectionKind = "FORBIDDEN_KEYWORD"
	RejectionDisallowedProcedure  RejectionKind = "DISALLOWED_PROCEDURE"
	RejectionUnknownLabel         RejectionKind = "UNKNOWN_LABEL"
	RejectionUnknownRelationship  RejectionKind = "UNKNOWN_RELATIONSHIP"
	RejectionUnknownProperty      RejectionKind = "UNKNOWN_PROPERTY"
	RejectionMalformedStructure   RejectionKind = "MALFORMED_STRUCTURE"
)

// Rejection is the typed result of a failed validation. It carries the
// offending token so callers (typically an agent retry loop) get actionable
// feedback about what to change.
type Rejection struct {
	Kind RejectionKind
	// Token is the offending keyword, procedure, label, relationship, or
	// property name. Empty for kinds where no single token applies.
	Token string
	// Detail carries additional context for MalformedStructure rejections.
	Detail string
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	switch {
	case r.Token != "" && r.Detail != "":
		return fmt.Sprintf("query rejected (%s): %s: %s", r.Kind, r.Detail, r.Token)
	case r.Token != "":
		return fmt.Sprintf("query rejected (%s): %s", r.Kind, r.Token)
	case r.Detail != "":
		return fmt.Sprintf("query rejected (%s): %s", r.Kind, r.Detail)
	default:
		return fmt.Sprintf("query rejected (%s)", r.Kind)
	}
}

// Is matches rejections by kind, enabling errors.Is comparisons against
// sentinel rejections.
func (r *Rejection) Is(target error) bool {
	var other *Rejection
	if errors.As(target, &other) {
		return r.Kind == other.Kind
	}
	return false
}

func emptyQuery() *Rejection {
	return &Rejection{Kind: RejectionEmptyQuery}
}

func forbiddenKeyword(kw string) *Rejection {
	return &Rejection{Kind: RejectionForbiddenKeyword, Token: kw}
}

func disallowedProcedure(name string) *Rejection {
	return &Rejection{Kind: RejectionDisallowedProcedure, Token: name}
}

func unknownLabel(name string) *Rejection {
	return &Rejection{Kind: RejectionUnknownLabel, Token: name}
}

func unknownRelationship(name string) *Rejection {
	return &Rejection{Kind: RejectionUnknownRelationship, Token: name}
}

func unknownProperty(name string) *Rejection {
	return &Rejection{Kind: RejectionUnknownProperty, Token: name}
}

func malformedStructure(detail string) *Rejection {
	return &Rejection{Kind: RejectionMalformedStructure, Detail: detail}
}

// AsRejection extracts a Rejection from an error chain.
// Returns nil, false when err is not a rejection (e.g., a backend error).
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
