package errors

type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodeForbidden        Code = "FORBIDDEN"
	CodeBlocked          Code = "BLOCKED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeMalformedRequest Code = "MALFORMED_REQUEST"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeInternal         Code = "INTERNAL"
)
