package contract

import "errors"

var (
	ErrSchemaViolation    = errors.New("structured result violates schema")
	ErrHandlerUnavailable = errors.New("handler dependency unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrBadKnowledgeBase   = errors.New("knowledge base is malformed")
)
