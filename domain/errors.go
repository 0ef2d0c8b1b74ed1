package domain

// Custom errors
var (
	ErrRulebookNotFound     = NewDomainError("rulebook not found")
	ErrProjectNotFound      = NewDomainError("project not found")
	ErrOrganizationNotFound = NewDomainError("organization not found")
	ErrAuditRuleNotFound    = NewDomainError("audit rule not found")
	ErrAlreadyExists        = NewDomainError("record already exists")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}
