package domain

// Organization owns rulebooks and audit records
type Organization struct {
	ID          int64
	Name        string
	Description string
}

// Project is the source a rulebook was imported from
type Project struct {
	ID             int64
	Name           string
	OrganizationID int64
}

// ActivationInstance is one run of an activation that fired rules.
// Instances can be deleted while their audit records are kept.
type ActivationInstance struct {
	ID   int64
	Name string
}
