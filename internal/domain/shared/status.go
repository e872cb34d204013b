package shared

// ApprovalStatus represents the workflow state of a purchasing or invoice document
type ApprovalStatus string

const (
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
	ApprovalStatusParked   ApprovalStatus = "PARKED"
)

// IsValid checks if the status is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusApproved, ApprovalStatusPending, ApprovalStatusRejected, ApprovalStatusParked:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ApprovalStatus) CanTransitionTo(target ApprovalStatus) bool {
	switch s {
	case ApprovalStatusPending:
		return target == ApprovalStatusApproved || target == ApprovalStatusRejected || target == ApprovalStatusParked
	case ApprovalStatusParked:
		return target == ApprovalStatusPending || target == ApprovalStatusApproved || target == ApprovalStatusRejected
	case ApprovalStatusApproved, ApprovalStatusRejected:
		return false // Terminal states
	}
	return false
}

// ProcessStatusCode maps the status to the procurement process status code
// carried on purchase order headers.
func (s ApprovalStatus) ProcessStatusCode() string {
	switch s {
	case ApprovalStatusApproved:
		return "05"
	case ApprovalStatusPending:
		return "03"
	case ApprovalStatusRejected:
		return "01"
	}
	return ""
}

// DocumentState tracks whether a generated document may feed the next stage
type DocumentState string

const (
	DocumentStateCreated    DocumentState = "CREATED"
	DocumentStateEligible   DocumentState = "ELIGIBLE"
	DocumentStateIneligible DocumentState = "INELIGIBLE"
)

// IsValid checks if the state is a valid DocumentState
func (s DocumentState) IsValid() bool {
	switch s {
	case DocumentStateCreated, DocumentStateEligible, DocumentStateIneligible:
		return true
	}
	return false
}

// String returns the string representation of DocumentState
func (s DocumentState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s DocumentState) CanTransitionTo(target DocumentState) bool {
	if s == DocumentStateCreated {
		return target == DocumentStateEligible || target == DocumentStateIneligible
	}
	return false
}

// Classify moves a created document to eligible or ineligible.
func (s DocumentState) Classify(released bool) (DocumentState, error) {
	target := DocumentStateIneligible
	if released {
		target = DocumentStateEligible
	}
	if !s.CanTransitionTo(target) {
		return s, NewDomainError("INVALID_STATE", "Cannot classify document in state "+string(s))
	}
	return target, nil
}
