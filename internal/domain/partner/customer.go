package partner

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
)

// CustomerNumberBase is the first sequence value of customer numbers.
const CustomerNumberBase = 20000

// CustomerNumber formats the i-th customer number (C020000, C020001, ...).
func CustomerNumber(i int) string {
	return fmt.Sprintf("C%06d", CustomerNumberBase+i)
}

// Customer is the general customer master record
type Customer struct {
	ID string
	MasterRecord
}

// NewCustomer creates a customer master record
func NewCustomer(id, name, sortKey, region string, address valueobject.Address, createdOn time.Time, contact Contact) (*Customer, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer number cannot be empty")
	}
	rec, err := NewMasterRecord(name, sortKey, region, address, createdOn, contact)
	if err != nil {
		return nil, err
	}
	return &Customer{ID: id, MasterRecord: rec}, nil
}
