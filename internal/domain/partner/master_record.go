package partner

import (
	"strings"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
)

// Column widths shared by vendor and customer master records.
const (
	MaxNameLength       = 35
	MaxSortKeyLength    = 10
	MaxPhoneLength      = 16
	MaxEmailLength      = 50
	MaxUserNameLength   = 12
	DefaultLanguage     = "EN"
	DefaultAccountGroup = "Z001"
)

// MasterRecord holds the general data common to vendors and customers.
type MasterRecord struct {
	Name           string
	SortKey        string
	Address        valueobject.Address
	Region         string
	Language       string
	Phone          string
	Fax            string
	Email          string
	AccountGroup   string
	CreatedOn      time.Time
	CreatedBy      string
	PostingBlocked bool
	DeletionFlag   bool
}

// Contact carries the optional communication fields of a master record.
type Contact struct {
	Phone     string
	Fax       string
	Email     string
	CreatedBy string
}

// NewMasterRecord validates the general data and truncates it to column widths
func NewMasterRecord(name, sortKey, region string, address valueobject.Address, createdOn time.Time, contact Contact) (MasterRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MasterRecord{}, shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	if region == "" {
		return MasterRecord{}, shared.NewDomainError("INVALID_REGION", "Partner region cannot be empty")
	}
	if address.IsEmpty() {
		return MasterRecord{}, shared.NewDomainError("INVALID_ADDRESS", "Partner address cannot be empty")
	}
	if createdOn.IsZero() {
		return MasterRecord{}, shared.NewDomainError("INVALID_DATE", "Creation date cannot be empty")
	}

	return MasterRecord{
		Name:         valueobject.Truncate(name, MaxNameLength),
		SortKey:      valueobject.Truncate(strings.ToUpper(sortKey), MaxSortKeyLength),
		Address:      address,
		Region:       region,
		Language:     DefaultLanguage,
		Phone:        valueobject.Truncate(contact.Phone, MaxPhoneLength),
		Fax:          valueobject.Truncate(contact.Fax, MaxPhoneLength),
		Email:        valueobject.Truncate(contact.Email, MaxEmailLength),
		AccountGroup: DefaultAccountGroup,
		CreatedOn:    createdOn,
		CreatedBy:    valueobject.Truncate(contact.CreatedBy, MaxUserNameLength),
	}, nil
}

// Country returns the country code of the record's address
func (m MasterRecord) Country() string {
	return m.Address.Country()
}

// IsActive returns true when the record is neither blocked nor flagged for deletion
func (m MasterRecord) IsActive() bool {
	return !m.PostingBlocked && !m.DeletionFlag
}
