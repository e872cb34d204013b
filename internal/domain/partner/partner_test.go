package partner

import (
	"strings"
	"testing"
	"time"

	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) valueobject.Address {
	addr, err := valueobject.NewAddress("Munich", "DE", valueobject.WithStreet("Leopoldstr. 1"))
	require.NoError(t, err)
	return addr
}

func TestNumbering(t *testing.T) {
	assert.Equal(t, "V010000", VendorNumber(0))
	assert.Equal(t, "V010199", VendorNumber(199))
	assert.Equal(t, "C020000", CustomerNumber(0))
	assert.Equal(t, "C020149", CustomerNumber(149))
}

func TestNewVendor(t *testing.T) {
	created := valueobject.Date(2023, time.June, 1)

	t.Run("creates vendor with valid input", func(t *testing.T) {
		v, err := NewVendor("V010000", "Acme Industrial Supplies GmbH & Co. KG Munich", "acme", "EU", testAddress(t), created,
			Contact{Phone: "+49 89 123456789012345", Email: "ap@acme.example", CreatedBy: "jdoe_purchasing_lead"})
		require.NoError(t, err)

		assert.Equal(t, "V010000", v.ID)
		assert.Len(t, v.Name, MaxNameLength)
		assert.Equal(t, "ACME", v.SortKey)
		assert.Equal(t, "DE", v.Country())
		assert.Equal(t, "EU", v.Region)
		assert.Equal(t, DefaultLanguage, v.Language)
		assert.Equal(t, DefaultAccountGroup, v.AccountGroup)
		assert.Len(t, v.Phone, MaxPhoneLength)
		assert.Len(t, v.CreatedBy, MaxUserNameLength)
		assert.True(t, v.IsActive())
	})

	t.Run("fails with empty number", func(t *testing.T) {
		v, err := NewVendor("", "Acme", "ACME", "EU", testAddress(t), created, Contact{})
		assert.Nil(t, v)
		assert.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewVendor("V010000", "  ", "ACME", "EU", testAddress(t), created, Contact{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails without region", func(t *testing.T) {
		_, err := NewVendor("V010000", "Acme", "ACME", "", testAddress(t), created, Contact{})
		assert.Error(t, err)
	})
}

func TestNewVendorCompanyBinding(t *testing.T) {
	b, err := NewVendorCompanyBinding("V010000", "2000", "2100000", "Z030")
	require.NoError(t, err)
	assert.Equal(t, "2000", b.CompanyCode)
	assert.Equal(t, PaymentMethodTransfer, b.PaymentMethods)
	assert.False(t, b.PaymentBlock)

	_, err = NewVendorCompanyBinding("V010000", "", "2100000", "Z030")
	assert.Error(t, err)
	_, err = NewVendorCompanyBinding("V010000", "2000", "2100000", "")
	assert.Error(t, err)
}

func TestNewIncoterm(t *testing.T) {
	inc, err := NewIncoterm("DAP", strings.Repeat("x", 40))
	require.NoError(t, err)
	assert.Equal(t, "DAP", inc.Rule)
	assert.Len(t, inc.Place, MaxIncotermPlaceLength)

	_, err = NewIncoterm("FOB", "Hamburg")
	assert.Error(t, err)
}

func TestNewVendorPurchasingProfile(t *testing.T) {
	inc, err := NewIncoterm("EXW", "Lyon")
	require.NoError(t, err)

	p, err := NewVendorPurchasingProfile("V010003", "APAC", "Z060", inc, valueobject.JPY)
	require.NoError(t, err)
	assert.Equal(t, "APAC00", p.PurchasingOrg)
	assert.Equal(t, valueobject.JPY, p.Currency)

	_, err = NewVendorPurchasingProfile("V010003", "APAC", "Z060", inc, "")
	assert.Error(t, err)
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer("C020000", "Globex", "glob", "NA", testAddress(t), valueobject.Date(2024, 1, 5), Contact{})
	require.NoError(t, err)
	assert.Equal(t, "C020000", c.ID)
	assert.Equal(t, "GLOB", c.SortKey)

	c.DeletionFlag = true
	assert.False(t, c.IsActive())

	_, err = NewCustomer("C020000", "Globex", "GLOB", "NA", testAddress(t), time.Time{}, Contact{})
	assert.Error(t, err)
}
