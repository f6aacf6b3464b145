package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shearbook/barbershop-scheduling/internal/account"
)

func TestAccountKind(t *testing.T) {
	barber := account.Account{Kind: account.KindProvider, FirstName: "Sam", LastName: "Shears"}
	assert.True(t, barber.IsProvider())
	assert.False(t, barber.IsCustomer())

	customer := account.Account{Kind: account.KindCustomer, FirstName: "Casey", LastName: "Customer"}
	assert.True(t, customer.IsCustomer())
	assert.False(t, customer.IsProvider())
}

func TestDisplayName(t *testing.T) {
	a := account.Account{FirstName: "Sam", LastName: "Shears"}
	assert.Equal(t, "Sam Shears", a.DisplayName())
}
