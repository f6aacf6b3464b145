package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shearbook/barbershop-scheduling/internal/account"
	"github.com/shearbook/barbershop-scheduling/internal/booking"
)

func TestDeleteProviderCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.propose(t, "10:00")
	require.NoError(t, err)

	require.NoError(t, f.repo.DeleteAccount(ctx, f.providerID))

	_, err = f.repo.GetServiceOffering(ctx, f.serviceID)
	assert.ErrorIs(t, err, booking.ErrServiceNotFound)

	windows, err := f.repo.ListAvailability(ctx, f.providerID, f.day)
	require.NoError(t, err)
	assert.Empty(t, windows)

	_, err = f.repo.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	// The customer survives, just with an empty agenda.
	_, err = f.repo.GetAccountByID(ctx, f.customerID)
	require.NoError(t, err)
	agenda, err := f.repo.ListCustomerBookings(ctx, f.customerID)
	require.NoError(t, err)
	assert.Empty(t, agenda)
}

func TestDeleteCustomerCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.propose(t, "10:00")
	require.NoError(t, err)

	require.NoError(t, f.repo.DeleteAccount(ctx, f.customerID))

	_, err = f.repo.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	// Provider record and catalogue are untouched.
	_, err = f.repo.GetAccountByID(ctx, f.providerID)
	require.NoError(t, err)
	_, err = f.repo.GetServiceOffering(ctx, f.serviceID)
	require.NoError(t, err)
}

func TestMemoryAccountLookups(t *testing.T) {
	repo := booking.NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.CreateAccount(ctx, account.Account{
		Kind: account.KindCustomer, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.test",
	})
	require.NoError(t, err)

	byEmail, err := repo.GetAccountByEmail(ctx, "ada@example.test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "Ada Lovelace", byEmail.DisplayName())

	_, err = repo.CreateAccount(ctx, account.Account{
		Kind: account.KindCustomer, FirstName: "Other", LastName: "Ada", Email: "ada@example.test",
	})
	assert.ErrorIs(t, err, account.ErrEmailTaken)

	err = repo.DeleteAccount(ctx, 9999)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}
