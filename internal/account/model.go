package account

import "time"

// Kind tags an account as one of the two roles in the system. Providers
// publish availability and offer services; customers book them. The tag
// replaces subclass dispatch: operations check the kind explicitly.
type Kind string

const (
	KindProvider Kind = "provider"
	KindCustomer Kind = "customer"
)

type Account struct {
	ID        int64
	Kind      Kind
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// DisplayName is the form snapshotted onto bookings.
func (a *Account) DisplayName() string {
	return a.FirstName + " " + a.LastName
}

func (a *Account) IsProvider() bool { return a.Kind == KindProvider }
func (a *Account) IsCustomer() bool { return a.Kind == KindCustomer }
