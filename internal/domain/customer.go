package domain

// Customer is referenced by ID from tickets.
type Customer struct {
	ID    string
	Name  string
	Email string
}
