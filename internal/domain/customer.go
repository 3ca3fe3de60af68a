package domain

// Customer is a user with the customer role plus booking counters.
type Customer struct {
	User
	BookingsCount int   `json:"bookings_count"`
	TotalSpent    Money `json:"total_spent"`
}
