package domain

// DashboardStats are the headline counters.
type DashboardStats struct {
	TotalBookings   int   `json:"total_bookings"`
	TotalRevenue    Money `json:"total_revenue"`
	TotalCustomers  int   `json:"total_customers"`
	ActiveVessels   int   `json:"active_vessels"`
	ActiveRoutes    int   `json:"active_routes"`
	PendingBookings int   `json:"pending_bookings"`
}

// BookingsByType groups booking counts per vessel type.
type BookingsByType struct {
	Type  VesselType `json:"type"`
	Count int        `json:"count"`
}

// RevenuePoint is one bucket of the revenue series.
type RevenuePoint struct {
	Period  string `json:"period"`
	Revenue Money  `json:"revenue"`
}

// PopularRoute ranks routes by bookings.
type PopularRoute struct {
	RouteID     int64  `json:"route_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Bookings    int    `json:"bookings"`
	Revenue     Money  `json:"revenue"`
}

// TrendPoint is one bucket of the booking trend series.
type TrendPoint struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
}
