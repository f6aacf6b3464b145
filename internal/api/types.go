package api

// Clock times are "HH:MM", dates are "YYYY-MM-DD". The system is
// timezone-free; calendar datetimes are rendered without a zone suffix.

type ProposeBookingRequest struct {
	ProviderID int64  `json:"provider_id" validate:"required"`
	ServiceID  int64  `json:"service_id" validate:"required"`
	CustomerID int64  `json:"customer_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Start      string `json:"start" validate:"required,datetime=15:04"`
}

type TimeChangeRequest struct {
	RequesterID int64  `json:"requester_id" validate:"required"`
	Start       string `json:"start" validate:"required,datetime=15:04"`
}

type CancelBookingRequest struct {
	RequesterID int64 `json:"requester_id" validate:"required"`
}

type PublishAvailabilityRequest struct {
	ProviderID int64  `json:"provider_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Start      string `json:"start" validate:"required,datetime=15:04"`
	End        string `json:"end" validate:"required,datetime=15:04"`
}

type RetractAvailabilityRequest struct {
	RequesterID int64 `json:"requester_id" validate:"required"`
}

type AddServiceRequest struct {
	ProviderID      int64  `json:"provider_id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	PriceCents      int64  `json:"price_cents" validate:"gte=0"`
}

type RemoveServiceRequest struct {
	RequesterID int64 `json:"requester_id" validate:"required"`
}

type BookingResponse struct {
	ID           int64  `json:"id"`
	ProviderID   int64  `json:"provider_id"`
	CustomerID   int64  `json:"customer_id"`
	ServiceID    int64  `json:"service_id"`
	CustomerName string `json:"customer_name"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Status       string `json:"status"`
}

type AvailabilityResponse struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"provider_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type ServiceResponse struct {
	ID              int64  `json:"id"`
	ProviderID      int64  `json:"provider_id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
}

type CalendarEventResponse struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
	Tag   string `json:"tag"`
	Color string `json:"color"`
}

type AgendaItemResponse struct {
	BookingResponse
	ProviderName string `json:"provider_name"`
	ServiceName  string `json:"service_name"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
