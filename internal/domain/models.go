package domain

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Available   bool    `json:"available"`
	Category    string  `json:"category"`
}

type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url"`
	Category string  `json:"category"`
}

// OrderLine is the snapshot of a cart item frozen into an order.
type OrderLine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// statusFlow is the fixed admin advance cycle. cancelled wraps back to
// pending, matching the production admin control.
var statusFlow = []OrderStatus{
	StatusPending, StatusConfirmed, StatusReady, StatusCompleted, StatusCancelled,
}

// Next returns the status the admin advance control requests from the
// current one. Unknown statuses restart the cycle at pending.
func (s OrderStatus) Next() OrderStatus {
	for i, st := range statusFlow {
		if st == s {
			return statusFlow[(i+1)%len(statusFlow)]
		}
	}
	return StatusPending
}

func (s OrderStatus) Valid() bool {
	for _, st := range statusFlow {
		if st == s {
			return true
		}
	}
	return false
}

type OrderType string

const (
	TypeTakeout     OrderType = "takeout"
	TypeReservation OrderType = "reservation"
)

type Order struct {
	ID           string      `json:"id"`
	TrackingCode string      `json:"tracking_code,omitempty"`
	Items        []OrderLine `json:"items,omitempty"`
	Total        float64     `json:"total"`
	Status       OrderStatus `json:"status"`
	Type         OrderType   `json:"type"`
	Date         string      `json:"date,omitempty"`
	Time         string      `json:"time,omitempty"`
}

// Settings is the restaurant's singleton profile row (fixed id).
type Settings struct {
	RestaurantName string `json:"restaurant_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	WeekdayHours   string `json:"weekday_hours"`
	WeekendHours   string `json:"weekend_hours"`
}
