package domain

// Flight is a flight search result.
type Flight struct {
	SearchResultBase
	// Origin and Destination are IATA airport codes.
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	// DepartureAt and ArrivalAt are ISO 8601 datetimes.
	DepartureAt     string       `json:"departureAt"`
	ArrivalAt       string       `json:"arrivalAt"`
	Airline         string       `json:"airline"`
	FlightNumber    string       `json:"flightNumber"`
	DurationMinutes int          `json:"durationMinutes"`
	Stops           int          `json:"stops"`
	Price           Price        `json:"price"`
	Link            ExternalLink `json:"link"`
}

// Stay is an accommodation search result.
type Stay struct {
	SearchResultBase
	Name     string      `json:"name"`
	Location GeoLocation `json:"location"`
	Address  string      `json:"address"`
	// CheckIn and CheckOut are ISO 8601 dates (YYYY-MM-DD).
	CheckIn       string `json:"checkIn"`
	CheckOut      string `json:"checkOut"`
	PricePerNight Price  `json:"pricePerNight"`
	// Rating is on a 0-5 scale; nil when the provider has none.
	Rating      *float64     `json:"rating"`
	ReviewCount int          `json:"reviewCount"`
	PhotoURL    *string      `json:"photoUrl"`
	Images      []string     `json:"images"`
	Link        ExternalLink `json:"link"`
}

// CarRental is a car rental search result.
type CarRental struct {
	SearchResultBase
	VehicleType     string `json:"vehicleType"`
	PickUpLocation  string `json:"pickUpLocation"`
	DropOffLocation string `json:"dropOffLocation"`
	// PickUpAt and DropOffAt are ISO 8601 datetimes.
	PickUpAt  string       `json:"pickUpAt"`
	DropOffAt string       `json:"dropOffAt"`
	Price     Price        `json:"price"`
	Images    []string     `json:"images"`
	Link      ExternalLink `json:"link"`
}

// TransportMode classifies a ground/sea transport leg.
type TransportMode string

const (
	TransportBus   TransportMode = "bus"
	TransportTrain TransportMode = "train"
	TransportFerry TransportMode = "ferry"
	TransportOther TransportMode = "other"
)

// Transport is a ground or sea transport search result (bus, train, ferry).
type Transport struct {
	SearchResultBase
	Mode        TransportMode `json:"mode"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	// DepartureAt and ArrivalAt are ISO 8601 datetimes.
	DepartureAt     string       `json:"departureAt"`
	ArrivalAt       string       `json:"arrivalAt"`
	DurationMinutes int          `json:"durationMinutes"`
	Price           Price        `json:"price"`
	Link            ExternalLink `json:"link"`
}

// Activity is a guided activity or tour search result.
type Activity struct {
	SearchResultBase
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Location    GeoLocation `json:"location"`
	City        string      `json:"city"`
	// DurationMinutes is nil when the duration is variable or unknown.
	DurationMinutes *int         `json:"durationMinutes"`
	Rating          *float64     `json:"rating"`
	ReviewCount     int          `json:"reviewCount"`
	Price           Price        `json:"price"`
	Images          []string     `json:"images"`
	Link            ExternalLink `json:"link"`
}

// Attraction is a point-of-interest search result.
type Attraction struct {
	SearchResultBase
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Location    GeoLocation `json:"location"`
	City        string      `json:"city"`
	Category    string      `json:"category"`
	Images      []string    `json:"images"`
	// Link is nil when the attraction has no official external page.
	Link *ExternalLink `json:"link"`
}
