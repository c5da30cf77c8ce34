package amadeus

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/va6996/amadeus-mcp/plugins/currency"
)

const (
	defaultFlightResults  = 5
	cityResults           = 5
	defaultActivityRadius = 1
)

// FlightSearchParams are the inputs of get_flights.
type FlightSearchParams struct {
	Origin        string  `json:"origin" jsonschema:"required" jsonschema_description:"Origin airport IATA code (e.g., 'JFK', 'LAX')"`
	Destination   string  `json:"destination" jsonschema:"required" jsonschema_description:"Destination airport IATA code (e.g., 'LHR', 'CDG')"`
	DepartureDate string  `json:"departureDate" jsonschema:"required" jsonschema_description:"Departure date in YYYY-MM-DD format"`
	ReturnDate    string  `json:"returnDate,omitempty" jsonschema_description:"Optional return date in YYYY-MM-DD format for round trips"`
	Adults        float64 `json:"adults,omitempty" jsonschema_description:"Number of adult passengers (default: 1)"`
	TravelClass   string  `json:"travelClass,omitempty" jsonschema_description:"Travel class: ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST"`
	MaxResults    float64 `json:"maxResults,omitempty" jsonschema_description:"Maximum number of results to return (default: 5)"`
}

// CitySearchParams are the inputs of get_city.
type CitySearchParams struct {
	CityName string `json:"cityName" jsonschema:"required" jsonschema_description:"Name of the city to search for"`
}

// ActivitySearchParams are the inputs of get_tours_activities.
type ActivitySearchParams struct {
	Latitude  float64 `json:"latitude" jsonschema:"required" jsonschema_description:"Latitude of the location"`
	Longitude float64 `json:"longitude" jsonschema:"required" jsonschema_description:"Longitude of the location"`
	Radius    float64 `json:"radius,omitempty" jsonschema_description:"Search radius in kilometers (default: 1)"`
}

// HotelSearchParams are the inputs of get_hotels. Zero values are left out of the query.
type HotelSearchParams struct {
	CityCode     string  `json:"cityCode" jsonschema:"required" jsonschema_description:"City IATA code (e.g., 'PAR' for Paris, 'NYC' for New York)"`
	CheckInDate  string  `json:"checkInDate,omitempty" jsonschema_description:"Check-in date in YYYY-MM-DD format"`
	CheckOutDate string  `json:"checkOutDate,omitempty" jsonschema_description:"Check-out date in YYYY-MM-DD format"`
	Adults       float64 `json:"adults,omitempty" jsonschema_description:"Number of adult guests (default: 1)"`
	Radius       float64 `json:"radius,omitempty" jsonschema_description:"Search radius (default: 5)"`
	RadiusUnit   string  `json:"radiusUnit,omitempty" jsonschema_description:"Unit for radius: KM or MILE (default: KM)"`
	Ratings      string  `json:"ratings,omitempty" jsonschema_description:"Filter by ratings (e.g., '3,4,5')"`
	PriceRange   string  `json:"priceRange,omitempty" jsonschema_description:"Price range filter (e.g., '50-200')"`
}

// SearchFlights queries flight offers priced in USD.
func (c *Client) SearchFlights(ctx context.Context, p FlightSearchParams) (json.RawMessage, error) {
	adults := p.Adults
	if adults <= 0 {
		adults = 1
	}
	limit := p.MaxResults
	if limit <= 0 {
		limit = defaultFlightResults
	}

	q := url.Values{}
	q.Set("originLocationCode", p.Origin)
	q.Set("destinationLocationCode", p.Destination)
	q.Set("departureDate", p.DepartureDate)
	q.Set("adults", formatFloat(adults))
	q.Set("max", formatFloat(limit))
	q.Set("currencyCode", "USD")
	if p.ReturnDate != "" {
		q.Set("returnDate", p.ReturnDate)
	}
	if p.TravelClass != "" {
		q.Set("travelClass", p.TravelClass)
	}

	return c.get(ctx, "Flight", "/v2/shopping/flight-offers", q)
}

// SearchCity looks up cities by keyword.
func (c *Client) SearchCity(ctx context.Context, cityName string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("keyword", cityName)
	q.Set("max", strconv.Itoa(cityResults))

	return c.get(ctx, "City", "/v1/reference-data/locations/cities", q)
}

// SearchToursActivities finds activities around a coordinate and annotates
// their prices with a USD equivalent.
func (c *Client) SearchToursActivities(ctx context.Context, p ActivitySearchParams) (json.RawMessage, error) {
	radius := p.Radius
	if radius <= 0 {
		radius = defaultActivityRadius
	}

	q := url.Values{}
	q.Set("latitude", formatFloat(p.Latitude))
	q.Set("longitude", formatFloat(p.Longitude))
	q.Set("radius", formatFloat(radius))

	body, err := c.get(ctx, "Activities", "/v1/shopping/activities", q)
	if err != nil {
		return nil, err
	}
	return currency.Annotate(body, c.Rates), nil
}

// SearchHotels lists hotels in a city.
func (c *Client) SearchHotels(ctx context.Context, p HotelSearchParams) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("cityCode", p.CityCode)
	setIfNotEmpty(q, "checkInDate", p.CheckInDate)
	setIfNotEmpty(q, "checkOutDate", p.CheckOutDate)
	if p.Adults > 0 {
		q.Set("adults", formatFloat(p.Adults))
	}
	if p.Radius > 0 {
		q.Set("radius", formatFloat(p.Radius))
	}
	setIfNotEmpty(q, "radiusUnit", p.RadiusUnit)
	setIfNotEmpty(q, "ratings", p.Ratings)
	setIfNotEmpty(q, "priceRange", p.PriceRange)

	return c.get(ctx, "Hotel", "/v1/reference-data/locations/hotels/by-city", q)
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
