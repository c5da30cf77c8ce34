package amadeus

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/va6996/amadeus-mcp/log"
	"github.com/va6996/amadeus-mcp/tools"
)

// Tool names exposed over MCP
const (
	ToolFlights    = "get_flights"
	ToolCity       = "get_city"
	ToolActivities = "get_tours_activities"
	ToolHotels     = "get_hotels"
)

// RegisterTools defines the four search tools backed by c on gk and
// registers them with registry.
func RegisterTools(c *Client, gk *genkit.Genkit, registry *tools.Registry) error {
	hints := []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}

	if err := tools.DefineTool(gk, registry, ToolFlights,
		"Search for flight offers between two cities. Returns flight details including airlines, prices in USD, flight IDs, duration, stops, and travel class.",
		func(ctx context.Context, in *FlightSearchParams) (any, error) {
			log.Debugf(ctx, "Searching flights %s -> %s on %s", in.Origin, in.Destination, in.DepartureDate)
			return c.SearchFlights(ctx, *in)
		}, hints...); err != nil {
		return fmt.Errorf("register %s: %w", ToolFlights, err)
	}

	if err := tools.DefineTool(gk, registry, ToolCity,
		"Search for city information including name, country, region, IATA code, and geographic coordinates.",
		func(ctx context.Context, in *CitySearchParams) (any, error) {
			log.Debugf(ctx, "Searching city %q", in.CityName)
			return c.SearchCity(ctx, in.CityName)
		}, hints...); err != nil {
		return fmt.Errorf("register %s: %w", ToolCity, err)
	}

	if err := tools.DefineTool(gk, registry, ToolActivities,
		"Search for tours and activities in a specific location using latitude and longitude coordinates. Prices are converted to USD.",
		func(ctx context.Context, in *ActivitySearchParams) (any, error) {
			log.Debugf(ctx, "Searching activities near %f,%f", in.Latitude, in.Longitude)
			return c.SearchToursActivities(ctx, *in)
		}, hints...); err != nil {
		return fmt.Errorf("register %s: %w", ToolActivities, err)
	}

	if err := tools.DefineTool(gk, registry, ToolHotels,
		"Search for hotels in a city using the city's IATA code. Returns hotel information including names, ratings, and locations.",
		func(ctx context.Context, in *HotelSearchParams) (any, error) {
			log.Debugf(ctx, "Searching hotels in %s", in.CityCode)
			return c.SearchHotels(ctx, *in)
		}, hints...); err != nil {
		return fmt.Errorf("register %s: %w", ToolHotels, err)
	}

	return nil
}
