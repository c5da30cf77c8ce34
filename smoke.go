package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/va6996/amadeus-mcp/plugins/amadeus"
	"github.com/va6996/amadeus-mcp/tools"
	"golang.org/x/sync/errgroup"
)

// SmokeCmd exercises each tool with sample inputs and reports what came back
type SmokeCmd struct {
	Origin      string  `help:"Flight origin IATA code." default:"LAX"`
	Destination string  `help:"Flight destination IATA code." default:"JFK"`
	Date        string  `help:"Departure date (YYYY-MM-DD). Defaults to 30 days from now."`
	City        string  `help:"City keyword." default:"Paris"`
	Latitude    float64 `help:"Activity search latitude." default:"48.8566"`
	Longitude   float64 `help:"Activity search longitude." default:"2.3522"`
	CityCode    string  `help:"Hotel city IATA code." default:"PAR"`
}

type smokeCase struct {
	tool    string
	args    map[string]any
	summary func(body gjson.Result) string
}

type smokeOutcome struct {
	text    string
	isError bool
	elapsed time.Duration
}

func (c *SmokeCmd) cases() []smokeCase {
	date := c.Date
	if date == "" {
		date = time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	}
	return []smokeCase{
		{
			tool: amadeus.ToolFlights,
			args: map[string]any{"origin": c.Origin, "destination": c.Destination, "departureDate": date, "maxResults": 3},
			summary: func(body gjson.Result) string {
				first := body.Get("data.0.price")
				return fmt.Sprintf("%d flights, first %s %s", len(body.Get("data").Array()), first.Get("currency").String(), first.Get("total").String())
			},
		},
		{
			tool: amadeus.ToolCity,
			args: map[string]any{"cityName": c.City},
			summary: func(body gjson.Result) string {
				first := body.Get("data.0")
				return fmt.Sprintf("%d cities, first %s (%s)", len(body.Get("data").Array()), first.Get("name").String(), first.Get("iataCode").String())
			},
		},
		{
			tool: amadeus.ToolActivities,
			args: map[string]any{"latitude": c.Latitude, "longitude": c.Longitude},
			summary: func(body gjson.Result) string {
				first := body.Get("data.0")
				return fmt.Sprintf("%d activities, first %q at $%.2f", len(body.Get("data").Array()), first.Get("name").String(), first.Get("price.usdAmount").Float())
			},
		},
		{
			tool: amadeus.ToolHotels,
			args: map[string]any{"cityCode": c.CityCode},
			summary: func(body gjson.Result) string {
				return fmt.Sprintf("%d hotels, first %s", len(body.Get("data").Array()), body.Get("data.0.name").String())
			},
		},
	}
}

// Run fans the cases out concurrently. A configuration error fails every
// case the same way, so it cancels the rest and is returned instead of a report.
func (c *SmokeCmd) Run(rc *runContext) error {
	cases := c.cases()
	outcomes := make([]smokeOutcome, len(cases))

	g, ctx := errgroup.WithContext(rc.ctx)
	for i, sc := range cases {
		g.Go(func() error {
			start := time.Now()
			text, err := rc.app.Dispatcher.Run(ctx, sc.tool, sc.args)
			var cfgErr *tools.ConfigError
			if errors.As(err, &cfgErr) {
				return cfgErr
			}
			if err != nil {
				text = "Error: " + err.Error()
			}
			outcomes[i] = smokeOutcome{text: text, isError: err != nil, elapsed: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return reportSmoke(rc, cases, outcomes)
}

func reportSmoke(rc *runContext, cases []smokeCase, outcomes []smokeOutcome) error {
	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	failed := 0
	for i, sc := range cases {
		o := outcomes[i]
		if o.isError {
			failed++
			fmt.Fprintf(rc.out, "%s %-22s %6s  %s\n", fail("FAIL"), sc.tool, o.elapsed.Round(time.Millisecond), o.text)
			continue
		}
		fmt.Fprintf(rc.out, "%s %-22s %6s  %s\n", pass("PASS"), sc.tool, o.elapsed.Round(time.Millisecond), sc.summary(gjson.Parse(o.text)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d searches failed", failed, len(cases))
	}
	return nil
}
