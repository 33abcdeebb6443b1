// Command crimectl submits one prediction request to the external crime-rate
// API and renders the result: risk badge, predicted rate, and the factor
// breakdown. It replaces the project's static browser frontend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"gradebook/internal/config"
	"gradebook/internal/predict"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	city := flag.String("city", "", "city name")
	areaType := flag.String("area-type", "urban", "area type: urban, suburban, or rural")
	density := flag.Int("density", -1, "population density (defaults to the area-type preset)")
	timeOfDay := flag.String("time-of-day", "night", "time of day")
	month := flag.Int("month", 1, "month (1-12)")
	dayOfWeek := flag.Int("day-of-week", 1, "day of week (0-6)")
	flag.Parse()

	if *city == "" {
		fmt.Fprintln(os.Stderr, "usage: crimectl --city <name> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Pre-fill density from the area-type preset, like the form did.
	if *density < 0 {
		preset, ok := predict.DensityForArea(*areaType)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown area type %q (want urban, suburban, or rural)\n", *areaType)
			os.Exit(2)
		}
		*density = preset
	}

	client := predict.New(cfg.PredictAPIURL)
	ctx := context.Background()

	// Reachability check only; a failed ping never blocks the request.
	if err := client.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("backend server not reachable, make sure it's running")
	} else {
		logger.Info().Msg("backend server is running")
	}

	pred, err := client.Predict(ctx, predict.Request{
		City:              *city,
		AreaType:          *areaType,
		PopulationDensity: *density,
		TimeOfDay:         *timeOfDay,
		Month:             *month,
		DayOfWeek:         *dayOfWeek,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v. Make sure the backend server is running on %s\n", err, client.BaseURL())
		os.Exit(1)
	}

	render(pred)
}

func render(p *predict.Prediction) {
	badge := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color(p.RiskColor)).
		Render(p.RiskLevel)

	city := p.City
	if city == "" {
		city = "Selected Area"
	}

	fmt.Printf("%s  %s\n", lipgloss.NewStyle().Bold(true).Render(city), badge)
	fmt.Printf("Crime rate: %s\n\n", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.RiskColor)).Render(fmt.Sprintf("%.2f", p.CrimeRate)))

	fmt.Println("Contributing factors:")
	printFactor("Area Type Impact", p.Factors.AreaTypeImpact)
	printFactor("Population Impact", p.Factors.PopulationImpact)
	printFactor("Time Impact", p.Factors.TimeImpact)
	printFactor("Seasonal Impact", p.Factors.SeasonalImpact)
	printFactor("Weekend Impact", p.Factors.WeekendImpact)
}

func printFactor(label string, value float64) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#2e7d32"))
	formatted := fmt.Sprintf("%.2f", value)
	if value > 0 {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#c62828"))
		formatted = "+" + formatted
	}
	fmt.Printf("  %-20s %s\n", label, style.Render(formatted))
}
