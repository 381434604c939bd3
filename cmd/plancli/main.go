package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"routesafe-service/internal/adapters/routing"
	"routesafe-service/internal/config"
	"routesafe-service/internal/present"
	"routesafe-service/internal/services"
)

// plancli is the terminal frontend: the same normalize -> orchestrate ->
// present pipeline the HTTP service runs, printed as text.
//
//	plancli -depot "LS27 0LF" -stops "WF3 1AB, M31 4QN" -height 4.5
func main() {
	// Best effort; the CLI is fully driven by flags.
	_ = godotenv.Load()

	depot := flag.String("depot", "", "depot postcode")
	stops := flag.String("stops", "", "delivery postcodes, comma or newline separated")
	height := flag.String("height", "", "vehicle height in meters")
	backend := flag.String("backend", config.Get("BACKEND_URL", "http://localhost:8000"), "routing backend base URL")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall planning timeout")
	flag.Parse()

	req, err := services.NormalizeInput(*depot, *stops, *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid input: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	client, err := routing.NewClient(*backend, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	planner, err := services.NewPlanner(client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	plan, err := planner.PlanRoute(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planning failed: %v\n", err)
		os.Exit(1)
	}

	view, err := present.NewRenderer().Render(plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(present.FormatText(view))

	if view.Severity == present.SeverityUnsafe.String() {
		os.Exit(1)
	}
}
