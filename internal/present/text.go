package present

import (
	"fmt"
	"strings"
	"time"
)

// FormatText renders a PlanView as plain terminal output for the CLI
// frontend.
func FormatText(view *PlanView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan status: %s\n", strings.ToUpper(view.Severity))
	fmt.Fprintf(&b, "%s\n", view.Banner)
	fmt.Fprintf(&b, "Total: %s, %s\n",
		formatDistance(view.TotalDistanceMeters),
		formatDuration(view.TotalDurationSeconds),
	)

	for _, leg := range view.Legs {
		fmt.Fprintf(&b, "\nLeg %d: %s -> %s [%s]\n", leg.Sequence, leg.Start, leg.End, leg.Status)
		for _, card := range leg.Cards {
			fmt.Fprintf(&b, "  [%s] %s\n", card.Kind, card.Title)
			fmt.Fprintf(&b, "    %s\n", card.Message)
			if card.DistanceMeters > 0 || card.DurationSeconds > 0 {
				fmt.Fprintf(&b, "    %s, %s\n",
					formatDistance(card.DistanceMeters),
					formatDuration(card.DurationSeconds),
				)
			}
			if card.MapActionEnabled && card.MapURL != "" {
				fmt.Fprintf(&b, "    Map: %s\n", card.MapURL)
			}
		}
	}

	return b.String()
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Minute)
	if d < time.Minute {
		return fmt.Sprintf("%.0f s", seconds)
	}
	return d.String()
}
