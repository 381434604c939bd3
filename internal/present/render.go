package present

import (
	"errors"
	"fmt"
	"sync"

	"routesafe-service/internal/domain"
)

// Returned when a plan from a superseded submission arrives after a
// newer one has already been rendered.
var ErrStalePlan = errors.New("plan superseded by a newer submission")

const (
	CardPrimary     = "primary"
	CardAlternative = "alternative"
)

// One status element for a leg. Unsafe legs never carry an enabled map
// action on their primary card: offering the link would imply an
// endorsed but dangerous route.
type Card struct {
	Kind             string
	Title            string
	Message          string
	DistanceMeters   float64
	DurationSeconds  float64
	MapURL           string
	MapActionEnabled bool
}

type LegView struct {
	Sequence int
	Start    string
	End      string
	Status   string
	Cards    []Card
}

// Fully resolved view of one submission. Rendering the same plan twice
// produces an equivalent PlanView; prior output is replaced, never
// appended to.
type PlanView struct {
	Severity             string
	Banner               string
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	Legs                 []LegView
}

// Renderer turns RoutePlans into PlanViews and enforces submission
// ordering: a plan older than the newest generation it has seen is
// refused rather than letting a stale response overwrite newer results.
type Renderer struct {
	mu     sync.Mutex
	latest uint64
}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) Render(plan *domain.RoutePlan) (*PlanView, error) {
	if plan == nil {
		return nil, errors.New("render: plan must be non-nil")
	}

	r.mu.Lock()
	if plan.Generation < r.latest {
		r.mu.Unlock()
		return nil, ErrStalePlan
	}
	r.latest = plan.Generation
	r.mu.Unlock()

	return renderPlan(plan), nil
}

// renderPlan is a pure function of the plan; Render adds the staleness gate.
func renderPlan(plan *domain.RoutePlan) *PlanView {
	severity := PlanSeverity(plan)

	view := &PlanView{
		Severity:             severity.String(),
		Banner:               banner(severity),
		TotalDistanceMeters:  plan.TotalDistanceMeters,
		TotalDurationSeconds: plan.TotalDurationSeconds,
		Legs:                 make([]LegView, 0, len(plan.Legs)),
	}

	for _, leg := range plan.Legs {
		view.Legs = append(view.Legs, renderLeg(leg))
	}

	return view
}

func banner(severity Severity) string {
	switch severity {
	case SeverityUnsafe:
		return "One or more legs cross a bridge lower than the vehicle. Do not drive this plan as-is."
	case SeverityWarning:
		return "All legs are passable, but at least one runs close to a height limit."
	default:
		return "No low-bridge conflicts detected on any leg."
	}
}

func renderLeg(leg domain.Leg) LegView {
	severity := Classify(leg)

	lv := LegView{
		Sequence: leg.Sequence,
		Start:    leg.Start,
		End:      leg.End,
		Status:   severity.String(),
	}

	switch severity {
	case SeverityUnsafe:
		lv.Cards = unsafeCards(leg)
	case SeverityWarning:
		lv.Cards = []Card{routableCard(leg, warningMessage(leg))}
	default:
		lv.Cards = []Card{routableCard(leg, "No low-bridge conflicts detected.")}
	}

	return lv
}

// unsafeCards renders the blocked primary card and, when the backend
// offered one, a secondary alternative card. The alternative is
// unverified guidance and is labeled as such.
func unsafeCards(leg domain.Leg) []Card {
	message := "The direct route crosses a bridge lower than the vehicle height and must not be used."
	if leg.Risk.Note != "" {
		message = leg.Risk.Note
	}
	if leg.Risk.NearestBridgeHeightM != nil {
		message += fmt.Sprintf(" Lowest structure on the direct path: %.2f m.", *leg.Risk.NearestBridgeHeightM)
	}

	cards := []Card{{
		Kind:             CardPrimary,
		Title:            "Direct route not usable",
		Message:          message,
		DistanceMeters:   leg.DistanceMeters,
		DurationSeconds:  leg.DurationSeconds,
		MapActionEnabled: false,
	}}

	if alt := leg.Alternative; alt != nil {
		altURL := alt.MapURL
		if altURL == "" {
			altURL = BuildMapsURL(leg.Start, leg.End)
		}
		cards = append(cards, Card{
			Kind:             CardAlternative,
			Title:            "Suggested alternative",
			Message:          "Unverified guidance. Confirm clearances manually before dispatch.",
			DistanceMeters:   alt.DistanceMeters,
			DurationSeconds:  alt.DurationSeconds,
			MapURL:           altURL,
			MapActionEnabled: true,
		})
	}

	return cards
}

func warningMessage(leg domain.Leg) string {
	message := "Route is passable but runs close to a height limit."
	if leg.Risk.Note != "" {
		message = leg.Risk.Note
	}
	if leg.Risk.NearestBridgeHeightM != nil {
		message += fmt.Sprintf(" Nearest low-clearance structure: %.2f m.", *leg.Risk.NearestBridgeHeightM)
	}
	return message
}

func routableCard(leg domain.Leg, message string) Card {
	mapURL := leg.MapURL
	if mapURL == "" {
		mapURL = BuildMapsURL(leg.Start, leg.End)
	}

	return Card{
		Kind:             CardPrimary,
		Title:            fmt.Sprintf("%s to %s", leg.Start, leg.End),
		Message:          message,
		DistanceMeters:   leg.DistanceMeters,
		DurationSeconds:  leg.DurationSeconds,
		MapURL:           mapURL,
		MapActionEnabled: true,
	}
}
