package ecoscore

// Kind classifies a recommendation.
type Kind string

const (
	// KindPraise rewards low carbon behaviour.
	KindPraise Kind = "praise"
	// KindReduction suggests a way to cut emissions.
	KindReduction Kind = "reduction"
)

// Recommendation tags.
const (
	TagShortCarTrips  = "switch-short-car-trips"
	TagSuggestCarpool = "suggest-carpool"
	TagRailOverFlight = "rail-over-flight"
	TagReduce         = "reduce-footprint"
	TagPraiseActive   = "praise-active-transport"
	TagTopTier        = "top-tier"
)

// Stats aggregates the figures the rules are evaluated against. Legs with
// zero distance are not counted.
type Stats struct {
	Legs        int
	DistanceKm  float64
	EmissionsKg float64
	CarKm       float64
	SoloCarKm   float64
	ActiveKm    float64
	FlightLegs  int
	// ShortestFlightKm is zero when FlightLegs is zero.
	ShortestFlightKm float64
}

// Rule is one row of the recommendation decision table.
type Rule struct {
	Tag     string
	Kind    Kind
	Message string
	Match   func(Stats, Thresholds) bool
}

// Recommendation is an advisory emitted by a matching rule.
type Recommendation struct {
	Tag     string `json:"tag"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Rules is the decision table, evaluated in order.
var Rules = []Rule{
	{
		Tag:     TagShortCarTrips,
		Kind:    KindReduction,
		Message: "You are using a car for very short distances. Walking or cycling these legs would lift your score.",
		Match: func(s Stats, t Thresholds) bool {
			return s.CarKm > 0 && s.CarKm < t.ShortCarKm
		},
	},
	{
		Tag:     TagSuggestCarpool,
		Kind:    KindReduction,
		Message: "You have long solo car drives. Sharing these rides would cut their emissions by 50 to 75%.",
		Match: func(s Stats, t Thresholds) bool {
			return s.SoloCarKm > t.SoloCarKm
		},
	},
	{
		Tag:     TagRailOverFlight,
		Kind:    KindReduction,
		Message: "Short flights emit far more than rail over the same distance. Consider the train.",
		Match: func(s Stats, t Thresholds) bool {
			return s.FlightLegs > 0 && s.ShortestFlightKm < t.ShortFlightKm
		},
	},
	{
		Tag:     TagReduce,
		Kind:    KindReduction,
		Message: "Your daily footprint is high. Public transport for the longest legs has the biggest impact.",
		Match: func(s Stats, t Thresholds) bool {
			return s.EmissionsKg > t.HighEmissionsKg
		},
	},
	{
		Tag:     TagPraiseActive,
		Kind:    KindPraise,
		Message: "Your itinerary includes active transport. This reduces carbon and improves cardiovascular health.",
		Match: func(s Stats, _ Thresholds) bool {
			return s.ActiveKm > 0
		},
	},
	{
		Tag:     TagTopTier,
		Kind:    KindPraise,
		Message: "Your footprint is better than 80% of daily commuters.",
		Match: func(s Stats, t Thresholds) bool {
			return s.DistanceKm > 0 && s.EmissionsKg < t.TopTierKg
		},
	},
}

func recommend(rules []Rule, s Stats, t Thresholds) []Recommendation {
	out := []Recommendation{}
	if s.Legs == 0 {
		return out
	}
	for _, r := range rules {
		if r.Match(s, t) {
			out = append(out, Recommendation{Tag: r.Tag, Kind: r.Kind, Message: r.Message})
		}
	}
	return out
}
