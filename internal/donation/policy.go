package donation

// Policy is the set of leniencies an intake path applies on top of the
// common donation rules.
type Policy struct {
	Name string
	// StripPhone removes every non-digit before the 10 digit check.
	StripPhone bool
	// UnknownCommunityAsAny maps unrecognized communities to "any".
	UnknownCommunityAsAny bool
	// EmptyCommunityAsAny maps a missing community to "any".
	EmptyCommunityAsAny bool
	// DefaultCash fills a missing payment mode with cash.
	DefaultCash   bool
	NameMinLength int
	// CleanAmount strips everything but digits, '.' and '-' before parsing.
	CleanAmount bool
	// LenientDate replaces an unparseable date with today and reports a warning.
	LenientDate bool
	// LenientInscription reads unrecognized inscription text as true when it
	// contains "yes" and false otherwise.
	LenientInscription bool
}

var (
	FormPolicy = Policy{
		Name:          "form",
		StripPhone:    true,
		NameMinLength: 2,
	}
	WebhookPolicy = Policy{
		Name:                "webhook",
		EmptyCommunityAsAny: true,
		DefaultCash:         true,
		NameMinLength:       1,
	}
	// EditPolicy re-checks stored records on update; they may predate the form rules.
	EditPolicy = Policy{
		Name:                "edit",
		StripPhone:          true,
		EmptyCommunityAsAny: true,
		DefaultCash:         true,
		NameMinLength:       1,
	}
	ImportPolicy = Policy{
		Name:                  "import",
		StripPhone:            true,
		UnknownCommunityAsAny: true,
		EmptyCommunityAsAny:   true,
		DefaultCash:           true,
		NameMinLength:         1,
		CleanAmount:           true,
		LenientDate:           true,
		LenientInscription:    true,
	}
)
