package generator

// Config drives the synthetic data generator.
type Config struct {
	Countries     int
	Organizations int
	Transactions  int
	StartYear     int
	EndYear       int
	// SentinelShare is the fraction of aid rows whose year is the unknown
	// sentinel. Zero disables them.
	SentinelShare float64

	States             int
	UnionTerritories   int
	SeatsPerState      int
	CandidatesPerSeat  int
	MaxVotesPerSeat    int
	PostalVoteFraction float64

	Seed int64
}

// DefaultConfig returns settings that produce a dataset small enough for the
// browser while exercising every chart.
func DefaultConfig() Config {
	return Config{
		Countries:          24,
		Organizations:      6,
		Transactions:       4000,
		StartYear:          1973,
		EndYear:            2013,
		SentinelShare:      0.02,
		States:             6,
		UnionTerritories:   2,
		SeatsPerState:      8,
		CandidatesPerSeat:  4,
		MaxVotesPerSeat:    1200000,
		PostalVoteFraction: 0.01,
		Seed:               42,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	positive := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	positive(&c.Countries, def.Countries)
	positive(&c.Transactions, def.Transactions)
	positive(&c.StartYear, def.StartYear)
	positive(&c.States, def.States)
	positive(&c.SeatsPerState, def.SeatsPerState)
	positive(&c.CandidatesPerSeat, def.CandidatesPerSeat)
	positive(&c.MaxVotesPerSeat, def.MaxVotesPerSeat)
	if c.Organizations < 0 {
		c.Organizations = 0
	}
	if c.UnionTerritories < 0 {
		c.UnionTerritories = 0
	}
	if c.EndYear < c.StartYear {
		c.EndYear = c.StartYear
	}
	c.SentinelShare = clamp01(c.SentinelShare)
	c.PostalVoteFraction = clamp01(c.PostalVoteFraction)
	if c.Countries > len(countryNames) {
		c.Countries = len(countryNames)
	}
	if c.Organizations > len(organizationNames) {
		c.Organizations = len(organizationNames)
	}
	if c.CandidatesPerSeat < 2 {
		c.CandidatesPerSeat = 2
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
	return c
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
