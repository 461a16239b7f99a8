package domain

// SentinelPeriod marks aid records whose year is unknown upstream.
const SentinelPeriod = 9999

// AidTransaction is one commitment from a donor to a recipient in a given year.
type AidTransaction struct {
	Donor     string  `json:"donor"`
	Recipient string  `json:"recipient"`
	Year      int     `json:"year"`
	Amount    float64 `json:"amount"`
}

// ValidPeriod reports whether the record carries a usable year.
func (t AidTransaction) ValidPeriod() bool {
	return t.Year != SentinelPeriod
}

// EntityAggregate summarises every transaction an entity took part in.
type EntityAggregate struct {
	Name          string           `json:"name"`
	TotalDonated  float64          `json:"totalDonated"`
	TotalReceived float64          `json:"totalReceived"`
	Transactions  []AidTransaction `json:"-"`
}

// Total returns donated plus received volume.
func (a *EntityAggregate) Total() float64 {
	return a.TotalDonated + a.TotalReceived
}

// PeriodAggregate is the summed amount for one year.
type PeriodAggregate struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// CounterpartTotal is the money exchanged between a focal entity and one other party.
type CounterpartTotal struct {
	Entity   string  `json:"entity"`
	Received float64 `json:"received"`
	Donated  float64 `json:"donated"`
}

// Total returns the combined exchanged volume.
func (c CounterpartTotal) Total() float64 {
	return c.Received + c.Donated
}

// EntitySeries holds the per-year donated and received totals of one entity.
type EntitySeries struct {
	Entity   string            `json:"entity"`
	Donated  []PeriodAggregate `json:"donated"`
	Received []PeriodAggregate `json:"received"`
}
