package domain

// Constituency is a parliamentary constituency row.
type Constituency struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StateOrUT string  `json:"stateOrUT"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ConstituencyResult is one candidate's result in a constituency.
type ConstituencyResult struct {
	ConstituencyID    string  `json:"constituencyId"`
	CandidateName     string  `json:"candidateName"`
	PartyName         string  `json:"partyName"`
	EVMVotes          float64 `json:"evmVotes"`
	PostalVotes       float64 `json:"postalVotes"`
	TotalVotes        float64 `json:"totalVotes"`
	PercentageOfVotes float64 `json:"percentageOfVotes"`
}

// PartyVotes is the national vote total of a party.
type PartyVotes struct {
	Party string  `json:"party"`
	Votes float64 `json:"votes"`
}

// PartySeats is the number of constituencies a party won.
type PartySeats struct {
	Party string `json:"party"`
	Seats int    `json:"seats"`
}

// PartyShare is a party's percentage of all votes cast.
type PartyShare struct {
	Party   string  `json:"party"`
	Percent float64 `json:"percent"`
}

// CandidateShare is a candidate's fraction of the votes in their constituency.
type CandidateShare struct {
	Result ConstituencyResult `json:"result"`
	Share  float64            `json:"share"`
}

// ConstituencyDetail bundles everything shown for a selected constituency.
type ConstituencyDetail struct {
	Constituency Constituency     `json:"constituency"`
	Results      []CandidateShare `json:"results"`
	TotalVotes   float64          `json:"totalVotes"`
}
