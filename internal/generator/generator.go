package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/vanshika/vizdash/internal/domain"
)

// Dataset contains every generated file in typed form.
type Dataset struct {
	Countries       []Region
	Transactions    []domain.AidTransaction
	ConstituencyGeo []Region
	Constituencies  []domain.Constituency
	Results         []domain.ConstituencyResult
}

// Region is a rectangular map feature in lon/lat degrees.
type Region struct {
	Properties map[string]any
	West       float64
	South      float64
	East       float64
	North      float64
}

// Ring returns the closed outer ring, counter-clockwise from the south-west.
func (r Region) Ring() [][]float64 {
	return [][]float64{
		{r.West, r.South}, {r.East, r.South}, {r.East, r.North}, {r.West, r.North}, {r.West, r.South},
	}
}

// Generator produces synthetic dashboard data.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{cfg: cfg, rand: rand.New(rand.NewSource(cfg.Seed))}
}

// Config returns the effective configuration after defaults were applied.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate synthesises both dashboards' data. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	var ds Dataset

	ds.Countries = g.countries()
	txs, err := g.transactions(ctx)
	if err != nil {
		return Dataset{}, err
	}
	ds.Transactions = txs

	ds.ConstituencyGeo, ds.Constituencies = g.constituencies()
	if ds.Results, err = g.results(ctx, ds.Constituencies); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func (g *Generator) countries() []Region {
	out := make([]Region, g.cfg.Countries)
	for i := range out {
		west := -170 + float64(i%10)*34
		south := -50 + float64(i/10)*34
		out[i] = Region{
			Properties: map[string]any{"name": countryNames[i]},
			West:       west,
			South:      south,
			East:       west + 20,
			North:      south + 20,
		}
	}
	return out
}

func (g *Generator) transactions(ctx context.Context) ([]domain.AidTransaction, error) {
	countries := countryNames[:g.cfg.Countries]
	donors := append(append([]string(nil), countries...), organizationNames[:g.cfg.Organizations]...)
	years := g.cfg.EndYear - g.cfg.StartYear + 1

	out := make([]domain.AidTransaction, 0, g.cfg.Transactions)
	for i := 0; i < g.cfg.Transactions; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		donor := donors[g.rand.Intn(len(donors))]
		recipient := countries[g.rand.Intn(len(countries))]
		for recipient == donor && len(countries) > 1 {
			recipient = countries[g.rand.Intn(len(countries))]
		}

		year := g.cfg.StartYear + g.rand.Intn(years)
		if g.rand.Float64() < g.cfg.SentinelShare {
			year = domain.SentinelPeriod
		}

		amount := decimal.NewFromFloat(1e5 * math.Exp(g.rand.Float64()*8)).Round(2)
		out = append(out, domain.AidTransaction{
			Donor:     donor,
			Recipient: recipient,
			Year:      year,
			Amount:    amount.InexactFloat64(),
		})
	}
	return out, nil
}

func (g *Generator) constituencies() ([]Region, []domain.Constituency) {
	var (
		geo   []Region
		table []domain.Constituency
	)
	side := int(math.Ceil(math.Sqrt(float64(g.cfg.SeatsPerState))))
	cell := 6.0 / float64(side)

	addState := func(block int, code string, seats int) {
		west := 68 + float64(block%4)*7
		south := 8 + float64(block/4)*7
		for n := 1; n <= seats; n++ {
			w := west + float64((n-1)%side)*cell
			s := south + float64((n-1)/side)*cell
			pc := fmt.Sprintf("%02d", n)
			id := code + pc
			geo = append(geo, Region{
				Properties: map[string]any{"ST_CODE": code, "PC_No": pc, "PC_NAME": id},
				West:       w,
				South:      s,
				East:       w + cell,
				North:      s + cell,
			})
			table = append(table, domain.Constituency{
				ID:        id,
				Name:      fmt.Sprintf("Constituency %s", id),
				StateOrUT: code,
				Latitude:  s + cell/2,
				Longitude: w + cell/2,
			})
		}
	}

	block := 0
	for i := 1; i <= g.cfg.States; i++ {
		addState(block, fmt.Sprintf("S%02d", i), g.cfg.SeatsPerState)
		block++
	}
	for i := 1; i <= g.cfg.UnionTerritories; i++ {
		addState(block, fmt.Sprintf("U%02d", i), 1)
		block++
	}
	return geo, table
}

func (g *Generator) results(ctx context.Context, seats []domain.Constituency) ([]domain.ConstituencyResult, error) {
	k := min(g.cfg.CandidatesPerSeat, len(partyNames))
	out := make([]domain.ConstituencyResult, 0, len(seats)*k)

	for _, seat := range seats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parties := g.rand.Perm(len(partyNames))[:k]

		rows := make([]domain.ConstituencyResult, k)
		var total float64
		for j, p := range parties {
			evm := float64(g.rand.Intn(g.cfg.MaxVotesPerSeat/k + 1))
			postal := math.Round(evm * g.cfg.PostalVoteFraction * g.rand.Float64())
			rows[j] = domain.ConstituencyResult{
				ConstituencyID: seat.ID,
				CandidateName:  fmt.Sprintf("Candidate %s-%d", seat.ID, j+1),
				PartyName:      partyNames[p],
				EVMVotes:       evm,
				PostalVotes:    postal,
				TotalVotes:     evm + postal,
			}
			total += evm + postal
		}
		for j := range rows {
			if total > 0 {
				pct := decimal.NewFromFloat(rows[j].TotalVotes / total * 100).Round(2)
				rows[j].PercentageOfVotes = pct.InexactFloat64()
			}
		}
		out = append(out, rows...)
	}
	return out, nil
}

var countryNames = []string{
	"India", "Japan", "Brazil", "Germany", "France", "Kenya", "Nigeria", "Egypt",
	"Mexico", "Canada", "Chile", "Peru", "Thailand", "Vietnam", "Indonesia", "Pakistan",
	"Bangladesh", "Nepal", "Ghana", "Ethiopia", "Morocco", "Colombia", "Argentina", "Turkey",
	"Italy", "Spain", "Norway", "Sweden", "Australia", "Philippines",
}

var organizationNames = []string{
	"World Bank", "Asian Development Bank", "International Monetary Fund",
	"African Development Bank", "United Nations Development Programme",
	"Inter-American Development Bank", "Global Fund",
}

var partyNames = []string{
	"Bharatiya Janata Party",
	"Indian National Congress",
	"Samajwadi Party",
	"All India Trinamool Congress",
	"Dravida Munnetra Kazhagam",
	"Telugu Desam",
	"Janata Dal (United)",
	"Shiv Sena (Uddhav Balasaheb Thackrey)",
	"Nationalist Congress Party – Sharadchandra Pawar",
	"Shiv Sena",
	"Lok Janshakti Party(Ram Vilas)",
	"Bahujan Samaj Party",
	"Independent",
}
