package chart

// Flow kinds of aid money relative to an entity.
const (
	FlowReceived = "received"
	FlowDonated  = "donated"
)

// Aid flow colours, the two ends of a three class red-blue scheme.
const (
	ColorReceived = "#ef8a62"
	ColorDonated  = "#67a9cf"
)

// Opacities shared by the adapters.
const (
	OpacityDefault   = 0.7
	OpacityHovered   = 1.0
	OpacityHighlight = 1.0
	OpacityDimmed    = 0.4
	OpacityMapDimmed = 0.2
)

// FlowColor returns the colour for a flow kind, or "" for unknown kinds.
func FlowColor(kind string) string {
	switch kind {
	case FlowReceived:
		return ColorReceived
	case FlowDonated:
		return ColorDonated
	}
	return ""
}

// ColorOtherParty is used for every party outside the colour table.
const ColorOtherParty = "#d9d9d9"

// partyColors assigns commonly associated colours to the largest parties.
var partyColors = map[string]string{
	"Bharatiya Janata Party":                          "#fdb462",
	"Indian National Congress":                        "#80b1d3",
	"Samajwadi Party":                                 "#8dd3c7",
	"All India Trinamool Congress":                    "#bc80bd",
	"Dravida Munnetra Kazhagam":                       "#bebada",
	"Telugu Desam":                                    "#ccebc5",
	"Janata Dal (United)":                             "#ffed6f",
	"Shiv Sena (Uddhav Balasaheb Thackrey)":           "#fccde5",
	"Nationalist Congress Party – Sharadchandra Pawar": "#fb8072",
	"Shiv Sena":                                       "#ffffb3",
	"Lok Janshakti Party(Ram Vilas)":                  "#b3de69",
}

// PartyColor returns the map colour of party.
func PartyColor(party string) string {
	if c, ok := partyColors[party]; ok {
		return c
	}
	return ColorOtherParty
}
