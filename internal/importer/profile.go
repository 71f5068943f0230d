package importer

// Profile describes the column layout of a project sheet export.
// Adding a new layout is just adding a new Profile to the profiles
// slice.
type Profile struct {
	Name      string
	NameCol   string
	ClientCol string
	PriceCol  string
	ToolsCol  string
	TeamCol   string
	CaisseCol string
	StatusCol string // optional, projects default to pending without it
}

// requiredCols returns the column names that must be present for this
// profile to match. The status column is optional.
func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.PriceCol, p.ToolsCol, p.TeamCol, p.CaisseCol}
}

// profiles is the ordered list of sheet layouts to try during
// auto-detection. More specific profiles come first.
var profiles = []Profile{
	{
		Name:      "atelier-fr",
		NameCol:   "Projet",
		ClientCol: "Client",
		PriceCol:  "Prix total",
		ToolsCol:  "Outils %",
		TeamCol:   "Équipe %",
		CaisseCol: "Caisse %",
		StatusCol: "Statut paiement",
	},
	{
		Name:      "atelier-en",
		NameCol:   "Project",
		ClientCol: "Client",
		PriceCol:  "Total price",
		ToolsCol:  "Tools %",
		TeamCol:   "Team %",
		CaisseCol: "Caisse %",
		StatusCol: "Payment status",
	},
}
