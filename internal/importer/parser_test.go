package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/redixstudio/atelier/internal/importer"
	"github.com/redixstudio/atelier/internal/project"
)

func TestParser_FrenchSheet(t *testing.T) {
	csv := `Feuille des projets - Août 2026
Studio;Redix

Projet;Client;Prix total;Outils %;Équipe %;Caisse %;Statut paiement
Clip événementiel;Société Héra;12 500,00;30;50;20;Payé
Identité visuelle;Atlas Média;8000;25;55;20;Partiel
Shooting produit;;3.250,50;30;50;20;

Total;;23750,50
`

	p := importer.NewParser()
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Clip événementiel", rows[0].Name)
	assert.Equal(t, "Société Héra", rows[0].ClientName)
	assert.InDelta(t, 12500, rows[0].TotalPrice, 0.001)
	assert.InDelta(t, 30, rows[0].Distribution.ToolsAndCharges, 0.001)
	assert.InDelta(t, 50, rows[0].Distribution.TeamShare, 0.001)
	assert.InDelta(t, 20, rows[0].Distribution.RedixCaisse, 0.001)
	assert.Equal(t, project.PaymentDone, rows[0].PaymentStatus)

	assert.Equal(t, project.PaymentPartial, rows[1].PaymentStatus)
	assert.InDelta(t, 8000, rows[1].TotalPrice, 0.001)

	assert.Equal(t, "Shooting produit", rows[2].Name)
	assert.Empty(t, rows[2].ClientName)
	assert.InDelta(t, 3250.50, rows[2].TotalPrice, 0.001)
	assert.Equal(t, project.PaymentPending, rows[2].PaymentStatus)
}

func TestParser_EnglishSheetWithoutStatus(t *testing.T) {
	csv := `Project;Client;Total price;Tools %;Team %;Caisse %
Brand film;Acme;1000;30;50;20
`

	p := importer.NewParser()
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Brand film", rows[0].Name)
	assert.Equal(t, project.PaymentPending, rows[0].PaymentStatus)
}

func TestParser_Windows1252Encoding(t *testing.T) {
	csv := "Projet;Client;Prix total;Outils %;Équipe %;Caisse %;Statut paiement\n" +
		"Clip événementiel;Héra;1000;30;50;20;Payé\n"

	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(csv))
	require.NoError(t, err)

	p := importer.NewParser()
	rows, err := p.Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Clip événementiel", rows[0].Name)
	assert.Equal(t, "Héra", rows[0].ClientName)
}

func TestParser_NoMatchingLayout(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;Transfer;-588,74
`

	p := importer.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParser_BadAmountReportsRow(t *testing.T) {
	csv := `Projet;Client;Prix total;Outils %;Équipe %;Caisse %;Statut paiement
Clip;Héra;not-a-number;30;50;20;
`

	p := importer.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
