package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"pastelrecipes/internal/models"
)

// Generator renders printable recipe cards (interface so handlers can be
// tested with a stub).
type Generator interface {
	GenerateCard(recipe *models.Recipe) ([]byte, error)
}

type CardGenerator struct {
	appName string
}

func NewCardGenerator() *CardGenerator {
	return &CardGenerator{appName: "Pastel Recipes"}
}

func (g *CardGenerator) GenerateCard(recipe *models.Recipe) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(recipe.Title, false)
	pdf.SetAuthor(g.appName, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, recipe.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	meta := fmt.Sprintf("%s  |  %s  |  prep %d min  |  cook %d min  |  serves %d",
		recipe.Category, recipe.Difficulty, recipe.PrepTime, recipe.CookTime, recipe.Servings)
	pdf.CellFormat(0, 7, meta, "", 1, "C", false, 0, "")
	g.hr(pdf)

	// Ingredients
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, "Ingredients", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, ing := range recipe.Ingredients {
		pdf.CellFormat(0, 6, "- "+ing, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Instructions
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, "Instructions", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i, step := range recipe.Instructions {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, step), "", "L", false)
		pdf.Ln(1)
	}

	g.hr(pdf)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, g.appName, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render recipe card: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *CardGenerator) hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	x, y := pdf.GetXY()
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(20, y, 190, y)
	pdf.SetXY(x, y+4)
}
