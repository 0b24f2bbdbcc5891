// Package renderer renders wallet reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderPortfolio renders the detailed report of one portfolio.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_title":   "portfolio_title.md",
		"portfolio_goals":   "portfolio_goals.md",
		"portfolio_trades":  "portfolio_trades.md",
		"portfolio_history": "portfolio_history.md",
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// RenderPortfolios renders the list of portfolios with the account totals.
func RenderPortfolios(o *Overview) string {
	return renderTemplate("overview", "overview.md", nil, o)
}

// RenderComparison renders the side by side comparison of portfolios.
func RenderComparison(c *Comparison) string {
	return renderTemplate("comparison", "comparison.md", nil, c)
}

// RenderExpenses renders the savings balance and the expenses.
func RenderExpenses(e *Expenses) string {
	return renderTemplate("expenses", "expenses.md", nil, e)
}

// RenderUnrealized renders the mark-to-market estimate of open trades.
func RenderUnrealized(u *Unrealized) string {
	return renderTemplate("unrealized", "unrealized.md", nil, u)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
