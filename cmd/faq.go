package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/pkg/ui"
)

type faqEntry struct {
	Question string
	Answer   string
}

var faqEntries = []faqEntry{
	{
		Question: "What is DATAWORLD?",
		Answer:   "A smart, fast and affordable database for material compliance in additive manufacturing, provided by AM Hub.",
	},
	{
		Question: "Can I request certificates?",
		Answer:   "Yes. Run 'dw request <product>' or press 'r' on a material in the dashboard.",
	},
	{
		Question: "When is a material valid?",
		Answer:   "While today is on or before its valid-until date. Expired materials are hidden unless you pass --all or toggle validity in the dashboard.",
	},
	{
		Question: "Where do my requests go?",
		Answer:   "To the notify_endpoint in your config, or to the local outbox when none is set ('dw outbox').",
	},
}

const contactInfo = "AM Hub · Responsible AM\nEmail: info@amhub.example\nAddress: Via Example 1, 20100, IT"

var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Frequently asked questions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(renderFAQ())
	},
}

func renderFAQ() string {
	var b strings.Builder
	b.WriteString(ui.FormatTitle("FAQ"))
	b.WriteString("\n\n")
	for _, e := range faqEntries {
		b.WriteString(ui.FormatBold(e.Question))
		b.WriteString("\n")
		b.WriteString(e.Answer)
		b.WriteString("\n\n")
	}
	b.WriteString(ui.StyleCard.Render(contactInfo))
	b.WriteString("\n")
	return b.String()
}
