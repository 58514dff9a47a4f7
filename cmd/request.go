package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/adapters/notifier"
	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/ui"
)

var (
	submitEmail   string
	submitName    string
	submitMessage string
	submitCopy    bool
)

var requestCmd = &cobra.Command{
	Use:   "request [product]",
	Short: "Request a certificate for a material",
	Long: `Send a certification request for a material to AM Hub.

Without a product a fuzzy finder opens. The message defaults to a
standard request. Delivery goes to notify_endpoint when configured,
otherwise to the local outbox (see 'dw outbox').

Examples:
  dw request "Quantum Carbon" --email you@example.com
  dw request tpu --email you@example.com --message "Need it for a tender"`,
	RunE: runRequest,
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to AM Hub",
	Long: `Send a free-form contact message.

Example:
  dw contact --name Ada --email ada@example.com --message "Can you add PEEK?"`,
	RunE: runContact,
}

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "List submissions stored in the local outbox",
	RunE:  runOutbox,
}

func init() {
	for _, c := range []*cobra.Command{requestCmd, contactCmd} {
		c.Flags().StringVarP(&submitEmail, "email", "e", "", "Your email (default from config requester_email)")
		c.Flags().StringVarP(&submitName, "name", "n", "", "Your name (default from config requester_name)")
		c.Flags().StringVarP(&submitMessage, "message", "m", "", "Message text")
		c.Flags().BoolVarP(&submitCopy, "copy", "c", false, "Copy the composed message to the clipboard")
	}
}

func runRequest(cmd *cobra.Command, args []string) error {
	cat, err := requireCatalog()
	if err != nil {
		return err
	}

	var product string
	if len(args) == 0 {
		m, ok := pickMaterial(cat.Materials())
		if !ok {
			return nil
		}
		product = m.Product
	} else {
		m, ok, err := resolveMaterial(cat, strings.Join(args, " "))
		if err != nil || !ok {
			return err
		}
		product = m.Product
	}

	return submit(domain.Submission{
		Kind:    domain.KindCertificationRequest,
		Product: product,
		Message: submitMessage,
	})
}

func runContact(cmd *cobra.Command, args []string) error {
	return submit(domain.Submission{
		Kind:    domain.KindContact,
		Message: submitMessage,
	})
}

// submit fills the requester from flags or config, hands the submission to
// the request service and waits for the delivery result
func submit(sub domain.Submission) error {
	sub.RequesterEmail = firstNonEmpty(submitEmail, appConfig.RequesterEmail)
	sub.RequesterName = firstNonEmpty(submitName, appConfig.RequesterName)

	ctx := getContext()
	prepared, err := requestService.Prepare(sub)
	if err != nil {
		fmt.Println(ui.FormatError("Invalid submission: " + err.Error()))
		return err
	}

	if submitCopy {
		text := prepared.Subject() + "\n\n" + prepared.Message + "\n"
		if err := clipboard.WriteAll(text); err != nil {
			fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Message copied to clipboard"))
		}
	}

	results, err := requestService.Submit(ctx, prepared)
	if err != nil {
		fmt.Println(ui.FormatError("Invalid submission: " + err.Error()))
		return err
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("%s Sending via %s...", ui.IconMail, requestService.Channel())))
	res := <-results
	return reportSubmission(res)
}

func reportSubmission(res services.SubmitResult) error {
	if res.Err != nil {
		var te *domain.TransportError
		if errors.As(res.Err, &te) {
			fmt.Println(ui.FormatError("Delivery failed: " + te.Error()))
			fmt.Println(ui.FormatInfo("The catalog is unaffected; try again later"))
		} else {
			fmt.Println(ui.FormatError("Delivery failed: " + res.Err.Error()))
		}
		return res.Err
	}

	fmt.Println(ui.FormatSuccess(res.Submission.Subject()))
	fmt.Println(ui.RenderKeyValue("ID", res.Submission.ID))
	fmt.Println(ui.RenderKeyValue("Channel", res.Channel))
	return nil
}

func runOutbox(cmd *cobra.Command, args []string) error {
	path := appVault.OutboxFile()
	subs, err := notifier.ReadOutbox(path)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println(ui.FormatWarning("Outbox is empty"))
		fmt.Println(ui.FormatMuted("Location: " + path))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%s Outbox (%d)", ui.IconMail, len(subs))))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Created", Width: 16},
		{Header: "Kind"},
		{Header: "Product", MaxWidth: 30},
		{Header: "From", MaxWidth: 30},
		{Header: "Message", MaxWidth: 40},
	})
	for _, s := range subs {
		table.AddRow([]string{
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(s.Kind),
			s.Product,
			s.RequesterEmail,
			strings.ReplaceAll(s.Message, "\n", " "),
		})
	}
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted("Location: " + path))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
