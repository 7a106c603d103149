package reminder

import (
	"fmt"
	"strings"

	"github.com/arleipolo/storefront-backend/internal/cart"
)

// Message is the composed reminder content.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Subject line for cart reminders.
const subject = "You have items waiting in your cart!"

// Compose builds the reminder email from a cart snapshot. Line items render
// in the order given; output is deterministic for identical input.
func Compose(items []cart.LineItem, recipientName, cartURL string) Message {
	total := cart.Total(items)

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", recipientName)
	text.WriteString("We noticed you left some products in your cart:\n\n")
	for _, item := range items {
		fmt.Fprintf(&text, "- %s (x%d): $%s\n", item.Name, item.Quantity, item.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&text, "\nTotal: $%s\n\n", total.StringFixed(2))
	text.WriteString("Don't miss the chance to complete your purchase!\n")
	fmt.Fprintf(&text, "Visit: %s\n", cartURL)

	var rows strings.Builder
	for _, item := range items {
		fmt.Fprintf(&rows, `<tr>
<td style="padding:10px;border-bottom:1px solid #eee;"><img src="%s" alt="%s" style="width:60px;height:60px;object-fit:cover;border-radius:4px;"></td>
<td style="padding:10px;border-bottom:1px solid #eee;">%s</td>
<td style="padding:10px;border-bottom:1px solid #eee;text-align:center;">%d</td>
<td style="padding:10px;border-bottom:1px solid #eee;text-align:right;">$%s</td>
</tr>
`, escape(item.ImageURL), escape(item.Name), escape(item.Name), item.Quantity, item.Subtotal().StringFixed(2))
	}

	html := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
<div style="background:#0ea5e9;padding:30px;border-radius:8px 8px 0 0;text-align:center;">
<h1 style="color:white;margin:0;">Don't forget your cart!</h1>
</div>
<div style="background:#f9fafb;padding:30px;border-radius:0 0 8px 8px;">
<p style="font-size:16px;color:#374151;">Hi <strong>%s</strong>,</p>
<p style="font-size:14px;color:#6b7280;">We noticed you left some products in your cart. Don't miss the chance to complete your purchase!</p>
<div style="background:white;padding:20px;border-radius:8px;margin:20px 0;">
<h2 style="color:#0ea5e9;margin-top:0;">Your Cart:</h2>
<table style="width:100%%;border-collapse:collapse;">
<tbody>
%s</tbody>
<tfoot>
<tr>
<td colspan="3" style="padding:15px 10px;text-align:right;font-weight:bold;font-size:18px;">Total:</td>
<td style="padding:15px 10px;text-align:right;font-weight:bold;font-size:18px;color:#0ea5e9;">$%s</td>
</tr>
</tfoot>
</table>
</div>
<div style="text-align:center;margin-top:30px;">
<a href="%s" style="display:inline-block;background:#0ea5e9;color:white;padding:15px 40px;text-decoration:none;border-radius:8px;font-weight:bold;">Complete my purchase</a>
</div>
<p style="font-size:12px;color:#9ca3af;text-align:center;margin-top:30px;">This is an automatic reminder because you have products in your cart.<br>If you already completed your purchase, you can ignore this message.</p>
</div>
</div>`, escape(recipientName), rows.String(), total.StringFixed(2), cartURL)

	return Message{Subject: subject, Text: text.String(), HTML: html}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
