package utils

import (
	"bytes"
	"html/template"

	"petshop_back_end/internal/models"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Welcome</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">🐾 Welcome, {{.Name}}!</h2>
		<p>Your account is ready. Dog, cat, bird, fish, reptile and small animal supplies are waiting for you.</p>
		<p style="margin-top: 30px; color: #555;">See you soon,<br><strong>The Pet Shop team</strong></p>
	</div>
</body>
</html>`))

var orderTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Thank you for your order, {{.Name}}</h2>
		<p>Order <strong>{{.OrderID}}</strong> is {{.Status}}.</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Price</th>
				</tr>
			</thead>
			<tbody>
				{{range .Lines}}<tr><td style="padding: 10px; border: 1px solid #ddd;">{{.Name}}</td><td style="padding: 10px; border: 1px solid #ddd;">{{.Price}}</td></tr>
				{{end}}
			</tbody>
			<tfoot>
				<tr><td colspan="2" style="padding: 10px; text-align: right; font-weight: bold;">Total: ${{.Total}}</td></tr>
			</tfoot>
		</table>
		<p style="margin-top: 30px; color: #555;">The Pet Shop team</p>
	</div>
</body>
</html>`))

func RenderWelcomeEmail(user models.User) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, map[string]string{"Name": user.Name}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type orderLine struct {
	Name  string
	Price string
}

// RenderOrderConfirmationEmail lists each ordered product by name. Products
// missing from items, for example deleted since checkout, show their id.
func RenderOrderConfirmationEmail(user models.User, order models.Order, items []models.Product) (string, error) {
	byID := make(map[string]models.Product, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}
	lines := make([]orderLine, 0, len(order.Products))
	for _, id := range order.Products {
		if p, ok := byID[id]; ok {
			lines = append(lines, orderLine{Name: p.Name, Price: "$" + p.Price.StringFixed(2)})
			continue
		}
		lines = append(lines, orderLine{Name: id, Price: "-"})
	}

	var buf bytes.Buffer
	err := orderTemplate.Execute(&buf, map[string]interface{}{
		"Name":    user.Name,
		"OrderID": order.ID,
		"Status":  order.Status,
		"Lines":   lines,
		"Total":   order.TotalAmount.StringFixed(2),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
