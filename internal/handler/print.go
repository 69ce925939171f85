package handler

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/order"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
  <meta charset="utf-8">
  <title>Stampa Ordine - {{.Customer}}</title>
  <style>
    body { font-family: Arial; padding: 20px; }
    h1 { text-align: center; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    td, th { border: 1px solid #ccc; padding: 8px; }
    th { background: #f4f4f4; }
  </style>
</head>
<body>
  <h1>Ceralandia - Riepilogo Ordine</h1>
  <h2>{{.Customer}}</h2>
  <p><strong>Telefono:</strong> {{.Phone}}</p>
  <p><strong>Operatore:</strong> {{.Operator}}</p>
  <p><strong>Lavoratore:</strong> {{.Worker}}</p>
  <p><strong>Stato:</strong> {{.Status}}</p>
  <p><strong>Data Creazione:</strong> {{.CreatedAt}}</p>
  <p><strong>Consegna prevista:</strong> {{.Delivery}}</p>

  <h3>Prodotti richiesti</h3>
  <table>
    <thead>
      <tr><th>Prodotto</th><th>Quantità</th><th>Note</th></tr>
    </thead>
    <tbody>
    {{- range .Items}}
      <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Note}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  <script>
    window.onload = () => window.print();
  </script>
</body>
</html>
`))

type printView struct {
	Customer  string
	Phone     string
	Operator  string
	Worker    string
	Status    string
	CreatedAt string
	Delivery  string
	Items     []order.LineItem
}

func (h *OrderHandler) toPrintView(o order.Order) printView {
	v := printView{
		Customer:  o.Customer,
		Phone:     o.Phone,
		Operator:  o.Operator,
		Worker:    o.Worker,
		Status:    enum.StatusLabel(o.Status),
		CreatedAt: "-",
		Delivery:  "-",
		Items:     o.Items,
	}
	if !o.CreatedAt.IsZero() {
		v.CreatedAt = o.CreatedAt.In(h.loc).Format("02/01/2006, 15:04:05")
	}
	if o.Delivery != nil {
		v.Delivery = o.Delivery.Format("02/01/2006")
	}
	return v
}

// Print renders a printable summary of one order. The page opens the print
// dialog as soon as it loads.
func (h *OrderHandler) Print(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "order")
	if !ok {
		return
	}
	o, err := h.svc.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeServiceError(w, "print order", err)
		return
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, h.toPrintView(o)); err != nil {
		log.Printf("ERROR: render print view: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
