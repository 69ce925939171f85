package service

import (
	"fmt"

	"github.com/ceralandia/api/internal/database"
	"github.com/ceralandia/api/internal/order"
	"github.com/jackc/pgx/v5/pgtype"
)

func fromRow(row database.Order) order.Order {
	o := order.Order{
		ID:        row.ID,
		Customer:  row.Cliente,
		Phone:     row.Telefono,
		Operator:  row.Operatore.String,
		Worker:    row.Lavoratore.String,
		Status:    row.Stato,
		CreatedAt: row.CreatedAt,
		Items:     order.ParseLineItems(row.Prodotti),
	}
	if row.Consegna.Valid {
		d := row.Consegna.Time
		o.Delivery = &d
	}
	return o
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func dateParam(o order.Order) pgtype.Date {
	if o.Delivery == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *o.Delivery, Valid: true}
}

func createParams(o order.Order) (database.CreateOrderParams, error) {
	items, err := order.MarshalLineItems(o.Items)
	if err != nil {
		return database.CreateOrderParams{}, fmt.Errorf("encode products: %w", err)
	}
	return database.CreateOrderParams{
		Cliente:    o.Customer,
		Telefono:   o.Phone,
		Operatore:  optionalText(o.Operator),
		Lavoratore: optionalText(o.Worker),
		Stato:      o.Status,
		Consegna:   dateParam(o),
		Prodotti:   items,
	}, nil
}

func updateParams(o order.Order) (database.UpdateOrderParams, error) {
	items, err := order.MarshalLineItems(o.Items)
	if err != nil {
		return database.UpdateOrderParams{}, fmt.Errorf("encode products: %w", err)
	}
	return database.UpdateOrderParams{
		ID:         o.ID,
		Cliente:    o.Customer,
		Telefono:   o.Phone,
		Operatore:  optionalText(o.Operator),
		Lavoratore: optionalText(o.Worker),
		Stato:      o.Status,
		Consegna:   dateParam(o),
		Prodotti:   items,
	}, nil
}
