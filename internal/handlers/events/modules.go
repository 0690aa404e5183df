// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events contributes the GoHighLevel event catalog as handler
// modules, grouped by domain so wildcard specifiers like "events.*" stay
// meaningful. Every event accepts POST /webhook/<Event> and acknowledges
// with the standard envelope.
package events

import (
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/internal/spam"
)

// Appointments covers the calendar events.
type Appointments struct{ registry.BaseModule }

func NewAppointments() *Appointments { return &Appointments{} }

func (*Appointments) Name() string { return "events.appointments" }

func (*Appointments) Routes() []registry.Route {
	return eventRoutes(
		"AppointmentCreate",
		"AppointmentDelete",
		"AppointmentUpdate",
	)
}

// Contacts covers contact lifecycle plus the notes and tasks that hang off
// a contact record.
type Contacts struct{ registry.BaseModule }

func NewContacts() *Contacts { return &Contacts{} }

func (*Contacts) Name() string { return "events.contacts" }

func (*Contacts) Routes() []registry.Route {
	return eventRoutes(
		"ContactCreate",
		"ContactDelete",
		"ContactDndUpdate",
		"ContactTagUpdate",
		"ContactUpdate",
		"NoteCreate",
		"NoteDelete",
		"NoteUpdate",
		"TaskComplete",
		"TaskCreate",
		"TaskDelete",
	)
}

// Invoices covers the invoicing lifecycle.
type Invoices struct{ registry.BaseModule }

func NewInvoices() *Invoices { return &Invoices{} }

func (*Invoices) Name() string { return "events.invoices" }

func (*Invoices) Routes() []registry.Route {
	return eventRoutes(
		"InvoiceCreate",
		"InvoiceDelete",
		"InvoicePaid",
		"InvoicePartiallyPaid",
		"InvoiceSent",
		"InvoiceUpdate",
		"InvoiceVoid",
	)
}

// Payments covers orders and the product/price catalog behind them.
type Payments struct{ registry.BaseModule }

func NewPayments() *Payments { return &Payments{} }

func (*Payments) Name() string { return "events.payments" }

func (*Payments) Routes() []registry.Route {
	return eventRoutes(
		"OrderCreate",
		"OrderStatusUpdate",
		"PriceCreate",
		"PriceDelete",
		"PriceUpdate",
		"ProductCreate",
		"ProductDelete",
		"ProductUpdate",
	)
}

// Opportunities covers the sales pipeline.
type Opportunities struct{ registry.BaseModule }

func NewOpportunities() *Opportunities { return &Opportunities{} }

func (*Opportunities) Name() string { return "events.opportunities" }

func (*Opportunities) Routes() []registry.Route {
	return eventRoutes(
		"OpportunityAssignedToUpdate",
		"OpportunityCreate",
		"OpportunityDelete",
		"OpportunityMonetaryValueUpdate",
		"OpportunityStageUpdate",
		"OpportunityStatusUpdate",
		"OpportunityUpdate",
	)
}

// Misc collects the platform events that have no richer home: custom
// objects, associations, locations, users and one-off notifications.
type Misc struct{ registry.BaseModule }

func NewMisc() *Misc { return &Misc{} }

func (*Misc) Name() string { return "events.misc" }

func (*Misc) Routes() []registry.Route {
	return eventRoutes(
		"AssociationCreate",
		"AssociationDelete",
		"AssociationUpdate",
		"CampaignStatusUpdate",
		"LocationCreate",
		"LocationUpdate",
		"ObjectCreate",
		"ObjectUpdate",
		"RecordCreate",
		"RecordDelete",
		"RecordUpdate",
		"RelationCreate",
		"RelationDelete",
		"SaasPlanCreate",
		"UserCreate",
		"UserDelete",
		"UserUpdate",
		"VoiceAiCallEnd",
	)
}

// All returns one instance of every event module in registration order.
// guard may be nil when the spam pipeline is disabled.
func All(guard *spam.Guard) []registry.Module {
	return []registry.Module{
		NewAppointments(),
		NewContacts(),
		NewConversations(guard),
		NewInvoices(),
		NewMisc(),
		NewOpportunities(),
		NewPayments(),
	}
}
