package models

import (
	"bytes"
	"encoding/json"

	"inventory/analytics"
)

// RawField captures a loosely typed JSON value and whether the key was present at
// all, so that `"quantity": null` can be told apart from a missing key.
type RawField struct {
	Present bool
	Value   interface{}
}

func (f *RawField) UnmarshalJSON(data []byte) error {
	f.Present = true
	return json.Unmarshal(data, &f.Value)
}

// SalesHistoryForm tags the shape sales history arrived in.
type SalesHistoryForm int

const (
	SalesHistoryAbsent SalesHistoryForm = iota
	SalesHistoryText
	SalesHistorySequence
)

// SalesHistoryInput is the sales_history request field: either free text
// ("5, 7, 9") or a JSON array. Any other JSON type counts as absent.
type SalesHistoryInput struct {
	Present bool
	Form    SalesHistoryForm
	Text    string
	Items   []interface{}
}

func (h *SalesHistoryInput) UnmarshalJSON(data []byte) error {
	h.Present = true
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		h.Form = SalesHistoryText
		return json.Unmarshal(trimmed, &h.Text)
	case '[':
		h.Form = SalesHistorySequence
		return json.Unmarshal(trimmed, &h.Items)
	default:
		h.Form = SalesHistoryAbsent
		return nil
	}
}

// Resolve parses the history: text is filtered leniently, sequences are validated
// strictly (see analytics.ParseHistoryText and analytics.ValidateHistorySequence).
func (h SalesHistoryInput) Resolve() (analytics.SalesHistory, error) {
	switch h.Form {
	case SalesHistoryText:
		return analytics.ParseHistoryText(h.Text), nil
	case SalesHistorySequence:
		return analytics.ValidateHistorySequence(h.Items)
	default:
		return analytics.SalesHistory{}, nil
	}
}

// ProductRequest is the body of product create and update requests.
type ProductRequest struct {
	Name         RawField          `json:"name"`
	Quantity     RawField          `json:"quantity"`
	LeadTime     RawField          `json:"lead_time"`
	ServiceLevel RawField          `json:"service_level"`
	SalesHistory SalesHistoryInput `json:"sales_history"`
}

// InsightResponse is the advisor's explanation of a product's recommendation.
type InsightResponse struct {
	ProductID string `json:"productId"`
	Analysis  string `json:"analysis"`
}

// DashboardSummary aggregates the numbers shown on the staff dashboard.
type DashboardSummary struct {
	Products      int           `json:"products"`
	PendingOrders int           `json:"pendingOrders"`
	Suppliers     int           `json:"suppliers"`
	RecentOrders  []OrderView   `json:"recentOrders"`
	LowStock      []ProductView `json:"lowStock"`
}
