package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/analytics"
)

func decodeProductRequest(t *testing.T, body string) ProductRequest {
	t.Helper()
	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestSalesHistoryInput_Forms(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		present bool
		form    SalesHistoryForm
		want    analytics.SalesHistory
		wantErr bool
	}{
		{"absent", `{}`, false, SalesHistoryAbsent, analytics.SalesHistory{}, false},
		{"null", `{"sales_history": null}`, true, SalesHistoryAbsent, analytics.SalesHistory{}, false},
		{"number", `{"sales_history": 12}`, true, SalesHistoryAbsent, analytics.SalesHistory{}, false},
		{"text", `{"sales_history": "5, 7,x,-3,9"}`, true, SalesHistoryText, analytics.SalesHistory{5, 7, 9}, false},
		{"sequence", `{"sales_history": [5, 7, 9]}`, true, SalesHistorySequence, analytics.SalesHistory{5, 7, 9}, false},
		{"invalid sequence", `{"sales_history": [5, 7, -3, 9]}`, true, SalesHistorySequence, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeProductRequest(t, tt.body)
			assert.Equal(t, tt.present, req.SalesHistory.Present)
			assert.Equal(t, tt.form, req.SalesHistory.Form)

			got, err := req.SalesHistory.Resolve()
			if tt.wantErr {
				assert.ErrorIs(t, err, analytics.ErrInvalidSalesHistory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawField_Presence(t *testing.T) {
	req := decodeProductRequest(t, `{"name": "Bread", "quantity": null}`)

	assert.True(t, req.Name.Present)
	assert.Equal(t, "Bread", req.Name.Value)
	assert.True(t, req.Quantity.Present)
	assert.Nil(t, req.Quantity.Value)
	assert.False(t, req.LeadTime.Present)
	assert.False(t, req.ServiceLevel.Present)
}

func TestProductView_JSON(t *testing.T) {
	name := "Acme Ltd"
	view := ProductView{
		Product:        Product{ID: "p1", Name: "Bread", ServiceLevel: 7, SalesHistory: analytics.SalesHistory{}},
		SupplierName:   &name,
		AvgDailyDemand: 10,
		ReorderPoint:   20,
		ServiceLevel:   0.95,
		StockStatus:    analytics.StockReorder,
	}

	data, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 0.95, decoded["service_level"])
	assert.Equal(t, 20.0, decoded["reorder_point"])
	assert.Equal(t, "reorder", decoded["stock_status"])
	assert.Equal(t, "Acme Ltd", decoded["supplierName"])
	assert.Equal(t, []interface{}{}, decoded["sales_history"])
}

func TestProductUpdate_Empty(t *testing.T) {
	assert.True(t, ProductUpdate{}.Empty())
	assert.False(t, ProductUpdate{SalesHistory: analytics.SalesHistory{}}.Empty())
}
