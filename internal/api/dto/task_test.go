package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateTaskRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTaskRequest
		wantErr string
	}{
		{
			name: "valid refresh",
			req:  CreateTaskRequest{TaskType: "REFRESH_STOCK", Ticker: "tsla"},
		},
		{
			name: "valid daily update without ticker",
			req:  CreateTaskRequest{TaskType: "DAILY_UPDATE_ALL"},
		},
		{
			name:    "unknown task type",
			req:     CreateTaskRequest{TaskType: "MAKE_COFFEE"},
			wantErr: "unknown task type",
		},
		{
			name:    "refresh without ticker",
			req:     CreateTaskRequest{TaskType: "REFRESH_STOCK"},
			wantErr: "requires a ticker",
		},
		{
			name:    "backfill with blank ticker",
			req:     CreateTaskRequest{TaskType: "BACKFILL_STOCK", Ticker: "   "},
			wantErr: "requires a ticker",
		},
		{
			name:    "invalid payload",
			req:     CreateTaskRequest{TaskType: "DAILY_UPDATE_ALL", Payload: json.RawMessage("{oops")},
			wantErr: "payload is not valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateTaskRequestValidateNormalizesTicker(t *testing.T) {
	req := CreateTaskRequest{TaskType: "REFRESH_STOCK", Ticker: " nvda "}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "NVDA", req.Ticker)
}

func TestCreateStockRequestValidate(t *testing.T) {
	req := CreateStockRequest{Ticker: " gme "}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "GME", req.Ticker)

	assert.Error(t, (&CreateStockRequest{}).Validate())
	assert.Error(t, (&CreateStockRequest{Ticker: "WAYTOOLONGTICKER"}).Validate())
}
