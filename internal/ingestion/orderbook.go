package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/guttosm/tradebook/internal/domain/models"
)

// BrokerError is returned when the broker envelope reports a failed request.
type BrokerError struct {
	Code    string
	Message string
}

func (e *BrokerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("broker rejected order book request: %s", e.Message)
	}
	return fmt.Sprintf("broker rejected order book request (%s): %s", e.Code, e.Message)
}

// LoadOrderBook reads an order book saved from the broker API.
//
// Behavior:
//   - Accepts the full envelope ({"status":..,"data":[..]}) or a bare data array.
//   - An envelope with status false yields a *BrokerError.
//   - A null or missing data array yields an empty order book.
func LoadOrderBook(path string) ([]models.ExecutionRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read order book: %w", err)
	}
	return decodeOrderBook(raw)
}

func decodeOrderBook(raw []byte) ([]models.ExecutionRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []models.ExecutionRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode order book: %w", err)
		}
		return records, nil
	}

	var book models.OrderBook
	if err := json.Unmarshal(trimmed, &book); err != nil {
		return nil, fmt.Errorf("decode order book: %w", err)
	}
	if !book.Status {
		return nil, &BrokerError{Code: book.ErrorCode, Message: book.Message}
	}
	return book.Data, nil
}
