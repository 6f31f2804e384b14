package telemetry

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"tempmonitor/internal/models"
)

var errEmptyPayload = errors.New("empty payload")

// wirePayload is the JSON shape sensors publish. Timestamp is epoch
// milliseconds; either key works for the value.
type wirePayload struct {
	Temperature *float64 `json:"temperature"`
	Value       *float64 `json:"value"`
	Timestamp   *int64   `json:"timestamp"`
}

// parsePayload accepts a JSON object or a bare numeric body. A missing
// timestamp defaults to receive time.
func parsePayload(body []byte) (models.TemperatureSample, error) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return models.TemperatureSample{}, errEmptyPayload
	}

	if strings.HasPrefix(text, "{") {
		var p wirePayload
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return models.TemperatureSample{}, err
		}
		value := p.Temperature
		if value == nil {
			value = p.Value
		}
		if value == nil {
			return models.TemperatureSample{}, errors.New("payload has no temperature field")
		}
		return newSample(*value, p.Timestamp)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return models.TemperatureSample{}, err
	}
	return newSample(value, nil)
}

func newSample(value float64, tsMillis *int64) (models.TemperatureSample, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return models.TemperatureSample{}, errors.New("temperature is not a finite number")
	}
	observedAt := time.Now().UTC()
	if tsMillis != nil {
		observedAt = time.UnixMilli(*tsMillis).UTC()
	}
	return models.TemperatureSample{Value: value, ObservedAt: observedAt}, nil
}
