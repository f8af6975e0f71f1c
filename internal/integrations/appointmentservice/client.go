package appointmentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с AppointmentService (владелец записей пациентов)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента AppointmentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBySlotIDs получает записи, которые занимают хотя бы один из слотов
// Любая ошибка (сеть, таймаут, статус, разбор ответа) оборачивается в ErrLookup
func (c *Client) GetBySlotIDs(ctx context.Context, slotIDs []int64) ([]domain.Appointment, error) {
	if len(slotIDs) == 0 {
		return []domain.Appointment{}, nil
	}

	url := fmt.Sprintf("%s/internal/appointments/by-slots", c.baseURL)

	payload, err := json.Marshal(lookupRequest{SlotIDs: slotIDs})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrLookup, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrLookup, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrLookup, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		// Ни один слот не принадлежит записи
		return []domain.Appointment{}, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: %w: status %d: %s", ErrLookup, ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("%w: %w: unexpected status code %d: %s", ErrLookup, ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %w: failed to decode response: %v", ErrLookup, ErrInvalidResponse, err)
	}

	appointments := make([]domain.Appointment, 0, len(parsed.Appointments))
	for _, a := range parsed.Appointments {
		converted, err := a.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLookup, err)
		}
		appointments = append(appointments, converted)
	}

	c.log.Info("AppointmentService: found %d appointments for %d slots", len(appointments), len(slotIDs))
	return appointments, nil
}
