package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"stroymart/internal/models"
)

const debtReminderTemplate = `Hurmatli mijoz! Sizning {{.Amount}} so'mlik qarzingiz {{.DueDate.Format "02.01.2006"}} muddatga yetdi. Iltimos, to'lovni amalga oshiring.`

type SMSService interface {
	Send(ctx context.Context, phone, message string) error
	RenderDebtReminder(debtor *models.Debtor) (string, error)
}

type smsService struct {
	gatewayURL string
	token      string
	client     *http.Client
	reminder   *template.Template
}

func NewSMSService(gatewayURL, token string) (SMSService, error) {
	reminder, err := template.New("debt_reminder").Parse(debtReminderTemplate)
	if err != nil {
		return nil, err
	}
	return &smsService{
		gatewayURL: gatewayURL,
		token:      token,
		client:     &http.Client{Timeout: 10 * time.Second},
		reminder:   reminder,
	}, nil
}

type smsPayload struct {
	MobilePhone string `json:"mobile_phone"`
	Message     string `json:"message"`
}

func (s *smsService) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(smsPayload{MobilePhone: phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *smsService) RenderDebtReminder(debtor *models.Debtor) (string, error) {
	var buf bytes.Buffer
	if err := s.reminder.Execute(&buf, debtor); err != nil {
		return "", fmt.Errorf("render debt reminder: %w", err)
	}
	return buf.String(), nil
}
