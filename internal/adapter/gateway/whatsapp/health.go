package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"temple-receipt-service/config"
)

// HealthCheck implements ports.HealthChecker against the chat gateway's
// account resource. A 2xx proves both reachability and valid credentials.
type HealthCheck struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
}

// NewHealthCheck creates a chat-gateway health checker.
func NewHealthCheck(cfg config.WhatsAppConfig) *HealthCheck {
	return &HealthCheck{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Ping fetches the account resource.
func (h *HealthCheck) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s.json",
		strings.TrimRight(h.cfg.APIBaseURL, "/"), h.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(h.cfg.AccountSID, h.cfg.AuthToken)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway status %d", resp.StatusCode)
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "whatsapp-gateway"
}
