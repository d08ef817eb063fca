package certificate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"temple-receipt-service/config"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// Client implements ports.CertificateService against the external rendering
// service. Render is strictly bounded by the configured timeout and never
// retries: a receipt must not wait on certificate artwork.
type Client struct {
	cfg        config.CertificateConfig
	queue      ports.TaskQueue
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a certificate rendering client.
func NewClient(cfg config.CertificateConfig, queue ports.TaskQueue, log zerolog.Logger) *Client {
	return &Client{
		cfg:   cfg,
		queue: queue,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

type renderRequest struct {
	DonorName   string `json:"donor_name"`
	AmountPs    int64  `json:"amount_ps"`
	ReceiptCode string `json:"receipt_code"`
	Date        string `json:"date"`
	PaymentMode string `json:"payment_mode"`
	OrgName     string `json:"org_name"`
	OrgSubtitle string `json:"org_subtitle"`
	Show80GNote bool   `json:"show_80g_note"`
}

type renderResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// Render requests a certificate synchronously. Failures come back inside the
// result; the caller decides whether to care.
func (c *Client) Render(ctx context.Context, data ports.CertificateData) ports.RenderResult {
	if !c.cfg.Enabled {
		return ports.RenderResult{Err: fmt.Errorf("certificate service disabled")}
	}

	payload, err := json.Marshal(renderRequest{
		DonorName:   data.DonorName,
		AmountPs:    data.AmountPs,
		ReceiptCode: data.ReceiptCode,
		Date:        data.Date,
		PaymentMode: data.PaymentMode,
		OrgName:     data.OrgName,
		OrgSubtitle: data.OrgSubtitle,
		Show80GNote: data.Show80GNote,
	})
	if err != nil {
		return ports.RenderResult{Err: fmt.Errorf("encode render request: %w", err)}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/render"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return ports.RenderResult{Err: fmt.Errorf("create render request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.RenderResult{Err: fmt.Errorf("render certificate: %w", err)}
	}
	defer resp.Body.Close()

	var body renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.RenderResult{Err: fmt.Errorf("decode render response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK || !body.Success {
		return ports.RenderResult{Err: apperror.ErrRenderFailed(fmt.Errorf("status %d: %s", resp.StatusCode, body.Message))}
	}

	return ports.RenderResult{
		Success:     true,
		Filename:    body.Filename,
		DownloadURL: c.DownloadURL(body.Filename),
	}
}

// RenderAsync schedules a render off the caller's critical path. Outcomes
// are logged only.
func (c *Client) RenderAsync(data ports.CertificateData) {
	ok := c.queue.Enqueue("certificate-render", func(ctx context.Context) {
		result := c.Render(ctx, data)
		if result.Err != nil {
			c.log.Warn().
				Err(result.Err).
				Str("receipt_code", data.ReceiptCode).
				Msg("background certificate render failed")
			return
		}
		c.log.Info().
			Str("receipt_code", data.ReceiptCode).
			Str("filename", result.Filename).
			Msg("certificate rendered")
	})
	if !ok {
		c.log.Warn().
			Str("receipt_code", data.ReceiptCode).
			Msg("certificate render dropped, task queue full")
	}
}

// DownloadURL returns the public location of a rendered certificate.
func (c *Client) DownloadURL(filename string) string {
	if filename == "" {
		return ""
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/certificates/" + filename
}

// HealthCheck implements ports.HealthChecker for the rendering service.
type HealthCheck struct {
	cfg        config.CertificateConfig
	httpClient *http.Client
}

// NewHealthCheck creates a rendering-service health checker.
func NewHealthCheck(cfg config.CertificateConfig) *HealthCheck {
	return &HealthCheck{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Ping probes the rendering service.
func (h *HealthCheck) Ping(ctx context.Context) error {
	if !h.cfg.Enabled {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(h.cfg.BaseURL, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("certificate service status %d", resp.StatusCode)
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "certificate-service"
}
