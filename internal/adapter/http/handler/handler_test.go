package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"temple-receipt-service/internal/adapter/http/dto"
	"temple-receipt-service/internal/adapter/http/middleware"
	"temple-receipt-service/internal/core/domain"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/internal/core/ports/mocks"
	"temple-receipt-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func validVerifyRequest() dto.PaymentVerifyRequest {
	return dto.PaymentVerifyRequest{
		Category: string(domain.CategoryDonation),
		AmountPs: 110000,
		Contact: dto.ContactRequest{
			Name:  "Ramesh Kumar",
			Phone: "+919876543210",
			Email: "ramesh@example.com",
		},
		PaymentID: "pay_ABC123",
		OrderID:   "order_XYZ789",
		Signature: "deadbeef",
		Donation: &dto.DonationRequest{
			Purpose:     "Annadana Seva",
			Want80GNote: true,
		},
	}
}

func sampleRecord() *domain.Record {
	now := time.Date(2024, 10, 16, 10, 30, 0, 0, time.UTC)
	return &domain.Record{
		ID:          uuid.New(),
		Receipt:     domain.NewReceipt(domain.CategoryDonation, "161024", 7),
		Category:    domain.CategoryDonation,
		AmountPs:    110000,
		PayerName:   "Ramesh Kumar",
		PayerPhone:  "+919876543210",
		PayerEmail:  "ramesh@example.com",
		ServiceName: "Annadana Seva",
		PaymentID:   "pay_ABC123",
		OrderID:     "order_XYZ789",
		Status:      domain.RecordStatusSuccess,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func postJSON(h gin.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

// --- Payment Handler Tests ---

func TestVerifyPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	processor := mocks.NewMockPaymentProcessor(ctrl)
	verifier := mocks.NewMockPaymentVerifier(ctrl)
	h := NewPaymentHandler(processor, verifier, nil, testLogger())

	verifier.EXPECT().Verify("order_XYZ789", "pay_ABC123", "deadbeef").Return(true)
	processor.EXPECT().Process(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, event *domain.PaymentEvent) (*domain.Record, error) {
			assert.Equal(t, domain.CategoryDonation, event.Category)
			assert.Equal(t, int64(110000), event.AmountPs)
			assert.Equal(t, "Ramesh Kumar", event.Contact.Name)
			require.NotNil(t, event.Donation)
			assert.True(t, event.Donation.Want80GNote)
			return sampleRecord(), nil
		})

	w := postJSON(h.VerifyPayment, "/api/v1/payments/verify", validVerifyRequest())

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "DN-161024-0007", data["receipt_code"])
	assert.Equal(t, "SUCCESS", data["status"])
	assert.Equal(t, "Annadana Seva", data["service_name"])
}

func TestVerifyPayment_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	processor := mocks.NewMockPaymentProcessor(ctrl)
	verifier := mocks.NewMockPaymentVerifier(ctrl)
	h := NewPaymentHandler(processor, verifier, nil, testLogger())

	// Empty body => binding error, neither verifier nor processor touched.
	w := postJSON(h.VerifyPayment, "/api/v1/payments/verify", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestVerifyPayment_BadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	processor := mocks.NewMockPaymentProcessor(ctrl)
	verifier := mocks.NewMockPaymentVerifier(ctrl)
	alerts := mocks.NewMockAlertService(ctrl)
	h := NewPaymentHandler(processor, verifier, alerts, testLogger())

	verifier.EXPECT().Verify("order_XYZ789", "pay_ABC123", "deadbeef").Return(false)
	alerts.EXPECT().Raise(gomock.Any(), "Payment signature verification failed", gomock.Any())

	w := postJSON(h.VerifyPayment, "/api/v1/payments/verify", validVerifyRequest())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_001")
}

func TestVerifyPayment_DuplicateReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	processor := mocks.NewMockPaymentProcessor(ctrl)
	verifier := mocks.NewMockPaymentVerifier(ctrl)
	h := NewPaymentHandler(processor, verifier, nil, testLogger())

	verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
	processor.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrDuplicateReceipt())

	w := postJSON(h.VerifyPayment, "/api/v1/payments/verify", validVerifyRequest())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REC_003")
}

// --- Callback Handler Tests ---

func callbackForm() url.Values {
	return url.Values{
		"MessageSid":    {"SM1234567890"},
		"MessageStatus": {"delivered"},
		"To":            {"whatsapp:+919876543210"},
	}
}

func postForm(h gin.HandlerFunc, target string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	h(c)
	return w
}

func TestHandleDeliveryReport_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ingest := mocks.NewMockIngestService(ctrl)
	h := NewCallbackHandler(ingest, nil, "", nil, testLogger())

	ingest.EXPECT().Ingest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, report domain.DeliveryReport) error {
			assert.Equal(t, "SM1234567890", report.ExternalID)
			assert.Equal(t, domain.DeliveryDelivered, report.Status)
			assert.Equal(t, "+919876543210", report.Recipient)
			return nil
		})

	w := postForm(h.HandleDeliveryReport, "/api/v1/callbacks/whatsapp", callbackForm(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleDeliveryReport_IngestFailureStillAcknowledges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ingest := mocks.NewMockIngestService(ctrl)
	h := NewCallbackHandler(ingest, nil, "", nil, testLogger())

	ingest.EXPECT().Ingest(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	w := postForm(h.HandleDeliveryReport, "/api/v1/callbacks/whatsapp", callbackForm(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleDeliveryReport_BadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ingest := mocks.NewMockIngestService(ctrl)
	verifier := mocks.NewMockCallbackVerifier(ctrl)
	alerts := mocks.NewMockAlertService(ctrl)
	h := NewCallbackHandler(ingest, verifier, "https://receipts.example.org/api/v1/callbacks/whatsapp", alerts, testLogger())

	verifier.EXPECT().Verify("https://receipts.example.org/api/v1/callbacks/whatsapp", gomock.Any(), "forged").Return(false)
	alerts.EXPECT().Raise(gomock.Any(), "Delivery callback signature verification failed", gomock.Any())

	w := postForm(h.HandleDeliveryReport, "/api/v1/callbacks/whatsapp", callbackForm(),
		map[string]string{HeaderCallbackSignature: "forged"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_002")
}

func TestHandleDeliveryReport_ValidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ingest := mocks.NewMockIngestService(ctrl)
	verifier := mocks.NewMockCallbackVerifier(ctrl)
	h := NewCallbackHandler(ingest, verifier, "https://receipts.example.org/api/v1/callbacks/whatsapp", nil, testLogger())

	verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "genuine").DoAndReturn(
		func(_ string, params map[string]string, _ string) bool {
			assert.Equal(t, "SM1234567890", params["MessageSid"])
			return true
		})
	ingest.EXPECT().Ingest(gomock.Any(), gomock.Any()).Return(nil)

	w := postForm(h.HandleDeliveryReport, "/api/v1/callbacks/whatsapp", callbackForm(),
		map[string]string{HeaderCallbackSignature: "genuine"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleDeliveryReport_SmsSidFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ingest := mocks.NewMockIngestService(ctrl)
	h := NewCallbackHandler(ingest, nil, "", nil, testLogger())

	form := url.Values{
		"SmsSid":        {"SM_legacy_42"},
		"MessageStatus": {"failed"},
		"ErrorCode":     {"63016"},
		"ErrorMessage":  {"Recipient opted out"},
	}

	ingest.EXPECT().Ingest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, report domain.DeliveryReport) error {
			assert.Equal(t, "SM_legacy_42", report.ExternalID)
			assert.Equal(t, domain.DeliveryFailed, report.Status)
			assert.Equal(t, "63016", report.ErrorCode)
			return nil
		})

	w := postForm(h.HandleDeliveryReport, "/api/v1/callbacks/whatsapp", form, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Record Handler Tests ---

func TestGetRecord_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	rec := sampleRecord()
	recordSvc.EXPECT().GetByReceiptCode(gomock.Any(), "DN-161024-0007").Return(rec, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/records/DN-161024-0007", nil)
	c.Params = gin.Params{{Key: "receiptNumber", Value: "DN-161024-0007"}}

	h.GetRecord(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "DN-161024-0007", data["receipt_code"])
	assert.Equal(t, float64(110000), data["amount_ps"])
}

func TestGetRecord_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	recordSvc.EXPECT().GetByReceiptCode(gomock.Any(), "DN-161024-9999").Return(nil, apperror.ErrRecordNotFound())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/records/DN-161024-9999", nil)
	c.Params = gin.Params{{Key: "receiptNumber", Value: "DN-161024-9999"}}

	h.GetRecord(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "REC_001")
}

func TestGetRecord_MalformedCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no GetByReceiptCode expectation: a malformed code never reaches storage
	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	for _, bad := range []string{"not-a-receipt", "XX-161024-0007", "DN-161024-7"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/records/"+bad, nil)
		c.Params = gin.Params{{Key: "receiptNumber", Value: bad}}

		h.GetRecord(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Contains(t, w.Body.String(), "VAL_001", bad)
	}
}

func TestListRecords_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	recordSvc.EXPECT().List(gomock.Any(), ports.RecordListParams{Page: 1, PageSize: 20}).
		Return([]domain.Record{*sampleRecord()}, int64(41), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/records", nil)

	h.ListRecords(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(41), data["total"])
	assert.Equal(t, float64(3), data["total_pages"])
	assert.Len(t, data["items"], 1)
}

func TestListRecords_WithFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	recordSvc.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.RecordListParams) ([]domain.Record, int64, error) {
			require.NotNil(t, params.Category)
			assert.Equal(t, domain.CategoryPoojaBooking, *params.Category)
			require.NotNil(t, params.Status)
			assert.Equal(t, domain.RecordStatusPending, *params.Status)
			assert.Equal(t, 2, params.Page)
			assert.Equal(t, 50, params.PageSize)
			return nil, 0, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/api/v1/admin/records?category=pooja_booking&status=pending&page=2&page_size=50", nil)

	h.ListRecords(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListRecords_UnknownCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/records?category=lottery", nil)

	h.ListRecords(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestOverrideStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	updated := sampleRecord()
	updated.Status = domain.RecordStatusCompleted
	recordSvc.EXPECT().
		OverrideStatus(gomock.Any(), "office-admin", "DN-161024-0007", domain.RecordStatusCompleted, "pooja performed").
		Return(updated, nil)

	body, _ := json.Marshal(dto.StatusOverrideRequest{Status: "completed", Reason: "pooja performed"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/v1/admin/records/DN-161024-0007/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "receiptNumber", Value: "DN-161024-0007"}}
	c.Set(middleware.CtxActor, "office-admin")

	h.OverrideStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "COMPLETED", data["status"])
}

func TestOverrideStatus_InvalidTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	recordSvc.EXPECT().
		OverrideStatus(gomock.Any(), "office-admin", "DN-161024-0007", domain.RecordStatusSuccess, "undo cancellation").
		Return(nil, apperror.ErrInvalidTransition("CANCELLED", "SUCCESS"))

	body, _ := json.Marshal(dto.StatusOverrideRequest{Status: "SUCCESS", Reason: "undo cancellation"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/v1/admin/records/DN-161024-0007/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "receiptNumber", Value: "DN-161024-0007"}}
	c.Set(middleware.CtxActor, "office-admin")

	h.OverrideStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REC_002")
}

func TestOverrideStatus_MissingActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recordSvc := mocks.NewMockRecordService(ctrl)
	h := NewRecordHandler(recordSvc)

	body, _ := json.Marshal(dto.StatusOverrideRequest{Status: "COMPLETED", Reason: "done"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/v1/admin/records/DN-161024-0007/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "receiptNumber", Value: "DN-161024-0007"}}

	h.OverrideStatus(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Health & Status Handler Tests ---

func TestHealthCheck_AllHealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	pg.EXPECT().Name().Return("postgresql")

	rd := mocks.NewMockHealthChecker(ctrl)
	rd.EXPECT().Ping(gomock.Any()).Return(nil)
	rd.EXPECT().Name().Return("redis")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(pg, rd)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	pg.EXPECT().Name().Return("postgresql")

	rd := mocks.NewMockHealthChecker(ctrl)
	rd.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	rd.EXPECT().Name().Return("redis")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(pg, rd)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestGetStatus_Always200(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().Snapshot().Return(ports.MetricsSnapshot{Sent: 12, Delivered: 10, Failed: 2})

	gw := mocks.NewMockHealthChecker(ctrl)
	gw.EXPECT().Ping(gomock.Any()).Return(errors.New("timeout"))
	gw.EXPECT().Name().Return("whatsapp-gateway")

	h := NewStatusHandler(metrics, []ports.HealthChecker{gw})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)

	h.GetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	delivery := data["delivery"].(map[string]interface{})
	assert.Equal(t, float64(12), delivery["sent"])
	reachable := data["reachable"].(map[string]interface{})
	assert.Equal(t, false, reachable["whatsapp-gateway"])
}

// --- Router Tests ---

func TestSetupRouter_RoutesRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().Snapshot().Return(ports.MetricsSnapshot{}).AnyTimes()

	router := SetupRouter(RouterDeps{
		Processor:       mocks.NewMockPaymentProcessor(ctrl),
		PaymentVerifier: mocks.NewMockPaymentVerifier(ctrl),
		IngestSvc:       mocks.NewMockIngestService(ctrl),
		RecordSvc:       mocks.NewMockRecordService(ctrl),
		TokenSvc:        mocks.NewMockTokenService(ctrl),
		Metrics:         metrics,
		Logger:          testLogger(),
	})

	// Status endpoint is public and always answers.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Admin routes require a token.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/records", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
