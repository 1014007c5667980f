package httpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/configloader"
	"inft_dashboard/internal/infrastructure/metrics"
)

// ErrPublisherInsufficientBalance is returned when the publisher wallet cannot pay for storage.
// Retrying does not help, so the upload fails immediately.
var ErrPublisherInsufficientBalance = errors.New("publisher wallet has insufficient SUI balance")

const insufficientBalanceMarker = "could not find SUI coins with sufficient balance"

// WalrusClient implements port.BlobStore against a Walrus publisher/aggregator pair.
type WalrusClient struct {
	client        *fasthttp.Client
	publisherURL  string
	aggregatorURL string
	epochs        int
	maxAttempts   int
	backoff       time.Duration
	timeout       time.Duration
	logger        port.Logger
}

var _ port.BlobStore = (*WalrusClient)(nil)

// NewWalrusClient creates a Walrus client from config.
func NewWalrusClient(cfg configloader.WalrusConfig, logger port.Logger) *WalrusClient {
	return &WalrusClient{
		client:        &fasthttp.Client{Name: "inft_dashboard", MaxResponseBodySize: 4 << 20},
		publisherURL:  strings.TrimRight(cfg.PublisherURL, "/"),
		aggregatorURL: strings.TrimRight(cfg.AggregatorURL, "/"),
		epochs:        cfg.Epochs,
		maxAttempts:   max(cfg.MaxAttempts, 1),
		backoff:       time.Duration(cfg.RetryBackoffMillis) * time.Millisecond,
		timeout:       time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		logger:        logger,
	}
}

// storeResponse is the publisher's answer. Exactly one branch is set.
type storeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			BlobID string `json:"blobId"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
	} `json:"alreadyCertified"`
}

func (r storeResponse) blobID() string {
	if r.NewlyCreated != nil && r.NewlyCreated.BlobObject.BlobID != "" {
		return r.NewlyCreated.BlobObject.BlobID
	}
	if r.AlreadyCertified != nil {
		return r.AlreadyCertified.BlobID
	}
	return ""
}

// PutBlob implements port.BlobStore. Failed attempts are retried with a
// linear backoff (backoff * attempt) except for publisher balance errors.
func (c *WalrusClient) PutBlob(ctx context.Context, upload entity.BlobUpload) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/blobs?epochs=%d", c.publisherURL, c.epochs)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.logger.Debug("Uploading blob", "endpoint", endpoint, "attempt", attempt, "size", len(upload.Data))
		blobID, err := c.putOnce(ctx, endpoint, upload)
		if err == nil {
			metrics.BlobUploads.WithLabelValues("ok").Inc()
			c.logger.Info("Uploaded blob", "blob_id", blobID, "attempt", attempt)
			return blobID, nil
		}
		if errors.Is(err, ErrPublisherInsufficientBalance) {
			metrics.BlobUploads.WithLabelValues("insufficient_balance").Inc()
			return "", err
		}
		lastErr = err
		c.logger.Warn("Blob upload attempt failed", "attempt", attempt, "error", err)

		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			metrics.BlobUploads.WithLabelValues("canceled").Inc()
			return "", fmt.Errorf("blob upload canceled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}

	metrics.BlobUploads.WithLabelValues("failed").Inc()
	return "", fmt.Errorf("failed to upload blob after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *WalrusClient) putOnce(ctx context.Context, endpoint string, upload entity.BlobUpload) (string, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPut)
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.SetContentType(contentType)
	req.Header.Set("Accept", "application/json")
	if upload.SuiAddress != "" {
		req.Header.Set("X-Sui-Address", upload.SuiAddress)
	}
	if upload.SuiNetwork != "" {
		req.Header.Set("X-Sui-Network", upload.SuiNetwork)
	}
	req.SetBody(upload.Data)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := do(ctx, c.client, req, resp, c.timeout); err != nil {
		return "", err
	}
	if !isSuccess(resp.StatusCode()) {
		if strings.Contains(string(resp.Body()), insufficientBalanceMarker) {
			return "", ErrPublisherInsufficientBalance
		}
		return "", statusError("walrus publisher", resp)
	}

	var parsed storeResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal publisher response: %w", err)
	}
	blobID := parsed.blobID()
	if blobID == "" {
		return "", fmt.Errorf("invalid publisher response: no blobId in newlyCreated or alreadyCertified")
	}
	return c.CleanBlobID(blobID), nil
}

// BlobURL implements port.BlobStore.
func (c *WalrusClient) BlobURL(blobID string) string {
	return fmt.Sprintf("%s/v1/blobs/%s", c.aggregatorURL, blobID)
}

// CleanBlobID strips aggregator/publisher URL prefixes that some publishers
// echo back and returns the bare blob id.
func (c *WalrusClient) CleanBlobID(blobID string) string {
	prefixes := []string{
		c.aggregatorURL + "/v1/blobs/",
		c.publisherURL + "/v1/blobs/",
		c.aggregatorURL + "/v1/",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(blobID, prefix) {
			blobID = strings.TrimPrefix(blobID, prefix)
			break
		}
	}
	if i := strings.LastIndex(blobID, "/"); i >= 0 {
		return blobID[i+1:]
	}
	return blobID
}
