// Package httpclient holds the fasthttp clients of the external HTTP services:
// CoinGecko prices, the Walrus blob publisher and the chat completion API.
package httpclient

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"inft_dashboard/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxErrorBodyLength = 512

// do executes req honouring the context deadline, falling back to timeout.
func do(ctx context.Context, client *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("failed to execute request to %s: %w", req.URI().String(), err)
		}
		return nil
	}
	if err := client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("failed to execute request to %s with default timeout: %w", req.URI().String(), err)
	}
	return nil
}

// statusError builds an UpstreamError from a non-2xx response.
func statusError(service string, resp *fasthttp.Response) *entity.UpstreamError {
	body := string(resp.Body())
	if len(body) > maxErrorBodyLength {
		body = body[:maxErrorBodyLength]
	}
	return &entity.UpstreamError{Service: service, StatusCode: resp.StatusCode(), Body: body}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
