package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/usegalaxy-eu/jcaas/config"
	"github.com/usegalaxy-eu/jcaas/destination"
	"github.com/usegalaxy-eu/jcaas/logger"
	"github.com/usegalaxy-eu/jcaas/util"
)

var log = logger.New("gateway")

// Client resolves destinations, preferring the remote authority and
// degrading to the local pipeline when every remote attempt fails.
type Client struct {
	// URL of the remote authority. Empty skips the remote attempt.
	URL string
	// Local runs the same pipeline in-process. Always required: it is
	// the designed fallback, not an optional extra.
	Local *destination.Resolver
	// Retrier bounds the remote attempts.
	Retrier *util.Retrier

	client *http.Client
}

// NewClient returns a gateway client with the configured retry policy.
func NewClient(conf config.Gateway, local *destination.Resolver) *Client {
	retrier := util.NewRetrier()
	if conf.MaxTries > 0 {
		retrier.MaxTries = conf.MaxTries
	}
	retrier.Notify = func(err error, d time.Duration) {
		log.Debug("Remote resolution attempt failed, will retry", "error", err, "backoff", d)
	}
	// An authorization failure is terminal, not transport trouble.
	retrier.ShouldRetry = func(err error) bool {
		return !errors.Is(err, destination.ErrUnauthorized)
	}

	timeout := time.Duration(conf.Timeout)
	if timeout <= 0 {
		timeout = time.Second
	}

	return &Client{
		URL:     conf.URL,
		Local:   local,
		Retrier: retrier,
		client:  &http.Client{Timeout: timeout},
	}
}

// Resolve resolves a destination for a first submission. The returned
// descriptor carries a resubmission rule so a failed job gets one retry
// through the resubmit gateway.
func (c *Client) Resolve(ctx context.Context, toolID string, userRoles []string, email string) (*destination.Descriptor, error) {
	desc, err := c.resolve(ctx, toolID, userRoles, email, 1.0)
	if err != nil {
		return nil, err
	}
	desc.Resubmit = []destination.ResubmitRule{
		{Condition: ResubmitCondition, Destination: ResubmitDestination},
	}
	return desc, nil
}

// ResolveResubmission resolves a destination for a job that already
// failed once: memory is raised and no further automatic resubmission is
// allowed.
func (c *Client) ResolveResubmission(ctx context.Context, toolID string, userRoles []string, email string) (*destination.Descriptor, error) {
	desc, err := c.resolve(ctx, toolID, userRoles, email, resubmitMemScale)
	if err != nil {
		return nil, err
	}
	desc.Resubmit = []destination.ResubmitRule{}
	desc.ID += resubmitSuffix
	return desc, nil
}

func (c *Client) resolve(ctx context.Context, toolID string, userRoles []string, email string, memScale float64) (*destination.Descriptor, error) {
	if c.URL != "" {
		resp, err := c.remote(ctx, Request{
			ToolID:    toolID,
			UserRoles: userRoles,
			Email:     email,
		})
		switch {
		case err == nil:
			return &destination.Descriptor{
				ID:     resp.Spec.DestinationID(),
				Runner: resp.Runner,
				Params: resp.Params,
				Env:    resp.Env,
			}, nil
		case errors.Is(err, destination.ErrUnauthorized):
			return nil, err
		}
		// We really failed, so fall back to the local pipeline.
		log.Error("Remote authority unreachable, resolving locally", err)
	}

	result, spec, err := c.Local.Resolve(toolID, userRoles, email, memScale)
	if err != nil {
		return nil, err
	}
	return &destination.Descriptor{
		ID:     spec.DestinationID(),
		Runner: result.Runner,
		Params: result.Params,
		Env:    result.Env,
	}, nil
}

// remote posts the request to the authority, retrying transport
// failures with backoff until the retry policy gives up.
func (c *Client) remote(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp := &Response{}
	err = c.Retrier.Retry(ctx, func() error {
		hreq, err := http.NewRequestWithContext(ctx, "POST", c.URL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		hreq.Header.Set("Content-Type", "application/json")

		hresp, err := c.client.Do(hreq)
		if err != nil {
			return err
		}
		defer hresp.Body.Close()

		body, err := io.ReadAll(hresp.Body)
		if err != nil {
			return err
		}
		if hresp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %s", destination.ErrUnauthorized, bytes.TrimSpace(body))
		}
		if (hresp.StatusCode / 100) != 2 {
			return fmt.Errorf("[STATUS CODE - %d]\t%s", hresp.StatusCode, body)
		}
		return json.Unmarshal(body, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
