// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package condor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/sethgrid/pester"

	"github.com/NVIDIA/hostmap/pkg/defaults"
	cerrors "github.com/NVIDIA/hostmap/pkg/errors"
)

const (
	// RESTUserAgent identifies hostmap to htcondor-restd.
	RESTUserAgent = "hostmap/1.0"

	restStatusPath = "/v1/status"
	maxRESTBody    = 32 << 20
)

// HTTPDoer is the subset of an HTTP client used by RESTFactory.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTOption configures a RESTFactory.
type RESTOption func(*RESTFactory)

// WithHTTPClient replaces the retrying client.
func WithHTTPClient(c HTTPDoer) RESTOption {
	return func(f *RESTFactory) {
		f.client = c
	}
}

// WithHTTPRetries sets the total number of attempts per request.
func WithHTTPRetries(n int) RESTOption {
	return func(f *RESTFactory) {
		f.retries = n
	}
}

// RESTFactory creates directories that query collectors through an
// htcondor-restd endpoint.
type RESTFactory struct {
	endpoint string
	client   HTTPDoer
	retries  int
}

// NewRESTFactory returns a factory for the restd service at endpoint,
// e.g. "https://restd.example.org".
func NewRESTFactory(endpoint string, opts ...RESTOption) (*RESTFactory, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid htcondor-restd endpoint %q", endpoint))
	}
	f := &RESTFactory{
		endpoint: strings.TrimSuffix(u.String(), "/"),
		retries:  defaults.HTTPMaxRetries,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = newPesterClient(f.retries)
	}
	return f, nil
}

// newPesterClient builds a retrying HTTP client with exponential backoff.
func newPesterClient(retries int) *pester.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		MaxIdleConnsPerHost:   4,
	}
	client := pester.NewExtendedClient(&http.Client{
		Transport: transport,
		Timeout:   defaults.HTTPClientTimeout,
	})
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = retries
	client.LogHook = func(e pester.ErrEntry) {
		slog.Warn("htcondor-restd request failed, retrying",
			"url", e.URL,
			"attempt", e.Attempt,
			"error", e.Err)
	}
	return client
}

// NewDirectory returns a directory querying host through restd.
func (f *RESTFactory) NewDirectory(host string) Directory {
	return &RESTDirectory{host: host, factory: f}
}

// RESTDirectory queries one collector through htcondor-restd.
type RESTDirectory struct {
	host    string
	factory *RESTFactory
}

// Host returns the collector host name.
func (d *RESTDirectory) Host() string {
	return d.host
}

// LocateAll lists the location attributes of all daemons of type t.
func (d *RESTDirectory) LocateAll(ctx context.Context, t AdType) ([]Ad, error) {
	return d.Query(ctx, t, "", locateProjection)
}

// restAd is one element of a restd status response.
type restAd struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	ClassAd Ad     `json:"classad"`
}

// Query issues GET {endpoint}/v1/status?pool=<host>&query=<type>s with the
// constraint and projection as query parameters.
func (d *RESTDirectory) Query(ctx context.Context, t AdType, constraint string, projection []string) ([]Ad, error) {
	if !t.IsValid() {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported ad type %q", t))
	}

	q := url.Values{}
	q.Set("pool", d.host)
	q.Set("query", string(t)+"s")
	if constraint != "" {
		q.Set("constraint", constraint)
	}
	if len(projection) > 0 {
		q.Set("projection", strings.Join(projection, ","))
	}
	target := d.factory.endpoint + restStatusPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to build restd request", err)
	}
	req.Header.Set("User-Agent", RESTUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := d.factory.client.Do(req)
	if err != nil {
		code := cerrors.ErrCodeUnavailable
		if ctx.Err() != nil {
			code = cerrors.ErrCodeTimeout
		}
		return nil, cerrors.WrapWithContext(code, "htcondor-restd request failed", err,
			map[string]any{"collector": d.host, "url": target})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRESTBody))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeQueryFailed, "failed to read restd response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeQueryFailed,
			fmt.Sprintf("htcondor-restd returned %s", resp.Status),
			map[string]any{"collector": d.host, "body": truncate(string(body), 256)})
	}

	var items []restAd
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, cerrors.WrapWithContext(cerrors.ErrCodeQueryFailed, "failed to decode restd response", err,
			map[string]any{"collector": d.host})
	}

	ads := make([]Ad, 0, len(items))
	for _, it := range items {
		if it.ClassAd == nil {
			continue
		}
		ads = append(ads, it.ClassAd)
	}
	return ads, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
