// Package mdntlm allows you to configure the Mendel client to connect to the backend through a proxy
// server that uses NTLM authentication.
//
// Use it through mdcomponents.HTTPConfiguration():
//
//	factory, err := mdntlm.NewNTLMProxyHTTPClientFactory("http://my-proxy:8080", "user", "pass", "MYDOMAIN")
//	config := mendelclient.Config{
//	    HTTP: mdcomponents.HTTPConfiguration().HTTPClientFactory(factory),
//	}
package mdntlm

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mendelcore/go-admin-client/mdhttp"

	ntlm "github.com/launchdarkly/go-ntlm-proxy-auth"
)

// NewNTLMProxyHTTPClientFactory returns a factory function for creating an HTTP client that will
// connect through an NTLM-authenticated proxy server.
//
// If you are connecting to the proxy securely and it has a self-signed certificate, pass
// mdhttp.CACertOption or mdhttp.CACertFileOption in options.
func NewNTLMProxyHTTPClientFactory(proxyURL, username, password, domain string,
	options ...mdhttp.TransportOption) (func() *http.Client, error) {
	if proxyURL == "" || username == "" || password == "" {
		return nil, errors.New("proxy URL, username, and password are required")
	}
	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %s: %w", proxyURL, err)
	}
	// fail now rather than when the first client is built
	if _, _, err := mdhttp.NewHTTPTransport(options...); err != nil {
		return nil, err
	}
	return func() *http.Client {
		client := *http.DefaultClient
		if transport, dialer, err := mdhttp.NewHTTPTransport(options...); err == nil {
			transport.Proxy = nil
			transport.DialContext = ntlm.NewNTLMProxyDialContext(dialer, *parsedProxyURL,
				username, password, domain, transport.TLSClientConfig)
			client.Transport = transport
		}
		return &client
	}, nil
}
