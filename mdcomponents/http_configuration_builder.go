package mdcomponents

import (
	"net/http"
	"net/url"
	"time"

	"github.com/mendelcore/go-admin-client/internal"
	"github.com/mendelcore/go-admin-client/mdhttp"
	"github.com/mendelcore/go-admin-client/subsystems"
)

// DefaultConnectTimeout is the HTTP connection timeout that is used if HTTPConfigurationBuilder.ConnectTimeout
// is not set.
const DefaultConnectTimeout = 3 * time.Second

// HTTPConfigurationBuilder contains methods for configuring the client's networking behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// mdcomponents.HTTPConfiguration(), change its properties with the HTTPConfigurationBuilder methods, and
// store it in Config.HTTP:
//
//	config := mendelclient.Config{
//	    HTTP: mdcomponents.HTTPConfiguration().
//	        ConnectTimeout(3 * time.Second).
//	        ProxyURL(proxyURL),
//	}
type HTTPConfigurationBuilder struct {
	inited            bool
	connectTimeout    time.Duration
	httpClientFactory func() *http.Client
	headers           http.Header
	proxyURL          *url.URL
	userAgent         string
	transportOpts     []mdhttp.TransportOption
}

// HTTPConfiguration returns a configuration builder for the client's HTTP configuration.
func HTTPConfiguration() *HTTPConfigurationBuilder {
	b := &HTTPConfigurationBuilder{}
	b.checkValid()
	return b
}

func (b *HTTPConfigurationBuilder) checkValid() bool {
	if b == nil {
		internal.LogErrorNilPointerMethod("HTTPConfigurationBuilder")
		return false
	}
	if !b.inited {
		b.connectTimeout = DefaultConnectTimeout
		b.inited = true
	}
	return true
}

// CACert specifies a CA certificate to be added to the trusted root CA list for HTTPS requests.
//
// If the certificate data is invalid, the client will fail to be created.
func (b *HTTPConfigurationBuilder) CACert(certData []byte) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.transportOpts = append(b.transportOpts, mdhttp.CACertOption(certData))
	}
	return b
}

// CACertFile specifies a CA certificate to be added to the trusted root CA list for HTTPS requests,
// reading the certificate data from a file in PEM format.
//
// If the file cannot be read or the certificate data is invalid, the client will fail to be created.
func (b *HTTPConfigurationBuilder) CACertFile(filePath string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.transportOpts = append(b.transportOpts, mdhttp.CACertFileOption(filePath))
	}
	return b
}

// ConnectTimeout sets the connection timeout.
//
// This is the maximum amount of time to wait for each individual connection attempt to a remote service
// before determining that that attempt has failed. It is not the same as the timeout for a whole request,
// which is controlled by the context passed to each operation.
//
// The default is DefaultConnectTimeout.
func (b *HTTPConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if connectTimeout <= 0 {
			b.connectTimeout = DefaultConnectTimeout
		} else {
			b.connectTimeout = connectTimeout
		}
	}
	return b
}

// Header specifies a custom HTTP header that should be added to all requests. Repeated calls to Header
// with the same key will overwrite previous entries.
//
// This may be helpful if you are using a gateway or proxy server that requires a specific header in
// requests.
func (b *HTTPConfigurationBuilder) Header(key string, value string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if b.headers == nil {
			b.headers = make(http.Header)
		}
		b.headers.Set(key, value)
	}
	return b
}

// HTTPClientFactory specifies a function for creating each HTTP client instance that is used by the client.
//
// If you use this option, it overrides any other settings that you may have specified with
// ConnectTimeout, CACert, CACertFile or ProxyURL; you are responsible for setting up any desired
// custom configuration on the HTTP client. For instance, mdntlm.NewNTLMProxyHTTPClientFactory
// returns such a function.
func (b *HTTPConfigurationBuilder) HTTPClientFactory(httpClientFactory func() *http.Client) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.httpClientFactory = httpClientFactory
	}
	return b
}

// ProxyURL specifies a proxy URL to be used for all requests. This overrides any setting of the
// HTTP_PROXY, HTTPS_PROXY, or NO_PROXY environment variables.
func (b *HTTPConfigurationBuilder) ProxyURL(proxyURL url.URL) *HTTPConfigurationBuilder {
	if b.checkValid() {
		u := proxyURL
		b.proxyURL = &u
	}
	return b
}

// UserAgent specifies an additional User-Agent header value to send with HTTP requests.
func (b *HTTPConfigurationBuilder) UserAgent(userAgent string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.userAgent = userAgent
	}
	return b
}

// Build is called internally by the client.
func (b *HTTPConfigurationBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.HTTPConfiguration, error) {
	if !b.checkValid() {
		return HTTPConfiguration().Build(clientContext)
	}

	headers := make(http.Header)
	for k, vv := range b.headers {
		headers[k] = append([]string(nil), vv...)
	}
	userAgent := "MendelGoClient/" + internal.ClientVersion
	if b.userAgent != "" {
		userAgent = userAgent + " " + b.userAgent
	}
	headers.Set("User-Agent", userAgent)

	transportOpts := []mdhttp.TransportOption{mdhttp.ConnectTimeoutOption(b.connectTimeout)}
	transportOpts = append(transportOpts, b.transportOpts...)
	if b.proxyURL != nil {
		transportOpts = append(transportOpts, mdhttp.ProxyOption(*b.proxyURL))
	}

	clientFactory := b.httpClientFactory
	if clientFactory == nil {
		transport, _, err := mdhttp.NewHTTPTransport(transportOpts...)
		if err != nil {
			return subsystems.HTTPConfiguration{}, err
		}
		clientFactory = func() *http.Client {
			return &http.Client{Transport: transport}
		}
	}
	return subsystems.HTTPConfiguration{
		DefaultHeaders:   headers,
		CreateHTTPClient: clientFactory,
	}, nil
}
