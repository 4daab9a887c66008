package mdcomponents

import (
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mendelcore/go-admin-client/internal"
	"github.com/mendelcore/go-admin-client/internal/sharedtest"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPConfigurationBuilder(t *testing.T) {
	clientContext := sharedtest.NewSimpleTestContext("http://mendel")

	t.Run("defaults", func(t *testing.T) {
		c, err := HTTPConfiguration().Build(clientContext)
		require.NoError(t, err)

		assert.Len(t, c.DefaultHeaders, 1)
		assert.Equal(t, "MendelGoClient/"+internal.ClientVersion, c.DefaultHeaders.Get("User-Agent"))

		client := c.CreateHTTPClient()
		assert.Equal(t, time.Duration(0), client.Timeout)

		require.NotNil(t, client.Transport)
		transport := client.Transport.(*http.Transport)
		require.NotNil(t, transport)
		assert.Equal(t, reflect.ValueOf(http.ProxyFromEnvironment).Pointer(), reflect.ValueOf(transport.Proxy).Pointer())
		assert.Equal(t, 100, transport.MaxIdleConns)
		assert.Equal(t, 90*time.Second, transport.IdleConnTimeout)
		assert.Equal(t, 10*time.Second, transport.TLSHandshakeTimeout)
		assert.Equal(t, 1*time.Second, transport.ExpectContinueTimeout)
	})

	t.Run("can set CA certs", func(t *testing.T) {
		httphelpers.WithSelfSignedServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server, certData []byte, certs *x509.CertPool) {
			c, err := HTTPConfiguration().CACert(certData).Build(clientContext)
			require.NoError(t, err)
			resp, err := c.CreateHTTPClient().Get(server.URL)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)

			certFile := filepath.Join(t.TempDir(), "cert.pem")
			require.NoError(t, os.WriteFile(certFile, certData, 0o600))
			_, err = HTTPConfiguration().CACertFile(certFile).Build(clientContext)
			require.NoError(t, err)
		})
	})

	t.Run("bad CA certs are rejected", func(t *testing.T) {
		badCertData := []byte("no")

		_, err := HTTPConfiguration().CACert(badCertData).Build(clientContext)
		require.Error(t, err)

		certFile := filepath.Join(t.TempDir(), "cert.pem")
		require.NoError(t, os.WriteFile(certFile, badCertData, 0o600))
		_, err = HTTPConfiguration().CACertFile(certFile).Build(clientContext)
		require.Error(t, err)
	})

	t.Run("can set proxy URL", func(t *testing.T) {
		u, err := url.Parse("https://fake-proxy")
		require.NoError(t, err)

		c, err := HTTPConfiguration().ProxyURL(*u).Build(clientContext)
		require.NoError(t, err)

		transport := c.CreateHTTPClient().Transport.(*http.Transport)
		require.NotNil(t, transport.Proxy)
		urlOut, err := transport.Proxy(&http.Request{})
		require.NoError(t, err)
		assert.Equal(t, u, urlOut)
	})

	t.Run("can set User-Agent and custom headers", func(t *testing.T) {
		c, err := HTTPConfiguration().
			UserAgent("mendelctl").
			Header("X-Greenhouse", "north").
			Header("X-Greenhouse", "south").
			Build(clientContext)
		require.NoError(t, err)

		assert.Equal(t, "MendelGoClient/"+internal.ClientVersion+" mendelctl", c.DefaultHeaders.Get("User-Agent"))
		assert.Equal(t, []string{"south"}, c.DefaultHeaders.Values("X-Greenhouse"))
	})

	t.Run("custom client factory", func(t *testing.T) {
		myClient := &http.Client{Timeout: time.Hour}
		c, err := HTTPConfiguration().
			HTTPClientFactory(func() *http.Client { return myClient }).
			Build(clientContext)
		require.NoError(t, err)
		assert.Same(t, myClient, c.CreateHTTPClient())
	})

	t.Run("nil builder", func(t *testing.T) {
		var b *HTTPConfigurationBuilder
		c, err := b.Build(clientContext)
		require.NoError(t, err)
		assert.NotNil(t, c.CreateHTTPClient)
	})
}
