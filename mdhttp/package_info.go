// Package mdhttp provides HTTP transport options for the Mendel client.
//
// Applications will normally configure these through mdcomponents.HTTPConfiguration(); this package is
// used directly only when building an http.Transport for some other component, such as the NTLM proxy
// support in mdntlm.
package mdhttp
