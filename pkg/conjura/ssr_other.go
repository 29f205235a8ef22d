//go:build !js

package conjura

import "github.com/samvad-hq/conjura/pkg/httpclient"

const defaultServerSide = true

// newAmbientSender keeps no cookie store. Server-side calls carry only the
// cookies passed in CallOptions.
func newAmbientSender() *httpclient.RestySender {
	return httpclient.NewRestySender()
}
