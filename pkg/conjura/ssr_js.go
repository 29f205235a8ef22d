//go:build js

package conjura

import (
	"net/http/cookiejar"

	"github.com/samvad-hq/conjura/pkg/httpclient"
)

// Under GOOS=js the library runs inside a browser page.
const defaultServerSide = false

// newAmbientSender keeps a session cookie jar, since a browser process
// serves a single user.
func newAmbientSender() *httpclient.RestySender {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return httpclient.NewRestySender()
	}
	return httpclient.NewRestySender(httpclient.WithCookieJar(jar))
}
