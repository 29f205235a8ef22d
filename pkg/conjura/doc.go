// Package conjura calls a backend that answers with a uniform envelope:
// either {"data": ...} or {"error": ...}.
//
// Four call shapes are offered:
//
//   - Invoke returns the raw envelope and leaves backend errors to the caller.
//   - Summon returns the data or a *BackendError / *MultiError.
//   - Whisper is fire-and-forget and only reports {ok, status}.
//   - SummonJSON fetches a static JSON document by absolute URL.
//
// The base URL is resolved, in order, from the explicit configuration, the
// runtime hint set with SetBaseURLHint, process environment variables and
// finally the build environment (usually a .env file read with LoadBuildEnv).
//
// Typical usage:
//
//	conjura.Configure(conjura.WithBaseURL("https://api.example.com"))
//	user, err := conjura.Summon[User](ctx, "/users/42", conjura.MethodGet, "profile.load", nil)
//
// Configuration is meant to be set once at startup. Calls read a single
// snapshot, but Configure or ResetConfig racing with in-flight calls gives no
// ordering guarantee; that is the caller's responsibility.
//
// No retries, timeouts, caching or streaming are performed. The context passed
// to each call is handed to the transport unchanged.
package conjura
