// Package auth acquires Google API credentials.
//
// Two flows are supported, selected explicitly by configuration: the
// installed-application OAuth flow with an on-disk token cache, and service
// account JWT signing. The resulting Credential yields an authenticated
// *http.Client that the calendar and contacts services receive at
// construction time, so credential lifetime is scoped to a single sync run.
package auth
