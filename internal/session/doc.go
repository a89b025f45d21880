// Package session logs the shared browser in and out of the application and
// tracks whether it is currently authenticated.
//
// Authenticator performs the raw form interaction and never looks at state.
// Session owns the authenticated flag of one browser and only calls the
// authenticator when the flag has to change, which is what keeps a run of
// many login-required views down to a single login.
//
// Design decision: State changes are announced through an OnChange callback
// instead of being inferred from the page. The runners react to the callback
// (to log or to count logins) without polling the DOM.
package session
