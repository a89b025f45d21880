// Package appclient talks to the audited application over plain HTTP.
//
// It is used to check the application before a browser is started: that
// the base URL answers, that the credentials log in, and that the JSON
// endpoints the pages rely on still return the rewrite envelope the page
// scripts expect. Logging in follows the browser flow: the CSRF token is
// scraped from the login form with goquery and posted back with the
// credentials; the session cookie is kept in a cookie jar.
package appclient
