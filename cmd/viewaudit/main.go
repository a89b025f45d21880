// Package main provides the entry point for the viewaudit CLI.
//
// viewaudit drives a headless Chrome through the views of the recipes web
// application. It audits every view with Lighthouse and writes a Markdown
// results table of score badges, or saves the rendered HTML of every view.
//
// Usage:
//
//	viewaudit audit -r all -u <user> -p <password>
//	viewaudit scrape -v pre-login
//
// See --help for all available options.
package main

// main is the entry point for viewaudit.
func main() {
	Execute()
}
