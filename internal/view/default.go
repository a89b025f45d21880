package view

// Well-known application paths.
const (
	// LoginPath is the path of the login form.
	LoginPath = "/accounts/login/"
	// LogoutPath is the path that ends the session when visited.
	LogoutPath = "/accounts/logout/"
)

// defaultViews is the view catalog of the recipes application. The
// "-val-test" variants are the same pages served under the validator route,
// which renders them without third-party widgets.
var defaultViews = []Descriptor{
	{Name: "landing", PathTemplate: "/", Description: "landing view"},
	{Name: "login", PathTemplate: LoginPath, Description: "login view"},
	{Name: "signup", PathTemplate: "/accounts/signup/", Description: "signup view"},
	{Name: "social-login", PathTemplate: "/accounts/google/login/", Description: "social account login view"},

	{Name: "home", LoginRequired: true, PathTemplate: "/recipes/home/", Description: "user home"},
	{Name: "home-val-test", LoginRequired: true, PathTemplate: "/recipes/val-test/home/", Description: "user home (validator route)"},
	{Name: "recipe-new", LoginRequired: true, PathTemplate: "/recipes/new/", Description: "create new recipe view"},
	{Name: "recipe-new-val-test", LoginRequired: true, PathTemplate: "/recipes/val-test/new/", Description: "create new recipe view (validator route)"},
	{Name: "recipe-read", LoginRequired: true, PathTemplate: "/recipes/<recipe_id>/", Description: "recipe read view"},
	{Name: "recipe-read-val-test", LoginRequired: true, PathTemplate: "/recipes/val-test/<recipe_id>/", Description: "recipe read view (validator route)"},
	{Name: "recipe-edit", LoginRequired: true, PathTemplate: "/recipes/<recipe_id>/?mode=edit", Description: "edit recipe view"},
	{Name: "recipe-edit-val-test", LoginRequired: true, PathTemplate: "/recipes/val-test/<recipe_id>/?mode=edit", Description: "edit recipe view (validator route)"},
	{Name: "recipes-all", LoginRequired: true, PathTemplate: "/recipes/", Description: "all recipes view"},
	{Name: "recipes-all-val-test", LoginRequired: true, PathTemplate: "/recipes/val-test/", Description: "all recipes view (validator route)"},
	{Name: "recipes-categories", LoginRequired: true, PathTemplate: "/recipes/categories/", Description: "recipes categories view"},
	{Name: "recipes-categories-val-test", LoginRequired: true, PathTemplate: "/recipes/val-test/categories/", Description: "recipes categories view (validator route)"},
	{Name: "user-profile", LoginRequired: true, PathTemplate: "/users/<username>/", Description: "user's profile view"},
	{Name: "user-profile-val-test", LoginRequired: true, PathTemplate: "/users/val-test/<username>/", Description: "user's profile view (validator route)"},
	{Name: "logout", LoginRequired: true, PathTemplate: LogoutPath, Description: "logout view"},
	{Name: "logout-val-test", LoginRequired: true, PathTemplate: "/val-test/logout/", Description: "logout view (validator route)"},
}

// DefaultCatalog returns the catalog of the recipes application.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultViews...)
	if err != nil {
		// defaultViews is a literal; a failure here is a programming error.
		panic(err)
	}
	return c
}
