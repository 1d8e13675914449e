// Package router provides an observable navigation controller for
// tree-structured UI flows.
//
// A Controller tracks a root route, a stack of pushed routes, and three
// independent overlay slots: sheet, fullscreen cover and popover. Routes are
// any comparable application type; the controller never looks inside them.
//
// # Basic Usage
//
//	// Define routes as a comparable type
//	type Route struct {
//	    Name string
//	    ID   int
//	}
//
//	nav := router.New(Route{Name: "home"}, nil)
//
//	// Redraw whenever navigation changes
//	nav.Subscribe(router.ObserverFunc[Route](func(c router.Change[Route]) {
//	    draw(c.State)
//	}))
//
//	nav.Present(Route{Name: "detail", ID: 7}, router.Navigation, nil)
//	nav.Present(Route{Name: "share"}, router.Sheet, func() {
//	    log.Println("share sheet closed")
//	})
//
//	nav.Dismiss() // closes the sheet
//	nav.Dismiss() // pops "detail"
//
// # Dismiss Precedence
//
// Dismiss without an explicit target closes the front-most surface, checking
// overlays in the order sheet, fullscreen cover, popover. When no overlay is
// showing it pops the navigation stack. Popping an empty stack does nothing;
// the root is never removed. Use DismissOption to target a surface directly.
//
// # Dismiss Callbacks
//
// Sheets and fullscreen covers may carry a callback. The controller only holds
// it: dismissing an overlay does not call it. The renderer calls FireDismiss
// once its overlay has finished closing, which runs the callback only if it
// belongs to that overlay kind. Each new sheet or cover presentation replaces
// the stored callback. Popovers never store one.
//
// # Deep Links
//
// A DeeplinkResolver passed to New maps a *url.URL to a route and a
// presentation option. HandleDeeplink presents whatever the resolver returns
// and silently ignores links it cannot resolve. See package deeplink for a
// table-driven resolver.
package router
