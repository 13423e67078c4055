// Package controller implements the resource cache controller that sits
// between application shells and the network.
//
// A Controller moves through Idle, Installing, Installed, Activating and
// Activated. Install fills the current cache generation with the app shell,
// Activate deletes every other generation and then starts governing
// requests. Until activation all requests pass straight through.
//
// Fetch classifies each request once, at dispatch:
//
//	non-GET                      passthrough
//	non-http(s) scheme           passthrough
//	excluded origin              network only
//	navigation or text/html      network first, timeout guarded, cache fallback
//	any other GET                stale-while-revalidate
//
// Document and asset requests never surface network errors; exhausted
// fallbacks produce a 503 response instead.
package controller
