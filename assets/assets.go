// Package assets embeds the sketching page sources served by the server.
package assets

import _ "embed"

// Index is the HTML page template; CSS and JS are inlined into it at
// server startup.
//
//go:embed index.html.tpl
var Index []byte

//go:embed style.css
var Style []byte

//go:embed app.js
var Script []byte

//go:embed favicon.svg
var Favicon []byte
