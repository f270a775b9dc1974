// Package dom binds the router and the search controller to the browser
// page through syscall/js. It only builds for GOOS=js GOARCH=wasm.
package dom
