// Package deps reports whether the external binaries vidsum shells out to are
// installed.
package deps
