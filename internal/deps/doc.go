// Package deps checks that the external binaries curator shells out to are
// installed and reports their versions.
package deps
