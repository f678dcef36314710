// Package fileutil holds the copy and listing helpers batch jobs share.
package fileutil
