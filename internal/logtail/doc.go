// Package logtail reads the tail of lectern's own log file and renders
// zerolog JSON records as compact single lines for the Logs view.
//
// Read keeps a ring buffer of maxLines entries, so memory stays bounded no
// matter how large the file grows. A missing file yields no lines and no
// error. FormatLine never fails: lines that are not JSON objects are returned
// unchanged.
package logtail
