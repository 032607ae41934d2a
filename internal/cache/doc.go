// Package cache persists the last successfully fetched dataset as a single
// flat CSV file so it can be served when the remote source is unreachable.
//
// The file is UTF-8 with the header Country,Year,Life_Expectancy and one row
// per observation. Writes go to a temporary file that is renamed over the
// target, so readers never observe a half-written cache. Access from one
// process is serialized; separate processes sharing the file are not
// coordinated.
package cache
