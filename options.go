package opc

import (
	"time"

	"github.com/klauspost/compress/flate"
)

type readConfig struct {
	limits     Limits
	strictRels bool
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithStrictRels makes Decode fail with ErrInvalidXML when a .rels entry does
// not parse, instead of degrading that collection to empty.
func WithStrictRels(v bool) ReadOption {
	return func(c *readConfig) { c.strictRels = v }
}

type writeConfig struct {
	level      int
	storeMedia bool
	modTime    time.Time
}

type WriteOption func(*writeConfig)

// WithCompressionLevel sets the deflate level for XML entries. Accepts the
// flate package's range, including flate.NoCompression.
func WithCompressionLevel(n int) WriteOption {
	return func(c *writeConfig) { c.level = n }
}

// WithStoredMedia controls whether binary parts are written with the Store
// method instead of Deflate. On by default: image and video payloads are
// already compressed and deflating them again only burns CPU.
func WithStoredMedia(v bool) WriteOption {
	return func(c *writeConfig) { c.storeMedia = v }
}

// WithModTime stamps every zip entry with t. By default entries carry a zero
// timestamp so that repeated saves of an unmodified package are
// byte-identical.
func WithModTime(t time.Time) WriteOption {
	return func(c *writeConfig) { c.modTime = t }
}

func defaultWriteConfig() writeConfig {
	return writeConfig{level: flate.DefaultCompression, storeMedia: true}
}
