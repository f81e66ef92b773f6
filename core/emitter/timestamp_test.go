package emitter_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/qmeta/core/emitter"
)

func TestSameIgnoringTimestamps(t *testing.T) {
	c := qt.New(t)

	earlier := emitter.New(emitter.WithClock(fixedClock)).Emit(orderDescriptor())
	later := emitter.New(emitter.WithClock(func() time.Time { return fixedTime.Add(36 * time.Hour) })).Emit(orderDescriptor())

	c.Assert(string(earlier), qt.Not(qt.Equals), string(later))
	c.Assert(emitter.SameIgnoringTimestamps(earlier, later), qt.IsTrue)

	changed := orderDescriptor()
	changed.Table = "orders_v2"
	other := emitter.New(emitter.WithClock(fixedClock)).Emit(changed)
	c.Assert(emitter.SameIgnoringTimestamps(earlier, other), qt.IsFalse)
}

func TestStripTimestamps(t *testing.T) {
	c := qt.New(t)

	src := emitter.New(emitter.WithClock(fixedClock)).Emit(orderDescriptor())
	stripped := string(emitter.StripTimestamps(src))

	c.Assert(stripped, qt.Not(qt.Contains), "2024-05-06 07:08:09")
	c.Assert(stripped, qt.Contains, " * @since 0000-00-00 00:00:00\n")
	c.Assert(stripped, qt.Contains, `date = "0000-00-00 00:00:00"`)
}

func TestStripTimestamps_OnlyHeaderLines(t *testing.T) {
	c := qt.New(t)

	// a timestamp-looking value inside a member doc must survive
	src := []byte("/**\n * @since 2024-01-02 03:04:05\n */\n    /**\n     * Valid from 2024-01-02 03:04:05.\n     */\n")
	c.Assert(string(emitter.StripTimestamps(src)), qt.Equals,
		"/**\n * @since 0000-00-00 00:00:00\n */\n    /**\n     * Valid from 2024-01-02 03:04:05.\n     */\n")
}

func TestFingerprint(t *testing.T) {
	c := qt.New(t)

	a := []byte("/**\n * @since 2024-01-02 03:04:05\n */\nclass A {}\n")
	b := []byte("/**\n * @since 2025-11-12 13:14:15\n */\nclass A {}\n")
	d := []byte("/**\n * @since 2024-01-02 03:04:05\n */\nclass B {}\n")

	c.Assert(emitter.Fingerprint(a), qt.Equals, emitter.Fingerprint(b))
	c.Assert(emitter.Fingerprint(a), qt.Not(qt.Equals), emitter.Fingerprint(d))
}
