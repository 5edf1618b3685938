// Package mirror implements one-way directory mirroring.
//
// A mirror pass walks a source tree and a target tree in lockstep and makes
// the target match the source, comparing files by modification time only.
// Extra target entries are removed in delete mode and reported otherwise.
// After the pass an Engine can keep watching the source and replay every
// change onto the target until the Session is stopped.
//
// Everything observable is reported through a Notifier as model.SyncEvent
// values. File operation failures never escape as errors: they become
// error events and a false outcome, and the walk carries on with the
// remaining entries.
package mirror
