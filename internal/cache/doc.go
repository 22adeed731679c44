// Package cache keeps synthesized speech so that replaying a translation
// does not call the provider again. An in-memory LRU (L1) sits in front of
// a zstd-compressed disk store (L2) that survives restarts.
package cache
